package gen

import (
	"strings"
	"testing"

	"github.com/pyodide-bridge/bridgegen/ir"
)

func TestTSType_Primitives(t *testing.T) {
	tests := []struct {
		name ir.PrimitiveName
		want string
	}{
		{ir.PrimInt, "number"},
		{ir.PrimFloat, "number"},
		{ir.PrimStr, "string"},
		{ir.PrimBool, "boolean"},
		{ir.PrimNone, "null"},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			got := TSType(ir.Primitive{Name: tt.name})
			if got != tt.want {
				t.Errorf("TSType(%s) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestTSType_Compound(t *testing.T) {
	tests := []struct {
		name string
		ref  ir.TypeRef
		want string
	}{
		{
			name: "list of str",
			ref:  ir.List{Element: ir.Primitive{Name: ir.PrimStr}},
			want: "string[]",
		},
		{
			name: "dict str to int",
			ref:  ir.Dict{Key: ir.Primitive{Name: ir.PrimStr}, Value: ir.Primitive{Name: ir.PrimInt}},
			want: "Record<string, number>",
		},
		{
			name: "optional str",
			ref:  ir.Optional{Inner: ir.Primitive{Name: ir.PrimStr}},
			want: "string | null",
		},
		{
			name: "reference stays bare",
			ref:  ir.Reference{Name: "TaskInput"},
			want: "TaskInput",
		},
		{
			name: "string literal union preserves order",
			ref: ir.Literal{Values: []ir.LiteralValue{
				ir.StringValue("ok"), ir.StringValue("error"),
			}},
			want: "'ok' | 'error'",
		},
		{
			name: "mixed literal union",
			ref: ir.Literal{Values: []ir.LiteralValue{
				ir.NumberValue(1), ir.NumberValue(2.5), ir.BoolValue(true),
			}},
			want: "1 | 2.5 | true",
		},
		{
			name: "list of optional needs parens",
			ref:  ir.List{Element: ir.Optional{Inner: ir.Primitive{Name: ir.PrimStr}}},
			want: "(string | null)[]",
		},
		{
			name: "list of literal union needs parens",
			ref: ir.List{Element: ir.Literal{Values: []ir.LiteralValue{
				ir.StringValue("a"), ir.StringValue("b"),
			}}},
			want: "('a' | 'b')[]",
		},
		{
			name: "list of dict needs no parens",
			ref: ir.List{Element: ir.Dict{
				Key:   ir.Primitive{Name: ir.PrimStr},
				Value: ir.Optional{Inner: ir.Primitive{Name: ir.PrimInt}},
			}},
			want: "Record<string, number | null>[]",
		},
		{
			name: "optional list of dict",
			ref: ir.Optional{Inner: ir.List{Element: ir.Dict{
				Key:   ir.Primitive{Name: ir.PrimStr},
				Value: ir.Primitive{Name: ir.PrimStr},
			}}},
			want: "Record<string, string>[] | null",
		},
		{
			name: "dict of list of reference",
			ref: ir.Dict{
				Key:   ir.Primitive{Name: ir.PrimStr},
				Value: ir.List{Element: ir.Reference{Name: "WordFreq"}},
			},
			want: "Record<string, WordFreq[]>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TSType(tt.ref)
			if got != tt.want {
				t.Errorf("TSType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTSType_Deterministic(t *testing.T) {
	ref := ir.Optional{Inner: ir.List{Element: ir.Dict{
		Key:   ir.Primitive{Name: ir.PrimStr},
		Value: ir.Reference{Name: "Result"},
	}}}

	first := TSType(ref)
	for i := 0; i < 10; i++ {
		if got := TSType(ref); got != first {
			t.Fatalf("TSType not deterministic: %q vs %q", got, first)
		}
	}
}

func TestLiteralToken_StringEscaping(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"quote and backslash", `it's a \ test`, `'it\'s a \\ test'`},
		{"newline", "a\nb", `'a\nb'`},
		{"carriage return and tab", "a\r\tb", `'a\r\tb'`},
		{"bell", "\a", `''`},
		{"line separator", "a b", `'a b'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := literalToken(ir.StringValue(tt.value))
			if got != tt.want {
				t.Errorf("literalToken(%q) = %q, want %q", tt.value, got, tt.want)
			}
			if strings.ContainsAny(got, "\n\r") {
				t.Errorf("literalToken(%q) spans multiple lines: %q", tt.value, got)
			}
		})
	}
}
