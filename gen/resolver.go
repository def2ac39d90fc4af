package gen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pyodide-bridge/bridgegen/ir"
)

// primitiveTypes maps IR primitive names to TypeScript types.
var primitiveTypes = map[ir.PrimitiveName]string{
	ir.PrimInt:   "number",
	ir.PrimFloat: "number",
	ir.PrimStr:   "string",
	ir.PrimBool:  "boolean",
	ir.PrimNone:  "null",
}

// TSType translates a type reference into a TypeScript type expression.
//
// It is a total match over the closed TypeRef variant set, deterministic
// and side-effect free. References stay bare names: the module-level
// validation pass has already checked they resolve, so the resolver
// never looks them up.
func TSType(ref ir.TypeRef) string {
	switch ref := ref.(type) {
	case ir.Primitive:
		if ts, ok := primitiveTypes[ref.Name]; ok {
			return ts
		}
		return "unknown"

	case ir.List:
		elem := TSType(ref.Element)
		// Union elements need parentheses: (string | null)[]
		if isUnion(elem) {
			elem = "(" + elem + ")"
		}
		return elem + "[]"

	case ir.Dict:
		return "Record<" + TSType(ref.Key) + ", " + TSType(ref.Value) + ">"

	case ir.Optional:
		return TSType(ref.Inner) + " | null"

	case ir.Literal:
		return LiteralUnion(ref.Values)

	case ir.Reference:
		return ref.Name

	default:
		return "unknown"
	}
}

// LiteralUnion renders a literal value set as a TypeScript union,
// preserving the given order.
func LiteralUnion(values []ir.LiteralValue) string {
	tokens := make([]string, 0, len(values))
	for _, v := range values {
		tokens = append(tokens, literalToken(v))
	}
	return strings.Join(tokens, " | ")
}

// literalToken renders one literal constant as a TypeScript token.
func literalToken(v ir.LiteralValue) string {
	switch v := v.(type) {
	case ir.StringValue:
		return "'" + escapeSingleQuoted(string(v)) + "'"
	case ir.NumberValue:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	case ir.BoolValue:
		return strconv.FormatBool(bool(v))
	default:
		return "unknown"
	}
}

// escapeSingleQuoted escapes s for a single-quoted TypeScript string
// literal. Control characters and the Unicode line separators become
// \n, \r, \t or \uXXXX escapes, so the literal always stays on one
// line.
func escapeSingleQuoted(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '\'':
			sb.WriteString(`\'`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 || r == ' ' || r == ' ' {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	return sb.String()
}

// isUnion reports whether a rendered type expression is a top-level
// union. A "|" inside Record<...> or inside a quoted literal does not
// count.
func isUnion(ts string) bool {
	depth := 0
	inQuote := false
	escaped := false
	for _, r := range ts {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			if r == '\\' {
				escaped = true
			} else if r == '\'' {
				inQuote = false
			}
		case r == '\'':
			inQuote = true
		case r == '<':
			depth++
		case r == '>':
			depth--
		case r == '|' && depth == 0:
			return true
		}
	}
	return false
}
