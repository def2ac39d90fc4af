package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeModule(t *testing.T) {
	data := []byte(`{
		"moduleName": "engine",
		"types": [
			{"tag": "literal", "name": "Status", "values": ["ok", "error"]},
			{"tag": "record", "name": "InputParams", "total": false, "fields": [
				{"name": "query", "type": {"tag": "primitive", "name": "str"}, "required": true},
				{"name": "limit", "type": {"tag": "optional", "inner": {"tag": "primitive", "name": "int"}}, "required": false}
			]}
		],
		"functions": [
			{"name": "run_query",
			 "params": [{"name": "params", "type": {"tag": "reference", "name": "InputParams"}}],
			 "returnType": {"tag": "dict",
				"key": {"tag": "primitive", "name": "str"},
				"value": {"tag": "list", "element": {"tag": "primitive", "name": "float"}}}}
		],
		"packages": ["numpy", "pandas"]
	}`)

	m, err := DecodeModule(data)
	require.NoError(t, err)

	assert.Equal(t, "engine", m.Name)
	assert.Equal(t, []string{"numpy", "pandas"}, m.Packages)

	require.Len(t, m.Types, 2)
	alias, ok := m.Types[0].(LiteralAlias)
	require.True(t, ok)
	assert.Equal(t, "Status", alias.Name)
	assert.Equal(t, []LiteralValue{StringValue("ok"), StringValue("error")}, alias.Values)

	rec, ok := m.Types[1].(Record)
	require.True(t, ok)
	assert.Equal(t, "InputParams", rec.Name)
	assert.False(t, rec.Total)
	require.Len(t, rec.Fields, 2)
	assert.Equal(t, Field{Name: "query", Type: Primitive{Name: PrimStr}, Required: true}, rec.Fields[0])
	assert.Equal(t, Optional{Inner: Primitive{Name: PrimInt}}, rec.Fields[1].Type)

	require.Len(t, m.Functions, 1)
	fn := m.Functions[0]
	assert.Equal(t, "run_query", fn.Name)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, Reference{Name: "InputParams"}, fn.Params[0].Type)
	assert.Equal(t, Dict{
		Key:   Primitive{Name: PrimStr},
		Value: List{Element: Primitive{Name: PrimFloat}},
	}, fn.Return)
}

// The reference producer emits "kind" instead of "tag", "typeddict"
// instead of "record", and "None" for the null primitive. All three
// aliases are accepted.
func TestDecodeModule_ProducerAliases(t *testing.T) {
	data := []byte(`{
		"moduleName": "engine",
		"types": [
			{"kind": "typeddict", "name": "Result", "total": true, "fields": [
				{"name": "value", "type": {"kind": "primitive", "name": "None"}, "required": true}
			]}
		],
		"functions": [
			{"name": "reset", "params": [], "returnType": {"kind": "primitive", "name": "None"}}
		],
		"packages": []
	}`)

	m, err := DecodeModule(data)
	require.NoError(t, err)

	rec, ok := m.Types[0].(Record)
	require.True(t, ok)
	assert.True(t, rec.Total)
	assert.Equal(t, Primitive{Name: PrimNone}, rec.Fields[0].Type)
	assert.Equal(t, Primitive{Name: PrimNone}, m.Functions[0].Return)
}

func TestDecodeModule_TotalDefaultsTrue(t *testing.T) {
	data := []byte(`{
		"moduleName": "m",
		"types": [{"tag": "record", "name": "R", "fields": []}],
		"functions": [],
		"packages": []
	}`)

	m, err := DecodeModule(data)
	require.NoError(t, err)
	rec := m.Types[0].(Record)
	assert.True(t, rec.Total)
}

func TestDecodeModule_LiteralValueKinds(t *testing.T) {
	data := []byte(`{
		"moduleName": "m",
		"types": [{"tag": "literal", "name": "Mixed", "values": ["a", 3, 2.5, true]}],
		"functions": [],
		"packages": []
	}`)

	m, err := DecodeModule(data)
	require.NoError(t, err)
	alias := m.Types[0].(LiteralAlias)
	assert.Equal(t, []LiteralValue{
		StringValue("a"), NumberValue(3), NumberValue(2.5), BoolValue(true),
	}, alias.Values)
}

func TestDecodeModule_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed json", `{"moduleName": `},
		{"unknown type node tag", `{"moduleName":"m","types":[{"tag":"enum","name":"E"}],"functions":[],"packages":[]}`},
		{"unknown type ref tag", `{"moduleName":"m","types":[],"functions":[{"name":"f","params":[],"returnType":{"tag":"tuple"}}],"packages":[]}`},
		{"missing return type", `{"moduleName":"m","types":[],"functions":[{"name":"f","params":[]}],"packages":[]}`},
		{"null literal value", `{"moduleName":"m","types":[{"tag":"literal","name":"L","values":[null]}],"functions":[],"packages":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeModule([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}
