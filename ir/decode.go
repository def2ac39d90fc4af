package ir

import (
	"encoding/json"

	"github.com/pyodide-bridge/bridgegen/errors"
)

// DecodeModule parses the JSON wire form of a Module.
//
// The canonical discriminator key is "tag"; the reference producer
// emits "kind" instead, so both are accepted. Likewise "typeddict" is
// accepted as an alias for the "record" tag and "None" for the "none"
// primitive. Decoding only checks structure; contract validation
// (dangling references, duplicate names) is a separate pass, see
// Module.Validate.
func DecodeModule(data []byte) (*Module, error) {
	var w wireModule
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(err, "failed to parse module IR")
	}

	m := &Module{
		Name:     w.ModuleName,
		Packages: w.Packages,
	}

	for i, raw := range w.Types {
		node, err := decodeTypeNode(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "types[%d]", i)
		}
		m.Types = append(m.Types, node)
	}

	for i, wf := range w.Functions {
		fn, err := decodeFunction(wf)
		if err != nil {
			return nil, errors.Wrapf(err, "functions[%d]", i)
		}
		m.Functions = append(m.Functions, fn)
	}

	return m, nil
}

type wireModule struct {
	ModuleName string            `json:"moduleName"`
	Types      []json.RawMessage `json:"types"`
	Functions  []wireFunction    `json:"functions"`
	Packages   []string          `json:"packages"`
}

type wireFunction struct {
	Name       string          `json:"name"`
	Params     []wireParam     `json:"params"`
	ReturnType json.RawMessage `json:"returnType"`
}

type wireParam struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
}

type wireField struct {
	Name     string          `json:"name"`
	Type     json.RawMessage `json:"type"`
	Required bool            `json:"required"`
}

// wireTag reads the variant discriminator, preferring "tag" over the
// producer's legacy "kind" key.
type wireTag struct {
	Tag  string `json:"tag"`
	Kind string `json:"kind"`
}

func (t wireTag) value() string {
	if t.Tag != "" {
		return t.Tag
	}
	return t.Kind
}

func decodeTypeNode(raw json.RawMessage) (TypeNode, error) {
	var tag wireTag
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, errors.Wrap(err, "failed to read type node tag")
	}

	switch tag.value() {
	case "record", "typeddict":
		var w struct {
			Name   string      `json:"name"`
			Total  *bool       `json:"total"`
			Fields []wireField `json:"fields"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, errors.Wrap(err, "failed to parse record type")
		}
		rec := Record{Name: w.Name, Total: true}
		if w.Total != nil {
			rec.Total = *w.Total
		}
		for i, wf := range w.Fields {
			ref, err := decodeTypeRef(wf.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "fields[%d]", i)
			}
			rec.Fields = append(rec.Fields, Field{
				Name:     wf.Name,
				Type:     ref,
				Required: wf.Required,
			})
		}
		return rec, nil

	case "literal":
		var w struct {
			Name   string            `json:"name"`
			Values []json.RawMessage `json:"values"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, errors.Wrap(err, "failed to parse literal alias")
		}
		values, err := decodeLiteralValues(w.Values)
		if err != nil {
			return nil, err
		}
		return LiteralAlias{Name: w.Name, Values: values}, nil

	default:
		return nil, errors.Newf("unknown type node tag %q", tag.value())
	}
}

func decodeFunction(w wireFunction) (Function, error) {
	fn := Function{Name: w.Name}

	for i, wp := range w.Params {
		ref, err := decodeTypeRef(wp.Type)
		if err != nil {
			return Function{}, errors.Wrapf(err, "params[%d]", i)
		}
		fn.Params = append(fn.Params, Param{Name: wp.Name, Type: ref})
	}

	if len(w.ReturnType) == 0 {
		return Function{}, errors.New("function has no return type")
	}
	ret, err := decodeTypeRef(w.ReturnType)
	if err != nil {
		return Function{}, errors.Wrap(err, "returnType")
	}
	fn.Return = ret

	return fn, nil
}

func decodeTypeRef(raw json.RawMessage) (TypeRef, error) {
	if len(raw) == 0 {
		return nil, errors.New("missing type reference")
	}

	var tag wireTag
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, errors.Wrap(err, "failed to read type reference tag")
	}

	switch tag.value() {
	case "primitive":
		var w struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, errors.Wrap(err, "failed to parse primitive")
		}
		name := w.Name
		if name == "None" {
			name = string(PrimNone)
		}
		return Primitive{Name: PrimitiveName(name)}, nil

	case "list":
		var w struct {
			Element json.RawMessage `json:"element"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, errors.Wrap(err, "failed to parse list")
		}
		elem, err := decodeTypeRef(w.Element)
		if err != nil {
			return nil, errors.Wrap(err, "element")
		}
		return List{Element: elem}, nil

	case "dict":
		var w struct {
			Key   json.RawMessage `json:"key"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, errors.Wrap(err, "failed to parse dict")
		}
		key, err := decodeTypeRef(w.Key)
		if err != nil {
			return nil, errors.Wrap(err, "key")
		}
		value, err := decodeTypeRef(w.Value)
		if err != nil {
			return nil, errors.Wrap(err, "value")
		}
		return Dict{Key: key, Value: value}, nil

	case "optional":
		var w struct {
			Inner json.RawMessage `json:"inner"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, errors.Wrap(err, "failed to parse optional")
		}
		inner, err := decodeTypeRef(w.Inner)
		if err != nil {
			return nil, errors.Wrap(err, "inner")
		}
		return Optional{Inner: inner}, nil

	case "literal":
		var w struct {
			Values []json.RawMessage `json:"values"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, errors.Wrap(err, "failed to parse literal")
		}
		values, err := decodeLiteralValues(w.Values)
		if err != nil {
			return nil, err
		}
		return Literal{Values: values}, nil

	case "reference":
		var w struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, errors.Wrap(err, "failed to parse reference")
		}
		return Reference{Name: w.Name}, nil

	default:
		return nil, errors.Newf("unknown type reference tag %q", tag.value())
	}
}

func decodeLiteralValues(raws []json.RawMessage) ([]LiteralValue, error) {
	var values []LiteralValue
	for i, raw := range raws {
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errors.Wrapf(err, "values[%d]", i)
		}
		switch v := v.(type) {
		case string:
			values = append(values, StringValue(v))
		case bool:
			values = append(values, BoolValue(v))
		case float64:
			values = append(values, NumberValue(v))
		default:
			return nil, errors.Newf("values[%d]: unsupported literal value %s", i, string(raw))
		}
	}
	return values, nil
}
