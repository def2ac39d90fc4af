package ir

import (
	"fmt"
	"strings"

	"github.com/pyodide-bridge/bridgegen/errors"
)

// Violation is one IR contract violation found during validation.
type Violation struct {
	// Path locates the offending entity, e.g. "types[1].fields[0]".
	Path string
	// Message describes the violation.
	Message string
}

func (v Violation) String() string {
	return v.Path + ": " + v.Message
}

// ValidationError carries the complete list of contract violations
// found in one validation pass. It wraps errors.ErrInvalidIR so callers
// can detect the category with errors.Is.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "module IR has %d contract violation(s):", len(e.Violations))
	for _, v := range e.Violations {
		sb.WriteString("\n  ")
		sb.WriteString(v.String())
	}
	return sb.String()
}

// Unwrap lets errors.Is(err, errors.ErrInvalidIR) match.
func (e *ValidationError) Unwrap() error {
	return errors.ErrInvalidIR
}

// Validate checks the module against the IR contract and reports every
// violation found, not just the first. It returns nil when the module
// is valid, otherwise a *ValidationError with the full list.
//
// Validation must run once before any emission; the emitters and the
// type resolver assume a valid module.
func (m *Module) Validate() error {
	v := &validator{declared: make(map[string]bool)}

	if m.Name == "" {
		v.add("module", "module name is empty")
	}

	// First pass: collect declared type names so references anywhere in
	// the module can be checked, including mutual references between
	// records.
	seen := make(map[string]int)
	for i, node := range m.Types {
		name := node.TypeName()
		if name == "" {
			v.add(fmt.Sprintf("types[%d]", i), "type name is empty")
			continue
		}
		if first, dup := seen[name]; dup {
			v.add(fmt.Sprintf("types[%d]", i),
				fmt.Sprintf("duplicate type name %q (first declared at types[%d])", name, first))
			continue
		}
		seen[name] = i
		v.declared[name] = true
	}

	for i, node := range m.Types {
		path := fmt.Sprintf("types[%d]", i)
		switch node := node.(type) {
		case Record:
			v.checkRecord(path, node)
		case LiteralAlias:
			if len(node.Values) == 0 {
				v.add(path, fmt.Sprintf("literal alias %q has no values", node.Name))
			}
		}
	}

	fnSeen := make(map[string]int)
	for i, fn := range m.Functions {
		path := fmt.Sprintf("functions[%d]", i)
		if fn.Name == "" {
			v.add(path, "function name is empty")
		} else if first, dup := fnSeen[fn.Name]; dup {
			v.add(path, fmt.Sprintf("duplicate function name %q (first declared at functions[%d])", fn.Name, first))
		} else {
			fnSeen[fn.Name] = i
		}

		paramSeen := make(map[string]bool)
		for j, p := range fn.Params {
			ppath := fmt.Sprintf("%s.params[%d]", path, j)
			if p.Name == "" {
				v.add(ppath, "parameter name is empty")
			} else if paramSeen[p.Name] {
				v.add(ppath, fmt.Sprintf("duplicate parameter name %q", p.Name))
			} else {
				paramSeen[p.Name] = true
			}
			v.checkRef(ppath, p.Type)
		}
		v.checkRef(path+".returnType", fn.Return)
	}

	if len(v.violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: v.violations}
}

type validator struct {
	declared   map[string]bool
	violations []Violation
}

func (v *validator) add(path, message string) {
	v.violations = append(v.violations, Violation{Path: path, Message: message})
}

func (v *validator) checkRecord(path string, rec Record) {
	fieldSeen := make(map[string]bool)
	for i, f := range rec.Fields {
		fpath := fmt.Sprintf("%s.fields[%d]", path, i)
		if f.Name == "" {
			v.add(fpath, "field name is empty")
		} else if fieldSeen[f.Name] {
			v.add(fpath, fmt.Sprintf("duplicate field name %q in record %q", f.Name, rec.Name))
		} else {
			fieldSeen[f.Name] = true
		}
		v.checkRef(fpath, f.Type)
	}
}

// checkRef walks a type reference tree and records every violation it
// contains: nil nodes, unknown primitives, empty literal value sets and
// dangling references.
func (v *validator) checkRef(path string, ref TypeRef) {
	switch ref := ref.(type) {
	case nil:
		v.add(path, "missing type reference")
	case Primitive:
		switch ref.Name {
		case PrimInt, PrimFloat, PrimStr, PrimBool, PrimNone:
		default:
			v.add(path, fmt.Sprintf("unknown primitive type %q", ref.Name))
		}
	case List:
		v.checkRef(path+".element", ref.Element)
	case Dict:
		v.checkRef(path+".key", ref.Key)
		v.checkRef(path+".value", ref.Value)
	case Optional:
		v.checkRef(path+".inner", ref.Inner)
	case Literal:
		if len(ref.Values) == 0 {
			v.add(path, "literal type has no values")
		}
	case Reference:
		if ref.Name == "" {
			v.add(path, "reference name is empty")
		} else if !v.declared[ref.Name] {
			v.add(path, fmt.Sprintf("reference to undeclared type %q", ref.Name))
		}
	}
}
