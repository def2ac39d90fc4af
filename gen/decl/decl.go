// Package decl emits the type-declarations artifact
// (<module>.types.ts).
package decl

import (
	"strings"

	"github.com/pyodide-bridge/bridgegen/gen"
	"github.com/pyodide-bridge/bridgegen/ir"
)

// Emitter implements gen.Emitter for the declarations artifact.
type Emitter struct{}

// New creates a declarations emitter.
func New() *Emitter {
	return &Emitter{}
}

// Kind returns gen.KindTypes.
func (e *Emitter) Kind() gen.Kind {
	return gen.KindTypes
}

// Emit renders one declaration per IR type node, in IR order.
func (e *Emitter) Emit(m *ir.Module, _ gen.Options) string {
	var sb strings.Builder
	sb.WriteString(gen.Banner(m.Name))

	for i, node := range m.Types {
		if i > 0 {
			sb.WriteString("\n")
		}
		switch node := node.(type) {
		case ir.Record:
			writeRecord(&sb, node)
		case ir.LiteralAlias:
			writeLiteralAlias(&sb, node)
		}
	}

	return sb.String()
}

// writeRecord renders a record as a structural interface. Field order
// mirrors IR order. A field renders optional when the record defaults
// to partial or the field itself is not required; a field cannot force
// requiredness against a partial record.
func writeRecord(sb *strings.Builder, rec ir.Record) {
	sb.WriteString("export interface " + rec.Name + " {\n")
	for _, f := range rec.Fields {
		optional := !rec.Total || !f.Required
		mark := ""
		if optional {
			mark = "?"
		}
		sb.WriteString("  " + f.Name + mark + ": " + gen.TSType(f.Type) + ";\n")
	}
	sb.WriteString("}\n")
}

func writeLiteralAlias(sb *strings.Builder, alias ir.LiteralAlias) {
	sb.WriteString("export type " + alias.Name + " = " + gen.LiteralUnion(alias.Values) + ";\n")
}
