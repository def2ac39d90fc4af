package gen

import (
	"strings"

	"github.com/pyodide-bridge/bridgegen/ir"
)

// ReferencedTypes returns the named types reachable from the given
// function signatures, deduplicated, in first-use order.
//
// Only signatures contribute: a type declared in the module but never
// referenced by any function does not appear. First-use order derives
// from the IR's function and parameter sequences, keeping the computed
// import list deterministic.
func ReferencedTypes(fns []ir.Function) []string {
	var names []string
	seen := make(map[string]bool)

	var walk func(ref ir.TypeRef)
	walk = func(ref ir.TypeRef) {
		switch ref := ref.(type) {
		case ir.List:
			walk(ref.Element)
		case ir.Dict:
			walk(ref.Key)
			walk(ref.Value)
		case ir.Optional:
			walk(ref.Inner)
		case ir.Reference:
			if !seen[ref.Name] {
				seen[ref.Name] = true
				names = append(names, ref.Name)
			}
		}
	}

	for _, fn := range fns {
		for _, p := range fn.Params {
			walk(p.Type)
		}
		walk(fn.Return)
	}

	return names
}

// TypeImport renders the `import type` statement for the named types a
// function set needs from the declarations artifact. Returns the empty
// string when no named type is referenced.
func TypeImport(moduleName string, fns []ir.Function) string {
	names := ReferencedTypes(fns)
	if len(names) == 0 {
		return ""
	}
	return "import type { " + strings.Join(names, ", ") + " } from './" + moduleName + ".types';\n"
}
