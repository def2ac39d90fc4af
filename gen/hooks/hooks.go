// Package hooks emits the UI-binding artifact (<module>.hooks.ts).
//
// Each exported function gets one named hook built by a single generic
// factory emitted once per artifact. The lifecycle binding from the
// runtime package is re-exported unchanged. Type imports contain
// exactly the named types reachable from function signatures; a type
// declared in the IR but unreferenced by any signature is never
// imported.
package hooks

import (
	"strings"

	"github.com/pyodide-bridge/bridgegen/gen"
	"github.com/pyodide-bridge/bridgegen/gen/util"
	"github.com/pyodide-bridge/bridgegen/ir"
)

// HookName returns the hook identifier for a function name:
// "run_query" -> "useRunQuery", "get_all_items" -> "useGetAllItems".
func HookName(fnName string) string {
	return "use" + util.ToPascalCase(fnName)
}

// Emitter implements gen.Emitter for the hooks artifact.
type Emitter struct{}

// New creates a hooks emitter.
func New() *Emitter {
	return &Emitter{}
}

// Kind returns gen.KindHooks.
func (e *Emitter) Kind() gen.Kind {
	return gen.KindHooks
}

// Emit renders the hooks artifact.
func (e *Emitter) Emit(m *ir.Module, _ gen.Options) string {
	var sb strings.Builder
	sb.WriteString(gen.Banner(m.Name))

	sb.WriteString("import { useCallback, useState } from 'react';\n")
	sb.WriteString("import { useBridgeWorker } from '@pyodide-bridge/react';\n")
	sb.WriteString(gen.TypeImport(m.Name, m.Functions))
	sb.WriteString("\n")

	// Lifecycle binding, re-exported unchanged.
	sb.WriteString("export { useBridgeWorker };\n\n")

	sb.WriteString(factory())

	for _, fn := range m.Functions {
		sb.WriteString("export const " + HookName(fn.Name) +
			" = createBridgeHook<[" + paramTypes(fn.Params) + "], " + gen.TSType(fn.Return) +
			">('" + fn.Name + "');\n")
	}

	return sb.String()
}

// paramTypes renders a function's parameter types as a tuple body, in
// call-signature order.
func paramTypes(params []ir.Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, gen.TSType(p.Type))
	}
	return strings.Join(parts, ", ")
}

// factory renders the shared generic hook factory. Emitted once per
// artifact; every per-function hook delegates to it.
func factory() string {
	return `export interface BridgeCallState<R> {
  data: R | null;
  error: Error | null;
  loading: boolean;
}

function createBridgeHook<Args extends unknown[], R>(method: string) {
  return function useBridgeCall() {
    const worker = useBridgeWorker();
    const [state, setState] = useState<BridgeCallState<R>>({
      data: null,
      error: null,
      loading: false,
    });

    const call = useCallback(
      async (...args: Args): Promise<R> => {
        setState({ data: null, error: null, loading: true });
        try {
          const remote = worker as unknown as Record<
            string,
            (...a: Args) => Promise<R>
          >;
          const data = await remote[method](...args);
          setState({ data, error: null, loading: false });
          return data;
        } catch (error) {
          setState({ data: null, error: error as Error, loading: false });
          throw error;
        }
      },
      [worker]
    );

    return { ...state, call };
  };
}

`
}
