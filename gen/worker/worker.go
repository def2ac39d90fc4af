// Package worker emits the RPC worker artifact (<module>.worker.ts).
//
// The worker exposes every exported function as a remotely callable
// operation over Comlink, on top of a Pyodide runtime pinned to the
// configured distribution version. The three bundler strategies differ
// only in the single source-acquisition line; interface, bootstrap and
// expose text are identical across them.
package worker

import (
	"fmt"
	"strings"

	"github.com/pyodide-bridge/bridgegen/gen"
	"github.com/pyodide-bridge/bridgegen/gen/util"
	"github.com/pyodide-bridge/bridgegen/ir"
)

// Emitter implements gen.Emitter for the worker artifact.
type Emitter struct{}

// New creates a worker emitter.
func New() *Emitter {
	return &Emitter{}
}

// Kind returns gen.KindWorker.
func (e *Emitter) Kind() gen.Kind {
	return gen.KindWorker
}

// InterfaceName returns the worker interface name for a module, e.g.
// "engine" -> "EngineWorker".
func InterfaceName(moduleName string) string {
	return util.ToPascalCase(moduleName) + "Worker"
}

// Emit renders the worker artifact.
func (e *Emitter) Emit(m *ir.Module, opts gen.Options) string {
	var sb strings.Builder
	sb.WriteString(gen.Banner(m.Name))

	// Imports
	sb.WriteString("import { expose } from 'comlink';\n")
	sb.WriteString("import { loadPyodide, type PyodideInterface } from 'pyodide';\n")
	sb.WriteString(gen.TypeImport(m.Name, m.Functions))
	sb.WriteString("\n")

	// 1. Interface: the method set equals exactly the IR's function
	// set, in IR order.
	ifaceName := InterfaceName(m.Name)
	sb.WriteString("export interface " + ifaceName + " {\n")
	for _, fn := range m.Functions {
		sb.WriteString("  " + fn.Name + "(" + paramList(fn.Params) + "): Promise<" + gen.TSType(fn.Return) + ">;\n")
	}
	sb.WriteString("}\n\n")

	// 2. Source acquisition: the only strategy-dependent line.
	sb.WriteString(sourceAcquisition(m.Name, opts))
	sb.WriteString("\n")

	// 3. Bootstrap: runtime init, package install, source execution,
	// error recognition and the expose call.
	sb.WriteString(errorRecognition())
	sb.WriteString(bootstrap(m, opts))
	sb.WriteString(apiObject(m, ifaceName))

	return sb.String()
}

// paramList renders a function's parameters in call-signature order.
func paramList(params []ir.Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.Name+": "+gen.TSType(p.Type))
	}
	return strings.Join(parts, ", ")
}

// sourceAcquisition returns the single line that binds moduleSource.
func sourceAcquisition(moduleName string, opts gen.Options) string {
	sourcePath := "./" + moduleName + ".py"
	switch opts.Bundler {
	case gen.StrategyVite:
		return "import moduleSource from '" + sourcePath + "?raw';\n"
	case gen.StrategyWebpack:
		return "import moduleSource from '!!raw-loader!" + sourcePath + "';\n"
	default:
		return "const moduleSource = " + quoteJS(opts.ModuleSource) + ";\n"
	}
}

// quoteJS renders s as a double-quoted JavaScript string literal on a
// single line. Escaping is JSON-style: control characters and the
// Unicode line separators become \n, \r, \t or \uXXXX escapes, so
// arbitrary module source survives embedding unchanged.
func quoteJS(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
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
	sb.WriteByte('"')
	return sb.String()
}

// errorRecognition renders the typed exception and the recognizer for
// the { error: { code, message } } result shape the interpreter runtime
// produces on failure.
func errorRecognition() string {
	return `export class BridgeCallError extends Error {
  code: string;

  constructor(code: string, message: string) {
    super(message);
    this.name = 'BridgeCallError';
    this.code = code;
  }
}

interface BridgeFailure {
  error: { code: string; message: string };
}

function isBridgeFailure(value: unknown): value is BridgeFailure {
  if (typeof value !== 'object' || value === null || !('error' in value)) {
    return false;
  }
  const err = (value as BridgeFailure).error;
  return (
    typeof err === 'object' &&
    err !== null &&
    typeof err.code === 'string' &&
    typeof err.message === 'string'
  );
}

`
}

// bootstrap renders the runtime initialization sequence: load the
// pinned distribution, install the literal package list in given order,
// execute the module source, and the shared call helper every exposed
// method delegates to.
func bootstrap(m *ir.Module, opts gen.Options) string {
	var sb strings.Builder

	sb.WriteString("const pyodideReady: Promise<PyodideInterface> = (async () => {\n")
	sb.WriteString("  const pyodide = await loadPyodide({\n")
	sb.WriteString("    indexURL: 'https://cdn.jsdelivr.net/pyodide/v" + opts.DistributionVersion + "/full/',\n")
	sb.WriteString("  });\n")
	sb.WriteString("  await pyodide.loadPackage(" + packageList(m.Packages) + ");\n")
	sb.WriteString("  await pyodide.runPythonAsync(moduleSource);\n")
	sb.WriteString("  return pyodide;\n")
	sb.WriteString("})();\n\n")

	sb.WriteString(`async function call<T>(name: string, args: unknown[]): Promise<T> {
  const pyodide = await pyodideReady;
  const fn = pyodide.globals.get(name);
  const result = fn(...args.map((arg) => pyodide.toPy(arg)));
  const value =
    result && typeof result.toJs === 'function'
      ? result.toJs({ dict_converter: Object.fromEntries })
      : result;
  if (isBridgeFailure(value)) {
    throw new BridgeCallError(value.error.code, value.error.message);
  }
  return value as T;
}

`)
	return sb.String()
}

// packageList renders the package names exactly as given: no
// deduplication, no reordering. Dependency resolution is the
// producer's responsibility.
func packageList(packages []string) string {
	parts := make([]string, 0, len(packages))
	for _, p := range packages {
		parts = append(parts, "'"+p+"'")
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// apiObject renders the exposed object whose keys are the IR's function
// names, and the expose call.
func apiObject(m *ir.Module, ifaceName string) string {
	var sb strings.Builder

	sb.WriteString("const api: " + ifaceName + " = {\n")
	for _, fn := range m.Functions {
		args := make([]string, 0, len(fn.Params))
		for _, p := range fn.Params {
			args = append(args, p.Name)
		}
		argList := strings.Join(args, ", ")
		ret := gen.TSType(fn.Return)
		sb.WriteString("  " + fn.Name + ": (" + argList + ") => call<" + ret + ">('" + fn.Name + "', [" + argList + "]),\n")
	}
	sb.WriteString("};\n\n")
	sb.WriteString("expose(api);\n")

	return sb.String()
}
