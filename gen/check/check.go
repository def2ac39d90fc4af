// Package check implements the drift-detection engine.
//
// It regenerates the expected artifact set in memory and compares each
// artifact byte-for-byte against the file at its canonical name. The
// engine never writes, so it is safe to run repeatedly and in CI
// without write permissions on generated-file directories.
package check

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pyodide-bridge/bridgegen/errors"
	"github.com/pyodide-bridge/bridgegen/gen"
	"github.com/pyodide-bridge/bridgegen/gen/decl"
	"github.com/pyodide-bridge/bridgegen/gen/hooks"
	"github.com/pyodide-bridge/bridgegen/gen/worker"
	"github.com/pyodide-bridge/bridgegen/ir"
)

// Artifact is one regenerated artifact held in memory.
type Artifact struct {
	// FileName is the canonical name, e.g. "engine.worker.ts".
	FileName string
	// Content is the full artifact text.
	Content string
}

// Result holds the outcome of a check run.
type Result struct {
	// UpToDate is true when every expected artifact matches on disk.
	UpToDate bool
	// OutdatedFiles lists the paths of mismatched or missing
	// artifacts, in canonical artifact order.
	OutdatedFiles []string
}

// Artifacts regenerates the expected artifact set for a module: types
// and worker always, hooks when enabled. The CLI uses the same set when
// writing, so generation and check can never disagree about what is
// expected.
func Artifacts(m *ir.Module, opts gen.Options) []Artifact {
	emitters := []gen.Emitter{decl.New(), worker.New()}
	if opts.Hooks {
		emitters = append(emitters, hooks.New())
	}

	artifacts := make([]Artifact, 0, len(emitters))
	for _, e := range emitters {
		artifacts = append(artifacts, Artifact{
			FileName: gen.FileName(m.Name, e.Kind()),
			Content:  e.Emit(m, opts),
		})
	}
	return artifacts
}

// Run compares the regenerated artifacts against the files in dir.
//
// A missing file counts as outdated, never as an error; any other read
// failure is propagated. Mismatches are data, not errors: callers
// decide exit-code policy from the Result.
func Run(m *ir.Module, opts gen.Options, dir string) (*Result, error) {
	result := &Result{UpToDate: true}

	for _, artifact := range Artifacts(m, opts) {
		path := filepath.Join(dir, artifact.FileName)

		existing, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				result.UpToDate = false
				result.OutdatedFiles = append(result.OutdatedFiles, path)
				continue
			}
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}

		if !bytes.Equal(existing, []byte(artifact.Content)) {
			result.UpToDate = false
			result.OutdatedFiles = append(result.OutdatedFiles, path)
		}
	}

	return result, nil
}
