// Package gen holds the shared emission core for bridgegen's three
// TypeScript backends.
//
// # Architecture
//
// The package uses a two-layer design, mirrored from the IR outward:
//  1. Language-agnostic IR (package ir) is validated once.
//  2. Artifact-specific emitters (decl/, worker/, hooks/) each turn the
//     same immutable module into one artifact's text.
//
// The emitters are independent of one another: each reads only the IR
// and the shared Options record, and none performs I/O. Writing files
// is the CLI's job; comparing them is gen/check's.
//
// # Design Decisions
//
//   - All output ordering derives from IR sequence order, never from map
//     iteration, so identical input produces byte-identical output.
//   - The generated-file banner is byte-stable: no timestamps, no
//     environment-dependent text.
//   - Emitters implement a common interface for extensibility.
package gen

import (
	"github.com/Masterminds/semver/v3"

	"github.com/pyodide-bridge/bridgegen/errors"
	"github.com/pyodide-bridge/bridgegen/ir"
)

// Kind identifies one generated artifact.
type Kind string

// The artifact kinds, in canonical generation order.
const (
	KindTypes  Kind = "types"
	KindWorker Kind = "worker"
	KindHooks  Kind = "hooks"
)

// FileName returns the canonical artifact file name for a module, e.g.
// "engine.worker.ts".
func FileName(moduleName string, kind Kind) string {
	return moduleName + "." + string(kind) + ".ts"
}

// Emitter is the interface each artifact backend implements.
type Emitter interface {
	// Kind returns the artifact kind this emitter produces.
	Kind() Kind

	// Emit renders the artifact text for a validated module. It is a
	// pure function: deterministic, side-effect free, no I/O.
	Emit(m *ir.Module, opts Options) string
}

// Strategy selects how the emitted worker obtains the module source.
type Strategy string

// The bundler strategies. Everything but the single source-acquisition
// line is identical across them.
const (
	// StrategyEmbed renders the source as an escaped string literal.
	StrategyEmbed Strategy = "embed"
	// StrategyVite defers to the bundler via a ?raw import suffix.
	StrategyVite Strategy = "vite"
	// StrategyWebpack defers to the bundler via a raw-loader prefix.
	StrategyWebpack Strategy = "webpack"
)

// ParseStrategy converts a user-supplied strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyEmbed, StrategyVite, StrategyWebpack:
		return Strategy(s), nil
	}
	return "", errors.Newf("unknown bundler strategy %q (supported: embed, vite, webpack)", s)
}

// Options is the emission options record. The same record must be used
// for generation and for checking, or the byte comparison is
// meaningless.
type Options struct {
	// DistributionVersion pins the Pyodide distribution the worker
	// loads, e.g. "0.26.2".
	DistributionVersion string

	// Bundler selects the worker's source-acquisition strategy.
	Bundler Strategy

	// ModuleSource is the original module source text. Only
	// StrategyEmbed renders it; the deferred strategies leave loading
	// to the bundler.
	ModuleSource string

	// Hooks controls whether the binding-hooks artifact is part of the
	// expected artifact set.
	Hooks bool
}

// DefaultOptions returns the options used when no configuration
// overrides them.
func DefaultOptions() Options {
	return Options{
		DistributionVersion: "0.26.2",
		Bundler:             StrategyEmbed,
		Hooks:               true,
	}
}

// Validate checks the options record before any emission.
func (o Options) Validate() error {
	if _, err := semver.NewVersion(o.DistributionVersion); err != nil {
		return errors.Wrapf(err, "invalid distribution version %q", o.DistributionVersion)
	}
	if _, err := ParseStrategy(string(o.Bundler)); err != nil {
		return err
	}
	return nil
}

// Banner returns the machine-generated-file banner shared by every
// artifact. Byte-identical on every regeneration for the same module:
// the check engine relies on that, and so does anyone tempted to edit
// the file by hand.
func Banner(moduleName string) string {
	return "/* eslint-disable */\n" +
		"// Code generated by bridgegen from " + moduleName + ".py. DO NOT EDIT.\n" +
		"// Regenerate with: bridgegen generate\n" +
		"\n"
}
