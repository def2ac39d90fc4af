package check

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyodide-bridge/bridgegen/gen"
	"github.com/pyodide-bridge/bridgegen/ir"
)

func testModule() *ir.Module {
	return &ir.Module{
		Name: "test",
		Types: []ir.TypeNode{
			ir.LiteralAlias{Name: "Status", Values: []ir.LiteralValue{
				ir.StringValue("ok"), ir.StringValue("error"),
			}},
		},
		Functions: []ir.Function{
			{
				Name:   "run",
				Params: []ir.Param{{Name: "input", Type: ir.Primitive{Name: ir.PrimStr}}},
				Return: ir.Primitive{Name: ir.PrimStr},
			},
		},
	}
}

func testOptions() gen.Options {
	opts := gen.DefaultOptions()
	opts.ModuleSource = "def run(input):\n    return input\n"
	return opts
}

// writeAll writes the full artifact set to dir, standing in for the
// generate command.
func writeAll(t *testing.T, m *ir.Module, opts gen.Options, dir string) {
	t.Helper()
	for _, artifact := range Artifacts(m, opts) {
		path := filepath.Join(dir, artifact.FileName)
		require.NoError(t, os.WriteFile(path, []byte(artifact.Content), 0o644))
	}
}

func TestArtifacts_FullSet(t *testing.T) {
	artifacts := Artifacts(testModule(), testOptions())

	require.Len(t, artifacts, 3)
	assert.Equal(t, "test.types.ts", artifacts[0].FileName)
	assert.Equal(t, "test.worker.ts", artifacts[1].FileName)
	assert.Equal(t, "test.hooks.ts", artifacts[2].FileName)
}

func TestArtifacts_HooksDisabled(t *testing.T) {
	opts := testOptions()
	opts.Hooks = false

	artifacts := Artifacts(testModule(), opts)

	require.Len(t, artifacts, 2)
	assert.Equal(t, "test.types.ts", artifacts[0].FileName)
	assert.Equal(t, "test.worker.ts", artifacts[1].FileName)
}

func TestRun_UpToDate(t *testing.T) {
	dir := t.TempDir()
	m, opts := testModule(), testOptions()
	writeAll(t, m, opts, dir)

	result, err := Run(m, opts, dir)
	require.NoError(t, err)
	assert.True(t, result.UpToDate)
	assert.Empty(t, result.OutdatedFiles)
}

func TestRun_OneOverwrittenArtifact(t *testing.T) {
	dir := t.TempDir()
	m, opts := testModule(), testOptions()
	writeAll(t, m, opts, dir)

	workerPath := filepath.Join(dir, "test.worker.ts")
	require.NoError(t, os.WriteFile(workerPath, []byte("// hand-edited\n"), 0o644))

	result, err := Run(m, opts, dir)
	require.NoError(t, err)
	assert.False(t, result.UpToDate)
	assert.Equal(t, []string{workerPath}, result.OutdatedFiles)
}

func TestRun_AllMissing(t *testing.T) {
	dir := t.TempDir()
	m, opts := testModule(), testOptions()

	result, err := Run(m, opts, dir)
	require.NoError(t, err)
	assert.False(t, result.UpToDate)
	assert.Equal(t, []string{
		filepath.Join(dir, "test.types.ts"),
		filepath.Join(dir, "test.worker.ts"),
		filepath.Join(dir, "test.hooks.ts"),
	}, result.OutdatedFiles)
}

// A directory squatting on an artifact path is unreadable, not
// missing: the run fails instead of reporting the file as outdated.
func TestRun_UnreadableArtifactIsError(t *testing.T) {
	dir := t.TempDir()
	m, opts := testModule(), testOptions()
	writeAll(t, m, opts, dir)

	workerPath := filepath.Join(dir, "test.worker.ts")
	require.NoError(t, os.Remove(workerPath))
	require.NoError(t, os.Mkdir(workerPath, 0o755))

	result, err := Run(m, opts, dir)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), workerPath)
}

// A check run must not create, touch or repair anything on disk.
func TestRun_NeverWrites(t *testing.T) {
	dir := t.TempDir()
	m, opts := testModule(), testOptions()

	_, err := Run(m, opts, dir)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_OptionsChangeInvalidates(t *testing.T) {
	dir := t.TempDir()
	m, opts := testModule(), testOptions()
	writeAll(t, m, opts, dir)

	changed := opts
	changed.DistributionVersion = "0.27.1"

	result, err := Run(m, changed, dir)
	require.NoError(t, err)
	assert.False(t, result.UpToDate)
	// Only the worker embeds the distribution version.
	assert.Equal(t, []string{filepath.Join(dir, "test.worker.ts")}, result.OutdatedFiles)
}
