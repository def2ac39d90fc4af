package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/pyodide-bridge/bridgegen/errors"
	"github.com/pyodide-bridge/bridgegen/gen"
	"github.com/pyodide-bridge/bridgegen/gen/check"
	"github.com/pyodide-bridge/bridgegen/ir"
)

var (
	checkDir  string
	checkDiff bool
)

// CheckCmd verifies that generated artifacts are up to date.
var CheckCmd = &cobra.Command{
	Use:   "check <module.py | ir.json | ->",
	Short: "Check that generated artifacts match the module IR",
	Long: `Check that previously generated artifacts still match what generation
would produce. Artifacts are regenerated in memory and compared
byte-for-byte; nothing is written.

Exit codes:
  0 - artifacts are up to date
  1 - artifacts are outdated or missing
  2 - error during check

Examples:
  bridgegen check src/engine.py
  bridgegen check ir.json --dir src/generated --diff`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	CheckCmd.Flags().StringVarP(&checkDir, "dir", "d", "", "directory holding the generated artifacts (default: next to input)")
	CheckCmd.Flags().BoolVar(&checkDiff, "diff", false, "print a unified diff for each outdated artifact")

	// The emission options must match the ones used for generation.
	CheckCmd.Flags().StringVarP(&generateBundler, "bundler", "b", "", "bundler strategy: embed, vite, webpack")
	CheckCmd.Flags().StringVar(&generateDist, "dist-version", "", "Pyodide distribution version")
	CheckCmd.Flags().BoolVar(&generateNoHooks, "no-hooks", false, "skip the hooks artifact")
	CheckCmd.Flags().StringVar(&generateSource, "source", "", "module source file to embed (embed strategy with IR input)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	input := args[0]

	mod, source, err := loadModule(input)
	if err != nil {
		return err
	}

	opts, err := buildOptions(source)
	if err != nil {
		return err
	}

	dir := checkDir
	if dir == "" {
		dir = resolveOutput(input)
	}

	result, err := check.Run(mod, opts, dir)
	if err != nil {
		return err
	}

	if result.UpToDate {
		pterm.Success.Println("Generated artifacts are up to date")
		return nil
	}

	pterm.Error.Println("Generated artifacts are out of date:")
	for _, path := range result.OutdatedFiles {
		fmt.Printf("  - %s\n", path)
	}

	if checkDiff {
		if err := printDiffs(mod, opts, dir, result.OutdatedFiles); err != nil {
			return err
		}
	}

	return errors.WithHint(errors.ErrOutdated, "run 'bridgegen generate' to refresh the artifacts")
}

// printDiffs renders a unified diff per outdated artifact: what is on
// disk against what regeneration produces. Missing files diff against
// empty content.
func printDiffs(mod *ir.Module, opts gen.Options, dir string, outdated []string) error {
	stale := make(map[string]bool, len(outdated))
	for _, path := range outdated {
		stale[path] = true
	}

	for _, artifact := range check.Artifacts(mod, opts) {
		path := filepath.Join(dir, artifact.FileName)
		if !stale[path] {
			continue
		}

		existing, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to read %s", path)
		}

		diff := difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(existing)),
			B:        difflib.SplitLines(artifact.Content),
			FromFile: path,
			ToFile:   path + " (regenerated)",
			Context:  3,
		}
		text, err := difflib.GetUnifiedDiffString(diff)
		if err != nil {
			return errors.Wrapf(err, "failed to diff %s", path)
		}
		fmt.Print(text)
	}
	return nil
}
