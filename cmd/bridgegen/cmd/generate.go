package cmd

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pyodide-bridge/bridgegen/errors"
	"github.com/pyodide-bridge/bridgegen/gen"
	"github.com/pyodide-bridge/bridgegen/gen/check"
	"github.com/pyodide-bridge/bridgegen/ir"
	"github.com/pyodide-bridge/bridgegen/logger"
)

var (
	generateOutput  string
	generateBundler string
	generateDist    string
	generateNoHooks bool
	generateSource  string
	generateWatch   bool
)

// GenerateCmd generates the artifact set for one module.
var GenerateCmd = &cobra.Command{
	Use:   "generate <module.py | ir.json | ->",
	Short: "Generate TypeScript artifacts from a module IR",
	Long: `Generate the artifact set for one module.

The types and worker artifacts are always generated; the hooks artifact
can be disabled with --no-hooks or hooks: false in bridgegen.yaml.

With the embed bundler strategy the module source is rendered into the
worker as a string literal; point bridgegen at the .py module directly
or pass --source. The vite and webpack strategies defer source loading
to the bundler and need no source text.

Examples:
  bridgegen generate src/engine.py                 # parse + generate next to it
  bridgegen generate ir.json --source engine.py    # pre-parsed IR
  bridgegen generate src/engine.py --bundler vite  # deferred source import
  bridgegen generate src/engine.py --watch         # regenerate on change`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "output directory (default: config or .)")
	GenerateCmd.Flags().StringVarP(&generateBundler, "bundler", "b", "", "bundler strategy: embed, vite, webpack")
	GenerateCmd.Flags().StringVar(&generateDist, "dist-version", "", "Pyodide distribution version")
	GenerateCmd.Flags().BoolVar(&generateNoHooks, "no-hooks", false, "skip the hooks artifact")
	GenerateCmd.Flags().StringVar(&generateSource, "source", "", "module source file to embed (embed strategy with IR input)")
	GenerateCmd.Flags().BoolVarP(&generateWatch, "watch", "w", false, "watch the input and regenerate on change")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	input := args[0]

	if err := generateOnce(input); err != nil {
		if !generateWatch {
			return err
		}
		// In watch mode a broken module is a state to recover from,
		// not a reason to exit.
		logger.Logger.Errorw("generation failed", "error", err)
	}

	if generateWatch {
		return watchAndRegenerate(input)
	}
	return nil
}

// generateOnce runs one full pass: load, validate, emit, write.
func generateOnce(input string) error {
	mod, source, err := loadModule(input)
	if err != nil {
		return err
	}

	opts, err := buildOptions(source)
	if err != nil {
		return err
	}

	outDir := resolveOutput(input)
	return writeArtifacts(mod, opts, outDir)
}

// buildOptions assembles the emission options record: flags beat
// config, config beats defaults.
func buildOptions(source string) (gen.Options, error) {
	opts := gen.DefaultOptions()
	opts.DistributionVersion = viper.GetString("distribution_version")
	opts.Hooks = viper.GetBool("hooks")

	bundler := viper.GetString("bundler")
	if generateBundler != "" {
		bundler = generateBundler
	}
	strategy, err := gen.ParseStrategy(bundler)
	if err != nil {
		return gen.Options{}, err
	}
	opts.Bundler = strategy

	if generateDist != "" {
		opts.DistributionVersion = generateDist
	}
	if generateNoHooks {
		opts.Hooks = false
	}

	opts.ModuleSource = source
	if generateSource != "" {
		opts.ModuleSource, err = readSourceFile(generateSource)
		if err != nil {
			return gen.Options{}, err
		}
	}

	if opts.Bundler == gen.StrategyEmbed && opts.ModuleSource == "" {
		return gen.Options{}, errors.WithHint(
			errors.New("embed strategy has no module source to embed"),
			"pass the .py module as input, use --source, or pick --bundler vite/webpack")
	}

	if err := opts.Validate(); err != nil {
		return gen.Options{}, err
	}
	return opts, nil
}

// resolveOutput picks the output directory: flag, then config, then the
// input file's directory.
func resolveOutput(input string) string {
	if generateOutput != "" {
		return generateOutput
	}
	if out := viper.GetString("output"); out != "" && out != "." {
		return out
	}
	if input == "-" {
		return "."
	}
	return filepath.Dir(input)
}

// writeArtifacts emits the expected artifact set and writes each file.
// Filesystem errors are propagated, never retried.
func writeArtifacts(mod *ir.Module, opts gen.Options, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create output directory %s", outDir)
	}

	for _, artifact := range check.Artifacts(mod, opts) {
		path := filepath.Join(outDir, artifact.FileName)
		if err := os.WriteFile(path, []byte(artifact.Content), 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", path)
		}
		pterm.Success.Printfln("Generated %s", path)
	}
	return nil
}

// watchAndRegenerate reruns generation whenever the input (or the
// separate --source file) changes. Failures are logged and watching
// continues.
func watchAndRegenerate(input string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create watcher")
	}
	defer watcher.Close()

	path, err := absInput(input)
	if err != nil {
		return err
	}
	if err := watcher.Add(path); err != nil {
		return errors.Wrapf(err, "failed to watch %s", path)
	}
	if generateSource != "" {
		sourcePath, err := filepath.Abs(generateSource)
		if err != nil {
			return errors.Wrap(err, "failed to resolve source path")
		}
		if err := watcher.Add(sourcePath); err != nil {
			return errors.Wrapf(err, "failed to watch %s", sourcePath)
		}
	}

	logger.Logger.Infow("watching for changes", "input", path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logger.Logger.Infow("input changed, regenerating", "file", event.Name)
			if err := generateOnce(input); err != nil {
				logger.Logger.Errorw("generation failed", "error", err)
			}
			// Editors often replace the file; re-add to keep watching.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Logger.Errorw("watch error", "error", err)
		}
	}
}
