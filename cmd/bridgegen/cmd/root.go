// Package cmd implements the bridgegen CLI.
//
// The commands are the orchestrator around the pure generator core:
// they read configuration, invoke the external IR producer, and write
// or compare files. Nothing in ir/ or gen/ knows about flags, config or
// output directories.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pyodide-bridge/bridgegen/errors"
	"github.com/pyodide-bridge/bridgegen/logger"
)

var (
	cfgFile   string
	verbosity int
	jsonLogs  bool
)

// RootCmd is the bridgegen root command.
var RootCmd = &cobra.Command{
	Use:   "bridgegen",
	Short: "Generate TypeScript bridge artifacts from annotated Python modules",
	Long: `bridgegen turns the module IR produced by the pyodide-bridge parser into
three TypeScript artifacts:

  <module>.types.ts    type declarations for the module's exported types
  <module>.worker.ts   a Comlink-exposed Pyodide worker entrypoint
  <module>.hooks.ts    per-function React hooks

Input may be a parser IR file (JSON), "-" for stdin, or an annotated
.py module (bridgegen then runs the configured parser command).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		return logger.Initialize(jsonLogs, verbosity)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./bridgegen.yaml)")
	RootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v, -vv)")
	RootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "emit logs as JSON")

	RootCmd.AddCommand(GenerateCmd)
	RootCmd.AddCommand(CheckCmd)
	RootCmd.AddCommand(VersionCmd)
}

// initConfig loads the optional config file and environment overrides.
// Flags beat config, config beats defaults; the defaults live here so
// every command sees the same baseline.
func initConfig() error {
	viper.SetDefault("output", ".")
	viper.SetDefault("bundler", "embed")
	viper.SetDefault("distribution_version", "0.26.2")
	viper.SetDefault("hooks", true)
	viper.SetDefault("parser_command", "python3 parser.py")

	viper.SetEnvPrefix("BRIDGEGEN")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		return viper.ReadInConfig()
	}

	viper.SetConfigName("bridgegen")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional; only real read failures matter.
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}
