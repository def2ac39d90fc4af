package cmd

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/viper"

	"github.com/pyodide-bridge/bridgegen/errors"
	"github.com/pyodide-bridge/bridgegen/ir"
	"github.com/pyodide-bridge/bridgegen/logger"
)

// loadModule resolves the command input into a validated module IR plus
// the module source text when it is available.
//
// Accepted inputs:
//   - "-"            IR JSON on stdin
//   - *.json         IR JSON file
//   - *.py           annotated module; the configured parser command is
//     run on it and its stdout read as IR JSON
func loadModule(input string) (*ir.Module, string, error) {
	var data []byte
	var source string
	var err error

	switch {
	case input == "-":
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", errors.Wrap(err, "failed to read IR from stdin")
		}

	case strings.HasSuffix(input, ".py"):
		raw, err := os.ReadFile(input)
		if err != nil {
			return nil, "", errors.Wrapf(err, "failed to read module source %s", input)
		}
		source = string(raw)

		data, err = runParser(input)
		if err != nil {
			return nil, "", err
		}

	default:
		data, err = os.ReadFile(input)
		if err != nil {
			return nil, "", errors.Wrapf(err, "failed to read IR file %s", input)
		}
	}

	mod, err := ir.DecodeModule(data)
	if err != nil {
		return nil, "", err
	}

	if err := mod.Validate(); err != nil {
		return nil, "", err
	}

	logger.Logger.Infow("loaded module IR",
		"module", mod.Name,
		"types", len(mod.Types),
		"functions", len(mod.Functions),
	)
	return mod, source, nil
}

// runParser invokes the external IR producer on a .py module and
// returns its stdout. The producer stays an opaque collaborator: any
// failure is reported verbatim, never retried.
func runParser(pyFile string) ([]byte, error) {
	command := viper.GetString("parser_command")
	words, err := shellquote.Split(command)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid parser_command %q", command)
	}
	if len(words) == 0 {
		return nil, errors.New("parser_command is empty")
	}

	args := append(words[1:], pyFile)
	cmd := exec.Command(words[0], args...)
	cmd.Stderr = os.Stderr

	logger.Logger.Debugw("running IR producer", "command", command, "input", pyFile)
	out, err := cmd.Output()
	if err != nil {
		return nil, errors.Wrapf(err, "parser command %q failed for %s", command, pyFile)
	}
	return out, nil
}

// readSourceFile loads the module source for embedding when the input
// was not the .py file itself.
func readSourceFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read module source %s", path)
	}
	return string(raw), nil
}

// absInput normalizes an input path for the watcher.
func absInput(input string) (string, error) {
	if input == "-" {
		return "", errors.New("cannot watch stdin input")
	}
	return filepath.Abs(input)
}
