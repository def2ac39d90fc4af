package main

import (
	"fmt"
	"os"

	"github.com/pyodide-bridge/bridgegen/cmd/bridgegen/cmd"
	"github.com/pyodide-bridge/bridgegen/errors"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		// Outdated artifacts are a check result, not a failure of the
		// tool itself; CI keys off the distinction.
		if errors.Is(err, errors.ErrOutdated) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
