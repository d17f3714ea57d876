// Command attest is a claim ledger with command-based verification.
package main

import (
	"os"

	"github.com/attestkit/attest/internal/cli/cobra"
	"github.com/attestkit/attest/internal/errors"
)

func main() {
	err := cobra.Execute(os.Stdout, os.Stderr)
	if err != nil {
		// Use verbose mode if --verbose global flag was set
		opts := errors.PrintOptions{
			Verbose: cobra.GetGlobalOpts().Verbose,
		}
		errors.PrintWithOptions(os.Stderr, err, opts)
		os.Exit(errors.ExitCode(err))
	}
}
