// Package cobra provides the Cobra-based CLI command tree for attest.
package cobra

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/attestkit/attest/internal/errors"
	"github.com/attestkit/attest/internal/version"
)

// GlobalOpts holds global options parsed before subcommand dispatch.
type GlobalOpts struct {
	Verbose bool
}

// globalOpts stores the parsed global options for access by subcommands.
var globalOpts GlobalOpts

// GetGlobalOpts returns the parsed global options.
func GetGlobalOpts() GlobalOpts {
	return globalOpts
}

// logger is the process-wide diagnostic logger, built in the persistent
// pre-run hook and synced after the command finishes.
var logger *zap.Logger

// NewRootCmd creates the root cobra command for attest.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "attest",
		Short: "Claim ledger with command-based verification",
		Long: `attest - claim ledger with command-based verification

Attest records claims about system state together with the shell command
that proves them, runs those proofs on demand, and gates work behind a
configurable set of system checks. Every claim is pending until its proof
command has produced evidence.`,
		Version:       version.FullVersion(),
		SilenceErrors: true, // We handle error printing in main.go
		SilenceUsage:  true, // We handle usage printing manually
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zcfg := zap.NewProductionConfig()
			if globalOpts.Verbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = zcfg.Build()
			if err != nil {
				return errors.Wrap(errors.EInternal, "failed to initialize logger", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVar(&globalOpts.Verbose, "verbose", false, "show detailed error context and debug logs")

	// Disable Cobra's default completion command (we register our own)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add all subcommands
	rootCmd.AddCommand(
		newInitCmd(),
		newClaimCmd(),
		newLSCmd(),
		newVerifyCmd(),
		newDemandCmd(),
		newCheckCmd(),
		newReportCmd(),
		newPatternCmd(),
		newAdviseCmd(),
		newCompletionCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command with the given output writers.
// This is the main entry point from main.go.
func Execute(stdout, stderr io.Writer) error {
	rootCmd := NewRootCmd()
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.Execute()
}
