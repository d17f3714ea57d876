package cobra

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/attestkit/attest/internal/commands"
	"github.com/attestkit/attest/internal/config"
	"github.com/attestkit/attest/internal/errors"
	"github.com/attestkit/attest/internal/fs"
)

func newPatternCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pattern",
		Short: "Inspect and train behavior pattern scores",
		Long: `Inspect and train behavior pattern scores.

A pattern maps an (action, context) pair to a success score between 0
and 1. Scores move with every observed outcome and feed the confidence
computed by attest advise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.EUsage, "specify a subcommand: attest pattern <score|observe>")
		},
	}

	cmd.AddCommand(newPatternScoreCmd())
	cmd.AddCommand(newPatternObserveCmd())

	return cmd
}

func newPatternScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <action> [context]",
		Short: "Print the stored score for an action",
		Long: `Print the stored success score for an action in a context.

Arguments:
  action     what is being attempted, e.g. "create new script"
  context    optional surrounding situation

Pairs that were never observed score 0.50.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			stderr := cmd.ErrOrStderr()

			fsys := fs.NewRealFS()
			cfg, err := config.Load(fsys)
			if err != nil {
				return err
			}

			opts := commands.PatternScoreOpts{
				Action: args[0],
			}
			if len(args) == 2 {
				opts.Context = args[1]
			}

			return commands.PatternScore(context.Background(), fsys, cfg, opts, stdout, stderr)
		},
	}

	return cmd
}

func newPatternObserveCmd() *cobra.Command {
	var success bool
	var failure bool

	cmd := &cobra.Command{
		Use:   "observe <action> [context]",
		Short: "Record an outcome and move the score",
		Long: `Record the outcome of an action and move its pattern score.

Arguments:
  action     what was attempted
  context    optional surrounding situation

Exactly one of --success or --failure is required.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			stderr := cmd.ErrOrStderr()

			fsys := fs.NewRealFS()
			cfg, err := config.Load(fsys)
			if err != nil {
				return err
			}

			opts := commands.PatternObserveOpts{
				Action:  args[0],
				Success: success,
				Failure: failure,
			}
			if len(args) == 2 {
				opts.Context = args[1]
			}

			return commands.PatternObserve(context.Background(), fsys, cfg, opts, stdout, stderr)
		},
	}

	cmd.Flags().BoolVar(&success, "success", false, "the action succeeded")
	cmd.Flags().BoolVar(&failure, "failure", false, "the action failed")

	return cmd
}
