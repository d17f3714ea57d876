package cobra

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/attestkit/attest/internal/commands"
	"github.com/attestkit/attest/internal/config"
	"github.com/attestkit/attest/internal/fs"
)

func newAdviseCmd() *cobra.Command {
	var action string
	var contextStr string
	var input string

	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Score a planned action before taking it",
		Long: `Score a planned action against instruction principles and learned
pattern scores. Prints whether awareness is active, a confidence value,
and any violations with suggestions; exits non-zero when a principle
is violated.

--input is scanned for the activation phrase, which raises awareness
to full for this and subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			stderr := cmd.ErrOrStderr()

			fsys := fs.NewRealFS()
			cfg, err := config.Load(fsys)
			if err != nil {
				return err
			}

			opts := commands.AdviseOpts{
				Action:  action,
				Context: contextStr,
				Input:   input,
			}

			return commands.Advise(context.Background(), fsys, cfg, opts, stdout, stderr)
		},
	}

	cmd.Flags().StringVar(&action, "action", "", "the action about to be taken")
	cmd.Flags().StringVar(&contextStr, "context", "", "surrounding situation for the action")
	cmd.Flags().StringVar(&input, "input", "", "user message to scan for the activation phrase")

	return cmd
}
