package cobra

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/attestkit/attest/internal/commands"
	"github.com/attestkit/attest/internal/config"
	"github.com/attestkit/attest/internal/exec"
	"github.com/attestkit/attest/internal/fs"
)

func newDemandCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demand <text>",
		Short: "Log a claim with a proof derived from its text",
		Long: `Log a claim whose proof command is derived from the claim text by
the built-in match table, then verify it immediately.

Arguments:
  text    the claim being made, e.g. "the server is running"

Text that matches no rule is rejected and nothing is logged; state the
claim with an explicit proof via attest claim instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			stderr := cmd.ErrOrStderr()

			fsys := fs.NewRealFS()
			cfg, err := config.Load(fsys)
			if err != nil {
				return err
			}

			cr := exec.NewRealRunner()

			// Set up cancellation context for user SIGINT
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			// Handle SIGINT for cancellation
			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, os.Interrupt)
				<-sigCh
				cancel()
			}()

			opts := commands.DemandOpts{
				Text: args[0],
			}

			return commands.Demand(ctx, cr, fsys, logger, cfg, opts, stdout, stderr)
		},
	}

	return cmd
}
