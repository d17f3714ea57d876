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

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the environment check gate",
		Long: `Run every registered environment check and write a check report.

Checks come from checks.yaml in the data dir, or from the built-in
registry when no manifest exists. Every check runs even after a
failure; the command exits non-zero when any check failed.`,
		Args: cobra.NoArgs,
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

			return commands.Check(ctx, cr, fsys, logger, cfg, stdout, stderr)
		},
	}

	return cmd
}
