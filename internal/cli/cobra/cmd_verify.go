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

func newVerifyCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "verify [ref]",
		Short: "Execute a claim's proof command and record the verdict",
		Long: `Execute a claim's proof command and record the verdict.

Arguments:
  ref    claim id, or "last" for the most recent claim

With --all, every claim without a verdict is verified and totals are
printed; claims that already have one are skipped. A proof passes when
it exits zero and prints non-empty output.`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) != 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			fsys := fs.NewRealFS()
			cfg, err := config.Load(fsys)
			if err != nil {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return commands.ClaimRefs(fsys, cfg), cobra.ShellCompDirectiveNoFileComp
		},
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

			var ref string
			if len(args) == 1 {
				ref = args[0]
			}

			opts := commands.VerifyOpts{
				Ref: ref,
				All: all,
			}

			return commands.Verify(ctx, cr, fsys, logger, cfg, opts, stdout, stderr)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "verify every claim without a verdict")

	return cmd
}
