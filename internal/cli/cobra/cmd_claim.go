package cobra

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/attestkit/attest/internal/commands"
	"github.com/attestkit/attest/internal/config"
	"github.com/attestkit/attest/internal/fs"
)

func newClaimCmd() *cobra.Command {
	var proof string
	var expect string

	cmd := &cobra.Command{
		Use:   "claim <text>",
		Short: "Log a claim with its proof command",
		Long: `Log a claim together with the shell command that proves it.

Arguments:
  text    the claim being made, e.g. "all tests pass"

The claim starts out pending; run attest verify to execute the proof.
A proof counts as passed when it exits zero and prints non-empty output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			stderr := cmd.ErrOrStderr()

			fsys := fs.NewRealFS()
			cfg, err := config.Load(fsys)
			if err != nil {
				return err
			}

			opts := commands.ClaimOpts{
				Text:   args[0],
				Proof:  proof,
				Expect: expect,
			}

			return commands.Claim(context.Background(), fsys, cfg, opts, stdout, stderr)
		},
	}

	cmd.Flags().StringVar(&proof, "proof", "", "shell command that proves the claim")
	cmd.Flags().StringVar(&expect, "expect", "", "description of the expected result")

	return cmd
}
