package cobra

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/attestkit/attest/internal/commands"
	"github.com/attestkit/attest/internal/config"
	"github.com/attestkit/attest/internal/fs"
)

func newLSCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List claims and their verdicts",
		Long: `List logged claims with their ids, verdicts, and proof commands.
Use --status to narrow the listing to pending, verified, or failed claims.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			stderr := cmd.ErrOrStderr()

			fsys := fs.NewRealFS()
			cfg, err := config.Load(fsys)
			if err != nil {
				return err
			}

			opts := commands.LSOpts{
				Status: status,
			}

			return commands.LS(context.Background(), fsys, cfg, opts, stdout, stderr)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status: pending, verified, or failed")

	return cmd
}
