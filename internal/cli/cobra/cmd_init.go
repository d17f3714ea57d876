package cobra

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/attestkit/attest/internal/commands"
	"github.com/attestkit/attest/internal/config"
	"github.com/attestkit/attest/internal/fs"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the attest data dir and seed its files",
		Long: `Create the attest data dir and seed attest.json, checks.yaml, the
pattern scores and the instructions file. Existing files are never
overwritten; --force removes the whole data dir and starts over.

The data dir defaults to ~/.attest and can be moved with ATTEST_DATA_DIR.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			stderr := cmd.ErrOrStderr()

			// Resolve without reading attest.json so that a corrupt
			// config file cannot block a forced reset.
			cfg, err := config.Resolve()
			if err != nil {
				return err
			}
			fsys := fs.NewRealFS()

			opts := commands.InitOpts{
				Force: force,
			}

			return commands.Init(context.Background(), fsys, cfg, opts, stdout, stderr)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "reset the data dir before scaffolding")

	return cmd
}
