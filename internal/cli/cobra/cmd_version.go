package cobra

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/attestkit/attest/internal/version"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print attest version",
		Long:  "Print the attest version string.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "attest %s\n", version.FullVersion())
		},
	}

	return cmd
}
