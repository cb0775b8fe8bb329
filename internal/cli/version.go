package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutu-network/reimburse/internal/api"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "reimbursectl %s\n", api.Version)
			return nil
		},
	}
}
