package cli

import (
	"github.com/spf13/cobra"

	"github.com/stationops/shareclean/internal/update"
)

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update shareclean itself",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Best effort and silent on failure
			_ = update.Run(cmd.Context())
			return nil
		},
	}
}
