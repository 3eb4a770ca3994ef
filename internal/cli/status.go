package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/stride/internal/wire"
)

// StatusCmd returns the status command, the operator health dashboard.
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show failing operations across all participants",
		Long: `Show every participant operation that is currently failing.

Each participant carries one flag per operation (data fetch, token
refresh, target calculation, notification delivery, device sync).
Flags clear themselves on the next success, so this table is always
the current picture: an empty table means nobody needs chasing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ParticipantAdapter().Dashboard(context.Background())
		},
	}
}
