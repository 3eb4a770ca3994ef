package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/stride/internal/wire"
)

// HistoryCmd returns the history command.
func HistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [participant-id]",
		Short: "Show a participant's notification history",
		Long: `Show the notifications sent to a participant, newest first,
including the decision summary each one carried and any delivery error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := ValidateParticipantID(id); err != nil {
				return err
			}
			return wire.ParticipantAdapter().History(context.Background(), id, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum notifications to show (0 for all)")

	return cmd
}
