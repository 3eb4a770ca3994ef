package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/stride/internal/wire"
)

// ParticipantCmd returns the participant command group.
func ParticipantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "participant",
		Short: "Inspect enrolled participants",
		Long:  `List participants and inspect their targets, activity, and flags.`,
	}

	cmd.AddCommand(participantListCmd())
	cmd.AddCommand(participantShowCmd())

	return cmd
}

func participantListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all enrolled participants",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ParticipantAdapter().List(context.Background())
		},
	}
}

func participantShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [participant-id]",
		Short: "Show a participant's targets, flags, and recent activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := ValidateParticipantID(id); err != nil {
				return err
			}
			return wire.ParticipantAdapter().Show(context.Background(), id)
		},
	}
}
