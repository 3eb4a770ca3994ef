package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/stride/internal/core/schedule"
	"github.com/example/stride/internal/ports/primary"
	"github.com/example/stride/internal/wire"
)

// SyncCheckCmd returns the sync-check command, the midday device
// monitoring pass.
func SyncCheckCmd() *cobra.Command {
	var (
		participantID string
		dryRun        bool
		dateStr       string
	)

	cmd := &cobra.Command{
		Use:   "sync-check",
		Short: "Flag participants whose device has not synced on their target day",
		Long: `Check that participants whose target day is today already have a step
record for today.

The evening run can only compute a target from data that made it off
the device. This pass runs around noon and raises the device_sync
status flag for anyone on their target day with no data yet, giving
staff the afternoon to chase a charger or a sync. The flag is raised
at most once per day and clears itself as soon as data arrives.

Examples:
  stride sync-check
  stride sync-check --participant-id PART-002
  stride sync-check --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if err := ValidateParticipantID(participantID); err != nil {
				return err
			}

			var now time.Time
			if dateStr != "" {
				day, err := schedule.ParseDate(dateStr)
				if err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
				now = day.Add(12 * time.Hour)
			}

			return wire.RunAdapter().CheckSync(ctx, primary.SyncCheckRequest{
				ParticipantID: participantID,
				Now:           now,
				DryRun:        dryRun,
			})
		},
	}

	cmd.Flags().StringVarP(&participantID, "participant-id", "p", "", "Check a single participant")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report missing data without raising flags")
	cmd.Flags().StringVar(&dateStr, "date", "", "Replay the check for a past date (YYYY-MM-DD)")

	return cmd
}
