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

// RunCmd returns the run command, the weekly evaluation batch pass.
func RunCmd() *cobra.Command {
	var (
		participantID     string
		skipNotifications bool
		dryRun            bool
		dateStr           string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate weekly step targets for enrolled participants",
		Long: `Run the weekly target evaluation pass.

For every enrolled participant (or a single one with --participant-id)
this decides whether today is their target day, aggregates the trailing
week of step data, applies the escalation matrix, persists the new
target, and dispatches the notification. Participants whose target day
is not today are counted and skipped. The pass is idempotent: a week
that already has a target is never recomputed.

Intended to run from cron every evening. Use --date to replay a past
date; the replay evaluates as an evening pass, after the fallback
cutoff hour.

Examples:
  stride run
  stride run --participant-id PART-001
  stride run --dry-run
  stride run --date 2026-01-12 --skip-notifications`,
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
				// Replays act as an evening pass, past the fallback cutoff.
				now = day.Add(18 * time.Hour)
			}

			return wire.RunAdapter().Run(ctx, primary.BatchRequest{
				ParticipantID:     participantID,
				Now:               now,
				SkipNotifications: skipNotifications,
				DryRun:            dryRun,
			})
		},
	}

	cmd.Flags().StringVarP(&participantID, "participant-id", "p", "", "Evaluate a single participant")
	cmd.Flags().BoolVar(&skipNotifications, "skip-notifications", false, "Compute and persist targets without sending notifications")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show decisions without persisting or dispatching anything")
	cmd.Flags().StringVar(&dateStr, "date", "", "Replay the pass for a past date (YYYY-MM-DD)")

	return cmd
}
