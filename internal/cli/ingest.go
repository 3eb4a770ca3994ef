package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/stride/internal/wire"
)

// IngestCmd returns the ingest command for loading device exports.
func IngestCmd() *cobra.Command {
	var participantID string

	cmd := &cobra.Command{
		Use:   "ingest [file.json]",
		Short: "Import daily step records from a device export",
		Long: `Import daily step records from a JSON device export.

The file is either a bare array of day entries or an object wrapping
one under "activities-steps" or "days". Each entry names a date and a
step value; wear time is optional. Records merge by date, so re-running
an export or ingesting overlapping windows is safe: the latest value
for a day wins.

Examples:
  stride ingest export.json --participant-id PART-001
  stride ingest week-02.json -p PART-002`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if err := ValidateParticipantID(participantID); err != nil {
				return err
			}

			payload, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read export file: %w", err)
			}

			result, err := wire.ActivityService().ImportActivity(ctx, participantID, payload)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			fmt.Printf("✓ Imported %d daily records for %s\n", result.Imported, result.ParticipantID)
			if result.Skipped > 0 {
				fmt.Printf("  (%d malformed entries skipped)\n", result.Skipped)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&participantID, "participant-id", "p", "", "Participant the export belongs to (required)")
	cmd.MarkFlagRequired("participant-id")

	return cmd
}
