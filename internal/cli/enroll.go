package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/stride/internal/wire"
)

// EnrollCmd returns the enroll command.
func EnrollCmd() *cobra.Command {
	var (
		email     string
		startDate string
		language  string
	)

	cmd := &cobra.Command{
		Use:   "enroll",
		Short: "Enroll a new participant",
		Long: `Enroll a participant into the program.

The start date anchors everything: the weekday it falls on becomes the
participant's target day for the life of the program, and every week
boundary is counted from it. It cannot be changed after enrollment.

Examples:
  stride enroll --email pat@example.org --start-date 2026-01-05
  stride enroll --email remy@example.org --start-date 2026-01-07 --language fr`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			return wire.ParticipantAdapter().Enroll(ctx, email, startDate, language)
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Participant email (required)")
	cmd.Flags().StringVarP(&startDate, "start-date", "s", "", "Program start date, YYYY-MM-DD (required)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Notification language: en or fr (default from config)")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("start-date")

	return cmd
}
