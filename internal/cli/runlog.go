package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/stride/internal/wire"
)

// RunLogCmd returns the runlog command, the batch audit trail viewer.
func RunLogCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runlog",
		Short: "Show the batch audit trail",
		Long: `Show recent batch pass entries, newest first.

Every run and sync-check pass writes one line per participant outcome
plus a closing summary line, so this answers "did last night's pass
run, and what did it decide?"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			entries, err := wire.RunLogService().RecentRuns(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to fetch run log: %w", err)
			}

			if len(entries) == 0 {
				fmt.Println("No batch passes recorded yet.")
				fmt.Println()
				fmt.Println("Run the evaluation pass:")
				fmt.Println("  stride run")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "WHEN\tRUN\tPARTICIPANT\tSTATUS\tDETAIL")
			fmt.Fprintln(w, "----\t---\t-----------\t------\t------")
			for _, e := range entries {
				participant := e.ParticipantID
				if participant == "" {
					participant = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					e.CreatedAt, shortRun(e.RunID), participant, e.Status, e.Detail)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")

	return cmd
}

// shortRun trims a run UUID to its first group for table display.
func shortRun(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
