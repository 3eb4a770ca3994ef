package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/stride/internal/cli"
	"github.com/example/stride/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "stride",
		Short:   "stride - weekly step target engine for activity programs",
		Version: version.String(),
		Long: `stride computes weekly step targets for physical-activity program
participants. It aggregates each participant's trailing week of device
data, applies the escalation matrix to pick the next target, and sends
the notification - with fallback decisions when devices go quiet.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())
	rootCmd.AddCommand(cli.RunCmd())
	rootCmd.AddCommand(cli.SyncCheckCmd())
	rootCmd.AddCommand(cli.EnrollCmd())
	rootCmd.AddCommand(cli.ParticipantCmd())
	rootCmd.AddCommand(cli.IngestCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.HistoryCmd())
	rootCmd.AddCommand(cli.RunLogCmd())

	// Developer tools
	rootCmd.AddCommand(cli.DevCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
