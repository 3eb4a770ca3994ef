package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/stride/internal/db"
)

// DevCmd returns the dev command group for development utilities.
func DevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Development utilities (use via stride-dev shim)",
		Long: `Development utilities for working with the stride dev database.

These commands are intended to be run via the stride-dev shim, which
sets STRIDE_DB_PATH to ~/.stride/dev.db. Running without the shim will
error to prevent accidental modification of the production database.`,
	}

	cmd.AddCommand(devResetCmd())
	cmd.AddCommand(devSeedCmd())
	return cmd
}

func devResetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset dev database with fresh fixtures",
		Long: `Delete the dev database and recreate it with fixture data.

This command:
1. Deletes the existing dev database file
2. Creates a fresh database with the current schema
3. Seeds fixture data anchored to today's date

Safety: This command requires STRIDE_DB_PATH to be set (via stride-dev
shim) to prevent accidental reset of the production database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Safety check: require STRIDE_DB_PATH to be set
			dbPath := os.Getenv("STRIDE_DB_PATH")
			if dbPath == "" {
				return fmt.Errorf("STRIDE_DB_PATH not set - use 'stride-dev dev reset' instead of 'stride dev reset'\n\nThis safety check prevents accidental reset of your production database")
			}

			// Confirmation unless --force
			if !force {
				fmt.Printf("This will delete and recreate: %s\n", dbPath)
				fmt.Print("Continue? [y/N] ")
				var response string
				fmt.Scanln(&response)
				if response != "y" && response != "Y" {
					fmt.Println("Aborted.")
					return nil
				}
			}

			// Close any existing DB connection
			db.Close()

			// Delete existing database
			if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to delete database: %w", err)
			}
			fmt.Printf("✓ Deleted %s\n", dbPath)

			// Create fresh database with schema
			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to create database: %w", err)
			}
			fmt.Println("✓ Created fresh database with schema")

			// Seed fixtures
			if err := db.SeedFixtures(database); err != nil {
				return fmt.Errorf("failed to seed fixtures: %w", err)
			}
			fmt.Println("✓ Seeded fixture data")

			fmt.Println("\nDev database reset complete!")
			fmt.Println("\nSeeded entities:")
			fmt.Println("  - 3 participants (PART-001 en, PART-002 fr, PART-003 en)")
			fmt.Println("  - ~70 daily activity records anchored to today")
			fmt.Println("  - 3 prior weekly targets")
			fmt.Println("  - 2 status flags (1 failing)")
			fmt.Println("  - 1 delivered notification")
			fmt.Println("\nPART-001 and PART-002 hit a target day today; PART-003 has no sync today.")

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}

func devSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed fixtures into the existing dev database",
		Long: `Seed fixture data into the dev database without deleting it.

Fails on a database that already holds the fixture participants; use
'stride-dev dev reset' for a clean slate.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if os.Getenv("STRIDE_DB_PATH") == "" {
				return fmt.Errorf("STRIDE_DB_PATH not set - use 'stride-dev dev seed' instead of 'stride dev seed'\n\nThis safety check prevents accidental writes to your production database")
			}

			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}

			if err := db.SeedFixtures(database); err != nil {
				return fmt.Errorf("failed to seed fixtures: %w", err)
			}

			fmt.Println("✓ Seeded fixture data")
			return nil
		},
	}
}
