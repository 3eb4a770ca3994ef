package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/stride/internal/config"
	"github.com/example/stride/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the stride database",
		Long:  `Initialize the stride database at ~/.stride/stride.db with the required schema.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}

			fmt.Printf("Initializing stride database at %s\n", dbPath)

			// Opening runs schema init and migrations
			if _, err := db.GetDB(); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}

			fmt.Println("✓ Database initialized successfully")

			if err := initConfig(); err != nil {
				return fmt.Errorf("failed to initialize config: %w", err)
			}

			fmt.Println("✓ Config file created at ~/.stride/config.json")
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  stride enroll --email pat@example.org --start-date 2026-01-05")
			fmt.Println("  stride run")

			return nil
		},
	}
}

// initConfig writes a default config.json unless one already exists.
func initConfig() error {
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if _, err := os.Stat(filepath.Join(dir, "config.json")); err == nil {
		return nil // Already exists, skip
	}

	return config.SaveConfig(config.DefaultConfig())
}
