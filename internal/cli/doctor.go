package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/stride/internal/config"
	"github.com/example/stride/internal/db"
	"github.com/example/stride/internal/version"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate stride environment",
		Long: `Environment health check for stride.

Validates:
- Directory structure (~/.stride/)
- Database file presence
- Config file parses and holds sane values
- Notification transport (SMTP env or console fallback)
- Binary installation and PATH

Examples:
  stride doctor              # Run full health check
  stride doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			results := []CheckResult{}
			hasErrors := false

			// Run all checks
			results = append(results, checkStrideDir())
			results = append(results, checkDatabase())
			results = append(results, checkConfig())
			results = append(results, checkNotifications())
			results = append(results, checkBinary())

			// Check for errors
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				// Print compact table
				fmt.Println()
				fmt.Println("Check              Status")
				fmt.Println("─────────────────────────")
				for _, r := range results {
					fmt.Printf("%-18s %s\n", r.Name, r.Status)
				}
				fmt.Println()

				// Print details for non-passing checks
				hasDetails := false
				for _, r := range results {
					if r.Status != "✓" && r.Details != "" {
						if !hasDetails {
							fmt.Println("Details:")
							hasDetails = true
						}
						fmt.Printf("\n%s:\n%s\n", r.Name, r.Details)
					}
				}

				if hasErrors {
					fmt.Println("\n⚠ Issues found. Run 'stride init' to set up the environment.")
				} else {
					fmt.Println("All checks passed.")
				}
			}

			if hasErrors {
				return fmt.Errorf("environment validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}

// checkStrideDir validates the ~/.stride directory exists
func checkStrideDir() CheckResult {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return CheckResult{Name: "Directories", Status: "✗", Details: "  Cannot get home directory"}
	}

	strideDir := filepath.Join(homeDir, ".stride")
	if _, err := os.Stat(strideDir); os.IsNotExist(err) {
		return CheckResult{
			Name:    "Directories",
			Status:  "✗",
			Details: "  Missing: ~/.stride/\n  Run: stride init",
		}
	}

	return CheckResult{Name: "Directories", Status: "✓"}
}

// checkDatabase validates the database file without opening it
func checkDatabase() CheckResult {
	dbPath, err := db.GetDBPath()
	if err != nil {
		return CheckResult{Name: "Database", Status: "✗", Details: "  " + err.Error()}
	}

	info, err := os.Stat(dbPath)
	if os.IsNotExist(err) {
		return CheckResult{
			Name:    "Database",
			Status:  "✗",
			Details: fmt.Sprintf("  Not found: %s\n  Run: stride init", dbPath),
		}
	}
	if err != nil {
		return CheckResult{Name: "Database", Status: "✗", Details: "  " + err.Error()}
	}

	return CheckResult{Name: "Database", Status: "✓", Details: fmt.Sprintf("  %s (%d KB)", dbPath, info.Size()/1024)}
}

// checkConfig validates config.json parses and holds sane values
func checkConfig() CheckResult {
	cfg, err := config.LoadConfig()
	if err != nil {
		return CheckResult{
			Name:    "Config",
			Status:  "✗",
			Details: "  " + err.Error(),
		}
	}

	if cfg.FallbackCutoffHour < 0 || cfg.FallbackCutoffHour > 23 {
		return CheckResult{
			Name:    "Config",
			Status:  "✗",
			Details: fmt.Sprintf("  fallback_cutoff_hour %d out of range 0-23", cfg.FallbackCutoffHour),
		}
	}

	if cfg.DefaultLanguage != "en" && cfg.DefaultLanguage != "fr" {
		return CheckResult{
			Name:    "Config",
			Status:  "⚠",
			Details: fmt.Sprintf("  default_language %q is not a supported notification language (en, fr)", cfg.DefaultLanguage),
		}
	}

	return CheckResult{Name: "Config", Status: "✓"}
}

// checkNotifications reports which notification transport will be used
func checkNotifications() CheckResult {
	smtpCfg, err := config.LoadSMTPFromEnv()
	if err != nil {
		return CheckResult{
			Name:    "Notifications",
			Status:  "✗",
			Details: "  " + err.Error(),
		}
	}

	if !smtpCfg.Enabled() {
		return CheckResult{
			Name:    "Notifications",
			Status:  "⚠",
			Details: "  STRIDE_SMTP_HOST not set - notifications render to console\n  Fine for development; set SMTP env vars in production",
		}
	}

	return CheckResult{Name: "Notifications", Status: "✓", Details: fmt.Sprintf("  SMTP via %s:%d", smtpCfg.Host, smtpCfg.Port)}
}

// checkBinary validates stride binary installation
func checkBinary() CheckResult {
	stridePath, err := exec.LookPath("stride")
	if err != nil {
		return CheckResult{
			Name:    "Binary",
			Status:  "⚠",
			Details: "  'stride' not found in PATH\n  Run: make install",
		}
	}

	return CheckResult{Name: "Binary", Status: "✓", Details: fmt.Sprintf("  %s (%s)", stridePath, version.String())}
}
