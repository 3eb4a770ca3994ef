package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.DB) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "initial_program_schema",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_wear_time_to_daily_activity",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_fallback_metadata_to_weekly_targets",
		Up:      migrationV3,
	},
	{
		Version: 4,
		Name:    "add_run_log_table",
		Up:      migrationV4,
	},
}

// RunMigrations executes all pending migrations
func RunMigrations() error {
	db, err := GetDB()
	if err != nil {
		return fmt.Errorf("failed to get database: %w", err)
	}

	// Create schema_version table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	// Get current schema version
	var currentVersion int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	// Run pending migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		fmt.Printf("Running migration %d: %s\n", migration.Version, migration.Name)

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(db); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		_, err = tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		fmt.Printf("✓ Migration %d completed\n", migration.Version)
	}

	return nil
}

// migrationV1 creates the original program tables. The first deployment
// predates wear-time readings, the fallback policy, and the run log.
func migrationV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS participants (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			language TEXT NOT NULL CHECK(language IN ('en', 'fr')) DEFAULT 'en',
			start_date TEXT NOT NULL,
			device_auth_token TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create participants: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS daily_activity (
			participant_id TEXT NOT NULL,
			date TEXT NOT NULL,
			step_count INTEGER NOT NULL CHECK(step_count >= 0),
			recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (participant_id, date),
			FOREIGN KEY (participant_id) REFERENCES participants(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create daily_activity: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS weekly_targets (
			participant_id TEXT NOT NULL,
			week_start TEXT NOT NULL,
			week_end TEXT NOT NULL,
			escalation_step TEXT NOT NULL,
			new_target INTEGER NOT NULL,
			average_steps INTEGER,
			previous_target INTEGER,
			target_was_met INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (participant_id, week_start),
			FOREIGN KEY (participant_id) REFERENCES participants(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create weekly_targets: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS status_flags (
			participant_id TEXT NOT NULL,
			operation TEXT NOT NULL,
			failing INTEGER NOT NULL DEFAULT 0,
			last_error TEXT,
			last_error_time DATETIME,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (participant_id, operation),
			FOREIGN KEY (participant_id) REFERENCES participants(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create status_flags: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS message_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			participant_id TEXT NOT NULL,
			sent_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			subject_line TEXT NOT NULL,
			body TEXT NOT NULL,
			language TEXT NOT NULL,
			decision_summary TEXT,
			delivery_succeeded INTEGER NOT NULL,
			error_message TEXT,
			FOREIGN KEY (participant_id) REFERENCES participants(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create message_history: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_participants_email ON participants(email)",
		"CREATE INDEX IF NOT EXISTS idx_daily_activity_date ON daily_activity(participant_id, date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_weekly_targets_week ON weekly_targets(participant_id, week_start DESC)",
		"CREATE INDEX IF NOT EXISTS idx_status_flags_failing ON status_flags(failing)",
		"CREATE INDEX IF NOT EXISTS idx_message_history_participant ON message_history(participant_id, sent_at DESC)",
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// migrationV2 adds the wear-time column used by the aggregator's
// device-was-worn rule. Existing rows stay NULL and pass the rule.
func migrationV2(db *sql.DB) error {
	_, err := db.Exec("ALTER TABLE daily_activity ADD COLUMN wear_time_hours REAL")
	if err != nil {
		return fmt.Errorf("failed to add wear_time_hours: %w", err)
	}
	return nil
}

// migrationV3 adds the fallback metadata columns. Rows written before the
// fallback policy existed keep an empty calculation_method.
func migrationV3(db *sql.DB) error {
	_, err := db.Exec("ALTER TABLE weekly_targets ADD COLUMN calculation_method TEXT NOT NULL CHECK(calculation_method IN ('', 'normal', 'partial_data', 'skipped_week')) DEFAULT ''")
	if err != nil {
		return fmt.Errorf("failed to add calculation_method: %w", err)
	}

	_, err = db.Exec("ALTER TABLE weekly_targets ADD COLUMN days_with_data INTEGER")
	if err != nil {
		return fmt.Errorf("failed to add days_with_data: %w", err)
	}

	return nil
}

// migrationV4 adds the batch audit trail.
func migrationV4(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS run_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			run_date TEXT NOT NULL,
			participant_id TEXT,
			status TEXT NOT NULL,
			detail TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create run_log: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_run_log_run ON run_log(run_id)",
		"CREATE INDEX IF NOT EXISTS idx_run_log_created ON run_log(created_at DESC)",
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("failed to create run_log index: %w", err)
		}
	}

	return nil
}
