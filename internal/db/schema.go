package db

// SchemaSQL is the complete modern schema for fresh stride installs.
// This schema reflects the current state after all migrations.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests use
// this schema via GetSchemaSQL(): if repository code references a column
// that does not exist here, tests fail immediately with "no such column",
// which catches drift at development time instead of in production.
//
// When adding new columns or tables:
//  1. Add a migration in internal/db/migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Participants (program enrollment; start_date anchors all week keys)
CREATE TABLE IF NOT EXISTS participants (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	language TEXT NOT NULL CHECK(language IN ('en', 'fr')) DEFAULT 'en',
	start_date TEXT NOT NULL,
	device_auth_token TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Daily activity (written by ingestion, read by evaluation)
CREATE TABLE IF NOT EXISTS daily_activity (
	participant_id TEXT NOT NULL,
	date TEXT NOT NULL,
	step_count INTEGER NOT NULL CHECK(step_count >= 0),
	wear_time_hours REAL,
	recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (participant_id, date),
	FOREIGN KEY (participant_id) REFERENCES participants(id)
);

-- Weekly targets (the run ledger; one row per evaluated week, upserted
-- in place on re-runs, never deleted)
CREATE TABLE IF NOT EXISTS weekly_targets (
	participant_id TEXT NOT NULL,
	week_start TEXT NOT NULL,
	week_end TEXT NOT NULL,
	escalation_step TEXT NOT NULL,
	new_target INTEGER NOT NULL,
	average_steps INTEGER,
	previous_target INTEGER,
	target_was_met INTEGER,
	calculation_method TEXT NOT NULL CHECK(calculation_method IN ('', 'normal', 'partial_data', 'skipped_week')) DEFAULT '',
	days_with_data INTEGER,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (participant_id, week_start),
	FOREIGN KEY (participant_id) REFERENCES participants(id)
);

-- Status flags (one row per participant and operation; reflects the most
-- recent attempt, cleared on the next success)
CREATE TABLE IF NOT EXISTS status_flags (
	participant_id TEXT NOT NULL,
	operation TEXT NOT NULL,
	failing INTEGER NOT NULL DEFAULT 0,
	last_error TEXT,
	last_error_time DATETIME,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (participant_id, operation),
	FOREIGN KEY (participant_id) REFERENCES participants(id)
);

-- Message history (append-only notification audit)
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
);

-- Run log (batch pass audit trail)
CREATE TABLE IF NOT EXISTS run_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	run_date TEXT NOT NULL,
	participant_id TEXT,
	status TEXT NOT NULL,
	detail TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Create indexes for common queries
CREATE INDEX IF NOT EXISTS idx_participants_email ON participants(email);
CREATE INDEX IF NOT EXISTS idx_daily_activity_date ON daily_activity(participant_id, date DESC);
CREATE INDEX IF NOT EXISTS idx_weekly_targets_week ON weekly_targets(participant_id, week_start DESC);
CREATE INDEX IF NOT EXISTS idx_status_flags_failing ON status_flags(failing);
CREATE INDEX IF NOT EXISTS idx_message_history_participant ON message_history(participant_id, sent_at DESC);
CREATE INDEX IF NOT EXISTS idx_run_log_run ON run_log(run_id);
CREATE INDEX IF NOT EXISTS idx_run_log_created ON run_log(created_at DESC);
`

// InitSchema creates the database schema
func InitSchema() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount == 0 {
		// No version bookkeeping yet - check for a pre-versioning install
		var legacyCount int
		err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='participants'").Scan(&legacyCount)
		if err != nil {
			return err
		}

		if legacyCount > 0 {
			// Legacy install - bring it forward through the migrations
			return RunMigrations()
		}

		// Completely fresh install - create the modern schema directly and
		// mark every migration as applied so they never run.
		_, err = db.Exec(SchemaSQL)
		if err != nil {
			return err
		}
		_, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY,
				applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`)
		if err != nil {
			return err
		}
		for _, m := range migrations {
			_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version)
			if err != nil {
				return err
			}
		}
		return nil
	}

	// schema_version table exists - run any pending migrations
	return RunMigrations()
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
