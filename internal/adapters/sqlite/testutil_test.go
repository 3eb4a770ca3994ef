// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/stride/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository tests.
// Uses db.GetSchemaSQL() to prevent test schemas from drifting.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	// Use the authoritative schema from schema.go
	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedParticipant inserts a test participant and returns its ID.
func seedParticipant(t *testing.T, db *sql.DB, id, email string) string {
	t.Helper()
	if id == "" {
		id = "PART-001"
	}
	if email == "" {
		email = id + "@example.org"
	}
	_, err := db.Exec("INSERT INTO participants (id, email, language, start_date) VALUES (?, ?, 'en', '2026-01-05')", id, email)
	if err != nil {
		t.Fatalf("failed to seed participant: %v", err)
	}
	return id
}

// seedActivity inserts a daily activity row for a participant.
func seedActivity(t *testing.T, db *sql.DB, participantID, date string, steps int) {
	t.Helper()
	_, err := db.Exec("INSERT INTO daily_activity (participant_id, date, step_count) VALUES (?, ?, ?)", participantID, date, steps)
	if err != nil {
		t.Fatalf("failed to seed daily activity: %v", err)
	}
}

// seedTarget inserts a weekly target row for a participant.
func seedTarget(t *testing.T, db *sql.DB, participantID, weekStart, step string, newTarget int) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO weekly_targets (participant_id, week_start, week_end, escalation_step, new_target, calculation_method) VALUES (?, ?, '', ?, ?, 'normal')",
		participantID, weekStart, step, newTarget,
	)
	if err != nil {
		t.Fatalf("failed to seed weekly target: %v", err)
	}
}
