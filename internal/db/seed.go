package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development fixtures. Dates are
// anchored to today so that a seeded database always has participants due
// for evaluation: PART-001 and PART-002 hit a target day immediately, and
// PART-003 exercises the fallback paths (no data on the evaluation day).
func SeedFixtures(database *sql.DB) error {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dateKey := func(t time.Time) string { return t.Format("2006-01-02") }

	participants := []struct {
		id, email, language string
		startDaysAgo        int
	}{
		{"PART-001", "alice@example.org", "en", 56}, // eight full weeks of history
		{"PART-002", "benoit@example.org", "fr", 7}, // first target day is today
		{"PART-003", "carol@example.org", "en", 21}, // sparse recent data, no sync today
	}
	tokens := map[string]string{
		"PART-001": "7f8b7e6a-3f0d-4f4e-9168-1a2b3c4d5e6f",
		"PART-002": "0d9c8b7a-6e5f-4d3c-b2a1-9f8e7d6c5b4a",
		"PART-003": "5a4b3c2d-1e0f-4a9b-8c7d-6e5f4a3b2c1d",
	}

	for _, p := range participants {
		start := today.AddDate(0, 0, -p.startDaysAgo)
		if _, err := database.Exec(
			"INSERT INTO participants (id, email, language, start_date, device_auth_token) VALUES (?, ?, ?, ?, ?)",
			p.id, p.email, p.language, dateKey(start), tokens[p.id],
		); err != nil {
			return fmt.Errorf("seed participants: %w", err)
		}
	}

	// PART-001: complete daily history including today, steadily rising.
	// Step counts cycle through the week so averages land mid-band.
	for day := 0; day <= 56; day++ {
		date := today.AddDate(0, 0, -(56 - day))
		steps := 4000 + day*40 + (day%7)*230
		wear := 11.5
		if day%6 == 0 {
			wear = 8.0 // an underworn day each program week
		}
		if _, err := database.Exec(
			"INSERT INTO daily_activity (participant_id, date, step_count, wear_time_hours) VALUES (?, ?, ?, ?)",
			"PART-001", dateKey(date), steps, wear,
		); err != nil {
			return fmt.Errorf("seed daily_activity: %w", err)
		}
	}

	// PART-002: first program week plus a sync this morning.
	for day := 0; day <= 7; day++ {
		date := today.AddDate(0, 0, -(7 - day))
		steps := 3800 + (day%4)*320
		if _, err := database.Exec(
			"INSERT INTO daily_activity (participant_id, date, step_count) VALUES (?, ?, ?)",
			"PART-002", dateKey(date), steps,
		); err != nil {
			return fmt.Errorf("seed daily_activity: %w", err)
		}
	}

	// PART-003: device stopped syncing mid-week; two valid days in the
	// trailing window and nothing today.
	for _, daysAgo := range []int{7, 6} {
		date := today.AddDate(0, 0, -daysAgo)
		if _, err := database.Exec(
			"INSERT INTO daily_activity (participant_id, date, step_count, wear_time_hours) VALUES (?, ?, ?, ?)",
			"PART-003", dateKey(date), 6400, 12.0,
		); err != nil {
			return fmt.Errorf("seed daily_activity: %w", err)
		}
	}

	// Prior targets. PART-001 has last week's decision on record so today's
	// evaluation takes the met/missed matrices; PART-003 has a carryable
	// target two weeks back and a skipped week after it.
	targets := []struct {
		participantID, weekStart, weekEnd, step string
		newTarget                               int
		averageSteps, previousTarget            sql.NullInt64
		targetWasMet                            sql.NullBool
		method                                  string
		daysWithData                            sql.NullInt64
	}{
		{
			participantID: "PART-001",
			weekStart:     dateKey(today.AddDate(0, 0, -7)),
			weekEnd:       dateKey(today.AddDate(0, 0, -1)),
			step:          "500",
			newTarget:     6300,
			averageSteps:  sql.NullInt64{Int64: 5800, Valid: true},
			previousTarget: sql.NullInt64{
				Int64: 5600, Valid: true,
			},
			targetWasMet: sql.NullBool{Bool: true, Valid: true},
			method:       "normal",
		},
		{
			participantID:  "PART-003",
			weekStart:      dateKey(today.AddDate(0, 0, -14)),
			weekEnd:        dateKey(today.AddDate(0, 0, -8)),
			step:           "1000",
			newTarget:      7000,
			averageSteps:   sql.NullInt64{Int64: 6000, Valid: true},
			previousTarget: sql.NullInt64{},
			targetWasMet:   sql.NullBool{},
			method:         "normal",
		},
		{
			participantID:  "PART-003",
			weekStart:      dateKey(today.AddDate(0, 0, -7)),
			weekEnd:        dateKey(today.AddDate(0, 0, -1)),
			step:           "skipped_week",
			newTarget:      7000,
			averageSteps:   sql.NullInt64{},
			previousTarget: sql.NullInt64{Int64: 7000, Valid: true},
			targetWasMet:   sql.NullBool{},
			method:         "skipped_week",
			daysWithData:   sql.NullInt64{Int64: 1, Valid: true},
		},
	}
	for _, tgt := range targets {
		if _, err := database.Exec(
			`INSERT INTO weekly_targets (participant_id, week_start, week_end, escalation_step, new_target, average_steps, previous_target, target_was_met, calculation_method, days_with_data)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			tgt.participantID, tgt.weekStart, tgt.weekEnd, tgt.step, tgt.newTarget,
			tgt.averageSteps, tgt.previousTarget, tgt.targetWasMet, tgt.method, tgt.daysWithData,
		); err != nil {
			return fmt.Errorf("seed weekly_targets: %w", err)
		}
	}

	// PART-003's device token has been failing to refresh.
	if _, err := database.Exec(
		`INSERT INTO status_flags (participant_id, operation, failing, last_error, last_error_time)
		 VALUES ('PART-003', 'refresh_token', 1, 'device authorization expired', ?)`,
		now.Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("seed status_flags: %w", err)
	}

	// A healthy flag for PART-001's last calculation.
	if _, err := database.Exec(
		`INSERT INTO status_flags (participant_id, operation, failing) VALUES ('PART-001', 'target_calculation', 0)`,
	); err != nil {
		return fmt.Errorf("seed status_flags: %w", err)
	}

	// One delivered message from last week's run for PART-001.
	if _, err := database.Exec(
		`INSERT INTO message_history (participant_id, subject_line, body, language, decision_summary, delivery_succeeded)
		 VALUES ('PART-001', 'Step Count Summary and New Target', 'Your target for next week is 6300 steps per day.', 'en', ?, 1)`,
		fmt.Sprintf("%s step=500 target=6300", dateKey(today.AddDate(0, 0, -7))),
	); err != nil {
		return fmt.Errorf("seed message_history: %w", err)
	}

	return nil
}
