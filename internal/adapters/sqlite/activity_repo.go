package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/stride/internal/ports/secondary"
)

// ActivityRepository implements secondary.ActivityRepository with SQLite.
type ActivityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new SQLite daily activity repository.
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Upsert inserts a daily activity record, replacing any existing record for
// the same participant and date. Re-synced days overwrite earlier values.
func (r *ActivityRepository) Upsert(ctx context.Context, activity *secondary.DailyActivityRecord) error {
	var wear sql.NullFloat64
	if activity.WearTimeHours != nil {
		wear = sql.NullFloat64{Float64: *activity.WearTimeHours, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO daily_activity (participant_id, date, step_count, wear_time_hours)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(participant_id, date) DO UPDATE SET
		   step_count = excluded.step_count,
		   wear_time_hours = excluded.wear_time_hours,
		   recorded_at = CURRENT_TIMESTAMP`,
		activity.ParticipantID,
		activity.Date,
		activity.StepCount,
		wear,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert daily activity: %w", err)
	}

	return nil
}

// ListByParticipant retrieves all daily activity for a participant ordered
// by date ascending.
func (r *ActivityRepository) ListByParticipant(ctx context.Context, participantID string) ([]*secondary.DailyActivityRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT participant_id, date, step_count, wear_time_hours, recorded_at FROM daily_activity WHERE participant_id = ? ORDER BY date`,
		participantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily activity: %w", err)
	}
	defer rows.Close()

	return scanActivityRows(rows)
}

// ListRecent retrieves the most recent daily activity for a participant,
// newest first. A limit of zero or less returns all records.
func (r *ActivityRepository) ListRecent(ctx context.Context, participantID string, limit int) ([]*secondary.DailyActivityRecord, error) {
	query := `SELECT participant_id, date, step_count, wear_time_hours, recorded_at FROM daily_activity WHERE participant_id = ? ORDER BY date DESC`
	args := []any{participantID}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent daily activity: %w", err)
	}
	defer rows.Close()

	return scanActivityRows(rows)
}

func scanActivityRows(rows *sql.Rows) ([]*secondary.DailyActivityRecord, error) {
	var records []*secondary.DailyActivityRecord
	for rows.Next() {
		var (
			wear       sql.NullFloat64
			recordedAt time.Time
		)

		record := &secondary.DailyActivityRecord{}
		err := rows.Scan(&record.ParticipantID,
			&record.Date,
			&record.StepCount,
			&wear,
			&recordedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily activity: %w", err)
		}

		if wear.Valid {
			hours := wear.Float64
			record.WearTimeHours = &hours
		}
		record.RecordedAt = recordedAt.Format(time.RFC3339)

		records = append(records, record)
	}

	return records, nil
}

// Ensure ActivityRepository implements the interface
var _ secondary.ActivityRepository = (*ActivityRepository)(nil)
