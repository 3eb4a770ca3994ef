package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/stride/internal/ports/secondary"
)

// RunLogRepository implements secondary.RunLogWriter and
// secondary.RunLogRepository with SQLite.
type RunLogRepository struct {
	db *sql.DB
}

// NewRunLogRepository creates a new SQLite run log repository.
func NewRunLogRepository(db *sql.DB) *RunLogRepository {
	return &RunLogRepository{db: db}
}

// LogOutcome records one participant's outcome within a run.
func (r *RunLogRepository) LogOutcome(ctx context.Context, entry *secondary.RunLogRecord) error {
	return r.insert(ctx, entry)
}

// LogSummary records the closing summary line of a run.
func (r *RunLogRepository) LogSummary(ctx context.Context, entry *secondary.RunLogRecord) error {
	return r.insert(ctx, entry)
}

func (r *RunLogRepository) insert(ctx context.Context, entry *secondary.RunLogRecord) error {
	var participantID, detail sql.NullString
	if entry.ParticipantID != "" {
		participantID = sql.NullString{String: entry.ParticipantID, Valid: true}
	}
	if entry.Detail != "" {
		detail = sql.NullString{String: entry.Detail, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO run_log (run_id, run_date, participant_id, status, detail) VALUES (?, ?, ?, ?, ?)`,
		entry.RunID,
		entry.RunDate,
		participantID,
		entry.Status,
		detail,
	)
	if err != nil {
		return fmt.Errorf("failed to write run log entry: %w", err)
	}

	return nil
}

// ListRecent retrieves run log entries, newest first. A limit of zero or
// less returns all entries.
func (r *RunLogRepository) ListRecent(ctx context.Context, limit int) ([]*secondary.RunLogRecord, error) {
	query := `SELECT id, run_id, run_date, participant_id, status, detail, created_at FROM run_log ORDER BY id DESC`
	args := []any{}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list run log entries: %w", err)
	}
	defer rows.Close()

	return scanRunLogRows(rows)
}

// ListByRun retrieves all entries of one run in insertion order.
func (r *RunLogRepository) ListByRun(ctx context.Context, runID string) ([]*secondary.RunLogRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, run_id, run_date, participant_id, status, detail, created_at FROM run_log WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list run log entries: %w", err)
	}
	defer rows.Close()

	return scanRunLogRows(rows)
}

func scanRunLogRows(rows *sql.Rows) ([]*secondary.RunLogRecord, error) {
	var entries []*secondary.RunLogRecord
	for rows.Next() {
		var (
			participantID sql.NullString
			detail        sql.NullString
			createdAt     time.Time
		)

		record := &secondary.RunLogRecord{}
		err := rows.Scan(&record.ID,
			&record.RunID,
			&record.RunDate,
			&participantID,
			&record.Status,
			&detail,
			&createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run log entry: %w", err)
		}

		record.ParticipantID = participantID.String
		record.Detail = detail.String
		record.CreatedAt = createdAt.Format(time.RFC3339)

		entries = append(entries, record)
	}

	return entries, nil
}

// Ensure RunLogRepository implements the interfaces
var _ secondary.RunLogWriter = (*RunLogRepository)(nil)
var _ secondary.RunLogRepository = (*RunLogRepository)(nil)
