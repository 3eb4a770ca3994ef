package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/stride/internal/ports/secondary"
)

// StatusRepository implements secondary.StatusRepository with SQLite.
type StatusRepository struct {
	db *sql.DB
}

// NewStatusRepository creates a new SQLite status flag repository.
func NewStatusRepository(db *sql.DB) *StatusRepository {
	return &StatusRepository{db: db}
}

// SetFailure marks an operation as failing for a participant, recording the
// error message and when it happened.
func (r *StatusRepository) SetFailure(ctx context.Context, participantID, operation, message, at string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO status_flags (participant_id, operation, failing, last_error, last_error_time)
		 VALUES (?, ?, 1, ?, ?)
		 ON CONFLICT(participant_id, operation) DO UPDATE SET
		   failing = 1,
		   last_error = excluded.last_error,
		   last_error_time = excluded.last_error_time,
		   updated_at = CURRENT_TIMESTAMP`,
		participantID, operation, message, at,
	)
	if err != nil {
		return fmt.Errorf("failed to set failure flag: %w", err)
	}

	return nil
}

// ClearFailure marks an operation as healthy for a participant. The last
// error details are preserved for inspection.
func (r *StatusRepository) ClearFailure(ctx context.Context, participantID, operation string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO status_flags (participant_id, operation, failing)
		 VALUES (?, ?, 0)
		 ON CONFLICT(participant_id, operation) DO UPDATE SET
		   failing = 0,
		   updated_at = CURRENT_TIMESTAMP`,
		participantID, operation,
	)
	if err != nil {
		return fmt.Errorf("failed to clear failure flag: %w", err)
	}

	return nil
}

// Get retrieves the flag for a participant and operation. Returns nil when
// the operation has never been recorded for that participant.
func (r *StatusRepository) Get(ctx context.Context, participantID, operation string) (*secondary.StatusFlagRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT participant_id, operation, failing, last_error, last_error_time, updated_at
		 FROM status_flags WHERE participant_id = ? AND operation = ?`,
		participantID, operation,
	)

	record, err := scanStatusRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get status flag: %w", err)
	}

	return record, nil
}

// ListByParticipant retrieves all flags for a participant ordered by
// operation name.
func (r *StatusRepository) ListByParticipant(ctx context.Context, participantID string) ([]*secondary.StatusFlagRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT participant_id, operation, failing, last_error, last_error_time, updated_at
		 FROM status_flags WHERE participant_id = ? ORDER BY operation`,
		participantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list status flags: %w", err)
	}
	defer rows.Close()

	return collectStatusRows(rows)
}

// ListFailing retrieves every failing flag across all participants, ordered
// by participant then operation.
func (r *StatusRepository) ListFailing(ctx context.Context) ([]*secondary.StatusFlagRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT participant_id, operation, failing, last_error, last_error_time, updated_at
		 FROM status_flags WHERE failing = 1 ORDER BY participant_id, operation`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list failing flags: %w", err)
	}
	defer rows.Close()

	return collectStatusRows(rows)
}

func collectStatusRows(rows *sql.Rows) ([]*secondary.StatusFlagRecord, error) {
	var flags []*secondary.StatusFlagRecord
	for rows.Next() {
		record, err := scanStatusRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan status flag: %w", err)
		}
		flags = append(flags, record)
	}

	return flags, nil
}

func scanStatusRow(scan func(dest ...any) error) (*secondary.StatusFlagRecord, error) {
	var (
		lastError     sql.NullString
		lastErrorTime sql.NullString
		updatedAt     time.Time
	)

	record := &secondary.StatusFlagRecord{}
	err := scan(&record.ParticipantID,
		&record.Operation,
		&record.Failing,
		&lastError,
		&lastErrorTime,
		&updatedAt)
	if err != nil {
		return nil, err
	}

	record.LastError = lastError.String
	record.LastErrorTime = lastErrorTime.String
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

// Ensure StatusRepository implements the interface
var _ secondary.StatusRepository = (*StatusRepository)(nil)
