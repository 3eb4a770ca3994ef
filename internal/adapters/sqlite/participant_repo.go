// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/stride/internal/ports/secondary"
)

// ParticipantRepository implements secondary.ParticipantRepository with SQLite.
type ParticipantRepository struct {
	db *sql.DB
}

// NewParticipantRepository creates a new SQLite participant repository.
func NewParticipantRepository(db *sql.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// Create persists a new participant.
func (r *ParticipantRepository) Create(ctx context.Context, participant *secondary.ParticipantRecord) error {
	var token sql.NullString
	if participant.DeviceAuthToken != "" {
		token = sql.NullString{String: participant.DeviceAuthToken, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO participants (id, email, language, start_date, device_auth_token) VALUES (?, ?, ?, ?, ?)`,
		participant.ID,
		participant.Email,
		participant.Language,
		participant.StartDate,
		token,
	)
	if err != nil {
		return fmt.Errorf("failed to create participant: %w", err)
	}

	return nil
}

// GetByID retrieves a participant by ID. Returns nil when no participant
// with that ID exists.
func (r *ParticipantRepository) GetByID(ctx context.Context, id string) (*secondary.ParticipantRecord, error) {
	return r.getBy(ctx, "id = ?", id)
}

// GetByEmail retrieves a participant by email address. Returns nil when no
// participant with that email exists.
func (r *ParticipantRepository) GetByEmail(ctx context.Context, email string) (*secondary.ParticipantRecord, error) {
	return r.getBy(ctx, "email = ?", email)
}

func (r *ParticipantRepository) getBy(ctx context.Context, where string, arg any) (*secondary.ParticipantRecord, error) {
	var (
		token     sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)

	record := &secondary.ParticipantRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, language, start_date, device_auth_token, created_at, updated_at FROM participants WHERE `+where,
		arg,
	).Scan(&record.ID,
		&record.Email,
		&record.Language,
		&record.StartDate,
		&token,
		&createdAt,
		&updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	record.DeviceAuthToken = token.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

// List retrieves all participants ordered by ID.
func (r *ParticipantRepository) List(ctx context.Context) ([]*secondary.ParticipantRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, language, start_date, device_auth_token, created_at, updated_at FROM participants ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []*secondary.ParticipantRecord
	for rows.Next() {
		var (
			token     sql.NullString
			createdAt time.Time
			updatedAt time.Time
		)

		record := &secondary.ParticipantRecord{}
		err := rows.Scan(&record.ID,
			&record.Email,
			&record.Language,
			&record.StartDate,
			&token,
			&createdAt,
			&updatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}

		record.DeviceAuthToken = token.String
		record.CreatedAt = createdAt.Format(time.RFC3339)
		record.UpdatedAt = updatedAt.Format(time.RFC3339)

		participants = append(participants, record)
	}

	return participants, nil
}

// GetNextID returns the next available participant ID.
func (r *ParticipantRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("PART-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM participants", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next participant ID: %w", err)
	}

	return fmt.Sprintf("PART-%03d", maxID+1), nil
}

// Ensure ParticipantRepository implements the interface
var _ secondary.ParticipantRepository = (*ParticipantRepository)(nil)
