package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/stride/internal/ports/secondary"
)

// MessageRepository implements secondary.MessageRepository with SQLite.
type MessageRepository struct {
	db *sql.DB
}

// NewMessageRepository creates a new SQLite message history repository.
func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Append records a notification attempt. Failed deliveries are appended
// alongside successful ones so the history reflects every attempt.
func (r *MessageRepository) Append(ctx context.Context, message *secondary.MessageRecord) error {
	var decisionSummary, errorMessage sql.NullString
	if message.DecisionSummary != "" {
		decisionSummary = sql.NullString{String: message.DecisionSummary, Valid: true}
	}
	if message.ErrorMessage != "" {
		errorMessage = sql.NullString{String: message.ErrorMessage, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO message_history (participant_id, subject_line, body, language, decision_summary, delivery_succeeded, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		message.ParticipantID,
		message.SubjectLine,
		message.Body,
		message.Language,
		decisionSummary,
		message.DeliverySucceeded,
		errorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	return nil
}

// ListByParticipant retrieves messages for a participant, newest first. A
// limit of zero or less returns all messages.
func (r *MessageRepository) ListByParticipant(ctx context.Context, participantID string, limit int) ([]*secondary.MessageRecord, error) {
	query := `SELECT id, participant_id, sent_at, subject_line, body, language, decision_summary, delivery_succeeded, error_message
	 FROM message_history WHERE participant_id = ? ORDER BY sent_at DESC, id DESC`
	args := []any{participantID}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*secondary.MessageRecord
	for rows.Next() {
		var (
			sentAt          time.Time
			decisionSummary sql.NullString
			errorMessage    sql.NullString
		)

		record := &secondary.MessageRecord{}
		err := rows.Scan(&record.ID,
			&record.ParticipantID,
			&sentAt,
			&record.SubjectLine,
			&record.Body,
			&record.Language,
			&decisionSummary,
			&record.DeliverySucceeded,
			&errorMessage)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}

		record.SentAt = sentAt.Format(time.RFC3339)
		record.DecisionSummary = decisionSummary.String
		record.ErrorMessage = errorMessage.String

		messages = append(messages, record)
	}

	return messages, nil
}

// Ensure MessageRepository implements the interface
var _ secondary.MessageRepository = (*MessageRepository)(nil)
