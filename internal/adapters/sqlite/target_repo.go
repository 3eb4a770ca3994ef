package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/stride/internal/ports/secondary"
)

// TargetRepository implements secondary.TargetRepository with SQLite.
type TargetRepository struct {
	db *sql.DB
}

// NewTargetRepository creates a new SQLite weekly target repository.
func NewTargetRepository(db *sql.DB) *TargetRepository {
	return &TargetRepository{db: db}
}

// Upsert inserts a weekly target, replacing any existing row for the same
// participant and week start. A recomputed week overwrites the earlier
// decision in place.
func (r *TargetRepository) Upsert(ctx context.Context, target *secondary.WeeklyTargetRecord) error {
	var averageSteps, previousTarget, daysWithData sql.NullInt64
	var targetWasMet sql.NullBool

	if target.AverageSteps != nil {
		averageSteps = sql.NullInt64{Int64: int64(*target.AverageSteps), Valid: true}
	}
	if target.PreviousTarget != nil {
		previousTarget = sql.NullInt64{Int64: int64(*target.PreviousTarget), Valid: true}
	}
	if target.TargetWasMet != nil {
		targetWasMet = sql.NullBool{Bool: *target.TargetWasMet, Valid: true}
	}
	if target.DaysWithData != nil {
		daysWithData = sql.NullInt64{Int64: int64(*target.DaysWithData), Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO weekly_targets (participant_id, week_start, week_end, escalation_step, new_target, average_steps, previous_target, target_was_met, calculation_method, days_with_data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(participant_id, week_start) DO UPDATE SET
		   week_end = excluded.week_end,
		   escalation_step = excluded.escalation_step,
		   new_target = excluded.new_target,
		   average_steps = excluded.average_steps,
		   previous_target = excluded.previous_target,
		   target_was_met = excluded.target_was_met,
		   calculation_method = excluded.calculation_method,
		   days_with_data = excluded.days_with_data,
		   updated_at = CURRENT_TIMESTAMP`,
		target.ParticipantID,
		target.WeekStart,
		target.WeekEnd,
		target.EscalationStep,
		target.NewTarget,
		averageSteps,
		previousTarget,
		targetWasMet,
		target.CalculationMethod,
		daysWithData,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert weekly target: %w", err)
	}

	return nil
}

// GetByWeek retrieves the weekly target for a participant and week start
// date. Returns nil when no target exists for that week.
func (r *TargetRepository) GetByWeek(ctx context.Context, participantID, weekStart string) (*secondary.WeeklyTargetRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT participant_id, week_start, week_end, escalation_step, new_target, average_steps, previous_target, target_was_met, calculation_method, days_with_data, created_at, updated_at
		 FROM weekly_targets WHERE participant_id = ? AND week_start = ?`,
		participantID, weekStart,
	)

	record, err := scanTargetRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get weekly target: %w", err)
	}

	return record, nil
}

// ListByParticipant retrieves all weekly targets for a participant, newest
// week first.
func (r *TargetRepository) ListByParticipant(ctx context.Context, participantID string) ([]*secondary.WeeklyTargetRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT participant_id, week_start, week_end, escalation_step, new_target, average_steps, previous_target, target_was_met, calculation_method, days_with_data, created_at, updated_at
		 FROM weekly_targets WHERE participant_id = ? ORDER BY week_start DESC`,
		participantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly targets: %w", err)
	}
	defer rows.Close()

	var targets []*secondary.WeeklyTargetRecord
	for rows.Next() {
		record, err := scanTargetRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan weekly target: %w", err)
		}
		targets = append(targets, record)
	}

	return targets, nil
}

func scanTargetRow(scan func(dest ...any) error) (*secondary.WeeklyTargetRecord, error) {
	var (
		averageSteps   sql.NullInt64
		previousTarget sql.NullInt64
		targetWasMet   sql.NullBool
		daysWithData   sql.NullInt64
		createdAt      time.Time
		updatedAt      time.Time
	)

	record := &secondary.WeeklyTargetRecord{}
	err := scan(&record.ParticipantID,
		&record.WeekStart,
		&record.WeekEnd,
		&record.EscalationStep,
		&record.NewTarget,
		&averageSteps,
		&previousTarget,
		&targetWasMet,
		&record.CalculationMethod,
		&daysWithData,
		&createdAt,
		&updatedAt)
	if err != nil {
		return nil, err
	}

	if averageSteps.Valid {
		v := int(averageSteps.Int64)
		record.AverageSteps = &v
	}
	if previousTarget.Valid {
		v := int(previousTarget.Int64)
		record.PreviousTarget = &v
	}
	if targetWasMet.Valid {
		v := targetWasMet.Bool
		record.TargetWasMet = &v
	}
	if daysWithData.Valid {
		v := int(daysWithData.Int64)
		record.DaysWithData = &v
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

// Ensure TargetRepository implements the interface
var _ secondary.TargetRepository = (*TargetRepository)(nil)
