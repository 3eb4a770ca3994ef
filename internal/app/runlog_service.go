package app

import (
	"context"
	"fmt"

	"github.com/example/stride/internal/ports/primary"
	"github.com/example/stride/internal/ports/secondary"
)

// RunLogServiceImpl implements the RunLogService interface.
type RunLogServiceImpl struct {
	runLogRepo secondary.RunLogRepository
}

// NewRunLogService creates a new RunLogService with injected dependencies.
func NewRunLogService(runLogRepo secondary.RunLogRepository) *RunLogServiceImpl {
	return &RunLogServiceImpl{runLogRepo: runLogRepo}
}

// RecentRuns retrieves batch audit entries, newest first.
func (s *RunLogServiceImpl) RecentRuns(ctx context.Context, limit int) ([]*primary.RunLogEntry, error) {
	records, err := s.runLogRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list run log: %w", err)
	}

	entries := make([]*primary.RunLogEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, &primary.RunLogEntry{
			RunID:         record.RunID,
			RunDate:       record.RunDate,
			ParticipantID: record.ParticipantID,
			Status:        record.Status,
			Detail:        record.Detail,
			CreatedAt:     record.CreatedAt,
		})
	}
	return entries, nil
}

// Ensure RunLogServiceImpl implements the interface
var _ primary.RunLogService = (*RunLogServiceImpl)(nil)
