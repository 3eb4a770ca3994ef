package primary

import "context"

// RunLogService defines the primary port for the batch audit trail.
type RunLogService interface {
	// RecentRuns retrieves audit entries newest first. limit <= 0 means
	// no limit.
	RecentRuns(ctx context.Context, limit int) ([]*RunLogEntry, error)
}

// RunLogEntry represents one audit line at the port boundary.
type RunLogEntry struct {
	RunID         string
	RunDate       string
	ParticipantID string // empty on summary lines
	Status        string
	Detail        string
	CreatedAt     string
}
