package secondary

import "context"

// RunLogWriter defines the interface for writing batch audit entries.
// Every pass of the evaluation batch records one entry per participant
// outcome plus a closing summary entry.
type RunLogWriter interface {
	// LogOutcome records one participant's outcome within a run.
	LogOutcome(ctx context.Context, entry *RunLogRecord) error

	// LogSummary records the closing summary line of a run.
	LogSummary(ctx context.Context, entry *RunLogRecord) error
}

// RunLogRepository defines the read side of the batch audit trail.
type RunLogRepository interface {
	// ListRecent retrieves entries newest first. limit <= 0 means no limit.
	ListRecent(ctx context.Context, limit int) ([]*RunLogRecord, error)

	// ListByRun retrieves all entries of one run in insertion order.
	ListByRun(ctx context.Context, runID string) ([]*RunLogRecord, error)
}

// RunLogRecord represents one line of the batch audit trail.
type RunLogRecord struct {
	ID            int64  // assigned by persistence
	RunID         string // one UUID per batch invocation
	RunDate       string // evaluation date the pass was computing for
	ParticipantID string // empty on summary lines
	Status        string // outcome code or "summary"
	Detail        string
	CreatedAt     string
}
