package primary

import "context"

// ActivityService defines the primary port for daily activity import and
// inspection. Importing stands in for the device ingestion collaborator.
type ActivityService interface {
	// ImportActivity merge-upserts daily records from a JSON export.
	// Malformed entries are skipped and counted, never fatal. The
	// fetch_data status flag tracks the import outcome.
	ImportActivity(ctx context.Context, participantID string, payload []byte) (*ImportResult, error)

	// RecentActivity returns the newest daily records for a participant.
	RecentActivity(ctx context.Context, participantID string, limit int) ([]*ActivityDay, error)
}

// ImportResult summarizes one import.
type ImportResult struct {
	ParticipantID string
	Imported      int
	Skipped       int // malformed or unparseable entries
}

// ActivityDay represents one daily record at the port boundary.
type ActivityDay struct {
	Date          string
	StepCount     int
	WearTimeHours *float64
}
