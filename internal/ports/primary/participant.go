package primary

import "context"

// ParticipantService defines the primary port for enrollment and
// participant inspection.
type ParticipantService interface {
	// Enroll registers a new participant. The start date anchors every
	// future week boundary and cannot be changed afterwards.
	Enroll(ctx context.Context, req EnrollRequest) (*Participant, error)

	// GetParticipant retrieves a participant by ID.
	GetParticipant(ctx context.Context, id string) (*Participant, error)

	// ListParticipants lists all enrolled participants ordered by ID.
	ListParticipants(ctx context.Context) ([]*Participant, error)

	// GetProgress returns a participant's target history and current
	// status flags for inspection.
	GetProgress(ctx context.Context, id string) (*ParticipantProgress, error)

	// ListMessages returns a participant's notification history, newest
	// first. limit <= 0 means no limit.
	ListMessages(ctx context.Context, id string, limit int) ([]*Message, error)

	// ListFailingFlags returns every failing status flag across all
	// participants, for the operator dashboard.
	ListFailingFlags(ctx context.Context) ([]*StatusFlag, error)
}

// EnrollRequest contains parameters for enrolling a participant.
type EnrollRequest struct {
	Email     string
	StartDate string // YYYY-MM-DD
	Language  string // BCP 47 tag; empty means the configured default
}

// Participant represents a participant at the port boundary.
type Participant struct {
	ID              string
	Email           string
	Language        string
	StartDate       string
	DeviceAuthToken string
	CreatedAt       string
}

// ParticipantProgress bundles what the inspection commands show.
type ParticipantProgress struct {
	Participant *Participant
	Targets     []*WeeklyTarget // newest week first
	Flags       []*StatusFlag
	RecentDays  []*ActivityDay // newest first
}

// StatusFlag represents one operation's health at the port boundary.
type StatusFlag struct {
	ParticipantID string
	Operation     string
	Failing       bool
	LastError     string
	LastErrorTime string
}

// Message represents one notification attempt at the port boundary.
type Message struct {
	ParticipantID     string
	SentAt            string
	SubjectLine       string
	Body              string
	Language          string
	DecisionSummary   string
	DeliverySucceeded bool
	ErrorMessage      string
}
