// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// Operation names for status flags. One flag per (participant, operation);
// the flag always reflects the most recent attempt of that operation.
const (
	OpFetchData         = "fetch_data"
	OpRefreshToken      = "refresh_token"
	OpTargetCalculation = "target_calculation"
	OpSendNotification  = "send_notification"
	OpDeviceSync        = "device_sync"
)

// ParticipantRepository defines the secondary port for participant persistence.
type ParticipantRepository interface {
	// Create persists a new participant.
	Create(ctx context.Context, participant *ParticipantRecord) error

	// GetByID retrieves a participant by ID. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*ParticipantRecord, error)

	// GetByEmail retrieves a participant by email. Returns nil when absent.
	GetByEmail(ctx context.Context, email string) (*ParticipantRecord, error)

	// List retrieves participants ordered by ID.
	List(ctx context.Context) ([]*ParticipantRecord, error)

	// GetNextID returns the next available participant ID.
	GetNextID(ctx context.Context) (string, error)
}

// ParticipantRecord represents a participant as stored in persistence.
// Dates are canonical YYYY-MM-DD strings; timestamps are RFC 3339.
type ParticipantRecord struct {
	ID              string // PART-001
	Email           string
	Language        string // BCP 47 tag, en or fr
	StartDate       string // immutable after enrollment; anchors all week keys
	DeviceAuthToken string // minted at enrollment, rotated by the ingestion collaborator
	CreatedAt       string
	UpdatedAt       string
}

// ActivityRepository defines the secondary port for daily activity persistence.
// The ingestion side writes it; the evaluation side only reads.
type ActivityRepository interface {
	// Upsert merge-writes one daily record keyed by (participant, date).
	Upsert(ctx context.Context, record *DailyActivityRecord) error

	// ListByParticipant retrieves all records for a participant ordered by date.
	ListByParticipant(ctx context.Context, participantID string) ([]*DailyActivityRecord, error)

	// ListRecent retrieves the most recent records for a participant,
	// newest first.
	ListRecent(ctx context.Context, participantID string, limit int) ([]*DailyActivityRecord, error)
}

// DailyActivityRecord represents one day of device data as stored.
type DailyActivityRecord struct {
	ParticipantID string
	Date          string   // YYYY-MM-DD, unique per participant
	StepCount     int
	WearTimeHours *float64 // nil when the device reported no wear time
	RecordedAt    string
}

// TargetRepository defines the secondary port for the weekly target ledger.
type TargetRepository interface {
	// Upsert writes a weekly target keyed by (participant, week start),
	// overwriting in place on re-runs. Entries are never deleted.
	Upsert(ctx context.Context, record *WeeklyTargetRecord) error

	// GetByWeek retrieves the target for one week key. Returns nil when absent.
	GetByWeek(ctx context.Context, participantID, weekStart string) (*WeeklyTargetRecord, error)

	// ListByParticipant retrieves all targets for a participant, newest week first.
	ListByParticipant(ctx context.Context, participantID string) ([]*WeeklyTargetRecord, error)
}

// WeeklyTargetRecord represents one week's decision as stored in the ledger.
// Nil pointer fields persist as NULL.
type WeeklyTargetRecord struct {
	ParticipantID     string
	WeekStart         string // ledger key, YYYY-MM-DD
	WeekEnd           string
	EscalationStep    string
	NewTarget         int
	AverageSteps      *int  // nil for maintained and skipped weeks
	PreviousTarget    *int  // nil for the first computed week
	TargetWasMet      *bool // nil for the first computed week and non-computed entries
	CalculationMethod string
	DaysWithData      *int // set only for partial_data and skipped_week
	CreatedAt         string
	UpdatedAt         string
}

// StatusRepository defines the secondary port for per-operation status flags.
type StatusRepository interface {
	// SetFailure marks an operation failing with a message and timestamp.
	SetFailure(ctx context.Context, participantID, operation, message, at string) error

	// ClearFailure marks an operation healthy and removes the error fields.
	ClearFailure(ctx context.Context, participantID, operation string) error

	// Get retrieves one flag. Returns nil when the operation has never run.
	Get(ctx context.Context, participantID, operation string) (*StatusFlagRecord, error)

	// ListByParticipant retrieves all flags for a participant.
	ListByParticipant(ctx context.Context, participantID string) ([]*StatusFlagRecord, error)

	// ListFailing retrieves every failing flag across participants.
	ListFailing(ctx context.Context) ([]*StatusFlagRecord, error)
}

// StatusFlagRecord represents one operation's health for one participant.
type StatusFlagRecord struct {
	ParticipantID string
	Operation     string
	Failing       bool
	LastError     string // empty when healthy
	LastErrorTime string // empty when healthy
	UpdatedAt     string
}

// MessageRepository defines the secondary port for the notification audit log.
type MessageRepository interface {
	// Append adds one delivery attempt. The log is append-only.
	Append(ctx context.Context, record *MessageRecord) error

	// ListByParticipant retrieves attempts for a participant, newest first.
	// limit <= 0 means no limit.
	ListByParticipant(ctx context.Context, participantID string, limit int) ([]*MessageRecord, error)
}

// MessageRecord represents one notification attempt, successful or not.
type MessageRecord struct {
	ID                int64 // assigned by persistence
	ParticipantID     string
	SentAt            string
	SubjectLine       string
	Body              string
	Language          string
	DecisionSummary   string // week key and escalation step the message describes
	DeliverySucceeded bool
	ErrorMessage      string // empty on success
}
