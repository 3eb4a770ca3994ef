package primary

import (
	"context"
	"time"
)

// EvaluationService defines the primary port for weekly target evaluation.
type EvaluationService interface {
	// EvaluateParticipant runs one participant's weekly evaluation for the
	// given instant. Deferred states come back as outcomes, not errors;
	// an error return means the participant's evaluation failed and was
	// recorded against their status flags.
	EvaluateParticipant(ctx context.Context, req EvaluationRequest) (*EvaluationResult, error)

	// RunBatch evaluates every enrolled participant (or a single one when
	// restricted), aggregating per-participant failures into the report.
	// The returned error covers setup problems only.
	RunBatch(ctx context.Context, req BatchRequest) (*BatchReport, error)

	// CheckSync is the midday monitoring pass: participants whose target
	// day is today should already have a step record for today. A missing
	// record raises the device_sync status flag, at most once per day.
	CheckSync(ctx context.Context, req SyncCheckRequest) (*SyncCheckReport, error)
}

// EvaluationRequest identifies one participant evaluation.
type EvaluationRequest struct {
	ParticipantID     string
	Now               time.Time // evaluation instant; zero value means the current time
	SkipNotifications bool      // compute and persist but do not dispatch
	DryRun            bool      // compute only; no persistence, no dispatch
}

// BatchRequest parameterizes one batch pass.
type BatchRequest struct {
	ParticipantID     string    // restrict to one participant when set
	Now               time.Time // zero value means the current time
	SkipNotifications bool
	DryRun            bool
}

// Evaluation outcome codes. The first group are decisions that wrote (or,
// in a dry run, would write) a ledger entry; the second are deferred
// states that are counted but never flagged as errors.
const (
	OutcomeComputed     = "computed"
	OutcomePartialData  = "partial_data"
	OutcomeMaintained   = "maintained"
	OutcomeSkippedWeek  = "skipped_week"
	OutcomeNotTargetDay = "not_target_day"
	OutcomeAwaitingSync = "awaiting_sync"
	OutcomeAlreadyDone  = "already_exists"

	// Failure outcomes. EvaluateParticipant surfaces these as errors;
	// RunBatch converts them to result lines under these codes.
	OutcomeInsufficientData = "insufficient_data"
	OutcomeError            = "error"
)

// EvaluationResult is the outcome of one participant's evaluation.
type EvaluationResult struct {
	ParticipantID string
	Outcome       string
	WeekStart     string         // set whenever the evaluation reached a target week
	Target        *WeeklyTarget  // set for outcomes that produced a ledger entry
	Notification  *DispatchReport // set when a dispatch was attempted
	Detail        string         // human-readable note for the batch report
}

// WeeklyTarget is the ledger entry at the port boundary.
type WeeklyTarget struct {
	WeekStart         string
	WeekEnd           string
	EscalationStep    string
	NewTarget         int
	AverageSteps      *int
	PreviousTarget    *int
	TargetWasMet      *bool
	CalculationMethod string
	DaysWithData      *int
	CreatedAt         string
	UpdatedAt         string
}

// DispatchReport is the notification outcome at the port boundary.
type DispatchReport struct {
	Succeeded    bool
	SubjectLine  string
	ErrorMessage string
}

// SyncCheckRequest parameterizes one monitoring pass.
type SyncCheckRequest struct {
	ParticipantID string    // restrict to one participant when set
	Now           time.Time // zero value means the current time
	DryRun        bool      // report only; no flags raised or cleared
}

// Sync check outcome codes, alongside OutcomeNotTargetDay and OutcomeError.
const (
	SyncOutcomeSynced      = "synced"
	SyncOutcomeMissing     = "missing" // no data, no flag written (dry run or already raised today)
	SyncOutcomeAlertRaised = "alert_raised"
)

// SyncCheckResult is the outcome of one participant's sync check.
type SyncCheckResult struct {
	ParticipantID string
	Outcome       string
	Detail        string
}

// SyncCheckReport aggregates one monitoring pass.
type SyncCheckReport struct {
	RunDate string
	DryRun  bool

	Total        int
	NotTargetDay int
	Synced       int
	Missing      int
	AlertsRaised int
	Errors       int

	Results []*SyncCheckResult
}

// BatchReport aggregates one batch pass.
type BatchReport struct {
	RunID      string
	RunDate    string
	StartedAt  time.Time
	FinishedAt time.Time
	DryRun     bool

	Total            int
	Computed         int
	PartialData      int
	Maintained       int
	SkippedWeek      int
	NotTargetDay     int
	AwaitingSync     int
	AlreadyExists    int
	InsufficientData int
	Errors           int

	NotificationsSent   int
	NotificationsFailed int

	Results []*EvaluationResult
}
