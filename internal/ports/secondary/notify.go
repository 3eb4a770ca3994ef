package secondary

import "context"

// NotificationDispatcher defines the secondary port for subject-facing
// delivery. Implementations compose the message content in the
// participant's language and attempt delivery; a failed attempt is data,
// not an error, so the outcome always carries the composed content.
type NotificationDispatcher interface {
	// Dispatch composes and attempts delivery of one weekly message.
	Dispatch(ctx context.Context, req NotificationRequest) DispatchOutcome
}

// NotificationRequest carries everything a dispatcher needs to compose
// and deliver one weekly decision message.
type NotificationRequest struct {
	ParticipantID  string
	Email          string
	Language       string // BCP 47 tag
	WeekStart      string
	EscalationStep string
	NewTarget      int
	AverageSteps   *int // nil means the week was maintained or skipped
	PreviousTarget *int
	TargetWasMet   *bool
}

// DispatchOutcome reports one delivery attempt.
type DispatchOutcome struct {
	Succeeded    bool
	SubjectLine  string
	Body         string
	Language     string
	SentAt       string
	ErrorMessage string // empty on success
}
