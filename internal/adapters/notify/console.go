package notify

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/example/stride/internal/core/locale"
	"github.com/example/stride/internal/ports/secondary"
)

// ConsoleDispatcher prints messages instead of sending them. It is the
// dispatcher of record when no SMTP host is configured, so development
// runs still produce and log full message content.
type ConsoleDispatcher struct {
	out io.Writer
}

// NewConsoleDispatcher creates a dispatcher that writes to out.
func NewConsoleDispatcher(out io.Writer) *ConsoleDispatcher {
	return &ConsoleDispatcher{out: out}
}

// Dispatch composes one message and writes it to the configured writer.
func (d *ConsoleDispatcher) Dispatch(_ context.Context, req secondary.NotificationRequest) secondary.DispatchOutcome {
	subject, body := BuildContent(req)
	outcome := secondary.DispatchOutcome{
		SubjectLine: subject,
		Body:        body,
		Language:    locale.Normalize(req.Language),
		SentAt:      time.Now().Format(time.RFC3339),
	}

	_, err := fmt.Fprintf(d.out, "--- message for %s <%s> [%s] ---\nSubject: %s\n\n%s\n\n",
		req.ParticipantID, req.Email, outcome.Language, subject, body)
	if err != nil {
		outcome.ErrorMessage = fmt.Sprintf("console: %v", err)
		return outcome
	}

	outcome.Succeeded = true
	return outcome
}

// Ensure ConsoleDispatcher implements the interface
var _ secondary.NotificationDispatcher = (*ConsoleDispatcher)(nil)
