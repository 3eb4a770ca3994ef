package notify

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/example/stride/internal/config"
	"github.com/example/stride/internal/core/locale"
	"github.com/example/stride/internal/ports/secondary"
)

// SMTPDispatcher delivers weekly decision messages by email.
type SMTPDispatcher struct {
	cfg config.SMTPConfig
}

// NewSMTPDispatcher creates a dispatcher for the given mail settings.
func NewSMTPDispatcher(cfg config.SMTPConfig) *SMTPDispatcher {
	return &SMTPDispatcher{cfg: cfg}
}

// Dispatch composes and sends one message. Delivery failures are reported
// in the outcome rather than returned: the caller records the attempt in
// the message history either way.
func (d *SMTPDispatcher) Dispatch(_ context.Context, req secondary.NotificationRequest) secondary.DispatchOutcome {
	subject, body := BuildContent(req)
	outcome := secondary.DispatchOutcome{
		SubjectLine: subject,
		Body:        body,
		Language:    locale.Normalize(req.Language),
		SentAt:      time.Now().Format(time.RFC3339),
	}

	if req.Email == "" {
		outcome.ErrorMessage = "participant has no email address"
		return outcome
	}

	addr := net.JoinHostPort(d.cfg.Host, strconv.Itoa(d.cfg.Port))
	var auth smtp.Auth
	if d.cfg.Username != "" {
		auth = smtp.PlainAuth("", d.cfg.Username, d.cfg.Password, d.cfg.Host)
	}

	msg := formatMessage(d.cfg.From, req.Email, subject, body)
	if err := smtp.SendMail(addr, auth, d.cfg.From, []string{req.Email}, msg); err != nil {
		outcome.ErrorMessage = fmt.Sprintf("smtp: %v", err)
		return outcome
	}

	outcome.Succeeded = true
	return outcome
}

// formatMessage renders an RFC 5322 message. Subjects carry accented
// French, so they are Q-encoded and the body is declared UTF-8.
func formatMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}

// Ensure SMTPDispatcher implements the interface
var _ secondary.NotificationDispatcher = (*SMTPDispatcher)(nil)
