// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting but delegate
// all decisions to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/example/stride/internal/ports/primary"
)

// RunAdapter is a thin adapter that translates batch commands to
// EvaluationService calls and renders the reports.
type RunAdapter struct {
	service primary.EvaluationService
	out     io.Writer
}

// NewRunAdapter creates a new RunAdapter with the given service.
func NewRunAdapter(service primary.EvaluationService, out io.Writer) *RunAdapter {
	return &RunAdapter{
		service: service,
		out:     out,
	}
}

// Run executes one batch pass and renders the per-participant lines and
// the summary block. The evaluation instant is frozen here so the banner
// and the computation agree on what "today" is.
func (a *RunAdapter) Run(ctx context.Context, req primary.BatchRequest) error {
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	req.Now = now

	fmt.Fprintf(a.out, "Evaluating weekly targets for %s...\n", now.Format("2006-01-02"))
	if req.DryRun {
		color.New(color.FgYellow).Fprintln(a.out, "DRY RUN - nothing will be persisted or dispatched")
	}
	fmt.Fprintln(a.out)

	report, err := a.service.RunBatch(ctx, req)
	if err != nil {
		return err
	}

	for _, r := range report.Results {
		a.renderResult(r, req.SkipNotifications)
	}

	a.renderSummary(report)
	return nil
}

func (a *RunAdapter) renderResult(r *primary.EvaluationResult, skippedNotifications bool) {
	switch r.Outcome {
	case primary.OutcomeComputed:
		color.New(color.FgGreen).Fprintf(a.out, "✓ %s: target %d steps/day (step %s)\n", r.ParticipantID, r.Target.NewTarget, r.Target.EscalationStep)
	case primary.OutcomePartialData:
		color.New(color.FgGreen).Fprintf(a.out, "✓ %s: target %d steps/day (step %s)\n", r.ParticipantID, r.Target.NewTarget, r.Target.EscalationStep)
		if r.Target.DaysWithData != nil {
			fmt.Fprintf(a.out, "  → computed from %d valid days (no sync today)\n", *r.Target.DaysWithData)
		}
	case primary.OutcomeMaintained:
		color.New(color.FgGreen).Fprintf(a.out, "✓ %s: target maintained at %d steps/day\n", r.ParticipantID, r.Target.NewTarget)
	case primary.OutcomeSkippedWeek:
		color.New(color.FgYellow).Fprintf(a.out, "⚠  %s: week skipped - %s\n", r.ParticipantID, r.Detail)
	case primary.OutcomeNotTargetDay:
		fmt.Fprintf(a.out, "  %s: not target day (%s)\n", r.ParticipantID, r.Detail)
	case primary.OutcomeAwaitingSync:
		color.New(color.FgYellow).Fprintf(a.out, "⚠  %s: no step data from today yet - deferring\n", r.ParticipantID)
	case primary.OutcomeAlreadyDone:
		fmt.Fprintf(a.out, "  %s: %s - skipping\n", r.ParticipantID, r.Detail)
	case primary.OutcomeInsufficientData:
		color.New(color.FgYellow).Fprintf(a.out, "⚠  %s: no target computed (insufficient data, nothing to maintain)\n", r.ParticipantID)
	default:
		color.New(color.FgRed).Fprintf(a.out, "✗ %s: %s\n", r.ParticipantID, r.Detail)
	}

	if r.Notification != nil {
		if r.Notification.Succeeded {
			fmt.Fprintln(a.out, "  → notification sent")
		} else {
			color.New(color.FgYellow).Fprintln(a.out, "  → notification failed (recorded on status flags)")
		}
	} else if skippedNotifications && r.Target != nil {
		fmt.Fprintln(a.out, "  → notification skipped")
	}
}

func (a *RunAdapter) renderSummary(report *primary.BatchReport) {
	line := strings.Repeat("=", 60)
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, line)
	fmt.Fprintf(a.out, "Evaluation summary for %s (run %s)\n", report.RunDate, shortRunID(report.RunID))
	fmt.Fprintf(a.out, "  Participants: %d\n", report.Total)
	color.New(color.FgGreen).Fprintf(a.out, "  ✓ Targets computed: %d\n", report.Computed)
	if report.PartialData > 0 {
		color.New(color.FgGreen).Fprintf(a.out, "  ✓ Computed from partial data: %d\n", report.PartialData)
	}
	if report.Maintained > 0 {
		color.New(color.FgGreen).Fprintf(a.out, "  ✓ Targets maintained: %d\n", report.Maintained)
	}
	if report.SkippedWeek > 0 {
		color.New(color.FgYellow).Fprintf(a.out, "  ⚠  Weeks skipped: %d\n", report.SkippedWeek)
	}
	if report.AlreadyExists > 0 {
		fmt.Fprintf(a.out, "  ℹ  Already on record: %d\n", report.AlreadyExists)
	}
	if report.NotTargetDay > 0 {
		fmt.Fprintf(a.out, "  Not target day: %d\n", report.NotTargetDay)
	}
	if report.AwaitingSync > 0 {
		color.New(color.FgYellow).Fprintf(a.out, "  ⚠  No target day data yet: %d\n", report.AwaitingSync)
	}
	if report.InsufficientData > 0 {
		color.New(color.FgYellow).Fprintf(a.out, "  ⚠  Insufficient data: %d\n", report.InsufficientData)
	}
	if report.Errors > 0 {
		color.New(color.FgRed).Fprintf(a.out, "  ✗ Errors: %d\n", report.Errors)
	}
	if report.NotificationsSent > 0 {
		color.New(color.FgGreen).Fprintf(a.out, "  ✓ Notifications sent: %d\n", report.NotificationsSent)
	}
	if report.NotificationsFailed > 0 {
		color.New(color.FgRed).Fprintf(a.out, "  ✗ Notifications failed: %d\n", report.NotificationsFailed)
	}
	fmt.Fprintln(a.out, line)
}

// CheckSync runs the midday monitoring pass and renders the report. Quiet
// by default: only participants needing attention get their own line, the
// rest are counted in the summary.
func (a *RunAdapter) CheckSync(ctx context.Context, req primary.SyncCheckRequest) error {
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	req.Now = now

	fmt.Fprintf(a.out, "Checking target-day sync for %s (%s)\n", now.Format("2006-01-02"), now.Weekday())
	if req.DryRun {
		color.New(color.FgYellow).Fprintln(a.out, "DRY RUN - no flags will be raised")
	}
	fmt.Fprintln(a.out)

	report, err := a.service.CheckSync(ctx, req)
	if err != nil {
		return err
	}

	for _, r := range report.Results {
		switch r.Outcome {
		case primary.SyncOutcomeAlertRaised:
			color.New(color.FgYellow).Fprintf(a.out, "⚠  %s: target day with no data - device_sync flag raised\n", r.ParticipantID)
		case primary.SyncOutcomeMissing:
			color.New(color.FgYellow).Fprintf(a.out, "⚠  %s: %s\n", r.ParticipantID, r.Detail)
		case primary.OutcomeError:
			color.New(color.FgRed).Fprintf(a.out, "✗ %s: %s\n", r.ParticipantID, r.Detail)
		}
	}

	line := strings.Repeat("=", 60)
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, line)
	fmt.Fprintf(a.out, "  Checked: %d\n", report.Total)
	fmt.Fprintf(a.out, "  Not target day: %d\n", report.NotTargetDay)
	if report.Synced > 0 {
		color.New(color.FgGreen).Fprintf(a.out, "  ✓ Target day with data: %d\n", report.Synced)
	}
	if report.Missing > 0 {
		color.New(color.FgYellow).Fprintf(a.out, "  ⚠  Target day missing data: %d\n", report.Missing)
	}
	if report.AlertsRaised > 0 {
		color.New(color.FgYellow).Fprintf(a.out, "  ⚠  Flags raised: %d\n", report.AlertsRaised)
	}
	if report.Errors > 0 {
		color.New(color.FgRed).Fprintf(a.out, "  ✗ Errors: %d\n", report.Errors)
	}
	fmt.Fprintln(a.out, line)
	return nil
}

// shortRunID trims a UUID to its first block for display.
func shortRunID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
