package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/example/stride/internal/ports/primary"
)

// ParticipantAdapter is a thin adapter that translates CLI operations to
// ParticipantService calls.
type ParticipantAdapter struct {
	service primary.ParticipantService
	out     io.Writer
}

// NewParticipantAdapter creates a new ParticipantAdapter with the given service.
func NewParticipantAdapter(service primary.ParticipantService, out io.Writer) *ParticipantAdapter {
	return &ParticipantAdapter{
		service: service,
		out:     out,
	}
}

// Enroll registers a new participant and prints the minted identity.
func (a *ParticipantAdapter) Enroll(ctx context.Context, email, startDate, language string) error {
	participant, err := a.service.Enroll(ctx, primary.EnrollRequest{
		Email:     email,
		StartDate: startDate,
		Language:  language,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Enrolled %s: %s\n", participant.ID, participant.Email)
	fmt.Fprintf(a.out, "  Start date:   %s (target day: %s)\n", participant.StartDate, weekdayOf(participant.StartDate))
	fmt.Fprintf(a.out, "  Language:     %s\n", participant.Language)
	fmt.Fprintf(a.out, "  Device token: %s\n", participant.DeviceAuthToken)
	return nil
}

// List renders the participant roster.
func (a *ParticipantAdapter) List(ctx context.Context) error {
	participants, err := a.service.ListParticipants(ctx)
	if err != nil {
		return fmt.Errorf("failed to list participants: %w", err)
	}

	if len(participants) == 0 {
		fmt.Fprintln(a.out, "No participants enrolled.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Enroll your first participant:")
		fmt.Fprintln(a.out, "  stride enroll --email pat@example.org --start-date 2026-01-05")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tLANGUAGE\tSTART\tTARGET DAY")
	fmt.Fprintln(w, "--\t-----\t--------\t-----\t----------")
	for _, p := range participants {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Email, p.Language, p.StartDate, weekdayOf(p.StartDate))
	}
	return w.Flush()
}

// Show renders one participant's enrollment details, status flags, target
// ledger, and recent activity.
func (a *ParticipantAdapter) Show(ctx context.Context, id string) error {
	progress, err := a.service.GetProgress(ctx, id)
	if err != nil {
		return err
	}
	p := progress.Participant

	fmt.Fprintf(a.out, "\nParticipant: %s\n", p.ID)
	fmt.Fprintf(a.out, "Email:       %s\n", p.Email)
	fmt.Fprintf(a.out, "Language:    %s\n", p.Language)
	fmt.Fprintf(a.out, "Start date:  %s (target day: %s)\n", p.StartDate, weekdayOf(p.StartDate))
	if p.CreatedAt != "" {
		fmt.Fprintf(a.out, "Enrolled:    %s\n", p.CreatedAt)
	}

	fmt.Fprintln(a.out, "\nStatus flags:")
	if len(progress.Flags) == 0 {
		fmt.Fprintln(a.out, "  (no operations recorded yet)")
	}
	for _, f := range progress.Flags {
		if f.Failing {
			color.New(color.FgRed).Fprintf(a.out, "  ✗ %s: %s (%s)\n", f.Operation, f.LastError, f.LastErrorTime)
		} else {
			fmt.Fprintf(a.out, "  ✓ %s\n", f.Operation)
		}
	}

	fmt.Fprintln(a.out, "\nWeekly targets (newest first):")
	if len(progress.Targets) == 0 {
		fmt.Fprintln(a.out, "  (no targets computed yet)")
	} else {
		w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "WEEK\tTARGET\tSTEP\tAVG\tMET\tMETHOD")
		for _, t := range progress.Targets {
			method := t.CalculationMethod
			if method == "" {
				method = "-"
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
				t.WeekStart, t.NewTarget, t.EscalationStep,
				fmtInt(t.AverageSteps), fmtMet(t.TargetWasMet), method)
		}
		w.Flush()
	}

	fmt.Fprintln(a.out, "\nRecent activity:")
	if len(progress.RecentDays) == 0 {
		fmt.Fprintln(a.out, "  (no daily records yet)")
	} else {
		w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "DATE\tSTEPS\tWEAR")
		for _, d := range progress.RecentDays {
			fmt.Fprintf(w, "%s\t%d\t%s\n", d.Date, d.StepCount, fmtWear(d.WearTimeHours))
		}
		w.Flush()
	}
	fmt.Fprintln(a.out)

	return nil
}

// History renders a participant's notification log, newest first.
func (a *ParticipantAdapter) History(ctx context.Context, id string, limit int) error {
	messages, err := a.service.ListMessages(ctx, id, limit)
	if err != nil {
		return err
	}

	if len(messages) == 0 {
		fmt.Fprintf(a.out, "No notifications recorded for %s.\n", id)
		return nil
	}

	fmt.Fprintf(a.out, "\nNotification history for %s:\n\n", id)
	for _, m := range messages {
		marker := color.New(color.FgGreen).Sprint("✓ sent")
		if !m.DeliverySucceeded {
			marker = color.New(color.FgRed).Sprint("✗ failed")
		}
		fmt.Fprintf(a.out, "%s  %s  [%s] %s\n", m.SentAt, marker, m.Language, m.SubjectLine)
		if m.DecisionSummary != "" {
			fmt.Fprintf(a.out, "    %s\n", m.DecisionSummary)
		}
		if m.ErrorMessage != "" {
			fmt.Fprintf(a.out, "    error: %s\n", m.ErrorMessage)
		}
	}
	fmt.Fprintln(a.out)

	return nil
}

// Dashboard renders every failing operation across participants. This is
// the operator's morning view: an empty table means nobody needs chasing.
func (a *ParticipantAdapter) Dashboard(ctx context.Context) error {
	flags, err := a.service.ListFailingFlags(ctx)
	if err != nil {
		return fmt.Errorf("failed to list failing operations: %w", err)
	}

	if len(flags) == 0 {
		color.New(color.FgGreen).Fprintln(a.out, "✓ All operations healthy")
		return nil
	}

	color.New(color.FgYellow).Fprintf(a.out, "%d failing operation(s):\n", len(flags))
	fmt.Fprintln(a.out)
	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "PARTICIPANT\tOPERATION\tSINCE\tERROR")
	fmt.Fprintln(w, "-----------\t---------\t-----\t-----")
	for _, f := range flags {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.ParticipantID, f.Operation, f.LastErrorTime, f.LastError)
	}
	return w.Flush()
}

// weekdayOf names the weekday of a canonical date string, or returns the
// raw string when it does not parse.
func weekdayOf(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Weekday().String()
}

func fmtInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func fmtMet(v *bool) string {
	if v == nil {
		return "-"
	}
	if *v {
		return "yes"
	}
	return "no"
}

func fmtWear(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1fh", *v)
}
