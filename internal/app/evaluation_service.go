package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/stride/internal/core/escalation"
	"github.com/example/stride/internal/core/fallback"
	"github.com/example/stride/internal/core/schedule"
	"github.com/example/stride/internal/core/week"
	"github.com/example/stride/internal/ports/primary"
	"github.com/example/stride/internal/ports/secondary"
)

// Sentinel errors surfaced by the evaluation flow.
var (
	// ErrInsufficientData means fewer than week.MinValidDays valid days in
	// the trailing week and no previous target to maintain. Nothing is
	// written for the week.
	ErrInsufficientData = errors.New("insufficient step data and no previous target to maintain")

	// ErrRoundTripMismatch means a persisted fallback entry did not read
	// back with the method and day count that were written.
	ErrRoundTripMismatch = errors.New("stored target failed round-trip verification")
)

// EvaluationServiceImpl implements the EvaluationService interface.
type EvaluationServiceImpl struct {
	participantRepo secondary.ParticipantRepository
	activityRepo    secondary.ActivityRepository
	targetRepo      secondary.TargetRepository
	statusRepo      secondary.StatusRepository
	messageRepo     secondary.MessageRepository
	runLog          secondary.RunLogWriter
	dispatcher      secondary.NotificationDispatcher
	cutoffHour      int
}

// NewEvaluationService creates a new EvaluationService with injected
// dependencies. A cutoffHour of zero or less falls back to the default.
func NewEvaluationService(
	participantRepo secondary.ParticipantRepository,
	activityRepo secondary.ActivityRepository,
	targetRepo secondary.TargetRepository,
	statusRepo secondary.StatusRepository,
	messageRepo secondary.MessageRepository,
	runLog secondary.RunLogWriter,
	dispatcher secondary.NotificationDispatcher,
	cutoffHour int,
) *EvaluationServiceImpl {
	if cutoffHour <= 0 {
		cutoffHour = fallback.DefaultCutoffHour
	}
	return &EvaluationServiceImpl{
		participantRepo: participantRepo,
		activityRepo:    activityRepo,
		targetRepo:      targetRepo,
		statusRepo:      statusRepo,
		messageRepo:     messageRepo,
		runLog:          runLog,
		dispatcher:      dispatcher,
		cutoffHour:      cutoffHour,
	}
}

// EvaluateParticipant runs one participant's weekly evaluation.
func (s *EvaluationServiceImpl) EvaluateParticipant(ctx context.Context, req primary.EvaluationRequest) (*primary.EvaluationResult, error) {
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	participant, err := s.participantRepo.GetByID(ctx, req.ParticipantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load participant: %w", err)
	}
	if participant == nil {
		return nil, fmt.Errorf("participant %s not found", req.ParticipantID)
	}

	result, err := s.evaluate(ctx, participant, now, req)
	if err != nil {
		// Failures are recorded against the calculation flag before they
		// bubble up, so `stride status` shows who needs attention. Dry
		// runs leave no trace.
		if !req.DryRun {
			_ = s.statusRepo.SetFailure(ctx, participant.ID, secondary.OpTargetCalculation, err.Error(), now.Format(time.RFC3339))
		}
		return nil, err
	}
	return result, nil
}

// evaluate walks the decision chain for one participant: scheduler gate,
// idempotency check, evaluation-day sync gate (where fallback may
// intervene), then aggregation and escalation.
func (s *EvaluationServiceImpl) evaluate(ctx context.Context, participant *secondary.ParticipantRecord, now time.Time, req primary.EvaluationRequest) (*primary.EvaluationResult, error) {
	start, err := schedule.ParseDate(participant.StartDate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start date %q: %w", participant.StartDate, err)
	}

	result := &primary.EvaluationResult{ParticipantID: participant.ID}

	today := schedule.Normalize(now)
	if !schedule.IsTargetDay(start, today) {
		result.Outcome = primary.OutcomeNotTargetDay
		result.Detail = fmt.Sprintf("day %d of program", schedule.DaysSince(start, today))
		return result, nil
	}

	targetWindow := schedule.TargetWindow(today)
	weekKey := schedule.FormatDate(targetWindow.Start)
	result.WeekStart = weekKey

	existing, err := s.targetRepo.GetByWeek(ctx, participant.ID, weekKey)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing target: %w", err)
	}
	if existing != nil && existing.NewTarget > 0 {
		result.Outcome = primary.OutcomeAlreadyDone
		result.Target = s.recordToTarget(existing)
		result.Detail = fmt.Sprintf("target %d already on record", existing.NewTarget)
		return result, nil
	}

	records, err := s.activityRepo.ListByParticipant(ctx, participant.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}
	days := recordsToDays(records)

	report := week.Aggregate(days, schedule.AnalysisWindow(today))

	method := fallback.MethodNormal
	var daysWithData *int

	if !week.HasDataOn(days, today) {
		switch fallback.Decide(now, s.cutoffHour, report.Count()) {
		case fallback.ActionAwaitSync:
			result.Outcome = primary.OutcomeAwaitingSync
			result.Detail = fmt.Sprintf("no sync for %s before cutoff hour %d", weekKey, s.cutoffHour)
			return result, nil

		case fallback.ActionSkipWeek:
			return s.skipWeek(ctx, participant, targetWindow, report.Count(), req, result)
		}

		// Enough trailing days to compute; the entry is stamped partial so
		// the decision's evidence base stays visible.
		method = fallback.MethodPartialData
		count := report.Count()
		daysWithData = &count
	}

	prevKey := schedule.FormatDate(schedule.PreviousWeekStart(targetWindow.Start))
	previous, err := s.targetRepo.GetByWeek(ctx, participant.ID, prevKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load previous target: %w", err)
	}

	if !report.Sufficient() {
		if previous == nil {
			return nil, fmt.Errorf("participant %s week %s: %w", participant.ID, weekKey, ErrInsufficientData)
		}
		return s.maintainTarget(ctx, participant, targetWindow, previous, report.Count(), req, result)
	}

	avg := report.Average()
	weeks := schedule.WeeksSince(start, today)

	var decision escalation.Decision
	var prevTarget *int
	var wasMet *bool
	var anomaly string

	if weeks == 1 || previous == nil {
		decision = escalation.FirstWeek(avg)
		if weeks > 1 {
			anomaly = "no previous target on record; applied first-week table; "
		}
	} else {
		met := escalation.TargetMet(avg, previous.NewTarget)
		decision = escalation.Next(avg, previous.EscalationStep, met)
		pt := previous.NewTarget
		prevTarget = &pt
		wasMet = &met
	}

	record := &secondary.WeeklyTargetRecord{
		ParticipantID:     participant.ID,
		WeekStart:         weekKey,
		WeekEnd:           schedule.FormatDate(targetWindow.End),
		EscalationStep:    string(decision.Step),
		NewTarget:         decision.Target,
		AverageSteps:      &avg,
		PreviousTarget:    prevTarget,
		TargetWasMet:      wasMet,
		CalculationMethod: method,
		DaysWithData:      daysWithData,
	}

	result.Outcome = primary.OutcomeComputed
	if method == fallback.MethodPartialData {
		result.Outcome = primary.OutcomePartialData
	}
	result.Target = s.recordToTarget(record)
	result.Detail = fmt.Sprintf("%savg=%d step=%s target=%d", anomaly, avg, decision.Step, decision.Target)

	return s.persistAndNotify(ctx, participant, record, method == fallback.MethodPartialData, req, result)
}

// maintainTarget writes the degenerate normal-path entry for a week with
// too few valid days: the previous target is carried unchanged and the
// average is left null.
func (s *EvaluationServiceImpl) maintainTarget(ctx context.Context, participant *secondary.ParticipantRecord, targetWindow schedule.Window, previous *secondary.WeeklyTargetRecord, validDays int, req primary.EvaluationRequest, result *primary.EvaluationResult) (*primary.EvaluationResult, error) {
	prev := previous.NewTarget
	record := &secondary.WeeklyTargetRecord{
		ParticipantID:  participant.ID,
		WeekStart:      schedule.FormatDate(targetWindow.Start),
		WeekEnd:        schedule.FormatDate(targetWindow.End),
		EscalationStep: string(escalation.StepInsufficientData),
		NewTarget:      prev,
		PreviousTarget: &prev,
	}

	result.Outcome = primary.OutcomeMaintained
	result.Target = s.recordToTarget(record)
	result.Detail = fmt.Sprintf("%d valid days; maintained target %d", validDays, prev)

	return s.persistAndNotify(ctx, participant, record, false, req, result)
}

// skipWeek handles a post-cutoff evaluation with too little data to
// compute: the most recent non-skipped target is carried forward under a
// skipped_week entry.
func (s *EvaluationServiceImpl) skipWeek(ctx context.Context, participant *secondary.ParticipantRecord, targetWindow schedule.Window, validDays int, req primary.EvaluationRequest, result *primary.EvaluationResult) (*primary.EvaluationResult, error) {
	var lookupErr error
	prior, err := fallback.FindCarryForward(targetWindow.Start, func(weekStart time.Time) (fallback.PriorTarget, bool) {
		if lookupErr != nil {
			return fallback.PriorTarget{}, false
		}
		stored, e := s.targetRepo.GetByWeek(ctx, participant.ID, schedule.FormatDate(weekStart))
		if e != nil {
			lookupErr = e
			return fallback.PriorTarget{}, false
		}
		if stored == nil {
			return fallback.PriorTarget{}, false
		}
		return fallback.PriorTarget{
			WeekStart: weekStart,
			Method:    stored.CalculationMethod,
			NewTarget: stored.NewTarget,
		}, true
	})
	if lookupErr != nil {
		return nil, fmt.Errorf("failed to scan for carry-forward target: %w", lookupErr)
	}
	if err != nil {
		return nil, fmt.Errorf("participant %s week %s: %w", participant.ID, schedule.FormatDate(targetWindow.Start), err)
	}

	prev := prior.NewTarget
	days := validDays
	record := &secondary.WeeklyTargetRecord{
		ParticipantID:     participant.ID,
		WeekStart:         schedule.FormatDate(targetWindow.Start),
		WeekEnd:           schedule.FormatDate(targetWindow.End),
		EscalationStep:    string(escalation.StepSkippedWeek),
		NewTarget:         prior.NewTarget,
		PreviousTarget:    &prev,
		CalculationMethod: fallback.MethodSkippedWeek,
		DaysWithData:      &days,
	}

	result.Outcome = primary.OutcomeSkippedWeek
	result.Target = s.recordToTarget(record)
	result.Detail = fmt.Sprintf("%d valid days; carried %d forward from %s", validDays, prior.NewTarget, schedule.FormatDate(prior.WeekStart))

	return s.persistAndNotify(ctx, participant, record, false, req, result)
}

// persistAndNotify is the shared tail of every deciding branch: upsert,
// optional round-trip verification, flag clearing, then notification. Dry
// runs stop before the first write.
func (s *EvaluationServiceImpl) persistAndNotify(ctx context.Context, participant *secondary.ParticipantRecord, record *secondary.WeeklyTargetRecord, verify bool, req primary.EvaluationRequest, result *primary.EvaluationResult) (*primary.EvaluationResult, error) {
	if req.DryRun {
		return result, nil
	}

	if err := s.targetRepo.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist weekly target: %w", err)
	}

	if verify {
		if err := s.verifyRoundTrip(ctx, participant.ID, record.WeekStart, record.CalculationMethod, record.DaysWithData); err != nil {
			return nil, err
		}
	}

	if err := s.statusRepo.ClearFailure(ctx, participant.ID, secondary.OpTargetCalculation); err != nil {
		return nil, fmt.Errorf("failed to clear calculation flag: %w", err)
	}

	if !req.SkipNotifications {
		s.notify(ctx, participant, record, result)
	}
	return result, nil
}

// verifyRoundTrip re-reads a fallback entry and checks that the method and
// day count survived persistence.
func (s *EvaluationServiceImpl) verifyRoundTrip(ctx context.Context, participantID, weekStart, method string, days *int) error {
	stored, err := s.targetRepo.GetByWeek(ctx, participantID, weekStart)
	if err != nil {
		return fmt.Errorf("failed to re-read stored target: %w", err)
	}
	if stored == nil || stored.CalculationMethod != method {
		return fmt.Errorf("week %s method %q: %w", weekStart, method, ErrRoundTripMismatch)
	}
	if days != nil && (stored.DaysWithData == nil || *stored.DaysWithData != *days) {
		return fmt.Errorf("week %s days_with_data: %w", weekStart, ErrRoundTripMismatch)
	}
	return nil
}

// notify dispatches the weekly message and records the attempt. A failed
// delivery is a flagged, logged fact; it never unwinds the target write.
func (s *EvaluationServiceImpl) notify(ctx context.Context, participant *secondary.ParticipantRecord, record *secondary.WeeklyTargetRecord, result *primary.EvaluationResult) {
	outcome := s.dispatcher.Dispatch(ctx, secondary.NotificationRequest{
		ParticipantID:  participant.ID,
		Email:          participant.Email,
		Language:       participant.Language,
		WeekStart:      record.WeekStart,
		EscalationStep: record.EscalationStep,
		NewTarget:      record.NewTarget,
		AverageSteps:   record.AverageSteps,
		PreviousTarget: record.PreviousTarget,
		TargetWasMet:   record.TargetWasMet,
	})

	result.Notification = &primary.DispatchReport{
		Succeeded:    outcome.Succeeded,
		SubjectLine:  outcome.SubjectLine,
		ErrorMessage: outcome.ErrorMessage,
	}

	// The attempt goes into the history whether or not delivery succeeded.
	_ = s.messageRepo.Append(ctx, &secondary.MessageRecord{
		ParticipantID:     participant.ID,
		SubjectLine:       outcome.SubjectLine,
		Body:              outcome.Body,
		Language:          outcome.Language,
		DecisionSummary:   fmt.Sprintf("%s step=%s target=%d", record.WeekStart, record.EscalationStep, record.NewTarget),
		DeliverySucceeded: outcome.Succeeded,
		ErrorMessage:      outcome.ErrorMessage,
	})

	if outcome.Succeeded {
		_ = s.statusRepo.ClearFailure(ctx, participant.ID, secondary.OpSendNotification)
	} else {
		_ = s.statusRepo.SetFailure(ctx, participant.ID, secondary.OpSendNotification, outcome.ErrorMessage, outcome.SentAt)
	}
}

// RunBatch evaluates every enrolled participant in sequence and writes the
// audit trail for the pass. Per-participant failures become report lines;
// only setup problems abort the batch.
func (s *EvaluationServiceImpl) RunBatch(ctx context.Context, req primary.BatchRequest) (*primary.BatchReport, error) {
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	report := &primary.BatchReport{
		RunID:     uuid.NewString(),
		RunDate:   schedule.FormatDate(now),
		StartedAt: time.Now(),
		DryRun:    req.DryRun,
	}

	var participants []*secondary.ParticipantRecord
	if req.ParticipantID != "" {
		participant, err := s.participantRepo.GetByID(ctx, req.ParticipantID)
		if err != nil {
			return nil, fmt.Errorf("failed to load participant: %w", err)
		}
		if participant == nil {
			return nil, fmt.Errorf("participant %s not found", req.ParticipantID)
		}
		participants = []*secondary.ParticipantRecord{participant}
	} else {
		var err error
		participants, err = s.participantRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list participants: %w", err)
		}
	}

	for _, participant := range participants {
		report.Total++

		result, err := s.EvaluateParticipant(ctx, primary.EvaluationRequest{
			ParticipantID:     participant.ID,
			Now:               now,
			SkipNotifications: req.SkipNotifications,
			DryRun:            req.DryRun,
		})
		if err != nil {
			result = &primary.EvaluationResult{
				ParticipantID: participant.ID,
				Outcome:       primary.OutcomeError,
				Detail:        err.Error(),
			}
			if errors.Is(err, ErrInsufficientData) {
				result.Outcome = primary.OutcomeInsufficientData
			}
		}

		s.tally(report, result)
		report.Results = append(report.Results, result)

		if !req.DryRun {
			_ = s.runLog.LogOutcome(ctx, &secondary.RunLogRecord{
				RunID:         report.RunID,
				RunDate:       report.RunDate,
				ParticipantID: result.ParticipantID,
				Status:        result.Outcome,
				Detail:        result.Detail,
			})
		}
	}

	report.FinishedAt = time.Now()

	if !req.DryRun {
		_ = s.runLog.LogSummary(ctx, &secondary.RunLogRecord{
			RunID:   report.RunID,
			RunDate: report.RunDate,
			Status:  "summary",
			Detail: fmt.Sprintf(
				"total=%d computed=%d partial=%d maintained=%d skipped=%d not_target_day=%d awaiting=%d already=%d insufficient=%d errors=%d sent=%d failed=%d",
				report.Total, report.Computed, report.PartialData, report.Maintained,
				report.SkippedWeek, report.NotTargetDay, report.AwaitingSync, report.AlreadyExists,
				report.InsufficientData, report.Errors, report.NotificationsSent, report.NotificationsFailed,
			),
		})
	}

	return report, nil
}

func (s *EvaluationServiceImpl) tally(report *primary.BatchReport, result *primary.EvaluationResult) {
	switch result.Outcome {
	case primary.OutcomeComputed:
		report.Computed++
	case primary.OutcomePartialData:
		report.PartialData++
	case primary.OutcomeMaintained:
		report.Maintained++
	case primary.OutcomeSkippedWeek:
		report.SkippedWeek++
	case primary.OutcomeNotTargetDay:
		report.NotTargetDay++
	case primary.OutcomeAwaitingSync:
		report.AwaitingSync++
	case primary.OutcomeAlreadyDone:
		report.AlreadyExists++
	case primary.OutcomeInsufficientData:
		report.InsufficientData++
	case primary.OutcomeError:
		report.Errors++
	}

	if result.Notification != nil {
		if result.Notification.Succeeded {
			report.NotificationsSent++
		} else {
			report.NotificationsFailed++
		}
	}
}

// Helper methods

func (s *EvaluationServiceImpl) recordToTarget(r *secondary.WeeklyTargetRecord) *primary.WeeklyTarget {
	return &primary.WeeklyTarget{
		WeekStart:         r.WeekStart,
		WeekEnd:           r.WeekEnd,
		EscalationStep:    r.EscalationStep,
		NewTarget:         r.NewTarget,
		AverageSteps:      r.AverageSteps,
		PreviousTarget:    r.PreviousTarget,
		TargetWasMet:      r.TargetWasMet,
		CalculationMethod: r.CalculationMethod,
		DaysWithData:      r.DaysWithData,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// recordsToDays converts stored activity rows for the aggregator. Rows
// with unparseable dates are dropped; a corrupt row must never take down
// an evaluation.
func recordsToDays(records []*secondary.DailyActivityRecord) []week.Day {
	days := make([]week.Day, 0, len(records))
	for _, r := range records {
		date, err := schedule.ParseDate(r.Date)
		if err != nil {
			continue
		}
		days = append(days, week.Day{Date: date, Steps: r.StepCount, WearHours: r.WearTimeHours})
	}
	return days
}

// Ensure EvaluationServiceImpl implements the interface
var _ primary.EvaluationService = (*EvaluationServiceImpl)(nil)
