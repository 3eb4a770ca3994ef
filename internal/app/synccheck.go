package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/stride/internal/core/schedule"
	"github.com/example/stride/internal/core/week"
	"github.com/example/stride/internal/ports/primary"
	"github.com/example/stride/internal/ports/secondary"
)

// CheckSync walks every enrolled participant (or a single one when
// restricted) and, for those whose target day is today, verifies a step
// record for today is on file. A missing record raises the device_sync
// flag so the status dashboard shows who to contact before the evening
// evaluation; a present record clears a stale flag. The flag is raised at
// most once per day.
func (s *EvaluationServiceImpl) CheckSync(ctx context.Context, req primary.SyncCheckRequest) (*primary.SyncCheckReport, error) {
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	today := schedule.Normalize(now)

	report := &primary.SyncCheckReport{
		RunDate: schedule.FormatDate(today),
		DryRun:  req.DryRun,
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
		result := s.checkParticipantSync(ctx, participant, now, today, req.DryRun)

		switch result.Outcome {
		case primary.OutcomeNotTargetDay:
			report.NotTargetDay++
		case primary.SyncOutcomeSynced:
			report.Synced++
		case primary.SyncOutcomeMissing:
			report.Missing++
		case primary.SyncOutcomeAlertRaised:
			report.AlertsRaised++
		case primary.OutcomeError:
			report.Errors++
		}
		report.Results = append(report.Results, result)
	}

	return report, nil
}

func (s *EvaluationServiceImpl) checkParticipantSync(ctx context.Context, participant *secondary.ParticipantRecord, now, today time.Time, dryRun bool) *primary.SyncCheckResult {
	result := &primary.SyncCheckResult{ParticipantID: participant.ID}

	start, err := schedule.ParseDate(participant.StartDate)
	if err != nil {
		result.Outcome = primary.OutcomeError
		result.Detail = fmt.Sprintf("bad start date %q", participant.StartDate)
		return result
	}

	if !schedule.IsTargetDay(start, today) {
		result.Outcome = primary.OutcomeNotTargetDay
		result.Detail = fmt.Sprintf("target day is %s", start.Weekday())
		return result
	}

	records, err := s.activityRepo.ListByParticipant(ctx, participant.ID)
	if err != nil {
		result.Outcome = primary.OutcomeError
		result.Detail = fmt.Sprintf("failed to load activity: %v", err)
		return result
	}

	if week.HasDataOn(recordsToDays(records), today) {
		result.Outcome = primary.SyncOutcomeSynced
		result.Detail = "today's record on file"
		if !dryRun {
			_ = s.statusRepo.ClearFailure(ctx, participant.ID, secondary.OpDeviceSync)
		}
		return result
	}

	if dryRun {
		result.Outcome = primary.SyncOutcomeMissing
		result.Detail = "no record for today; would raise device_sync"
		return result
	}

	flag, err := s.statusRepo.Get(ctx, participant.ID, secondary.OpDeviceSync)
	if err != nil {
		result.Outcome = primary.OutcomeError
		result.Detail = fmt.Sprintf("failed to load device_sync flag: %v", err)
		return result
	}
	if flag != nil && flag.Failing && sameDay(flag.LastErrorTime, today) {
		result.Outcome = primary.SyncOutcomeMissing
		result.Detail = "no record for today; already flagged"
		return result
	}

	message := fmt.Sprintf("no device data on target day %s", schedule.FormatDate(today))
	if err := s.statusRepo.SetFailure(ctx, participant.ID, secondary.OpDeviceSync, message, now.Format(time.RFC3339)); err != nil {
		result.Outcome = primary.OutcomeError
		result.Detail = fmt.Sprintf("failed to raise device_sync flag: %v", err)
		return result
	}

	result.Outcome = primary.SyncOutcomeAlertRaised
	result.Detail = message
	return result
}

// sameDay reports whether an RFC 3339 timestamp falls on the given day.
func sameDay(timestamp string, day time.Time) bool {
	return strings.HasPrefix(timestamp, schedule.FormatDate(day))
}
