package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/example/stride/internal/core/locale"
	"github.com/example/stride/internal/core/schedule"
	"github.com/example/stride/internal/ports/primary"
	"github.com/example/stride/internal/ports/secondary"
)

// recentActivityDays is how many daily records GetProgress returns.
const recentActivityDays = 14

// ParticipantServiceImpl implements the ParticipantService interface.
type ParticipantServiceImpl struct {
	participantRepo secondary.ParticipantRepository
	targetRepo      secondary.TargetRepository
	statusRepo      secondary.StatusRepository
	activityRepo    secondary.ActivityRepository
	messageRepo     secondary.MessageRepository
	defaultLanguage string
}

// NewParticipantService creates a new ParticipantService with injected
// dependencies. An empty defaultLanguage falls back to English.
func NewParticipantService(
	participantRepo secondary.ParticipantRepository,
	targetRepo secondary.TargetRepository,
	statusRepo secondary.StatusRepository,
	activityRepo secondary.ActivityRepository,
	messageRepo secondary.MessageRepository,
	defaultLanguage string,
) *ParticipantServiceImpl {
	if defaultLanguage == "" {
		defaultLanguage = locale.English
	}
	return &ParticipantServiceImpl{
		participantRepo: participantRepo,
		targetRepo:      targetRepo,
		statusRepo:      statusRepo,
		activityRepo:    activityRepo,
		messageRepo:     messageRepo,
		defaultLanguage: defaultLanguage,
	}
}

// Enroll registers a new participant and mints their device auth token.
// The start date is stored in canonical form and never changes afterwards;
// every future week boundary derives from it.
func (s *ParticipantServiceImpl) Enroll(ctx context.Context, req primary.EnrollRequest) (*primary.Participant, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email address %q", email)
	}

	if req.StartDate == "" {
		return nil, fmt.Errorf("start date is required")
	}
	start, err := schedule.ParseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", req.StartDate, err)
	}

	language := s.defaultLanguage
	if req.Language != "" {
		language = strings.ToLower(strings.TrimSpace(req.Language))
	}
	if !locale.IsSupported(language) {
		return nil, fmt.Errorf("unsupported language %q (supported: %s)", req.Language, strings.Join(locale.Supported(), ", "))
	}

	existing, err := s.participantRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("participant with email %s already exists (%s)", email, existing.ID)
	}

	id, err := s.participantRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get next participant ID: %w", err)
	}

	record := &secondary.ParticipantRecord{
		ID:              id,
		Email:           email,
		Language:        language,
		StartDate:       schedule.FormatDate(start),
		DeviceAuthToken: uuid.NewString(),
	}
	if err := s.participantRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}

	return s.recordToParticipant(record), nil
}

// GetParticipant retrieves a participant by ID.
func (s *ParticipantServiceImpl) GetParticipant(ctx context.Context, id string) (*primary.Participant, error) {
	record, err := s.participantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("participant %s not found", id)
	}
	return s.recordToParticipant(record), nil
}

// ListParticipants lists all enrolled participants ordered by ID.
func (s *ParticipantServiceImpl) ListParticipants(ctx context.Context) ([]*primary.Participant, error) {
	records, err := s.participantRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	participants := make([]*primary.Participant, 0, len(records))
	for _, record := range records {
		participants = append(participants, s.recordToParticipant(record))
	}
	return participants, nil
}

// GetProgress bundles a participant's target history, status flags, and
// recent activity for the inspection commands.
func (s *ParticipantServiceImpl) GetProgress(ctx context.Context, id string) (*primary.ParticipantProgress, error) {
	participant, err := s.participantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	if participant == nil {
		return nil, fmt.Errorf("participant %s not found", id)
	}

	targets, err := s.targetRepo.ListByParticipant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}

	flags, err := s.statusRepo.ListByParticipant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list status flags: %w", err)
	}

	recent, err := s.activityRepo.ListRecent(ctx, id, recentActivityDays)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent activity: %w", err)
	}

	progress := &primary.ParticipantProgress{
		Participant: s.recordToParticipant(participant),
	}
	for _, t := range targets {
		progress.Targets = append(progress.Targets, s.recordToTarget(t))
	}
	for _, f := range flags {
		progress.Flags = append(progress.Flags, s.recordToFlag(f))
	}
	for _, d := range recent {
		progress.RecentDays = append(progress.RecentDays, &primary.ActivityDay{
			Date:          d.Date,
			StepCount:     d.StepCount,
			WearTimeHours: d.WearTimeHours,
		})
	}
	return progress, nil
}

// ListMessages returns a participant's notification history, newest first.
func (s *ParticipantServiceImpl) ListMessages(ctx context.Context, id string, limit int) ([]*primary.Message, error) {
	participant, err := s.participantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	if participant == nil {
		return nil, fmt.Errorf("participant %s not found", id)
	}

	records, err := s.messageRepo.ListByParticipant(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages := make([]*primary.Message, 0, len(records))
	for _, record := range records {
		messages = append(messages, &primary.Message{
			ParticipantID:     record.ParticipantID,
			SentAt:            record.SentAt,
			SubjectLine:       record.SubjectLine,
			Body:              record.Body,
			Language:          record.Language,
			DecisionSummary:   record.DecisionSummary,
			DeliverySucceeded: record.DeliverySucceeded,
			ErrorMessage:      record.ErrorMessage,
		})
	}
	return messages, nil
}

// ListFailingFlags returns every failing status flag across participants.
func (s *ParticipantServiceImpl) ListFailingFlags(ctx context.Context) ([]*primary.StatusFlag, error) {
	records, err := s.statusRepo.ListFailing(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list failing flags: %w", err)
	}

	flags := make([]*primary.StatusFlag, 0, len(records))
	for _, record := range records {
		flags = append(flags, s.recordToFlag(record))
	}
	return flags, nil
}

// Helper methods

func (s *ParticipantServiceImpl) recordToParticipant(r *secondary.ParticipantRecord) *primary.Participant {
	return &primary.Participant{
		ID:              r.ID,
		Email:           r.Email,
		Language:        r.Language,
		StartDate:       r.StartDate,
		DeviceAuthToken: r.DeviceAuthToken,
		CreatedAt:       r.CreatedAt,
	}
}

func (s *ParticipantServiceImpl) recordToTarget(r *secondary.WeeklyTargetRecord) *primary.WeeklyTarget {
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

func (s *ParticipantServiceImpl) recordToFlag(r *secondary.StatusFlagRecord) *primary.StatusFlag {
	return &primary.StatusFlag{
		ParticipantID: r.ParticipantID,
		Operation:     r.Operation,
		Failing:       r.Failing,
		LastError:     r.LastError,
		LastErrorTime: r.LastErrorTime,
	}
}

// Ensure ParticipantServiceImpl implements the interface
var _ primary.ParticipantService = (*ParticipantServiceImpl)(nil)
