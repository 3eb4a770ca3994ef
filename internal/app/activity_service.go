package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/stride/internal/core/schedule"
	"github.com/example/stride/internal/ports/primary"
	"github.com/example/stride/internal/ports/secondary"
)

// ActivityServiceImpl implements the ActivityService interface.
type ActivityServiceImpl struct {
	participantRepo secondary.ParticipantRepository
	activityRepo    secondary.ActivityRepository
	statusRepo      secondary.StatusRepository
}

// NewActivityService creates a new ActivityService with injected dependencies.
func NewActivityService(
	participantRepo secondary.ParticipantRepository,
	activityRepo secondary.ActivityRepository,
	statusRepo secondary.StatusRepository,
) *ActivityServiceImpl {
	return &ActivityServiceImpl{
		participantRepo: participantRepo,
		activityRepo:    activityRepo,
		statusRepo:      statusRepo,
	}
}

// stepEntry is one day in a device export. Exports in the wild use either
// "date" or "dateTime" for the day and encode value as a number or a
// numeric string; json.Number absorbs both.
type stepEntry struct {
	Date          string      `json:"date"`
	DateTime      string      `json:"dateTime"`
	Value         json.Number `json:"value"`
	WearTimeHours *float64    `json:"wear_time_hours"`
}

// ImportActivity merge-upserts daily records from a JSON export. The
// payload is either a bare entry array or an object with an
// "activities-steps" array. Malformed entries are skipped and counted;
// only an unreadable payload or a persistence failure is fatal, and both
// set the fetch_data flag.
func (s *ActivityServiceImpl) ImportActivity(ctx context.Context, participantID string, payload []byte) (*primary.ImportResult, error) {
	participant, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	if participant == nil {
		return nil, fmt.Errorf("participant %s not found", participantID)
	}

	entries, err := decodeStepExport(payload)
	if err != nil {
		s.flagImport(ctx, participantID, err)
		return nil, err
	}

	result := &primary.ImportResult{ParticipantID: participantID}
	for _, raw := range entries {
		var entry stepEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			result.Skipped++
			continue
		}

		dateStr := entry.Date
		if dateStr == "" {
			dateStr = entry.DateTime
		}
		date, err := schedule.ParseDate(dateStr)
		if err != nil {
			result.Skipped++
			continue
		}

		steps, err := entry.Value.Int64()
		if err != nil || steps < 0 {
			result.Skipped++
			continue
		}

		record := &secondary.DailyActivityRecord{
			ParticipantID: participantID,
			Date:          schedule.FormatDate(date),
			StepCount:     int(steps),
			WearTimeHours: entry.WearTimeHours,
		}
		if err := s.activityRepo.Upsert(ctx, record); err != nil {
			err = fmt.Errorf("failed to store record for %s: %w", record.Date, err)
			s.flagImport(ctx, participantID, err)
			return nil, err
		}
		result.Imported++
	}

	if err := s.statusRepo.ClearFailure(ctx, participantID, secondary.OpFetchData); err != nil {
		return nil, fmt.Errorf("failed to clear fetch flag: %w", err)
	}
	return result, nil
}

// RecentActivity returns the newest daily records for a participant.
func (s *ActivityServiceImpl) RecentActivity(ctx context.Context, participantID string, limit int) ([]*primary.ActivityDay, error) {
	participant, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	if participant == nil {
		return nil, fmt.Errorf("participant %s not found", participantID)
	}

	records, err := s.activityRepo.ListRecent(ctx, participantID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	days := make([]*primary.ActivityDay, 0, len(records))
	for _, record := range records {
		days = append(days, &primary.ActivityDay{
			Date:          record.Date,
			StepCount:     record.StepCount,
			WearTimeHours: record.WearTimeHours,
		})
	}
	return days, nil
}

// decodeStepExport extracts the raw entry list from either export shape.
// Entries stay raw so one bad entry cannot abort the whole import.
func decodeStepExport(payload []byte) ([]json.RawMessage, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(payload, &entries); err == nil {
		return entries, nil
	}

	var export struct {
		Steps []json.RawMessage `json:"activities-steps"`
	}
	if err := json.Unmarshal(payload, &export); err != nil || export.Steps == nil {
		return nil, fmt.Errorf("unrecognized step export payload")
	}
	return export.Steps, nil
}

func (s *ActivityServiceImpl) flagImport(ctx context.Context, participantID string, cause error) {
	_ = s.statusRepo.SetFailure(ctx, participantID, secondary.OpFetchData, cause.Error(), time.Now().Format(time.RFC3339))
}

// Ensure ActivityServiceImpl implements the interface
var _ primary.ActivityService = (*ActivityServiceImpl)(nil)
