package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/stride/internal/adapters/sqlite"
	"github.com/example/stride/internal/ports/secondary"
)

func TestRunLogRepository_LogOutcome(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewRunLogRepository(db)
	ctx := context.Background()

	t.Run("records participant outcome", func(t *testing.T) {
		entry := &secondary.RunLogRecord{
			RunID:         "run-1",
			RunDate:       "2026-01-12",
			ParticipantID: "PART-001",
			Status:        "computed",
			Detail:        "step=500 target=6300",
		}

		err := repo.LogOutcome(ctx, entry)
		if err != nil {
			t.Fatalf("LogOutcome failed: %v", err)
		}

		list, err := repo.ListByRun(ctx, "run-1")
		if err != nil {
			t.Fatalf("ListByRun failed: %v", err)
		}
		if len(list) != 1 {
			t.Fatalf("len = %d, want 1", len(list))
		}
		if list[0].ParticipantID != "PART-001" {
			t.Errorf("ParticipantID = %q, want %q", list[0].ParticipantID, "PART-001")
		}
		if list[0].Status != "computed" {
			t.Errorf("Status = %q, want %q", list[0].Status, "computed")
		}
		if list[0].Detail != "step=500 target=6300" {
			t.Errorf("Detail = %q, want %q", list[0].Detail, "step=500 target=6300")
		}
		if list[0].CreatedAt == "" {
			t.Error("CreatedAt is empty, want timestamp")
		}
	})
}

func TestRunLogRepository_LogSummary(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewRunLogRepository(db)
	ctx := context.Background()

	t.Run("records summary without participant", func(t *testing.T) {
		entry := &secondary.RunLogRecord{
			RunID:   "run-1",
			RunDate: "2026-01-12",
			Status:  "summary",
			Detail:  "total=3 computed=2 errors=1",
		}

		err := repo.LogSummary(ctx, entry)
		if err != nil {
			t.Fatalf("LogSummary failed: %v", err)
		}

		list, err := repo.ListByRun(ctx, "run-1")
		if err != nil {
			t.Fatalf("ListByRun failed: %v", err)
		}
		if len(list) != 1 {
			t.Fatalf("len = %d, want 1", len(list))
		}
		if list[0].ParticipantID != "" {
			t.Errorf("ParticipantID = %q, want empty", list[0].ParticipantID)
		}
		if list[0].Status != "summary" {
			t.Errorf("Status = %q, want %q", list[0].Status, "summary")
		}
	})
}

func TestRunLogRepository_ListByRun(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewRunLogRepository(db)
	ctx := context.Background()

	outcomes := []*secondary.RunLogRecord{
		{RunID: "run-1", RunDate: "2026-01-12", ParticipantID: "PART-001", Status: "computed"},
		{RunID: "run-1", RunDate: "2026-01-12", ParticipantID: "PART-002", Status: "not_target_day"},
		{RunID: "run-2", RunDate: "2026-01-13", ParticipantID: "PART-001", Status: "already_exists"},
	}
	for i, entry := range outcomes {
		if err := repo.LogOutcome(ctx, entry); err != nil {
			t.Fatalf("LogOutcome %d failed: %v", i, err)
		}
	}
	if err := repo.LogSummary(ctx, &secondary.RunLogRecord{RunID: "run-1", RunDate: "2026-01-12", Status: "summary"}); err != nil {
		t.Fatalf("LogSummary failed: %v", err)
	}

	t.Run("returns entries of one run in insertion order", func(t *testing.T) {
		list, err := repo.ListByRun(ctx, "run-1")
		if err != nil {
			t.Fatalf("ListByRun failed: %v", err)
		}
		if len(list) != 3 {
			t.Fatalf("len = %d, want 3", len(list))
		}
		if list[0].ParticipantID != "PART-001" {
			t.Errorf("first ParticipantID = %q, want %q", list[0].ParticipantID, "PART-001")
		}
		if list[2].Status != "summary" {
			t.Errorf("last Status = %q, want %q", list[2].Status, "summary")
		}
	})
}

func TestRunLogRepository_ListRecent(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewRunLogRepository(db)
	ctx := context.Background()

	for i, runID := range []string{"run-1", "run-2", "run-3"} {
		entry := &secondary.RunLogRecord{
			RunID:         runID,
			RunDate:       "2026-01-12",
			ParticipantID: "PART-001",
			Status:        "computed",
		}
		if err := repo.LogOutcome(ctx, entry); err != nil {
			t.Fatalf("LogOutcome %d failed: %v", i, err)
		}
	}

	t.Run("orders newest first", func(t *testing.T) {
		list, err := repo.ListRecent(ctx, 0)
		if err != nil {
			t.Fatalf("ListRecent failed: %v", err)
		}
		if len(list) != 3 {
			t.Fatalf("len = %d, want 3", len(list))
		}
		if list[0].RunID != "run-3" {
			t.Errorf("first RunID = %q, want %q", list[0].RunID, "run-3")
		}
	})

	t.Run("applies limit", func(t *testing.T) {
		list, err := repo.ListRecent(ctx, 2)
		if err != nil {
			t.Fatalf("ListRecent failed: %v", err)
		}
		if len(list) != 2 {
			t.Errorf("len = %d, want 2", len(list))
		}
	})
}
