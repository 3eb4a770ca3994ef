package app

import (
	"context"
	"testing"

	"github.com/example/stride/internal/ports/secondary"
)

func TestRecentRuns_NewestFirstWithLimit(t *testing.T) {
	runLog := newMockRunLog()
	service := NewRunLogService(runLog)
	ctx := context.Background()

	entries := []*secondary.RunLogRecord{
		{RunID: "run-1", RunDate: "2026-01-12", ParticipantID: "PART-001", Status: "computed", Detail: "avg=4300 step=500 target=4800"},
		{RunID: "run-1", RunDate: "2026-01-12", Status: "summary", Detail: "total=1 computed=1"},
		{RunID: "run-2", RunDate: "2026-01-19", ParticipantID: "PART-001", Status: "awaiting_sync"},
	}
	for _, e := range entries {
		if err := runLog.LogOutcome(ctx, e); err != nil {
			t.Fatalf("seed entry failed: %v", err)
		}
	}

	recent, err := service.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d entries, want 2", len(recent))
	}
	if recent[0].RunID != "run-2" || recent[0].Status != "awaiting_sync" {
		t.Errorf("recent[0] = %+v, want the run-2 entry", recent[0])
	}
	if recent[1].Status != "summary" {
		t.Errorf("recent[1].Status = %q, want summary", recent[1].Status)
	}
}
