package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/stride/internal/adapters/sqlite"
	"github.com/example/stride/internal/ports/secondary"
)

func TestStatusRepository_SetFailure(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewStatusRepository(db)
	ctx := context.Background()

	seedParticipant(t, db, "PART-001", "")

	t.Run("records failure with error details", func(t *testing.T) {
		err := repo.SetFailure(ctx, "PART-001", secondary.OpFetchData, "connection refused", "2026-01-12T08:00:00Z")
		if err != nil {
			t.Fatalf("SetFailure failed: %v", err)
		}

		got, err := repo.Get(ctx, "PART-001", secondary.OpFetchData)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got == nil {
			t.Fatal("Get returned nil for existing flag")
		}
		if !got.Failing {
			t.Error("Failing = false, want true")
		}
		if got.LastError != "connection refused" {
			t.Errorf("LastError = %q, want %q", got.LastError, "connection refused")
		}
		if got.LastErrorTime != "2026-01-12T08:00:00Z" {
			t.Errorf("LastErrorTime = %q, want %q", got.LastErrorTime, "2026-01-12T08:00:00Z")
		}
	})

	t.Run("updates existing flag in place", func(t *testing.T) {
		err := repo.SetFailure(ctx, "PART-001", secondary.OpFetchData, "timeout", "2026-01-13T08:00:00Z")
		if err != nil {
			t.Fatalf("SetFailure failed: %v", err)
		}

		list, err := repo.ListByParticipant(ctx, "PART-001")
		if err != nil {
			t.Fatalf("ListByParticipant failed: %v", err)
		}
		if len(list) != 1 {
			t.Fatalf("len = %d, want 1 after repeat failure", len(list))
		}
		if list[0].LastError != "timeout" {
			t.Errorf("LastError = %q, want %q", list[0].LastError, "timeout")
		}
	})
}

func TestStatusRepository_ClearFailure(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewStatusRepository(db)
	ctx := context.Background()

	seedParticipant(t, db, "PART-001", "")

	t.Run("clears a failing flag and keeps error details", func(t *testing.T) {
		if err := repo.SetFailure(ctx, "PART-001", secondary.OpTargetCalculation, "insufficient data", "2026-01-12T17:00:00Z"); err != nil {
			t.Fatalf("SetFailure failed: %v", err)
		}

		if err := repo.ClearFailure(ctx, "PART-001", secondary.OpTargetCalculation); err != nil {
			t.Fatalf("ClearFailure failed: %v", err)
		}

		got, err := repo.Get(ctx, "PART-001", secondary.OpTargetCalculation)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Failing {
			t.Error("Failing = true, want false after clear")
		}
		if got.LastError != "insufficient data" {
			t.Errorf("LastError = %q, want preserved after clear", got.LastError)
		}
	})

	t.Run("creates healthy flag when none exists", func(t *testing.T) {
		if err := repo.ClearFailure(ctx, "PART-001", secondary.OpSendNotification); err != nil {
			t.Fatalf("ClearFailure failed: %v", err)
		}

		got, err := repo.Get(ctx, "PART-001", secondary.OpSendNotification)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got == nil {
			t.Fatal("Get returned nil, want healthy flag")
		}
		if got.Failing {
			t.Error("Failing = true, want false")
		}
	})
}

func TestStatusRepository_Get(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewStatusRepository(db)
	ctx := context.Background()

	seedParticipant(t, db, "PART-001", "")

	t.Run("returns nil when operation never recorded", func(t *testing.T) {
		got, err := repo.Get(ctx, "PART-001", secondary.OpRefreshToken)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got != nil {
			t.Errorf("Get = %+v, want nil", got)
		}
	})
}

func TestStatusRepository_ListFailing(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewStatusRepository(db)
	ctx := context.Background()

	seedParticipant(t, db, "PART-001", "")
	seedParticipant(t, db, "PART-002", "")

	if err := repo.SetFailure(ctx, "PART-002", secondary.OpRefreshToken, "device authorization expired", "2026-01-12T08:00:00Z"); err != nil {
		t.Fatalf("SetFailure failed: %v", err)
	}
	if err := repo.SetFailure(ctx, "PART-001", secondary.OpFetchData, "connection refused", "2026-01-12T08:00:00Z"); err != nil {
		t.Fatalf("SetFailure failed: %v", err)
	}
	if err := repo.ClearFailure(ctx, "PART-001", secondary.OpTargetCalculation); err != nil {
		t.Fatalf("ClearFailure failed: %v", err)
	}

	t.Run("returns only failing flags across participants", func(t *testing.T) {
		list, err := repo.ListFailing(ctx)
		if err != nil {
			t.Fatalf("ListFailing failed: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("len = %d, want 2", len(list))
		}
		if list[0].ParticipantID != "PART-001" || list[1].ParticipantID != "PART-002" {
			t.Errorf("order = [%s, %s], want [PART-001, PART-002]", list[0].ParticipantID, list[1].ParticipantID)
		}
	})

	t.Run("shrinks after a flag is cleared", func(t *testing.T) {
		if err := repo.ClearFailure(ctx, "PART-001", secondary.OpFetchData); err != nil {
			t.Fatalf("ClearFailure failed: %v", err)
		}

		list, err := repo.ListFailing(ctx)
		if err != nil {
			t.Fatalf("ListFailing failed: %v", err)
		}
		if len(list) != 1 {
			t.Fatalf("len = %d, want 1", len(list))
		}
		if list[0].Operation != secondary.OpRefreshToken {
			t.Errorf("Operation = %q, want %q", list[0].Operation, secondary.OpRefreshToken)
		}
	})
}
