package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/stride/internal/ports/primary"
)

// mockParticipantService implements primary.ParticipantService for testing
type mockParticipantService struct {
	enrollFn   func(ctx context.Context, req primary.EnrollRequest) (*primary.Participant, error)
	getFn      func(ctx context.Context, id string) (*primary.Participant, error)
	listFn     func(ctx context.Context) ([]*primary.Participant, error)
	progressFn func(ctx context.Context, id string) (*primary.ParticipantProgress, error)
	messagesFn func(ctx context.Context, id string, limit int) ([]*primary.Message, error)
	failingFn  func(ctx context.Context) ([]*primary.StatusFlag, error)

	// Track calls for verification
	lastEnrollReq primary.EnrollRequest
	lastLimit     int
}

func (m *mockParticipantService) Enroll(ctx context.Context, req primary.EnrollRequest) (*primary.Participant, error) {
	m.lastEnrollReq = req
	if m.enrollFn != nil {
		return m.enrollFn(ctx, req)
	}
	return &primary.Participant{
		ID:              "PART-001",
		Email:           req.Email,
		Language:        "en",
		StartDate:       req.StartDate,
		DeviceAuthToken: "7f8b7e6a-3f0d-4f4e-9168-1a2b3c4d5e6f",
	}, nil
}

func (m *mockParticipantService) GetParticipant(ctx context.Context, id string) (*primary.Participant, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return &primary.Participant{ID: id, Email: "pat@example.org", Language: "en", StartDate: "2026-01-05"}, nil
}

func (m *mockParticipantService) ListParticipants(ctx context.Context) ([]*primary.Participant, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []*primary.Participant{}, nil
}

func (m *mockParticipantService) GetProgress(ctx context.Context, id string) (*primary.ParticipantProgress, error) {
	if m.progressFn != nil {
		return m.progressFn(ctx, id)
	}
	return &primary.ParticipantProgress{
		Participant: &primary.Participant{ID: id, Email: "pat@example.org", Language: "en", StartDate: "2026-01-05"},
	}, nil
}

func (m *mockParticipantService) ListMessages(ctx context.Context, id string, limit int) ([]*primary.Message, error) {
	m.lastLimit = limit
	if m.messagesFn != nil {
		return m.messagesFn(ctx, id, limit)
	}
	return []*primary.Message{}, nil
}

func (m *mockParticipantService) ListFailingFlags(ctx context.Context) ([]*primary.StatusFlag, error) {
	if m.failingFn != nil {
		return m.failingFn(ctx)
	}
	return []*primary.StatusFlag{}, nil
}

func float64Ptr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool          { return &v }

// ============================================================================
// Enroll Tests
// ============================================================================

func TestParticipantAdapter_Enroll_Success(t *testing.T) {
	mock := &mockParticipantService{}
	var buf bytes.Buffer
	adapter := NewParticipantAdapter(mock, &buf)

	err := adapter.Enroll(context.Background(), "pat@example.org", "2026-01-05", "")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mock.lastEnrollReq.Email != "pat@example.org" {
		t.Errorf("expected email 'pat@example.org', got '%s'", mock.lastEnrollReq.Email)
	}
	if mock.lastEnrollReq.StartDate != "2026-01-05" {
		t.Errorf("expected start date '2026-01-05', got '%s'", mock.lastEnrollReq.StartDate)
	}
	output := buf.String()
	if !strings.Contains(output, "Enrolled PART-001: pat@example.org") {
		t.Errorf("expected enrollment line, got '%s'", output)
	}
	if !strings.Contains(output, "target day: Monday") {
		t.Errorf("expected target day from the start date, got '%s'", output)
	}
	if !strings.Contains(output, "Device token: 7f8b7e6a") {
		t.Errorf("expected minted device token, got '%s'", output)
	}
}

func TestParticipantAdapter_Enroll_ServiceError(t *testing.T) {
	mock := &mockParticipantService{
		enrollFn: func(ctx context.Context, req primary.EnrollRequest) (*primary.Participant, error) {
			return nil, errors.New("participant with email pat@example.org already enrolled")
		},
	}
	var buf bytes.Buffer
	adapter := NewParticipantAdapter(mock, &buf)

	err := adapter.Enroll(context.Background(), "pat@example.org", "2026-01-05", "")

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "already enrolled") {
		t.Errorf("expected duplicate error, got '%s'", err.Error())
	}
}

// ============================================================================
// List Tests
// ============================================================================

func TestParticipantAdapter_List_WithResults(t *testing.T) {
	mock := &mockParticipantService{
		listFn: func(ctx context.Context) ([]*primary.Participant, error) {
			return []*primary.Participant{
				{ID: "PART-001", Email: "alice@example.org", Language: "en", StartDate: "2026-01-05"},
				{ID: "PART-002", Email: "benoit@example.org", Language: "fr", StartDate: "2026-01-07"},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewParticipantAdapter(mock, &buf)

	err := adapter.List(context.Background())

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "PART-001") || !strings.Contains(output, "PART-002") {
		t.Errorf("expected both participants listed, got '%s'", output)
	}
	if !strings.Contains(output, "Monday") || !strings.Contains(output, "Wednesday") {
		t.Errorf("expected target weekdays, got '%s'", output)
	}
}

func TestParticipantAdapter_List_Empty(t *testing.T) {
	mock := &mockParticipantService{}
	var buf bytes.Buffer
	adapter := NewParticipantAdapter(mock, &buf)

	err := adapter.List(context.Background())

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "No participants enrolled") {
		t.Errorf("expected empty message, got '%s'", buf.String())
	}
	if !strings.Contains(buf.String(), "stride enroll") {
		t.Errorf("expected enrollment hint, got '%s'", buf.String())
	}
}

// ============================================================================
// Show Tests
// ============================================================================

func TestParticipantAdapter_Show_RendersProgress(t *testing.T) {
	avg := 5400
	mock := &mockParticipantService{
		progressFn: func(ctx context.Context, id string) (*primary.ParticipantProgress, error) {
			return &primary.ParticipantProgress{
				Participant: &primary.Participant{
					ID: id, Email: "alice@example.org", Language: "en",
					StartDate: "2026-01-05", CreatedAt: "2026-01-05T09:00:00Z",
				},
				Targets: []*primary.WeeklyTarget{
					{
						WeekStart: "2026-01-19", NewTarget: 5600,
						EscalationStep: "insufficient data - target maintained",
					},
					{
						WeekStart: "2026-01-12", NewTarget: 5600, EscalationStep: "500",
						AverageSteps: &avg, TargetWasMet: boolPtr(false), CalculationMethod: "normal",
					},
				},
				Flags: []*primary.StatusFlag{
					{Operation: "target_calculation", Failing: false},
					{Operation: "send_notification", Failing: true, LastError: "smtp: connection refused", LastErrorTime: "2026-01-12T17:30:05Z"},
				},
				RecentDays: []*primary.ActivityDay{
					{Date: "2026-01-12", StepCount: 4321, WearTimeHours: float64Ptr(11.5)},
					{Date: "2026-01-11", StepCount: 6100},
				},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewParticipantAdapter(mock, &buf)

	err := adapter.Show(context.Background(), "PART-001")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "Participant: PART-001") {
		t.Errorf("expected participant header, got '%s'", output)
	}
	if !strings.Contains(output, "✓ target_calculation") {
		t.Errorf("expected healthy flag line, got '%s'", output)
	}
	if !strings.Contains(output, "✗ send_notification: smtp: connection refused") {
		t.Errorf("expected failing flag line, got '%s'", output)
	}
	if !strings.Contains(output, "2026-01-12") || !strings.Contains(output, "5400") {
		t.Errorf("expected target row with average, got '%s'", output)
	}
	if !strings.Contains(output, "no") {
		t.Errorf("expected met column rendering, got '%s'", output)
	}
	if !strings.Contains(output, "11.5h") {
		t.Errorf("expected wear hours, got '%s'", output)
	}
}

func TestParticipantAdapter_Show_EmptySections(t *testing.T) {
	mock := &mockParticipantService{}
	var buf bytes.Buffer
	adapter := NewParticipantAdapter(mock, &buf)

	err := adapter.Show(context.Background(), "PART-001")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "no targets computed yet") {
		t.Errorf("expected empty targets note, got '%s'", output)
	}
	if !strings.Contains(output, "no daily records yet") {
		t.Errorf("expected empty activity note, got '%s'", output)
	}
}

func TestParticipantAdapter_Show_NotFound(t *testing.T) {
	mock := &mockParticipantService{
		progressFn: func(ctx context.Context, id string) (*primary.ParticipantProgress, error) {
			return nil, errors.New("participant PART-404 not found")
		},
	}
	var buf bytes.Buffer
	adapter := NewParticipantAdapter(mock, &buf)

	err := adapter.Show(context.Background(), "PART-404")

	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// ============================================================================
// History Tests
// ============================================================================

func TestParticipantAdapter_History_Empty(t *testing.T) {
	mock := &mockParticipantService{}
	var buf bytes.Buffer
	adapter := NewParticipantAdapter(mock, &buf)

	err := adapter.History(context.Background(), "PART-001", 10)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "No notifications recorded for PART-001") {
		t.Errorf("expected empty message, got '%s'", buf.String())
	}
	if mock.lastLimit != 10 {
		t.Errorf("expected limit 10 passed through, got %d", mock.lastLimit)
	}
}

func TestParticipantAdapter_History_RendersMessages(t *testing.T) {
	mock := &mockParticipantService{
		messagesFn: func(ctx context.Context, id string, limit int) ([]*primary.Message, error) {
			return []*primary.Message{
				{
					SentAt: "2026-01-12T17:30:02Z", SubjectLine: "Your New Weekly Step Target",
					Language: "en", DecisionSummary: "2026-01-12 step=500 target=5600",
					DeliverySucceeded: true,
				},
				{
					SentAt: "2026-01-05T17:30:02Z", SubjectLine: "Your New Weekly Step Target",
					Language: "en", DecisionSummary: "2026-01-05 step=500 target=5100",
					DeliverySucceeded: false, ErrorMessage: "smtp: connection refused",
				},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewParticipantAdapter(mock, &buf)

	err := adapter.History(context.Background(), "PART-001", 0)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "Your New Weekly Step Target") {
		t.Errorf("expected subject line, got '%s'", output)
	}
	if !strings.Contains(output, "✓ sent") || !strings.Contains(output, "✗ failed") {
		t.Errorf("expected delivery markers, got '%s'", output)
	}
	if !strings.Contains(output, "2026-01-12 step=500 target=5600") {
		t.Errorf("expected decision summary, got '%s'", output)
	}
	if !strings.Contains(output, "error: smtp: connection refused") {
		t.Errorf("expected error line for the failed delivery, got '%s'", output)
	}
}

// ============================================================================
// Dashboard Tests
// ============================================================================

func TestParticipantAdapter_Dashboard_AllHealthy(t *testing.T) {
	mock := &mockParticipantService{}
	var buf bytes.Buffer
	adapter := NewParticipantAdapter(mock, &buf)

	err := adapter.Dashboard(context.Background())

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "All operations healthy") {
		t.Errorf("expected healthy message, got '%s'", buf.String())
	}
}

func TestParticipantAdapter_Dashboard_RendersFailures(t *testing.T) {
	mock := &mockParticipantService{
		failingFn: func(ctx context.Context) ([]*primary.StatusFlag, error) {
			return []*primary.StatusFlag{
				{ParticipantID: "PART-002", Operation: "device_sync", LastError: "no device data on target day 2026-01-12", LastErrorTime: "2026-01-12T12:00:00Z"},
				{ParticipantID: "PART-003", Operation: "refresh_token", LastError: "device authorization expired", LastErrorTime: "2026-01-10T06:00:00Z"},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewParticipantAdapter(mock, &buf)

	err := adapter.Dashboard(context.Background())

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "2 failing operation(s)") {
		t.Errorf("expected failing count, got '%s'", output)
	}
	if !strings.Contains(output, "PART-002") || !strings.Contains(output, "device_sync") {
		t.Errorf("expected device_sync row, got '%s'", output)
	}
	if !strings.Contains(output, "PART-003") || !strings.Contains(output, "refresh_token") {
		t.Errorf("expected refresh_token row, got '%s'", output)
	}
}

func TestParticipantAdapter_Dashboard_ServiceError(t *testing.T) {
	mock := &mockParticipantService{
		failingFn: func(ctx context.Context) ([]*primary.StatusFlag, error) {
			return nil, errors.New("database locked")
		},
	}
	var buf bytes.Buffer
	adapter := NewParticipantAdapter(mock, &buf)

	err := adapter.Dashboard(context.Background())

	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
