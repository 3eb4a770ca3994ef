package app

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/example/stride/internal/ports/secondary"
)

// Ensure the mocks implement their interfaces
var (
	_ secondary.ParticipantRepository  = (*mockParticipantRepo)(nil)
	_ secondary.ActivityRepository     = (*mockActivityRepo)(nil)
	_ secondary.TargetRepository       = (*mockTargetRepo)(nil)
	_ secondary.StatusRepository       = (*mockStatusRepo)(nil)
	_ secondary.MessageRepository      = (*mockMessageRepo)(nil)
	_ secondary.RunLogWriter           = (*mockRunLog)(nil)
	_ secondary.RunLogRepository       = (*mockRunLog)(nil)
	_ secondary.NotificationDispatcher = (*mockDispatcher)(nil)
)

// mockParticipantRepo implements secondary.ParticipantRepository for testing.
type mockParticipantRepo struct {
	participants map[string]*secondary.ParticipantRecord
	nextID       string
	createErr    error
	getErr       error
	listErr      error
}

func newMockParticipantRepo() *mockParticipantRepo {
	return &mockParticipantRepo{
		participants: make(map[string]*secondary.ParticipantRecord),
		nextID:       "PART-001",
	}
}

func (m *mockParticipantRepo) Create(ctx context.Context, participant *secondary.ParticipantRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	clone := *participant
	m.participants[participant.ID] = &clone
	return nil
}

func (m *mockParticipantRepo) GetByID(ctx context.Context, id string) (*secondary.ParticipantRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.participants[id], nil
}

func (m *mockParticipantRepo) GetByEmail(ctx context.Context, email string) (*secondary.ParticipantRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, p := range m.participants {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockParticipantRepo) List(ctx context.Context) ([]*secondary.ParticipantRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]*secondary.ParticipantRecord, 0, len(m.participants))
	for _, p := range m.participants {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockParticipantRepo) GetNextID(ctx context.Context) (string, error) {
	return m.nextID, nil
}

// mockActivityRepo implements secondary.ActivityRepository for testing.
type mockActivityRepo struct {
	records   map[string]map[string]*secondary.DailyActivityRecord // participant -> date
	upsertErr error
	listErr   error
}

func newMockActivityRepo() *mockActivityRepo {
	return &mockActivityRepo{
		records: make(map[string]map[string]*secondary.DailyActivityRecord),
	}
}

func (m *mockActivityRepo) Upsert(ctx context.Context, record *secondary.DailyActivityRecord) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if m.records[record.ParticipantID] == nil {
		m.records[record.ParticipantID] = make(map[string]*secondary.DailyActivityRecord)
	}
	clone := *record
	m.records[record.ParticipantID][record.Date] = &clone
	return nil
}

func (m *mockActivityRepo) ListByParticipant(ctx context.Context, participantID string) ([]*secondary.DailyActivityRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]*secondary.DailyActivityRecord, 0, len(m.records[participantID]))
	for _, r := range m.records[participantID] {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}

func (m *mockActivityRepo) ListRecent(ctx context.Context, participantID string, limit int) ([]*secondary.DailyActivityRecord, error) {
	all, err := m.ListByParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date > all[j].Date })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// mockTargetRepo implements secondary.TargetRepository for testing. Setting
// corruptMethod makes every upsert store that method instead of the one
// written, to exercise round-trip verification.
type mockTargetRepo struct {
	targets       map[string]map[string]*secondary.WeeklyTargetRecord // participant -> week start
	upserts       int
	upsertErr     error
	getErr        error
	corruptMethod string
}

func newMockTargetRepo() *mockTargetRepo {
	return &mockTargetRepo{
		targets: make(map[string]map[string]*secondary.WeeklyTargetRecord),
	}
}

func (m *mockTargetRepo) Upsert(ctx context.Context, record *secondary.WeeklyTargetRecord) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts++
	if m.targets[record.ParticipantID] == nil {
		m.targets[record.ParticipantID] = make(map[string]*secondary.WeeklyTargetRecord)
	}
	clone := *record
	if m.corruptMethod != "" {
		clone.CalculationMethod = m.corruptMethod
	}
	m.targets[record.ParticipantID][record.WeekStart] = &clone
	return nil
}

func (m *mockTargetRepo) GetByWeek(ctx context.Context, participantID, weekStart string) (*secondary.WeeklyTargetRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.targets[participantID][weekStart], nil
}

func (m *mockTargetRepo) ListByParticipant(ctx context.Context, participantID string) ([]*secondary.WeeklyTargetRecord, error) {
	result := make([]*secondary.WeeklyTargetRecord, 0, len(m.targets[participantID]))
	for _, t := range m.targets[participantID] {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].WeekStart > result[j].WeekStart })
	return result, nil
}

// mockStatusRepo implements secondary.StatusRepository for testing.
type mockStatusRepo struct {
	flags    map[string]*secondary.StatusFlagRecord // participant + "/" + operation
	setErr   error
	clearErr error
}

func newMockStatusRepo() *mockStatusRepo {
	return &mockStatusRepo{flags: make(map[string]*secondary.StatusFlagRecord)}
}

func (m *mockStatusRepo) SetFailure(ctx context.Context, participantID, operation, message, at string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.flags[participantID+"/"+operation] = &secondary.StatusFlagRecord{
		ParticipantID: participantID,
		Operation:     operation,
		Failing:       true,
		LastError:     message,
		LastErrorTime: at,
	}
	return nil
}

func (m *mockStatusRepo) ClearFailure(ctx context.Context, participantID, operation string) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	key := participantID + "/" + operation
	if flag, ok := m.flags[key]; ok {
		flag.Failing = false
		return nil
	}
	m.flags[key] = &secondary.StatusFlagRecord{
		ParticipantID: participantID,
		Operation:     operation,
	}
	return nil
}

func (m *mockStatusRepo) Get(ctx context.Context, participantID, operation string) (*secondary.StatusFlagRecord, error) {
	return m.flags[participantID+"/"+operation], nil
}

func (m *mockStatusRepo) ListByParticipant(ctx context.Context, participantID string) ([]*secondary.StatusFlagRecord, error) {
	var result []*secondary.StatusFlagRecord
	for _, f := range m.flags {
		if f.ParticipantID == participantID {
			result = append(result, f)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Operation < result[j].Operation })
	return result, nil
}

func (m *mockStatusRepo) ListFailing(ctx context.Context) ([]*secondary.StatusFlagRecord, error) {
	var result []*secondary.StatusFlagRecord
	for _, f := range m.flags {
		if f.Failing {
			result = append(result, f)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ParticipantID != result[j].ParticipantID {
			return result[i].ParticipantID < result[j].ParticipantID
		}
		return result[i].Operation < result[j].Operation
	})
	return result, nil
}

// failing reports whether a flag exists and is failing, for assertions.
func (m *mockStatusRepo) failing(participantID, operation string) bool {
	flag := m.flags[participantID+"/"+operation]
	return flag != nil && flag.Failing
}

// mockMessageRepo implements secondary.MessageRepository for testing.
type mockMessageRepo struct {
	messages  []*secondary.MessageRecord
	appendErr error
}

func newMockMessageRepo() *mockMessageRepo {
	return &mockMessageRepo{}
}

func (m *mockMessageRepo) Append(ctx context.Context, record *secondary.MessageRecord) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	clone := *record
	clone.ID = int64(len(m.messages) + 1)
	if clone.SentAt == "" {
		clone.SentAt = time.Now().UTC().Format(time.RFC3339)
	}
	m.messages = append(m.messages, &clone)
	return nil
}

func (m *mockMessageRepo) ListByParticipant(ctx context.Context, participantID string, limit int) ([]*secondary.MessageRecord, error) {
	var result []*secondary.MessageRecord
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].ParticipantID == participantID {
			result = append(result, m.messages[i])
		}
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

// mockRunLog implements both run log ports for testing.
type mockRunLog struct {
	entries  []*secondary.RunLogRecord
	writeErr error
}

func newMockRunLog() *mockRunLog {
	return &mockRunLog{}
}

func (m *mockRunLog) LogOutcome(ctx context.Context, entry *secondary.RunLogRecord) error {
	return m.append(entry)
}

func (m *mockRunLog) LogSummary(ctx context.Context, entry *secondary.RunLogRecord) error {
	return m.append(entry)
}

func (m *mockRunLog) append(entry *secondary.RunLogRecord) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	clone := *entry
	clone.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, &clone)
	return nil
}

func (m *mockRunLog) ListRecent(ctx context.Context, limit int) ([]*secondary.RunLogRecord, error) {
	var result []*secondary.RunLogRecord
	for i := len(m.entries) - 1; i >= 0; i-- {
		result = append(result, m.entries[i])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

func (m *mockRunLog) ListByRun(ctx context.Context, runID string) ([]*secondary.RunLogRecord, error) {
	var result []*secondary.RunLogRecord
	for _, e := range m.entries {
		if e.RunID == runID {
			result = append(result, e)
		}
	}
	return result, nil
}

// mockDispatcher implements secondary.NotificationDispatcher for testing.
type mockDispatcher struct {
	requests []secondary.NotificationRequest
	fail     bool
	failMsg  string
}

func newMockDispatcher() *mockDispatcher {
	return &mockDispatcher{}
}

func (m *mockDispatcher) Dispatch(ctx context.Context, req secondary.NotificationRequest) secondary.DispatchOutcome {
	m.requests = append(m.requests, req)

	outcome := secondary.DispatchOutcome{
		Succeeded:   true,
		SubjectLine: "weekly summary",
		Body:        "weekly summary body",
		Language:    req.Language,
		SentAt:      "2026-01-12T17:30:00Z",
	}
	if m.fail {
		outcome.Succeeded = false
		outcome.ErrorMessage = m.failMsg
		if outcome.ErrorMessage == "" {
			outcome.ErrorMessage = "smtp: connection refused"
		}
	}
	return outcome
}

// evalFixture wires an evaluation service onto a full set of mocks.
type evalFixture struct {
	service      *EvaluationServiceImpl
	participants *mockParticipantRepo
	activity     *mockActivityRepo
	targets      *mockTargetRepo
	status       *mockStatusRepo
	messages     *mockMessageRepo
	runLog       *mockRunLog
	dispatcher   *mockDispatcher
}

func newEvalFixture() *evalFixture {
	f := &evalFixture{
		participants: newMockParticipantRepo(),
		activity:     newMockActivityRepo(),
		targets:      newMockTargetRepo(),
		status:       newMockStatusRepo(),
		messages:     newMockMessageRepo(),
		runLog:       newMockRunLog(),
		dispatcher:   newMockDispatcher(),
	}
	f.service = NewEvaluationService(
		f.participants, f.activity, f.targets, f.status, f.messages,
		f.runLog, f.dispatcher, 17,
	)
	return f
}

func (f *evalFixture) addParticipant(t *testing.T, id, startDate string) {
	t.Helper()
	f.participants.participants[id] = &secondary.ParticipantRecord{
		ID:        id,
		Email:     id + "@example.org",
		Language:  "en",
		StartDate: startDate,
	}
}

func (f *evalFixture) addDay(t *testing.T, participantID, date string, steps int) {
	t.Helper()
	err := f.activity.Upsert(context.Background(), &secondary.DailyActivityRecord{
		ParticipantID: participantID,
		Date:          date,
		StepCount:     steps,
	})
	if err != nil {
		t.Fatalf("seed activity failed: %v", err)
	}
}

// addDays seeds count consecutive days of identical step counts starting
// at first.
func (f *evalFixture) addDays(t *testing.T, participantID, first string, count, steps int) {
	t.Helper()
	start, err := time.Parse("2006-01-02", first)
	if err != nil {
		t.Fatalf("bad seed date %q: %v", first, err)
	}
	for i := 0; i < count; i++ {
		f.addDay(t, participantID, start.AddDate(0, 0, i).Format("2006-01-02"), steps)
	}
}

func (f *evalFixture) addTarget(t *testing.T, participantID, weekStart, step string, newTarget int, method string) {
	t.Helper()
	err := f.targets.Upsert(context.Background(), &secondary.WeeklyTargetRecord{
		ParticipantID:     participantID,
		WeekStart:         weekStart,
		EscalationStep:    step,
		NewTarget:         newTarget,
		CalculationMethod: method,
	})
	if err != nil {
		t.Fatalf("seed target failed: %v", err)
	}
	f.targets.upserts = 0
}
