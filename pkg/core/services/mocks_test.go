package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jakechorley/weekday-rota/pkg/clients/sheetsclient"
	"github.com/jakechorley/weekday-rota/pkg/core/model"
	"github.com/jakechorley/weekday-rota/pkg/db"
)

// mockResponsesClient implements ResponsesClient for testing
type mockResponsesClient struct {
	employees []model.Employee
	err       error
	cleared   int
	sources   []sheetsclient.ResponsesSource
}

func (m *mockResponsesClient) ListResponses(ctx context.Context, src sheetsclient.ResponsesSource) ([]model.Employee, error) {
	m.sources = append(m.sources, src)
	if m.err != nil {
		return nil, m.err
	}
	return m.employees, nil
}

func (m *mockResponsesClient) ClearResponses(ctx context.Context, src sheetsclient.ResponsesSource) (int, error) {
	m.sources = append(m.sources, src)
	if m.err != nil {
		return 0, m.err
	}
	return m.cleared, nil
}

// mockStore implements Store in memory
type mockStore struct {
	targets []db.StaffingTarget
	runs    []db.ScheduleRun
	details map[string]*db.ScheduleDetail

	getTargetsErr error
	insertErr     error
}

func newMockStore() *mockStore {
	return &mockStore{details: map[string]*db.ScheduleDetail{}}
}

func (m *mockStore) GetStaffingTargets(ctx context.Context) ([]db.StaffingTarget, error) {
	if m.getTargetsErr != nil {
		return nil, m.getTargetsErr
	}
	return m.targets, nil
}

func (m *mockStore) InsertStaffingTargets(ctx context.Context, rows []db.StaffingTarget) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.targets = append(m.targets, rows...)
	return nil
}

func (m *mockStore) GetScheduleRuns(ctx context.Context) ([]db.ScheduleRun, error) {
	return m.runs, nil
}

func (m *mockStore) GetScheduleDetail(ctx context.Context, runID string) (*db.ScheduleDetail, error) {
	detail, ok := m.details[runID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", db.ErrRunNotFound, runID)
	}
	copied := *detail
	copied.Days = append([]db.ScheduleDay(nil), detail.Days...)
	copied.Entries = append([]db.ScheduleEntry(nil), detail.Entries...)
	copied.Roster = append([]db.RosterEntry(nil), detail.Roster...)
	return &copied, nil
}

func (m *mockStore) InsertSchedule(ctx context.Context, detail *db.ScheduleDetail) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.runs = append(m.runs, detail.Run)
	m.details[detail.Run.ID] = detail
	return nil
}

// mockPublisher implements SchedulePublisher for testing
type mockPublisher struct {
	spreadsheetID string
	published     *sheetsclient.PublishedSchedule
	err           error
}

func (m *mockPublisher) PublishSchedule(ctx context.Context, spreadsheetID string, schedule *sheetsclient.PublishedSchedule) error {
	if m.err != nil {
		return m.err
	}
	m.spreadsheetID = spreadsheetID
	m.published = schedule
	return nil
}

// mockGmailClient implements GmailClient for testing
type mockGmailClient struct {
	sentEmails []string
	subjects   []string
	bodies     []string
	failFor    map[string]bool
}

func (m *mockGmailClient) SendEmail(ctx context.Context, to, subject, body string) error {
	if m.failFor[to] {
		return fmt.Errorf("send to %s failed", to)
	}
	m.sentEmails = append(m.sentEmails, to)
	m.subjects = append(m.subjects, subject)
	m.bodies = append(m.bodies, body)
	return nil
}

// useClock makes now() return start, start+1m, start+2m, ... for the rest of the test
func useClock(t *testing.T, start time.Time) {
	t.Helper()
	calls := 0
	previous := now
	now = func() time.Time {
		calls++
		return start.Add(time.Duration(calls-1) * time.Minute)
	}
	t.Cleanup(func() { now = previous })
}

func employee(name string, days ...model.Weekday) model.Employee {
	return model.Employee{Name: name, Availability: model.NewAvailability(days...)}
}

var testSource = sheetsclient.ResponsesSource{
	SpreadsheetID: "responses-sheet",
	Tab:           "Form Responses 1",
	NameColumn:    "ФИО",
	DaysColumn:    "Дни",
}
