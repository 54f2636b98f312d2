package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/weekday-rota/internal/config"
	"github.com/jakechorley/weekday-rota/pkg/core/allocator"
	"github.com/jakechorley/weekday-rota/pkg/core/model"
)

func seededStore(t *testing.T, target model.StaffingTarget) *mockStore {
	t.Helper()
	store := newMockStore()
	_, err := SaveTargets(context.Background(), store, zap.NewNop(), target)
	require.NoError(t, err)
	return store
}

func TestGenerateSchedule_SavesRun(t *testing.T) {
	useClock(t, time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()
	logger := zap.NewNop()

	store := seededStore(t, model.StaffingTarget{
		{Day: model.Monday, Required: 2},
		{Day: model.Tuesday, Required: 1},
		{Day: model.Wednesday, Required: 1},
	})
	responses := &mockResponsesClient{employees: []model.Employee{
		employee("Anna", model.Monday, model.Tuesday),
		employee("Boris", model.Monday),
		employee("Clara", model.Tuesday, model.Wednesday),
	}}

	result, err := GenerateSchedule(ctx, responses, store, logger, GenerateParams{Source: testSource})

	require.NoError(t, err)
	assert.True(t, result.Saved)
	require.Len(t, responses.sources, 1)
	assert.Equal(t, testSource, responses.sources[0])

	schedule := result.Schedule
	assert.Equal(t, allocator.Schedule{
		model.Monday:    {"Anna", "Boris"},
		model.Tuesday:   {"Clara"},
		model.Wednesday: {"Clara"},
	}, schedule.Outcome.Schedule)
	assert.True(t, schedule.Outcome.FullyStaffed())
	assert.Equal(t, allocator.DayOrderFixed, schedule.DayOrder)
	assert.True(t, schedule.WeekStart.IsZero())

	// The stored run reads back identically
	loaded, err := LatestSchedule(ctx, store, logger)
	require.NoError(t, err)
	assert.Equal(t, schedule.RunID, loaded.RunID)
	assert.Equal(t, schedule.Outcome.Schedule, loaded.Outcome.Schedule)
	assert.Equal(t, schedule.Roster, loaded.Roster)
	assert.Equal(t, allocator.ScheduleDays(schedule.Target), allocator.ScheduleDays(loaded.Target))
}

func TestGenerateSchedule_DryRun(t *testing.T) {
	store := seededStore(t, model.StaffingTarget{{Day: model.Monday, Required: 1}})
	responses := &mockResponsesClient{employees: []model.Employee{employee("Anna", model.Monday)}}

	result, err := GenerateSchedule(context.Background(), responses, store, zap.NewNop(), GenerateParams{
		Source: testSource,
		DryRun: true,
	})

	require.NoError(t, err)
	assert.False(t, result.Saved)
	assert.Equal(t, []string{"Anna"}, result.Schedule.Outcome.Schedule[model.Monday])
	assert.Empty(t, store.runs)
}

func TestGenerateSchedule_Shortfalls(t *testing.T) {
	store := seededStore(t, model.StaffingTarget{
		{Day: model.Monday, Required: 1},
		{Day: model.Friday, Required: 2},
	})
	responses := &mockResponsesClient{employees: []model.Employee{employee("Anna", model.Monday, model.Friday)}}

	result, err := GenerateSchedule(context.Background(), responses, store, zap.NewNop(), GenerateParams{Source: testSource})

	require.NoError(t, err)
	assert.Equal(t, []model.Shortfall{{Day: model.Friday, Missing: 1}}, result.Schedule.Outcome.Shortfalls)

	loaded, err := LatestSchedule(context.Background(), store, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, result.Schedule.Outcome.Shortfalls, loaded.Outcome.Shortfalls)
}

func TestGenerateSchedule_EmptyRoster(t *testing.T) {
	store := seededStore(t, model.StaffingTarget{{Day: model.Tuesday, Required: 2}})

	result, err := GenerateSchedule(context.Background(), &mockResponsesClient{}, store, zap.NewNop(), GenerateParams{Source: testSource})

	require.NoError(t, err)
	assert.Contains(t, result.Schedule.Outcome.Warnings, allocator.WarningEmptyRoster)
	assert.Equal(t, []model.Shortfall{{Day: model.Tuesday, Missing: 2}}, result.Schedule.Outcome.Shortfalls)
}

func TestGenerateSchedule_AppliesOverridesForWeek(t *testing.T) {
	store := seededStore(t, model.StaffingTarget{{Day: model.Monday, Required: 1}})
	responses := &mockResponsesClient{employees: []model.Employee{
		employee("Anna", model.Monday, model.Saturday),
		employee("Boris", model.Saturday),
	}}

	result, err := GenerateSchedule(context.Background(), responses, store, zap.NewNop(), GenerateParams{
		Source:    testSource,
		WeekStart: time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC),
		Overrides: []config.TargetOverride{{RRule: "FREQ=WEEKLY;DTSTART=20261003T000000Z", Day: "Saturday", Required: 2}},
	})

	require.NoError(t, err)
	require.Len(t, result.AppliedOverrides, 1)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), result.Schedule.WeekStart)
	assert.ElementsMatch(t, []string{"Anna", "Boris"}, result.Schedule.Outcome.Schedule[model.Saturday])
	assert.Equal(t, "2026-10-19", store.runs[0].WeekStart)
}

func TestGenerateSchedule_InvalidInput(t *testing.T) {
	store := seededStore(t, model.StaffingTarget{{Day: model.Monday, Required: 1}})
	responses := &mockResponsesClient{employees: []model.Employee{
		employee("Anna", model.Monday),
		employee("Anna", model.Tuesday),
	}}

	_, err := GenerateSchedule(context.Background(), responses, store, zap.NewNop(), GenerateParams{Source: testSource})

	require.Error(t, err)
	assert.True(t, allocator.IsInvalidInput(err))
	assert.Empty(t, store.runs)
}

func TestGenerateSchedule_FetchErrors(t *testing.T) {
	t.Run("responses", func(t *testing.T) {
		responses := &mockResponsesClient{err: errors.New("quota exceeded")}

		_, err := GenerateSchedule(context.Background(), responses, newMockStore(), zap.NewNop(), GenerateParams{Source: testSource})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to fetch responses")
	})

	t.Run("targets", func(t *testing.T) {
		store := newMockStore()
		store.getTargetsErr = errors.New("connection refused")

		_, err := GenerateSchedule(context.Background(), &mockResponsesClient{}, store, zap.NewNop(), GenerateParams{Source: testSource})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to fetch staffing targets")
	})

	t.Run("save", func(t *testing.T) {
		store := newMockStore()
		store.insertErr = errors.New("disk full")

		_, err := GenerateSchedule(context.Background(), &mockResponsesClient{}, store, zap.NewNop(), GenerateParams{Source: testSource})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save schedule")
	})
}
