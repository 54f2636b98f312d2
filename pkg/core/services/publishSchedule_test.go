package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishSchedule(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	require.NoError(t, store.InsertSchedule(ctx, toDetail(testSchedule())))
	publisher := &mockPublisher{}

	title, err := PublishSchedule(ctx, store, publisher, zap.NewNop(), "schedule-sheet")

	require.NoError(t, err)
	assert.Equal(t, "Week of Mon Oct 19 2026", title)
	assert.Equal(t, "schedule-sheet", publisher.spreadsheetID)

	published := publisher.published
	require.NotNil(t, published)
	assert.Equal(t, []string{"Employee", "Tue", "Mon"}, published.Header)
	assert.Equal(t, [][]string{
		{"Anna", "✅", "❌"},
		{"Boris", "✅", ""},
		{"Clara", "", ""},
	}, published.Rows)
	assert.Contains(t, published.Notes, "⚠ Unfilled shifts: Mon (1)")
}

func TestPublishSchedule_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := PublishSchedule(ctx, newMockStore(), &mockPublisher{}, zap.NewNop(), "")
	assert.Error(t, err)

	_, err = PublishSchedule(ctx, newMockStore(), &mockPublisher{}, zap.NewNop(), "schedule-sheet")
	assert.ErrorIs(t, err, ErrNoSchedule)

	store := newMockStore()
	require.NoError(t, store.InsertSchedule(ctx, toDetail(testSchedule())))
	_, err = PublishSchedule(ctx, store, &mockPublisher{err: errors.New("forbidden")}, zap.NewNop(), "schedule-sheet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish schedule")
}

func TestScheduleTitle_WithoutWeek(t *testing.T) {
	s := testSchedule()
	s.WeekStart = time.Time{}

	assert.Equal(t, "Schedule Mon Oct 19 2026 09:00", scheduleTitle(s))
}
