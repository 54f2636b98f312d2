package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/weekday-rota/pkg/core/model"
)

func TestMondayOf(t *testing.T) {
	monday := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, monday, MondayOf(time.Date(2026, 10, 19, 18, 30, 0, 0, time.UTC)))
	assert.Equal(t, monday, MondayOf(time.Date(2026, 10, 22, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, monday, MondayOf(time.Date(2026, 10, 25, 23, 59, 0, 0, time.UTC)))
}

func TestLatestIndex(t *testing.T) {
	stamps := []string{"2026-10-19T09:00:00Z", "2026-10-19T11:00:00Z", "not a time", "2026-10-19T11:00:00Z"}

	assert.Equal(t, 3, latestIndex(len(stamps), func(i int) string { return stamps[i] }), "ties go to the later row")
	assert.Equal(t, -1, latestIndex(0, nil))
}

func TestShortfallsFor(t *testing.T) {
	target := model.StaffingTarget{
		{Day: model.Wednesday, Required: 2},
		{Day: model.Monday, Required: 1},
		{Day: model.Friday, Required: 0},
	}
	counts := map[model.Weekday]int{model.Monday: 1}

	assert.Equal(t, []model.Shortfall{{Day: model.Wednesday, Missing: 2}},
		shortfallsFor(target, func(day model.Weekday) int { return counts[day] }))
}
