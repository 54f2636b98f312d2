package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/weekday-rota/pkg/core/model"
)

func TestAllocate_FixedOrderFavoursEarlierDays(t *testing.T) {
	employees := []model.Employee{
		employee("Alice", model.Monday, model.Tuesday),
		employee("Bob", model.Monday),
	}
	target := model.StaffingTarget{
		{Day: model.Monday, Required: 1},
		{Day: model.Tuesday, Required: 1},
	}

	outcome, err := Allocate(employees, target, Options{DayOrder: DayOrderFixed})
	require.NoError(t, err)

	// Monday claims Alice first, leaving Tuesday with nobody but Alice again
	assert.Equal(t, []string{"Alice"}, outcome.Schedule[model.Monday])
	assert.Equal(t, []string{"Alice"}, outcome.Schedule[model.Tuesday])
	assert.Equal(t, []model.Weekday{model.Monday, model.Tuesday}, outcome.ProcessedOrder)
}

func TestAllocate_ScarcityOrderFillsTightDaysFirst(t *testing.T) {
	employees := []model.Employee{
		employee("Alice", model.Monday, model.Tuesday),
		employee("Bob", model.Monday),
	}
	target := model.StaffingTarget{
		{Day: model.Monday, Required: 1},
		{Day: model.Tuesday, Required: 1},
	}

	outcome, err := Allocate(employees, target, Options{DayOrder: DayOrderScarcity})
	require.NoError(t, err)

	assert.Equal(t, []model.Weekday{model.Tuesday, model.Monday}, outcome.ProcessedOrder)
	assert.Equal(t, []string{"Alice"}, outcome.Schedule[model.Tuesday])
	assert.Equal(t, []string{"Bob"}, outcome.Schedule[model.Monday])
}

func TestAllocate_ScarcityOrderKeepsTargetOrderOnTies(t *testing.T) {
	employees := []model.Employee{
		employee("Alice", model.Monday, model.Wednesday, model.Friday),
	}
	target := model.StaffingTarget{
		{Day: model.Friday, Required: 1},
		{Day: model.Monday, Required: 1},
		{Day: model.Wednesday, Required: 1},
	}

	outcome, err := Allocate(employees, target, Options{DayOrder: DayOrderScarcity})
	require.NoError(t, err)

	assert.Equal(t, []model.Weekday{model.Friday, model.Monday, model.Wednesday}, outcome.ProcessedOrder)
}

func TestAllocate_ShuffleOrderIsSeeded(t *testing.T) {
	employees := []model.Employee{
		employee("Alice", model.Weekdays...),
		employee("Bob", model.Weekdays...),
	}
	target := model.StaffingTarget{}
	for _, d := range model.Weekdays {
		target = append(target, model.DayTarget{Day: d, Required: 1})
	}

	first, err := Allocate(employees, target, Options{DayOrder: DayOrderShuffle, Seed: 42})
	require.NoError(t, err)
	second, err := Allocate(employees, target, Options{DayOrder: DayOrderShuffle, Seed: 42})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.ElementsMatch(t, model.Weekdays, first.ProcessedOrder)

	// Shortfalls are always reported in target order, whatever the processing order
	assert.Empty(t, first.Shortfalls)
}

func TestParseDayOrder(t *testing.T) {
	order, err := ParseDayOrder("")
	require.NoError(t, err)
	assert.Equal(t, DayOrderFixed, order)

	order, err = ParseDayOrder("scarcity")
	require.NoError(t, err)
	assert.Equal(t, DayOrderScarcity, order)

	_, err = ParseDayOrder("alphabetical")
	assert.Error(t, err)
}
