package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input    string
		expected Weekday
	}{
		{"Monday", Monday},
		{"  monday ", Monday},
		{"Tue", Tuesday},
		{"Среда", Wednesday},
		{"четверг", Thursday},
		{"FRIDAY", Friday},
		{"Суббота", Saturday},
		{"Воскресенье", Sunday},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			day, err := ParseWeekday(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, day)
		})
	}
}

func TestParseWeekday_Unknown(t *testing.T) {
	_, err := ParseWeekday("Funday")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownWeekday)
}

func TestParseWeekdayList(t *testing.T) {
	availability, err := ParseWeekdayList("Понедельник, Вторник, понедельник")
	require.NoError(t, err)

	assert.Equal(t, []Weekday{Monday, Tuesday}, availability.Days())
}

func TestParseWeekdayList_Empty(t *testing.T) {
	availability, err := ParseWeekdayList("  ")
	require.NoError(t, err)

	assert.NotNil(t, availability)
	assert.Empty(t, availability)
}

func TestParseWeekdayList_Invalid(t *testing.T) {
	_, err := ParseWeekdayList("Monday, Someday")
	assert.ErrorIs(t, err, ErrUnknownWeekday)
}

func TestTargetFromMap(t *testing.T) {
	target, err := TargetFromMap(map[string]int{
		"Friday":  1,
		"Monday":  2,
		"Holiday": 5,
		"Вторник": 0,
	})
	require.NoError(t, err)

	assert.Equal(t, StaffingTarget{
		{Day: Monday, Required: 2},
		{Day: Tuesday, Required: 0},
		{Day: Friday, Required: 1},
	}, target)
}

func TestTargetFromMap_Negative(t *testing.T) {
	_, err := TargetFromMap(map[string]int{"Monday": -1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTarget)
	assert.Contains(t, err.Error(), "must not be negative")
}

func TestTargetFromMap_SameDayTwice(t *testing.T) {
	counts := map[string]int{"Monday": 1, "mon": 2, "понедельник": 3}

	// Map iteration order varies, the result must not
	for i := 0; i < 20; i++ {
		_, err := TargetFromMap(counts)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidTarget)
		assert.Contains(t, err.Error(), `"Monday" and "mon" both name Monday`)
	}
}

func TestTargetFromMap_NegativeUnknownDayIgnored(t *testing.T) {
	target, err := TargetFromMap(map[string]int{"Monday": 1, "Funday": -4})
	require.NoError(t, err)
	assert.Equal(t, StaffingTarget{{Day: Monday, Required: 1}}, target)
}

func TestStaffingTarget_With(t *testing.T) {
	target := StaffingTarget{
		{Day: Monday, Required: 1},
		{Day: Friday, Required: 1},
	}

	updated := target.With(Wednesday, 3)
	assert.Equal(t, StaffingTarget{
		{Day: Monday, Required: 1},
		{Day: Wednesday, Required: 3},
		{Day: Friday, Required: 1},
	}, updated)

	// Original is untouched
	assert.Len(t, target, 2)

	replaced := updated.With(Monday, 0)
	assert.Equal(t, 0, replaced.Get(Monday))
	assert.Equal(t, 1, updated.Get(Monday))
}

func TestStaffingTarget_Total(t *testing.T) {
	target := DefaultStaffingTarget().With(Monday, 2).With(Sunday, 1)

	assert.Equal(t, 3, target.Total())
	assert.Len(t, target, 7)
}

func TestStaffingTarget_Recognised(t *testing.T) {
	target := StaffingTarget{
		{Day: Weekday("Funday"), Required: 2},
		{Day: Tuesday, Required: 1},
	}

	assert.Equal(t, StaffingTarget{{Day: Tuesday, Required: 1}}, target.Recognised())
	assert.Len(t, target, 2)
}
