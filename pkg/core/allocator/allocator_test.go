package allocator

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jakechorley/weekday-rota/pkg/core/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func employee(name string, days ...model.Weekday) model.Employee {
	return model.Employee{Name: name, Availability: model.NewAvailability(days...)}
}

func TestAllocate_BalancesAcrossDays(t *testing.T) {
	employees := []model.Employee{
		employee("Alice", model.Monday, model.Tuesday),
		employee("Bob", model.Monday),
		employee("Carol", model.Monday, model.Tuesday),
	}
	target := model.StaffingTarget{
		{Day: model.Monday, Required: 2},
		{Day: model.Tuesday, Required: 1},
	}

	outcome, err := Allocate(employees, target, Options{})
	require.NoError(t, err)

	// All three start on zero shifts, so Monday goes to the first two in roster order
	assert.Equal(t, []string{"Alice", "Bob"}, outcome.Schedule[model.Monday])
	// Carol is still below the fairness target of 1, Alice is not
	assert.Equal(t, []string{"Carol"}, outcome.Schedule[model.Tuesday])

	assert.Empty(t, outcome.Shortfalls)
	assert.True(t, outcome.FullyStaffed())
	assert.Empty(t, outcome.Warnings)

	total := 0
	for _, names := range outcome.Schedule {
		total += len(names)
	}
	assert.Equal(t, 3, total)
}

func TestAllocate_SingleEmployeeShortfall(t *testing.T) {
	employees := []model.Employee{employee("Dana", model.Monday)}
	target := model.StaffingTarget{{Day: model.Monday, Required: 2}}

	outcome, err := Allocate(employees, target, Options{})
	require.NoError(t, err)

	assert.Equal(t, Schedule{model.Monday: {"Dana"}}, outcome.Schedule)
	assert.Equal(t, []model.Shortfall{{Day: model.Monday, Missing: 1}}, outcome.Shortfalls)
	assert.False(t, outcome.FullyStaffed())
}

func TestAllocate_EmptyRoster(t *testing.T) {
	target := model.StaffingTarget{{Day: model.Monday, Required: 1}}

	outcome, err := Allocate(nil, target, Options{})
	require.NoError(t, err)

	assert.Empty(t, outcome.Schedule[model.Monday])
	assert.Equal(t, []model.Shortfall{{Day: model.Monday, Missing: 1}}, outcome.Shortfalls)
	assert.Equal(t, []Warning{WarningEmptyRoster}, outcome.Warnings)
}

func TestAllocate_EmployeeWithNoAvailability(t *testing.T) {
	employees := []model.Employee{
		{Name: "Eve", Availability: model.Availability{}},
		employee("Alice", model.Monday),
	}
	target := model.StaffingTarget{
		{Day: model.Monday, Required: 1},
		{Day: model.Tuesday, Required: 1},
	}

	outcome, err := Allocate(employees, target, Options{})
	require.NoError(t, err)

	assert.Equal(t, 0, outcome.Schedule.Count("Eve"))
	assert.Equal(t, []string{"Alice"}, outcome.Schedule[model.Monday])
	assert.Empty(t, outcome.Schedule[model.Tuesday])
	assert.Equal(t, []model.Shortfall{{Day: model.Tuesday, Missing: 1}}, outcome.Shortfalls)
}

func TestAllocate_EmptyTarget(t *testing.T) {
	employees := []model.Employee{employee("Alice", model.Monday)}

	outcome, err := Allocate(employees, model.StaffingTarget{}, Options{})
	require.NoError(t, err)

	assert.Empty(t, outcome.Schedule)
	assert.Empty(t, outcome.Shortfalls)
	assert.Empty(t, outcome.ProcessedOrder)
}

func TestAllocate_SkipsZeroRequirementDays(t *testing.T) {
	employees := []model.Employee{employee("Alice", model.Monday, model.Tuesday)}
	target := model.StaffingTarget{
		{Day: model.Monday, Required: 0},
		{Day: model.Tuesday, Required: 1},
	}

	outcome, err := Allocate(employees, target, Options{})
	require.NoError(t, err)

	_, hasMonday := outcome.Schedule[model.Monday]
	assert.False(t, hasMonday, "zero requirement days should not appear in the schedule")
	assert.Equal(t, []string{"Alice"}, outcome.Schedule[model.Tuesday])
	assert.Equal(t, []model.Weekday{model.Tuesday}, outcome.ProcessedOrder)
}

func TestAllocate_NeverExceedsRequirement(t *testing.T) {
	employees := []model.Employee{
		employee("Alice", model.Monday),
		employee("Bob", model.Monday),
		employee("Carol", model.Monday),
	}
	target := model.StaffingTarget{{Day: model.Monday, Required: 2}}

	outcome, err := Allocate(employees, target, Options{})
	require.NoError(t, err)

	assert.Len(t, outcome.Schedule[model.Monday], 2)
}

func TestAllocate_FairnessAcrossWeek(t *testing.T) {
	everyWeekday := []model.Weekday{model.Monday, model.Tuesday, model.Wednesday, model.Thursday, model.Friday}
	employees := []model.Employee{
		employee("Alice", everyWeekday...),
		employee("Bob", everyWeekday...),
		employee("Carol", everyWeekday...),
		employee("Dave", everyWeekday...),
	}
	target := model.StaffingTarget{}
	for _, d := range everyWeekday {
		target = append(target, model.DayTarget{Day: d, Required: 2})
	}

	outcome, err := Allocate(employees, target, Options{})
	require.NoError(t, err)
	require.Empty(t, outcome.Shortfalls)

	minCount, maxCount := 100, 0
	for _, e := range employees {
		count := outcome.Schedule.Count(e.Name)
		minCount = min(minCount, count)
		maxCount = max(maxCount, count)
	}

	// With identical availability, 10 shifts over 4 people can only split 3/3/2/2
	assert.LessOrEqual(t, maxCount-minCount, 1)
}

func TestAllocate_RespectsAvailabilityAndNoDuplicates(t *testing.T) {
	employees := []model.Employee{
		employee("Alice", model.Monday, model.Wednesday, model.Saturday),
		employee("Bob", model.Tuesday, model.Wednesday),
		employee("Carol", model.Monday, model.Tuesday, model.Wednesday, model.Thursday, model.Friday),
		employee("Dave", model.Saturday, model.Sunday),
		{Name: "Eve", Availability: model.Availability{}},
	}
	target := model.StaffingTarget{
		{Day: model.Monday, Required: 2},
		{Day: model.Tuesday, Required: 3},
		{Day: model.Wednesday, Required: 2},
		{Day: model.Thursday, Required: 1},
		{Day: model.Friday, Required: 1},
		{Day: model.Saturday, Required: 2},
		{Day: model.Sunday, Required: 2},
	}

	outcome, err := Allocate(employees, target, Options{})
	require.NoError(t, err)

	assert.Empty(t, ValidateOutcome(employees, target, outcome))
	assert.Equal(t, []model.Shortfall{
		{Day: model.Tuesday, Missing: 1},
		{Day: model.Sunday, Missing: 1},
	}, outcome.Shortfalls)
}

func TestAllocate_Deterministic(t *testing.T) {
	employees := []model.Employee{
		employee("Alice", model.Monday, model.Tuesday, model.Wednesday),
		employee("Bob", model.Monday, model.Wednesday),
		employee("Carol", model.Tuesday, model.Wednesday),
	}
	target := model.StaffingTarget{
		{Day: model.Monday, Required: 1},
		{Day: model.Tuesday, Required: 1},
		{Day: model.Wednesday, Required: 2},
	}

	first, err := Allocate(employees, target, Options{})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Allocate(employees, target, Options{})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestAllocate_DoesNotMutateInput(t *testing.T) {
	employees := []model.Employee{
		employee("Alice", model.Monday, model.Tuesday),
		employee("Bob", model.Monday),
	}
	target := model.StaffingTarget{
		{Day: model.Tuesday, Required: 1},
		{Day: model.Monday, Required: 2},
	}

	employeesBefore := []model.Employee{
		employee("Alice", model.Monday, model.Tuesday),
		employee("Bob", model.Monday),
	}
	targetBefore := append(model.StaffingTarget{}, target...)

	_, err := Allocate(employees, target, Options{DayOrder: DayOrderScarcity})
	require.NoError(t, err)

	assert.Equal(t, employeesBefore, employees)
	assert.Equal(t, targetBefore, target)
}

func TestAllocate_ConcurrentCallers(t *testing.T) {
	employees := []model.Employee{
		employee("Alice", model.Monday, model.Tuesday),
		employee("Bob", model.Monday, model.Wednesday),
		employee("Carol", model.Tuesday, model.Wednesday),
	}
	target := model.StaffingTarget{
		{Day: model.Monday, Required: 1},
		{Day: model.Tuesday, Required: 2},
		{Day: model.Wednesday, Required: 1},
	}

	expected, err := Allocate(employees, target, Options{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*Outcome, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Allocate(employees, target, Options{})
		}(i)
	}
	wg.Wait()

	for _, result := range results {
		assert.Equal(t, expected, result)
	}
}
