package allocator

import (
	"slices"

	"github.com/jakechorley/weekday-rota/pkg/core/model"
)

// Allocate assigns employees to the requested days of a staffing target.
//
// Each day is filled greedily: employees below the fairness target
// (floor(total required / employee count)) are taken first, ordered by how
// many shifts they already hold, then the remaining available employees fill
// any gap in the same order. Ties always resolve to roster order.
//
// Days are filled one at a time with no backtracking, so a day processed
// early can take an employee who would have suited a later day better.
// Options.DayOrder controls which days go first.
//
// Target entries whose day is not a recognised weekday are ignored entirely,
// including when computing the average.
//
// Allocate never mutates its arguments and performs no I/O.
func Allocate(employees []model.Employee, target model.StaffingTarget, opts Options) (*Outcome, error) {
	if err := validateInput(employees, target, opts); err != nil {
		return nil, err
	}
	target = target.Recognised()

	outcome := &Outcome{
		Schedule:       Schedule{},
		Shortfalls:     []model.Shortfall{},
		ProcessedOrder: []model.Weekday{},
		Warnings:       []Warning{},
	}

	if len(employees) == 0 {
		outcome.Warnings = append(outcome.Warnings, WarningEmptyRoster)
	}

	averageShifts := 0
	if len(employees) > 0 {
		averageShifts = target.Total() / len(employees)
	}

	// Counters are indexed by roster position so that names never need to be looked up
	shiftCounts := make([]int, len(employees))

	for _, dt := range processingOrder(employees, target, opts) {
		assigned := fillDay(employees, shiftCounts, averageShifts, dt)

		names := make([]string, 0, len(assigned))
		for _, idx := range assigned {
			shiftCounts[idx]++
			names = append(names, employees[idx].Name)
		}

		outcome.Schedule[dt.Day] = names
		outcome.ProcessedOrder = append(outcome.ProcessedOrder, dt.Day)
	}

	for _, dt := range target {
		if dt.Required <= 0 {
			continue
		}
		if assigned := len(outcome.Schedule[dt.Day]); assigned < dt.Required {
			outcome.Shortfalls = append(outcome.Shortfalls, model.Shortfall{
				Day:     dt.Day,
				Missing: dt.Required - assigned,
			})
		}
	}

	return outcome, nil
}

// fillDay picks up to dt.Required roster indices for a single day
func fillDay(employees []model.Employee, shiftCounts []int, averageShifts int, dt model.DayTarget) []int {
	candidates := availableFor(employees, dt.Day)

	preferred := make([]int, 0, len(candidates))
	for _, idx := range candidates {
		if shiftCounts[idx] < averageShifts {
			preferred = append(preferred, idx)
		}
	}
	sortByShiftCount(preferred, shiftCounts)

	assigned := preferred[:min(dt.Required, len(preferred))]

	if len(assigned) < dt.Required {
		remaining := dt.Required - len(assigned)

		others := make([]int, 0, len(candidates))
		for _, idx := range candidates {
			if !slices.Contains(assigned, idx) {
				others = append(others, idx)
			}
		}
		sortByShiftCount(others, shiftCounts)

		assigned = append(slices.Clone(assigned), others[:min(remaining, len(others))]...)
	}

	return assigned
}

// availableFor returns the roster indices of employees available on day, in roster order
func availableFor(employees []model.Employee, day model.Weekday) []int {
	indices := make([]int, 0, len(employees))
	for i, e := range employees {
		if e.Availability.Has(day) {
			indices = append(indices, i)
		}
	}
	return indices
}

// sortByShiftCount orders roster indices by current shift count, keeping roster order for ties
func sortByShiftCount(indices []int, shiftCounts []int) {
	slices.SortStableFunc(indices, func(a, b int) int {
		return shiftCounts[a] - shiftCounts[b]
	})
}
