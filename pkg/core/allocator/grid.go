package allocator

import (
	"slices"

	"github.com/jakechorley/weekday-rota/pkg/core/model"
)

// CellState is the state of one (employee, day) cell of the schedule grid
type CellState int

const (
	// CellUnavailable means the employee did not offer the day
	CellUnavailable CellState = iota

	// CellAvailable means the employee offered the day but was not assigned
	CellAvailable

	// CellAssigned means the employee works the day
	CellAssigned
)

func (c CellState) String() string {
	switch c {
	case CellAssigned:
		return "assigned"
	case CellAvailable:
		return "available"
	default:
		return "unavailable"
	}
}

// GridRow is one employee's line of the grid; Cells follows Grid.Days
type GridRow struct {
	Employee string
	Cells    []CellState
}

// Grid is the employee-by-day view of a schedule used by every renderer
type Grid struct {
	Days []model.Weekday
	Rows []GridRow
}

// BuildGrid lays a schedule out as a grid with one row per roster employee
// (in roster order) and one column per day (in the given order)
func BuildGrid(schedule Schedule, employees []model.Employee, days []model.Weekday) *Grid {
	grid := &Grid{
		Days: slices.Clone(days),
		Rows: make([]GridRow, 0, len(employees)),
	}

	for _, e := range employees {
		row := GridRow{
			Employee: e.Name,
			Cells:    make([]CellState, len(days)),
		}
		for i, day := range days {
			switch {
			case slices.Contains(schedule[day], e.Name):
				row.Cells[i] = CellAssigned
			case e.Availability.Has(day):
				row.Cells[i] = CellAvailable
			default:
				row.Cells[i] = CellUnavailable
			}
		}
		grid.Rows = append(grid.Rows, row)
	}

	return grid
}

// ScheduleDays returns the recognised days of a target that have a positive requirement, in target order
func ScheduleDays(target model.StaffingTarget) []model.Weekday {
	days := make([]model.Weekday, 0, len(target))
	for _, dt := range target.Recognised() {
		if dt.Required > 0 {
			days = append(days, dt.Day)
		}
	}
	return days
}
