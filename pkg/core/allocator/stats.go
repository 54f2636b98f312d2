package allocator

import (
	"slices"

	"github.com/jakechorley/weekday-rota/pkg/core/model"
)

// EmployeeStats summarises how well an employee's requested days were honoured
type EmployeeStats struct {
	Employee  string `json:"employee"`
	Requested int    `json:"requested"`
	Assigned  int    `json:"assigned"`
	Deficit   int    `json:"deficit"`
}

// BuildStats derives per-employee statistics from a schedule.
// Results are sorted by deficit, largest first; ties keep roster order.
func BuildStats(schedule Schedule, employees []model.Employee) []EmployeeStats {
	stats := make([]EmployeeStats, 0, len(employees))
	for _, e := range employees {
		requested := len(e.Availability)
		assigned := schedule.Count(e.Name)
		stats = append(stats, EmployeeStats{
			Employee:  e.Name,
			Requested: requested,
			Assigned:  assigned,
			Deficit:   requested - assigned,
		})
	}

	slices.SortStableFunc(stats, func(a, b EmployeeStats) int {
		return b.Deficit - a.Deficit
	})

	return stats
}
