package allocator

import (
	"math/rand"
	"slices"

	"github.com/jakechorley/weekday-rota/pkg/core/model"
)

// processingOrder returns the requested days (Required > 0) in the order they should be filled
func processingOrder(employees []model.Employee, target model.StaffingTarget, opts Options) []model.DayTarget {
	requested := make([]model.DayTarget, 0, len(target))
	for _, dt := range target {
		if dt.Required > 0 {
			requested = append(requested, dt)
		}
	}

	switch opts.DayOrder {
	case DayOrderScarcity:
		// Days with the fewest candidates go first so they are not starved by earlier days
		candidates := make(map[model.Weekday]int, len(requested))
		for _, dt := range requested {
			candidates[dt.Day] = len(availableFor(employees, dt.Day))
		}
		slices.SortStableFunc(requested, func(a, b model.DayTarget) int {
			return candidates[a.Day] - candidates[b.Day]
		})

	case DayOrderShuffle:
		rng := rand.New(rand.NewSource(opts.Seed))
		rng.Shuffle(len(requested), func(i, j int) {
			requested[i], requested[j] = requested[j], requested[i]
		})
	}

	return requested
}
