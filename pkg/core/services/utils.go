package services

import (
	"time"

	"github.com/jakechorley/weekday-rota/pkg/core/model"
)

// now is replaced in tests to control created_at ordering
var now = time.Now

// parseCreatedAt parses a stored RFC 3339 timestamp; invalid values sort first
func parseCreatedAt(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// latestIndex returns the index of the most recent timestamp, -1 for an empty list.
// Equal timestamps resolve to the later element.
func latestIndex(n int, createdAt func(i int) string) int {
	latest := -1
	var latestTime time.Time
	for i := 0; i < n; i++ {
		t := parseCreatedAt(createdAt(i))
		if latest == -1 || !t.Before(latestTime) {
			latest = i
			latestTime = t
		}
	}
	return latest
}

// shortfallsFor recomputes the shortfall report of a schedule against a target, in target order
func shortfallsFor(target model.StaffingTarget, assigned func(day model.Weekday) int) []model.Shortfall {
	shortfalls := []model.Shortfall{}
	for _, dt := range target.Recognised() {
		if dt.Required <= 0 {
			continue
		}
		if n := assigned(dt.Day); n < dt.Required {
			shortfalls = append(shortfalls, model.Shortfall{Day: dt.Day, Missing: dt.Required - n})
		}
	}
	return shortfalls
}

// MondayOf returns midnight UTC on the Monday of t's week
func MondayOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
