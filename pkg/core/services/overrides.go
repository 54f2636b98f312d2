package services

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/weekday-rota/internal/config"
	"github.com/jakechorley/weekday-rota/pkg/core/model"
)

// ApplyTargetOverrides replaces day counts for the week starting at weekStart.
// An override applies when its rule has an occurrence within that week; rules
// without a DTSTART are anchored to weekStart. Later overrides win.
// Returns the adjusted target and the overrides that applied.
func ApplyTargetOverrides(target model.StaffingTarget, overrides []config.TargetOverride, weekStart time.Time) (model.StaffingTarget, []config.TargetOverride, error) {
	weekStart = MondayOf(weekStart)
	weekEnd := weekStart.AddDate(0, 0, 7).Add(-time.Nanosecond)

	adjusted := target
	applied := []config.TargetOverride{}

	for i, override := range overrides {
		day, err := override.Weekday()
		if err != nil {
			return nil, nil, fmt.Errorf("override %d: %w", i, err)
		}
		if override.Required < 0 {
			return nil, nil, fmt.Errorf("override %d: required count must not be negative, got %d", i, override.Required)
		}

		matches, err := ruleMatchesWeek(override.RRule, weekStart, weekEnd)
		if err != nil {
			return nil, nil, fmt.Errorf("override %d: %w", i, err)
		}
		if !matches {
			continue
		}

		adjusted = adjusted.With(day, override.Required)
		applied = append(applied, override)
	}

	return adjusted, applied, nil
}

func ruleMatchesWeek(rule string, weekStart, weekEnd time.Time) (bool, error) {
	opts, err := rrule.StrToROption(rule)
	if err != nil {
		return false, fmt.Errorf("invalid rrule %q: %w", rule, err)
	}
	if opts.Dtstart.IsZero() {
		opts.Dtstart = weekStart
	}

	r, err := rrule.NewRRule(*opts)
	if err != nil {
		return false, fmt.Errorf("invalid rrule %q: %w", rule, err)
	}

	return len(r.Between(weekStart, weekEnd, true)) > 0, nil
}
