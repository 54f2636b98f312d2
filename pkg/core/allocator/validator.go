package allocator

import (
	"fmt"
	"slices"

	"github.com/jakechorley/weekday-rota/pkg/core/model"
)

// validateInput rejects rosters and targets the allocator cannot work with
func validateInput(employees []model.Employee, target model.StaffingTarget, opts Options) error {
	if !opts.DayOrder.IsValid() {
		return invalidInput("options.dayOrder", "unknown policy %q", opts.DayOrder)
	}

	seenNames := make(map[string]int, len(employees))
	for i, e := range employees {
		field := fmt.Sprintf("employees[%d]", i)

		if e.Name == "" {
			return invalidInput(field+".name", "name is required")
		}
		if first, ok := seenNames[e.Name]; ok {
			return invalidInput(field+".name", "duplicate name %q (first seen at employees[%d])", e.Name, first)
		}
		seenNames[e.Name] = i

		if e.Availability == nil {
			return invalidInput(field+".availability", "availability is required for %q", e.Name)
		}
		for day := range e.Availability {
			if !day.IsValid() {
				return invalidInput(field+".availability", "unrecognised weekday %q for %q", day, e.Name)
			}
		}
	}

	seenDays := make(map[model.Weekday]bool, len(target))
	for i, dt := range target {
		field := fmt.Sprintf("target[%d]", i)

		if !dt.Day.IsValid() {
			continue
		}
		if seenDays[dt.Day] {
			return invalidInput(field+".day", "%s listed more than once", dt.Day)
		}
		seenDays[dt.Day] = true

		if dt.Required < 0 {
			return invalidInput(field+".required", "required count for %s must not be negative, got %d", dt.Day, dt.Required)
		}
	}

	return nil
}

// ValidationError describes an outcome that breaks an allocation invariant
type ValidationError struct {
	Day         model.Weekday
	Description string
}

// ValidateOutcome checks a finished (or later edited) outcome against the roster and target:
// employees only work days they are available, no one appears twice on a day,
// and the shortfall report matches the schedule.
// Returns an empty slice when every check passes.
func ValidateOutcome(employees []model.Employee, target model.StaffingTarget, outcome *Outcome) []ValidationError {
	errs := []ValidationError{}

	availability := make(map[string]model.Availability, len(employees))
	for _, e := range employees {
		availability[e.Name] = e.Availability
	}

	for day, names := range outcome.Schedule {
		seen := make(map[string]bool, len(names))
		for _, name := range names {
			if seen[name] {
				errs = append(errs, ValidationError{Day: day, Description: fmt.Sprintf("%s assigned more than once", name)})
			}
			seen[name] = true

			if !availability[name].Has(day) {
				errs = append(errs, ValidationError{Day: day, Description: fmt.Sprintf("%s is not available", name)})
			}
		}
	}

	for _, dt := range target.Recognised() {
		if dt.Required <= 0 {
			continue
		}
		assigned := len(outcome.Schedule[dt.Day])
		idx := slices.IndexFunc(outcome.Shortfalls, func(s model.Shortfall) bool { return s.Day == dt.Day })

		switch {
		case assigned < dt.Required && idx == -1:
			errs = append(errs, ValidationError{Day: dt.Day, Description: "understaffed day missing from shortfall report"})
		case assigned < dt.Required && outcome.Shortfalls[idx].Missing != dt.Required-assigned:
			errs = append(errs, ValidationError{Day: dt.Day, Description: fmt.Sprintf(
				"shortfall reports %d missing, expected %d", outcome.Shortfalls[idx].Missing, dt.Required-assigned)})
		case assigned >= dt.Required && idx != -1:
			errs = append(errs, ValidationError{Day: dt.Day, Description: "fully staffed day listed as a shortfall"})
		}

		if assigned > dt.Required {
			errs = append(errs, ValidationError{Day: dt.Day, Description: fmt.Sprintf("%d assigned, only %d required", assigned, dt.Required)})
		}
	}

	return errs
}
