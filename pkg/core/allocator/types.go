package allocator

import (
	"errors"
	"fmt"
	"slices"

	"github.com/jakechorley/weekday-rota/pkg/core/model"
)

var (
	// ErrNotAssigned is returned by Move when the employee is not on the source day
	ErrNotAssigned = errors.New("employee is not assigned to that day")

	// ErrAlreadyAssigned is returned by Move when the employee is already on the target day
	ErrAlreadyAssigned = errors.New("employee is already assigned to that day")
)

// DayOrder selects the order in which requested days are filled
type DayOrder string

const (
	// DayOrderFixed processes days in the order the staffing target lists them
	DayOrderFixed DayOrder = "fixed"

	// DayOrderScarcity processes days with the fewest available employees first
	DayOrderScarcity DayOrder = "scarcity"

	// DayOrderShuffle processes days in a pseudo-random order derived from Options.Seed
	DayOrderShuffle DayOrder = "shuffle"
)

// IsValid reports whether o is a known policy. The empty value means fixed.
func (o DayOrder) IsValid() bool {
	switch o {
	case "", DayOrderFixed, DayOrderScarcity, DayOrderShuffle:
		return true
	}
	return false
}

// ParseDayOrder converts a policy name into a DayOrder
func ParseDayOrder(s string) (DayOrder, error) {
	order := DayOrder(s)
	if !order.IsValid() {
		return "", fmt.Errorf("unknown day order %q (expected fixed, scarcity or shuffle)", s)
	}
	if order == "" {
		return DayOrderFixed, nil
	}
	return order, nil
}

// Options tunes a single allocation run
type Options struct {
	// DayOrder is the day processing policy (defaults to DayOrderFixed)
	DayOrder DayOrder

	// Seed feeds DayOrderShuffle; ignored by the other policies
	Seed int64
}

// Warning is a non-fatal condition detected during allocation
type Warning string

// WarningEmptyRoster is reported when no employees were supplied.
// Every requested day then appears in the shortfall report as fully unmet.
const WarningEmptyRoster Warning = "empty roster: no employees available"

// InvalidInputError reports malformed employees or staffing targets.
// No partial outcome is returned alongside it.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func invalidInput(field, format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsInvalidInput reports whether err is, or wraps, an *InvalidInputError
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

// Schedule maps each requested day to the employees assigned to it, in assignment order
type Schedule map[model.Weekday][]string

// Clone returns a deep copy of the schedule
func (s Schedule) Clone() Schedule {
	clone := make(Schedule, len(s))
	for day, names := range s {
		clone[day] = slices.Clone(names)
	}
	return clone
}

// Count returns how many days name is assigned to
func (s Schedule) Count(name string) int {
	count := 0
	for _, names := range s {
		if slices.Contains(names, name) {
			count++
		}
	}
	return count
}

// Move transfers name from one day to another.
// The schedule is left untouched when an error is returned.
func (s Schedule) Move(name string, from, to model.Weekday) error {
	idx := slices.Index(s[from], name)
	if idx == -1 {
		return fmt.Errorf("%w: %s on %s", ErrNotAssigned, name, from)
	}
	if slices.Contains(s[to], name) {
		return fmt.Errorf("%w: %s on %s", ErrAlreadyAssigned, name, to)
	}

	s[from] = slices.Delete(slices.Clone(s[from]), idx, idx+1)
	s[to] = append(slices.Clone(s[to]), name)
	return nil
}

// Outcome is the result of an allocation run
type Outcome struct {
	// Schedule holds an entry for every day with a positive requirement
	Schedule Schedule

	// Shortfalls lists understaffed days in staffing target order
	Shortfalls []model.Shortfall

	// ProcessedOrder is the order the days were actually filled in
	ProcessedOrder []model.Weekday

	// Warnings contains non-fatal conditions such as an empty roster
	Warnings []Warning
}

// FullyStaffed reports whether every requested day reached its target
func (o *Outcome) FullyStaffed() bool {
	return len(o.Shortfalls) == 0
}
