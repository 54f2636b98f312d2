package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrUnknownWeekday is returned when a day name cannot be mapped to a Weekday
	ErrUnknownWeekday = errors.New("unknown weekday")

	// ErrInvalidTarget is returned for staffing targets with negative or repeated days
	ErrInvalidTarget = errors.New("invalid staffing target")
)

// Weekday is one of the seven scheduling days
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Weekdays lists every weekday in canonical (Monday first) order
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// weekdayAliases maps lower-cased names accepted from the intake form to weekdays.
// The form was published in Russian, so both locales are accepted.
var weekdayAliases = map[string]Weekday{
	"monday":      Monday,
	"mon":         Monday,
	"понедельник": Monday,
	"tuesday":     Tuesday,
	"tue":         Tuesday,
	"вторник":     Tuesday,
	"wednesday":   Wednesday,
	"wed":         Wednesday,
	"среда":       Wednesday,
	"thursday":    Thursday,
	"thu":         Thursday,
	"четверг":     Thursday,
	"friday":      Friday,
	"fri":         Friday,
	"пятница":     Friday,
	"saturday":    Saturday,
	"sat":         Saturday,
	"суббота":     Saturday,
	"sunday":      Sunday,
	"sun":         Sunday,
	"воскресенье": Sunday,
}

// IsValid reports whether w is one of the seven recognised weekdays
func (w Weekday) IsValid() bool {
	return w.Index() >= 0
}

// Index returns the zero-based position of w in the week (Monday = 0), or -1
func (w Weekday) Index() int {
	for i, d := range Weekdays {
		if d == w {
			return i
		}
	}
	return -1
}

// Short returns the three-letter abbreviation used in table headers
func (w Weekday) Short() string {
	if !w.IsValid() {
		return string(w)
	}
	return string(w)[:3]
}

// ParseWeekday maps a day name in any accepted locale or abbreviation to a Weekday
func ParseWeekday(name string) (Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if day, ok := weekdayAliases[key]; ok {
		return day, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownWeekday, name)
}

// ParseWeekdayList parses a comma or semicolon separated list of day names.
// Empty items are ignored and repeated days are collapsed.
func ParseWeekdayList(cell string) (Availability, error) {
	availability := Availability{}
	fields := strings.FieldsFunc(cell, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	for _, field := range fields {
		if strings.TrimSpace(field) == "" {
			continue
		}
		day, err := ParseWeekday(field)
		if err != nil {
			return nil, err
		}
		availability[day] = true
	}
	return availability, nil
}

// Availability is the set of weekdays an employee is willing to work
type Availability map[Weekday]bool

// NewAvailability builds an availability set from a list of days
func NewAvailability(days ...Weekday) Availability {
	a := make(Availability, len(days))
	for _, d := range days {
		a[d] = true
	}
	return a
}

// Has reports whether the set contains day
func (a Availability) Has(day Weekday) bool {
	return a[day]
}

// Days returns the set members in canonical order
func (a Availability) Days() []Weekday {
	days := make([]Weekday, 0, len(a))
	for _, d := range Weekdays {
		if a[d] {
			days = append(days, d)
		}
	}
	return days
}

// Employee is a roster entry with the days they declared they can work.
// A nil Availability means the field was missing; an empty one means no days.
type Employee struct {
	Name         string
	Availability Availability
}

// DayTarget is the required headcount for a single day
type DayTarget struct {
	Day      Weekday `json:"day" yaml:"day"`
	Required int     `json:"required" yaml:"required"`
}

// StaffingTarget is the ordered list of per-day headcounts.
// The order is the order in which days are processed by the allocator.
type StaffingTarget []DayTarget

// DefaultStaffingTarget returns a target with every day set to zero
func DefaultStaffingTarget() StaffingTarget {
	target := make(StaffingTarget, 0, len(Weekdays))
	for _, d := range Weekdays {
		target = append(target, DayTarget{Day: d, Required: 0})
	}
	return target
}

// TargetFromMap converts a day-name to headcount mapping into a StaffingTarget
// in canonical order. Unrecognised day names are ignored. Negative counts, and
// two names for the same day (e.g. "Monday" and "mon"), are ErrInvalidTarget.
func TargetFromMap(counts map[string]int) (StaffingTarget, error) {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	// Sorted so the reported pair is the same on every call
	slices.Sort(names)

	byDay := make(map[Weekday]int, len(counts))
	dayNames := make(map[Weekday]string, len(counts))
	for _, name := range names {
		day, err := ParseWeekday(name)
		if err != nil {
			continue
		}
		required := counts[name]
		if required < 0 {
			return nil, fmt.Errorf("%w: required count for %s must not be negative, got %d", ErrInvalidTarget, day, required)
		}
		if first, ok := dayNames[day]; ok {
			return nil, fmt.Errorf("%w: %q and %q both name %s", ErrInvalidTarget, first, name, day)
		}
		dayNames[day] = name
		byDay[day] = required
	}

	target := make(StaffingTarget, 0, len(byDay))
	for _, d := range Weekdays {
		if required, ok := byDay[d]; ok {
			target = append(target, DayTarget{Day: d, Required: required})
		}
	}
	return target, nil
}

// Get returns the required count for day, or 0 when the day is absent
func (t StaffingTarget) Get(day Weekday) int {
	for _, dt := range t {
		if dt.Day == day {
			return dt.Required
		}
	}
	return 0
}

// With returns a copy of the target with day set to required.
// Absent days are inserted at their canonical position.
func (t StaffingTarget) With(day Weekday, required int) StaffingTarget {
	result := make(StaffingTarget, 0, len(t)+1)
	found := false
	for _, dt := range t {
		if dt.Day == day {
			dt.Required = required
			found = true
		}
		result = append(result, dt)
	}
	if found {
		return result
	}

	insertAt := len(result)
	for i, dt := range result {
		if dt.Day.Index() > day.Index() {
			insertAt = i
			break
		}
	}
	result = append(result, DayTarget{})
	copy(result[insertAt+1:], result[insertAt:])
	result[insertAt] = DayTarget{Day: day, Required: required}
	return result
}

// Total returns the sum of required headcounts
func (t StaffingTarget) Total() int {
	total := 0
	for _, dt := range t {
		total += dt.Required
	}
	return total
}

// Recognised returns a copy of the target without entries whose day is not
// one of the seven weekdays
func (t StaffingTarget) Recognised() StaffingTarget {
	result := make(StaffingTarget, 0, len(t))
	for _, dt := range t {
		if dt.Day.IsValid() {
			result = append(result, dt)
		}
	}
	return result
}

// Shortfall records how many employees a day is missing
type Shortfall struct {
	Day     Weekday `json:"day"`
	Missing int     `json:"missing"`
}
