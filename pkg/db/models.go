package db

import (
	"cmp"
	"slices"
)

// ScheduleRun is one stored schedule. Runs are never updated: regenerating or
// moving a shift writes a new run and the most recent one is current.
type ScheduleRun struct {
	ID        string `ssql_header:"id" ssql_type:"uuid"`
	CreatedAt string `ssql_header:"created_at" ssql_type:"datetime"`
	WeekStart string `ssql_header:"week_start" ssql_type:"date"`
	DayOrder  string `ssql_header:"day_order" ssql_type:"text"`
	Seed      int64  `ssql_header:"seed" ssql_type:"int"`
	// ParentID is the run a moved shift was applied to; empty for generated runs
	ParentID string `ssql_header:"parent_id" ssql_type:"uuid"`
}

// ScheduleDay is one requested day of a run; Position is its staffing target order
type ScheduleDay struct {
	RunID    string `ssql_header:"run_id" ssql_type:"uuid"`
	Day      string `ssql_header:"day" ssql_type:"text"`
	Position int    `ssql_header:"position" ssql_type:"int"`
	Required int    `ssql_header:"required" ssql_type:"int"`
	Missing  int    `ssql_header:"missing" ssql_type:"int"`
}

// ScheduleEntry assigns one employee to one day; Position keeps assignment order
type ScheduleEntry struct {
	RunID    string `ssql_header:"run_id" ssql_type:"uuid"`
	Day      string `ssql_header:"day" ssql_type:"text"`
	Position int    `ssql_header:"position" ssql_type:"int"`
	Employee string `ssql_header:"employee" ssql_type:"text"`
}

// RosterEntry snapshots the responses a run was computed from
type RosterEntry struct {
	RunID    string `ssql_header:"run_id" ssql_type:"uuid"`
	Position int    `ssql_header:"position" ssql_type:"int"`
	Employee string `ssql_header:"employee" ssql_type:"text"`
	// Days is a comma-separated list of weekday names
	Days string `ssql_header:"days" ssql_type:"text"`
}

// StaffingTarget is one day of a staffing target version.
// Setting a target writes a whole new version; the newest version wins.
type StaffingTarget struct {
	VersionID string `ssql_header:"version_id" ssql_type:"uuid"`
	CreatedAt string `ssql_header:"created_at" ssql_type:"datetime"`
	Day       string `ssql_header:"day" ssql_type:"text"`
	Position  int    `ssql_header:"position" ssql_type:"int"`
	Required  int    `ssql_header:"required" ssql_type:"int"`
}

// ScheduleDetail is a run with all of its child rows
type ScheduleDetail struct {
	Run     ScheduleRun
	Days    []ScheduleDay
	Entries []ScheduleEntry
	Roster  []RosterEntry
}

// Models lists every table, in creation order
func Models() []interface{} {
	return []interface{}{
		ScheduleRun{},
		ScheduleDay{},
		ScheduleEntry{},
		RosterEntry{},
		StaffingTarget{},
	}
}

// SortDetail puts child rows in position order: days by position, entries by
// (day position, position), roster by position
func SortDetail(d *ScheduleDetail) {
	slices.SortStableFunc(d.Days, func(a, b ScheduleDay) int { return cmp.Compare(a.Position, b.Position) })

	dayPos := make(map[string]int, len(d.Days))
	for _, day := range d.Days {
		dayPos[day.Day] = day.Position
	}
	slices.SortStableFunc(d.Entries, func(a, b ScheduleEntry) int {
		if c := cmp.Compare(dayPos[a.Day], dayPos[b.Day]); c != 0 {
			return c
		}
		return cmp.Compare(a.Position, b.Position)
	})

	slices.SortStableFunc(d.Roster, func(a, b RosterEntry) int { return cmp.Compare(a.Position, b.Position) })
}
