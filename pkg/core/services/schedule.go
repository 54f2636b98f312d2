package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/weekday-rota/pkg/core/allocator"
	"github.com/jakechorley/weekday-rota/pkg/core/model"
	"github.com/jakechorley/weekday-rota/pkg/db"
)

// StoredSchedule is a persisted schedule run in domain form
type StoredSchedule struct {
	RunID     string
	CreatedAt time.Time
	// WeekStart is zero when the schedule was generated without a week
	WeekStart time.Time
	DayOrder  allocator.DayOrder
	Seed      int64
	ParentID  string

	// Target holds the requested days in staffing target order
	Target  model.StaffingTarget
	Roster  []model.Employee
	Outcome *allocator.Outcome
}

// Grid lays the schedule out for rendering
func (s *StoredSchedule) Grid() *allocator.Grid {
	return allocator.BuildGrid(s.Outcome.Schedule, s.Roster, allocator.ScheduleDays(s.Target))
}

// Stats derives per-employee statistics
func (s *StoredSchedule) Stats() []allocator.EmployeeStats {
	return allocator.BuildStats(s.Outcome.Schedule, s.Roster)
}

// LatestSchedule loads the most recently stored schedule run
func LatestSchedule(ctx context.Context, store db.ScheduleStore, logger *zap.Logger) (*StoredSchedule, error) {
	logger.Debug("Fetching schedule runs")
	runs, err := store.GetScheduleRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule runs: %w", err)
	}

	latest := latestIndex(len(runs), func(i int) string { return runs[i].CreatedAt })
	if latest == -1 {
		return nil, ErrNoSchedule
	}
	run := runs[latest]
	logger.Debug("Latest schedule run found", zap.String("run_id", run.ID), zap.String("created_at", run.CreatedAt))

	detail, err := store.GetScheduleDetail(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule %s: %w", run.ID, err)
	}

	schedule, err := fromDetail(detail)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule %s: %w", run.ID, err)
	}

	return schedule, nil
}

// toDetail converts a schedule into its stored rows
func toDetail(s *StoredSchedule) *db.ScheduleDetail {
	detail := &db.ScheduleDetail{
		Run: db.ScheduleRun{
			ID:        s.RunID,
			CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339Nano),
			DayOrder:  string(s.DayOrder),
			Seed:      s.Seed,
			ParentID:  s.ParentID,
		},
	}
	if !s.WeekStart.IsZero() {
		detail.Run.WeekStart = s.WeekStart.Format(time.DateOnly)
	}

	missing := make(map[model.Weekday]int, len(s.Outcome.Shortfalls))
	for _, sf := range s.Outcome.Shortfalls {
		missing[sf.Day] = sf.Missing
	}

	for _, day := range allocator.ScheduleDays(s.Target) {
		detail.Days = append(detail.Days, db.ScheduleDay{
			RunID:    s.RunID,
			Day:      string(day),
			Position: len(detail.Days),
			Required: s.Target.Get(day),
			Missing:  missing[day],
		})

		for i, name := range s.Outcome.Schedule[day] {
			detail.Entries = append(detail.Entries, db.ScheduleEntry{
				RunID:    s.RunID,
				Day:      string(day),
				Position: i,
				Employee: name,
			})
		}
	}

	for i, e := range s.Roster {
		days := make([]string, 0, len(e.Availability))
		for _, d := range e.Availability.Days() {
			days = append(days, string(d))
		}
		detail.Roster = append(detail.Roster, db.RosterEntry{
			RunID:    s.RunID,
			Position: i,
			Employee: e.Name,
			Days:     strings.Join(days, ","),
		})
	}

	return detail
}

// fromDetail converts stored rows back into a schedule.
// The processing order of the original run is not stored, so ProcessedOrder follows the target.
func fromDetail(detail *db.ScheduleDetail) (*StoredSchedule, error) {
	db.SortDetail(detail)

	s := &StoredSchedule{
		RunID:     detail.Run.ID,
		CreatedAt: parseCreatedAt(detail.Run.CreatedAt),
		DayOrder:  allocator.DayOrder(detail.Run.DayOrder),
		Seed:      detail.Run.Seed,
		ParentID:  detail.Run.ParentID,
		Target:    model.StaffingTarget{},
		Roster:    make([]model.Employee, 0, len(detail.Roster)),
		Outcome: &allocator.Outcome{
			Schedule:       allocator.Schedule{},
			Shortfalls:     []model.Shortfall{},
			ProcessedOrder: []model.Weekday{},
			Warnings:       []allocator.Warning{},
		},
	}

	if detail.Run.WeekStart != "" {
		weekStart, err := time.Parse(time.DateOnly, detail.Run.WeekStart)
		if err != nil {
			return nil, fmt.Errorf("invalid week start %q: %w", detail.Run.WeekStart, err)
		}
		s.WeekStart = weekStart
	}

	for _, d := range detail.Days {
		day, err := model.ParseWeekday(d.Day)
		if err != nil {
			return nil, err
		}
		s.Target = append(s.Target, model.DayTarget{Day: day, Required: d.Required})
		s.Outcome.Schedule[day] = []string{}
		s.Outcome.ProcessedOrder = append(s.Outcome.ProcessedOrder, day)
		if d.Missing > 0 {
			s.Outcome.Shortfalls = append(s.Outcome.Shortfalls, model.Shortfall{Day: day, Missing: d.Missing})
		}
	}

	for _, e := range detail.Entries {
		day, err := model.ParseWeekday(e.Day)
		if err != nil {
			return nil, err
		}
		s.Outcome.Schedule[day] = append(s.Outcome.Schedule[day], e.Employee)
	}

	for _, r := range detail.Roster {
		availability, err := model.ParseWeekdayList(r.Days)
		if err != nil {
			return nil, fmt.Errorf("roster entry %s: %w", r.Employee, err)
		}
		s.Roster = append(s.Roster, model.Employee{Name: r.Employee, Availability: availability})
	}

	if len(s.Roster) == 0 {
		s.Outcome.Warnings = append(s.Outcome.Warnings, allocator.WarningEmptyRoster)
	}

	return s, nil
}
