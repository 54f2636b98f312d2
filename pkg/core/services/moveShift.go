package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/weekday-rota/pkg/core/allocator"
	"github.com/jakechorley/weekday-rota/pkg/core/model"
	"github.com/jakechorley/weekday-rota/pkg/db"
)

// ErrDayNotScheduled is returned when a move targets a day with no requirement
var ErrDayNotScheduled = errors.New("day is not part of the schedule")

// MoveShift moves an employee between two days of the latest schedule and
// stores the result as a new run whose parent is the schedule it changed.
// Moving onto a day the employee did not offer is allowed and logged.
func MoveShift(ctx context.Context, store db.ScheduleStore, logger *zap.Logger, name string, from, to model.Weekday) (*StoredSchedule, error) {
	current, err := LatestSchedule(ctx, store, logger)
	if err != nil {
		return nil, err
	}

	days := allocator.ScheduleDays(current.Target)
	for _, day := range []model.Weekday{from, to} {
		if !slices.Contains(days, day) {
			return nil, fmt.Errorf("%w: %s", ErrDayNotScheduled, day)
		}
	}

	schedule := current.Outcome.Schedule.Clone()
	if err := schedule.Move(name, from, to); err != nil {
		return nil, err
	}

	moved := &StoredSchedule{
		RunID:     uuid.New().String(),
		CreatedAt: now().UTC(),
		WeekStart: current.WeekStart,
		DayOrder:  current.DayOrder,
		Seed:      current.Seed,
		ParentID:  current.RunID,
		Target:    current.Target,
		Roster:    current.Roster,
		Outcome: &allocator.Outcome{
			Schedule:       schedule,
			Shortfalls:     shortfallsFor(current.Target, func(day model.Weekday) int { return len(schedule[day]) }),
			ProcessedOrder: current.Outcome.ProcessedOrder,
			Warnings:       current.Outcome.Warnings,
		},
	}

	for _, v := range allocator.ValidateOutcome(moved.Roster, moved.Target, moved.Outcome) {
		logger.Warn("Moved schedule breaks an allocation rule",
			zap.String("day", string(v.Day)),
			zap.String("description", v.Description))
	}

	if err := store.InsertSchedule(ctx, toDetail(moved)); err != nil {
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}

	logger.Info("Shift moved",
		zap.String("employee", name),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("run_id", moved.RunID),
		zap.String("parent_id", moved.ParentID))

	return moved, nil
}
