package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jakechorley/weekday-rota/internal/config"
	"github.com/jakechorley/weekday-rota/pkg/clients/sheetsclient"
	"github.com/jakechorley/weekday-rota/pkg/core/allocator"
	"github.com/jakechorley/weekday-rota/pkg/core/model"
)

// GenerateParams configures a schedule generation run
type GenerateParams struct {
	Source  sheetsclient.ResponsesSource
	Options allocator.Options

	// WeekStart selects the week for target overrides; zero skips them
	WeekStart time.Time
	Overrides []config.TargetOverride

	// DryRun computes the schedule without storing it
	DryRun bool
}

// GenerateResult is a generated schedule plus what went into it
type GenerateResult struct {
	Schedule         *StoredSchedule
	AppliedOverrides []config.TargetOverride
	Saved            bool
}

// GenerateSchedule reads the form responses and the current staffing target,
// runs the allocator and stores the result as a new schedule run
func GenerateSchedule(
	ctx context.Context,
	responsesClient ResponsesClient,
	store Store,
	logger *zap.Logger,
	params GenerateParams,
) (*GenerateResult, error) {
	logger.Debug("Starting generateSchedule",
		zap.String("day_order", string(params.Options.DayOrder)),
		zap.Int64("seed", params.Options.Seed),
		zap.Bool("dry_run", params.DryRun))

	// Step 1: Fetch responses and targets concurrently
	var (
		employees []model.Employee
		target    model.StaffingTarget
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = responsesClient.ListResponses(gctx, params.Source)
		if err != nil {
			return fmt.Errorf("failed to fetch responses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		target, err = GetTargets(gctx, store, logger)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Debug("Fetched inputs", zap.Int("employees", len(employees)), zap.Int("target_total", target.Total()))

	// Step 2: Apply date-based overrides for the requested week
	applied := []config.TargetOverride{}
	if !params.WeekStart.IsZero() {
		params.WeekStart = MondayOf(params.WeekStart)

		var err error
		target, applied, err = ApplyTargetOverrides(target, params.Overrides, params.WeekStart)
		if err != nil {
			return nil, fmt.Errorf("failed to apply target overrides: %w", err)
		}
		for _, o := range applied {
			logger.Info("Applied target override",
				zap.String("day", o.Day),
				zap.Int("required", o.Required),
				zap.String("rrule", o.RRule))
		}
	}

	// Step 3: Allocate
	outcome, err := allocator.Allocate(employees, target, params.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate shifts: %w", err)
	}
	for _, w := range outcome.Warnings {
		logger.Warn("Allocation warning", zap.String("warning", string(w)))
	}
	for _, sf := range outcome.Shortfalls {
		logger.Info("Understaffed day", zap.String("day", string(sf.Day)), zap.Int("missing", sf.Missing))
	}

	dayOrder := params.Options.DayOrder
	if dayOrder == "" {
		dayOrder = allocator.DayOrderFixed
	}

	schedule := &StoredSchedule{
		RunID:     uuid.New().String(),
		CreatedAt: now().UTC(),
		WeekStart: params.WeekStart,
		DayOrder:  dayOrder,
		Seed:      params.Options.Seed,
		Target:    target,
		Roster:    employees,
		Outcome:   outcome,
	}

	result := &GenerateResult{Schedule: schedule, AppliedOverrides: applied}
	if params.DryRun {
		logger.Info("Dry run: schedule not saved")
		return result, nil
	}

	// Step 4: Persist
	if err := store.InsertSchedule(ctx, toDetail(schedule)); err != nil {
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}
	result.Saved = true

	logger.Info("Schedule generated",
		zap.String("run_id", schedule.RunID),
		zap.Int("employees", len(employees)),
		zap.Int("shortfalls", len(outcome.Shortfalls)))

	return result, nil
}
