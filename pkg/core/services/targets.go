package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/weekday-rota/pkg/core/model"
	"github.com/jakechorley/weekday-rota/pkg/db"
)

// GetTargets loads the newest staffing target version.
// Every day defaults to zero when no version has been saved.
func GetTargets(ctx context.Context, store db.TargetStore, logger *zap.Logger) (model.StaffingTarget, error) {
	logger.Debug("Fetching staffing targets")
	rows, err := store.GetStaffingTargets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch staffing targets: %w", err)
	}

	latest := latestIndex(len(rows), func(i int) string { return rows[i].CreatedAt })
	if latest == -1 {
		logger.Debug("No staffing targets saved, using defaults")
		return model.DefaultStaffingTarget(), nil
	}
	versionID := rows[latest].VersionID

	version := make([]db.StaffingTarget, 0, len(model.Weekdays))
	for _, row := range rows {
		if row.VersionID == versionID {
			version = append(version, row)
		}
	}

	target := model.DefaultStaffingTarget()
	for _, row := range version {
		day, err := model.ParseWeekday(row.Day)
		if err != nil {
			return nil, fmt.Errorf("invalid staffing target version %s: %w", versionID, err)
		}
		target = target.With(day, row.Required)
	}

	logger.Debug("Loaded staffing targets", zap.String("version_id", versionID), zap.Int("total", target.Total()))
	return target, nil
}

// SaveTargets validates a target and stores it as a new version covering every weekday.
// Days absent from target are saved as zero.
func SaveTargets(ctx context.Context, store db.TargetStore, logger *zap.Logger, target model.StaffingTarget) (model.StaffingTarget, error) {
	full := model.DefaultStaffingTarget()
	seen := make(map[model.Weekday]bool, len(target))
	for _, dt := range target {
		if !dt.Day.IsValid() {
			return nil, fmt.Errorf("%w: %q", model.ErrUnknownWeekday, dt.Day)
		}
		if seen[dt.Day] {
			return nil, fmt.Errorf("%w: %s listed more than once", model.ErrInvalidTarget, dt.Day)
		}
		seen[dt.Day] = true
		if dt.Required < 0 {
			return nil, fmt.Errorf("%w: required count for %s must not be negative, got %d", model.ErrInvalidTarget, dt.Day, dt.Required)
		}
		full = full.With(dt.Day, dt.Required)
	}

	versionID := uuid.New().String()
	createdAt := now().UTC().Format(time.RFC3339Nano)

	rows := make([]db.StaffingTarget, 0, len(full))
	for i, dt := range full {
		rows = append(rows, db.StaffingTarget{
			VersionID: versionID,
			CreatedAt: createdAt,
			Day:       string(dt.Day),
			Position:  i,
			Required:  dt.Required,
		})
	}

	logger.Debug("Saving staffing targets", zap.String("version_id", versionID), zap.Int("total", full.Total()))
	if err := store.InsertStaffingTargets(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to save staffing targets: %w", err)
	}

	return full, nil
}

// SetTarget changes one day's required headcount, keeping the other days
func SetTarget(ctx context.Context, store db.TargetStore, logger *zap.Logger, day model.Weekday, required int) (model.StaffingTarget, error) {
	if required < 0 {
		return nil, fmt.Errorf("%w: required count for %s must not be negative, got %d", model.ErrInvalidTarget, day, required)
	}

	current, err := GetTargets(ctx, store, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Setting staffing target",
		zap.String("day", string(day)),
		zap.Int("from", current.Get(day)),
		zap.Int("to", required))

	return SaveTargets(ctx, store, logger, current.With(day, required))
}

// ResetTargets sets every day back to zero
func ResetTargets(ctx context.Context, store db.TargetStore, logger *zap.Logger) (model.StaffingTarget, error) {
	logger.Info("Resetting staffing targets")
	return SaveTargets(ctx, store, logger, model.DefaultStaffingTarget())
}
