package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/weekday-rota/pkg/core/allocator"
	"github.com/jakechorley/weekday-rota/pkg/db"
)

// ScheduleStats computes per-employee statistics for the latest schedule
func ScheduleStats(ctx context.Context, store db.ScheduleStore, logger *zap.Logger) ([]allocator.EmployeeStats, error) {
	schedule, err := LatestSchedule(ctx, store, logger)
	if err != nil {
		return nil, err
	}
	return schedule.Stats(), nil
}
