package db

import (
	"context"
	"errors"
)

// ErrRunNotFound is returned when a schedule run id does not exist
var ErrRunNotFound = errors.New("schedule run not found")

// TargetStore persists staffing target versions
type TargetStore interface {
	GetStaffingTargets(ctx context.Context) ([]StaffingTarget, error)
	InsertStaffingTargets(ctx context.Context, rows []StaffingTarget) error
}

// ScheduleStore persists schedule runs
type ScheduleStore interface {
	GetScheduleRuns(ctx context.Context) ([]ScheduleRun, error)
	GetScheduleDetail(ctx context.Context, runID string) (*ScheduleDetail, error)
	InsertSchedule(ctx context.Context, detail *ScheduleDetail) error
}

// Database defines every persistence operation.
// The SheetsSQL-backed db.DB, sqlite.DB and postgres.DB all implement it.
type Database interface {
	TargetStore
	ScheduleStore
	Close() error
}
