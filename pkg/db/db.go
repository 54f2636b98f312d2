package db

import (
	"context"
	"fmt"

	"github.com/jakechorley/weekday-rota/pkg/sheetssql"
)

// DB provides database operations using SheetsSQL
type DB struct {
	ssql *sheetssql.DB
}

// Schema returns the SheetsSQL schema for every model
func Schema() (*sheetssql.Schema, error) {
	return sheetssql.SchemaFromModels(Models()...)
}

// Open connects to the database spreadsheet, creating any missing tables
func Open(ctx context.Context, client sheetssql.SheetsClient, spreadsheetID string) (*DB, error) {
	schema, err := Schema()
	if err != nil {
		return nil, fmt.Errorf("failed to create database schema: %w", err)
	}

	ssql, err := sheetssql.NewDB(ctx, client, spreadsheetID, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &DB{ssql: ssql}, nil
}

// Close is a no-op; the sheets client holds no connection
func (db *DB) Close() error {
	return nil
}

// GetStaffingTargets retrieves every staffing target row of every version
func (db *DB) GetStaffingTargets(ctx context.Context) ([]StaffingTarget, error) {
	rows, err := sheetssql.GetTableAs[StaffingTarget](ctx, db.ssql, "staffing_target")
	if err != nil {
		return nil, fmt.Errorf("failed to get staffing targets: %w", err)
	}
	return rows, nil
}

// InsertStaffingTargets appends a staffing target version
func (db *DB) InsertStaffingTargets(ctx context.Context, rows []StaffingTarget) error {
	if err := sheetssql.InsertModels(ctx, db.ssql, rows); err != nil {
		return fmt.Errorf("failed to insert staffing targets: %w", err)
	}
	return nil
}

// GetScheduleRuns retrieves every schedule run
func (db *DB) GetScheduleRuns(ctx context.Context) ([]ScheduleRun, error) {
	runs, err := sheetssql.GetTableAs[ScheduleRun](ctx, db.ssql, "schedule_run")
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule runs: %w", err)
	}
	return runs, nil
}

// GetScheduleDetail loads a run and its child rows
func (db *DB) GetScheduleDetail(ctx context.Context, runID string) (*ScheduleDetail, error) {
	runs, err := sheetssql.GetTableWhere(ctx, db.ssql, "schedule_run", func(r ScheduleRun) bool { return r.ID == runID })
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule run: %w", err)
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	detail := &ScheduleDetail{Run: runs[0]}

	detail.Days, err = sheetssql.GetTableWhere(ctx, db.ssql, "schedule_day", func(d ScheduleDay) bool { return d.RunID == runID })
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule days: %w", err)
	}

	detail.Entries, err = sheetssql.GetTableWhere(ctx, db.ssql, "schedule_entry", func(e ScheduleEntry) bool { return e.RunID == runID })
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule entries: %w", err)
	}

	detail.Roster, err = sheetssql.GetTableWhere(ctx, db.ssql, "roster_entry", func(r RosterEntry) bool { return r.RunID == runID })
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}

	SortDetail(detail)
	return detail, nil
}

// InsertSchedule stores a run. Child rows are written before the run row so a
// visible run always has its children; a failure part way leaves only orphans.
func (db *DB) InsertSchedule(ctx context.Context, detail *ScheduleDetail) error {
	if err := sheetssql.InsertModels(ctx, db.ssql, detail.Days); err != nil {
		return fmt.Errorf("failed to insert schedule days: %w", err)
	}
	if err := sheetssql.InsertModels(ctx, db.ssql, detail.Entries); err != nil {
		return fmt.Errorf("failed to insert schedule entries: %w", err)
	}
	if err := sheetssql.InsertModels(ctx, db.ssql, detail.Roster); err != nil {
		return fmt.Errorf("failed to insert roster: %w", err)
	}
	if err := sheetssql.InsertModel(ctx, db.ssql, detail.Run); err != nil {
		return fmt.Errorf("failed to insert schedule run: %w", err)
	}
	return nil
}
