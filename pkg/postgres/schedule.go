package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/weekday-rota/pkg/db"
)

// GetScheduleRuns retrieves every schedule run, oldest first
func (d *DB) GetScheduleRuns(ctx context.Context) ([]db.ScheduleRun, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id::text, created_at, week_start, day_order, seed, parent_id::text
		FROM schedule_run
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule runs: %w", err)
	}
	defer rows.Close()

	var runs []db.ScheduleRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule runs: %w", err)
	}

	return runs, nil
}

// GetScheduleDetail loads a run and its child rows
func (d *DB) GetScheduleDetail(ctx context.Context, runID string) (*db.ScheduleDetail, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT id::text, created_at, week_start, day_order, seed, parent_id::text
		FROM schedule_run
		WHERE id::text = $1
	`, runID)

	run, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", db.ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}

	detail := &db.ScheduleDetail{Run: run}

	dayRows, err := d.pool.Query(ctx, `
		SELECT day, position, required, missing
		FROM schedule_day
		WHERE run_id::text = $1
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule days: %w", err)
	}
	detail.Days, err = pgx.CollectRows(dayRows, func(r pgx.CollectableRow) (db.ScheduleDay, error) {
		day := db.ScheduleDay{RunID: runID}
		err := r.Scan(&day.Day, &day.Position, &day.Required, &day.Missing)
		return day, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan schedule days: %w", err)
	}

	entryRows, err := d.pool.Query(ctx, `
		SELECT day, position, employee
		FROM schedule_entry
		WHERE run_id::text = $1
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule entries: %w", err)
	}
	detail.Entries, err = pgx.CollectRows(entryRows, func(r pgx.CollectableRow) (db.ScheduleEntry, error) {
		entry := db.ScheduleEntry{RunID: runID}
		err := r.Scan(&entry.Day, &entry.Position, &entry.Employee)
		return entry, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan schedule entries: %w", err)
	}

	rosterRows, err := d.pool.Query(ctx, `
		SELECT position, employee, days
		FROM roster_entry
		WHERE run_id::text = $1
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}
	detail.Roster, err = pgx.CollectRows(rosterRows, func(r pgx.CollectableRow) (db.RosterEntry, error) {
		entry := db.RosterEntry{RunID: runID}
		err := r.Scan(&entry.Position, &entry.Employee, &entry.Days)
		return entry, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan roster: %w", err)
	}

	db.SortDetail(detail)
	return detail, nil
}

// InsertSchedule stores a run and its child rows in one transaction
func (d *DB) InsertSchedule(ctx context.Context, detail *db.ScheduleDetail) error {
	createdAt, err := parseTimestamp(detail.Run.CreatedAt)
	if err != nil {
		return err
	}

	var weekStart *time.Time
	if detail.Run.WeekStart != "" {
		t, err := time.Parse(time.DateOnly, detail.Run.WeekStart)
		if err != nil {
			return fmt.Errorf("invalid week start %q: %w", detail.Run.WeekStart, err)
		}
		weekStart = &t
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO schedule_run (id, created_at, week_start, day_order, seed, parent_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, detail.Run.ID, createdAt, weekStart, detail.Run.DayOrder, detail.Run.Seed, nullable(detail.Run.ParentID))

	for _, day := range detail.Days {
		batch.Queue(`
			INSERT INTO schedule_day (run_id, day, position, required, missing)
			VALUES ($1, $2, $3, $4, $5)
		`, detail.Run.ID, day.Day, day.Position, day.Required, day.Missing)
	}
	for _, entry := range detail.Entries {
		batch.Queue(`
			INSERT INTO schedule_entry (run_id, day, position, employee)
			VALUES ($1, $2, $3, $4)
		`, detail.Run.ID, entry.Day, entry.Position, entry.Employee)
	}
	for _, entry := range detail.Roster {
		batch.Queue(`
			INSERT INTO roster_entry (run_id, position, employee, days)
			VALUES ($1, $2, $3, $4)
		`, detail.Run.ID, entry.Position, entry.Employee, entry.Days)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert schedule: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit schedule: %w", err)
	}

	return nil
}

func scanRun(row pgx.Row) (db.ScheduleRun, error) {
	var (
		run       db.ScheduleRun
		createdAt time.Time
		weekStart *time.Time
		parentID  *string
	)

	if err := row.Scan(&run.ID, &createdAt, &weekStart, &run.DayOrder, &run.Seed, &parentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return run, err
		}
		return run, fmt.Errorf("failed to scan schedule run: %w", err)
	}

	run.CreatedAt = formatTimestamp(createdAt)
	if weekStart != nil {
		run.WeekStart = weekStart.Format(time.DateOnly)
	}
	if parentID != nil {
		run.ParentID = *parentID
	}

	return run, nil
}
