// Package sqlite stores schedules in a local SQLite file. It is the default
// backend and needs no network access.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/jakechorley/weekday-rota/pkg/db"
	"github.com/jakechorley/weekday-rota/pkg/migrate"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB provides database operations using SQLite
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the database file at path and applies pending migrations
func Open(ctx context.Context, path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	d := &DB{conn: conn}
	if err := d.RunMigrations(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	return d, nil
}

// Close closes the database
func (d *DB) Close() error {
	return d.conn.Close()
}

// RunMigrations executes all pending SQL migration files in order
func (d *DB) RunMigrations(ctx context.Context) error {
	_, err := d.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	rows, err := d.conn.QueryContext(ctx, `SELECT filename FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("failed to query applied migrations: %w", err)
	}
	applied := make(map[string]bool)
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan migration filename: %w", err)
		}
		applied[filename] = true
	}
	rows.Close()

	pending, err := migrate.Pending(migrationsFS, "migrations", applied)
	if err != nil {
		return err
	}

	for _, m := range pending {
		if err := d.inTx(ctx, func(tx *sql.Tx) error {
			for _, stmt := range migrate.Statements(m.SQL) {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to execute migration %s: %w", m.Filename, err)
				}
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (filename) VALUES (?)`, m.Filename); err != nil {
				return fmt.Errorf("failed to record migration %s: %w", m.Filename, err)
			}
			return nil
		}); err != nil {
			return err
		}
	}

	return nil
}

// inTx runs fn in a transaction, committing only if it succeeds
func (d *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetStaffingTargets retrieves every staffing target row of every version
func (d *DB) GetStaffingTargets(ctx context.Context) ([]db.StaffingTarget, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT version_id, created_at, day, position, required
		FROM staffing_target
		ORDER BY created_at, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query staffing targets: %w", err)
	}
	defer rows.Close()

	var targets []db.StaffingTarget
	for rows.Next() {
		var t db.StaffingTarget
		if err := rows.Scan(&t.VersionID, &t.CreatedAt, &t.Day, &t.Position, &t.Required); err != nil {
			return nil, fmt.Errorf("failed to scan staffing target: %w", err)
		}
		targets = append(targets, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating staffing targets: %w", err)
	}

	return targets, nil
}

// InsertStaffingTargets writes a staffing target version in one transaction
func (d *DB) InsertStaffingTargets(ctx context.Context, rows []db.StaffingTarget) error {
	return d.inTx(ctx, func(tx *sql.Tx) error {
		for _, row := range rows {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO staffing_target (version_id, created_at, day, position, required)
				VALUES (?, ?, ?, ?, ?)
			`, row.VersionID, row.CreatedAt, row.Day, row.Position, row.Required)
			if err != nil {
				return fmt.Errorf("failed to insert staffing target %s: %w", row.Day, err)
			}
		}
		return nil
	})
}

// GetScheduleRuns retrieves every schedule run, oldest first
func (d *DB) GetScheduleRuns(ctx context.Context) ([]db.ScheduleRun, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, created_at, week_start, day_order, seed, parent_id
		FROM schedule_run
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule runs: %w", err)
	}
	defer rows.Close()

	var runs []db.ScheduleRun
	for rows.Next() {
		var r db.ScheduleRun
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.WeekStart, &r.DayOrder, &r.Seed, &r.ParentID); err != nil {
			return nil, fmt.Errorf("failed to scan schedule run: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule runs: %w", err)
	}

	return runs, nil
}

// GetScheduleDetail loads a run and its child rows
func (d *DB) GetScheduleDetail(ctx context.Context, runID string) (*db.ScheduleDetail, error) {
	detail := &db.ScheduleDetail{}

	err := d.conn.QueryRowContext(ctx, `
		SELECT id, created_at, week_start, day_order, seed, parent_id
		FROM schedule_run
		WHERE id = ?
	`, runID).Scan(&detail.Run.ID, &detail.Run.CreatedAt, &detail.Run.WeekStart, &detail.Run.DayOrder, &detail.Run.Seed, &detail.Run.ParentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", db.ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule run: %w", err)
	}

	if err := d.queryRows(ctx, `SELECT day, position, required, missing FROM schedule_day WHERE run_id = ?`, runID, func(rows *sql.Rows) error {
		day := db.ScheduleDay{RunID: runID}
		if err := rows.Scan(&day.Day, &day.Position, &day.Required, &day.Missing); err != nil {
			return err
		}
		detail.Days = append(detail.Days, day)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to get schedule days: %w", err)
	}

	if err := d.queryRows(ctx, `SELECT day, position, employee FROM schedule_entry WHERE run_id = ?`, runID, func(rows *sql.Rows) error {
		entry := db.ScheduleEntry{RunID: runID}
		if err := rows.Scan(&entry.Day, &entry.Position, &entry.Employee); err != nil {
			return err
		}
		detail.Entries = append(detail.Entries, entry)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to get schedule entries: %w", err)
	}

	if err := d.queryRows(ctx, `SELECT position, employee, days FROM roster_entry WHERE run_id = ?`, runID, func(rows *sql.Rows) error {
		entry := db.RosterEntry{RunID: runID}
		if err := rows.Scan(&entry.Position, &entry.Employee, &entry.Days); err != nil {
			return err
		}
		detail.Roster = append(detail.Roster, entry)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}

	db.SortDetail(detail)
	return detail, nil
}

func (d *DB) queryRows(ctx context.Context, query string, arg any, scan func(rows *sql.Rows) error) error {
	rows, err := d.conn.QueryContext(ctx, query, arg)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// InsertSchedule stores a run and its child rows in one transaction
func (d *DB) InsertSchedule(ctx context.Context, detail *db.ScheduleDetail) error {
	return d.inTx(ctx, func(tx *sql.Tx) error {
		run := detail.Run
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO schedule_run (id, created_at, week_start, day_order, seed, parent_id)
			VALUES (?, ?, ?, ?, ?, ?)
		`, run.ID, run.CreatedAt, run.WeekStart, run.DayOrder, run.Seed, run.ParentID); err != nil {
			return fmt.Errorf("failed to insert schedule run: %w", err)
		}

		for _, day := range detail.Days {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO schedule_day (run_id, day, position, required, missing)
				VALUES (?, ?, ?, ?, ?)
			`, run.ID, day.Day, day.Position, day.Required, day.Missing); err != nil {
				return fmt.Errorf("failed to insert schedule day %s: %w", day.Day, err)
			}
		}

		for _, entry := range detail.Entries {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO schedule_entry (run_id, day, position, employee)
				VALUES (?, ?, ?, ?)
			`, run.ID, entry.Day, entry.Position, entry.Employee); err != nil {
				return fmt.Errorf("failed to insert schedule entry: %w", err)
			}
		}

		for _, entry := range detail.Roster {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO roster_entry (run_id, position, employee, days)
				VALUES (?, ?, ?, ?)
			`, run.ID, entry.Position, entry.Employee, entry.Days); err != nil {
				return fmt.Errorf("failed to insert roster entry: %w", err)
			}
		}

		return nil
	})
}
