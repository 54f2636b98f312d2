package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/weekday-rota/pkg/db"
)

// GetStaffingTargets retrieves every staffing target row of every version
func (d *DB) GetStaffingTargets(ctx context.Context) ([]db.StaffingTarget, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT version_id::text, created_at, day, position, required
		FROM staffing_target
		ORDER BY created_at, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query staffing targets: %w", err)
	}

	targets, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (db.StaffingTarget, error) {
		var (
			target    db.StaffingTarget
			createdAt time.Time
		)
		if err := r.Scan(&target.VersionID, &createdAt, &target.Day, &target.Position, &target.Required); err != nil {
			return target, err
		}
		target.CreatedAt = formatTimestamp(createdAt)
		return target, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan staffing targets: %w", err)
	}

	return targets, nil
}

// InsertStaffingTargets writes a staffing target version in one transaction
func (d *DB) InsertStaffingTargets(ctx context.Context, rows []db.StaffingTarget) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, row := range rows {
		createdAt, err := parseTimestamp(row.CreatedAt)
		if err != nil {
			return err
		}
		batch.Queue(`
			INSERT INTO staffing_target (version_id, created_at, day, position, required)
			VALUES ($1, $2, $3, $4, $5)
		`, row.VersionID, createdAt, row.Day, row.Position, row.Required)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert staffing targets: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit staffing targets: %w", err)
	}

	return nil
}
