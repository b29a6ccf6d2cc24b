package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"compressor_runtime/internal/models"
	"compressor_runtime/internal/repository/db"
)

type IntervalSQLite struct {
	db db.DBTX
}

func NewIntervalSQLite(conn db.DBTX) *IntervalSQLite {
	return &IntervalSQLite{db: conn}
}

var _ IntervalRepo = (*IntervalSQLite)(nil)

const (
	intervalColumns = `id, name, baseline_hours, interval_length_hours, created_at, active, reason, operator`

	insertIntervalSQL = `INSERT INTO maintenance_intervals (` + intervalColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	selectActiveIntervalSQL = `SELECT ` + intervalColumns + ` FROM maintenance_intervals WHERE active = 1`

	deactivateIntervalsSQL = `UPDATE maintenance_intervals SET active = 0 WHERE active = 1`

	listIntervalsSQL = `SELECT ` + intervalColumns + ` FROM maintenance_intervals ORDER BY created_at DESC, rowid DESC`
)

// GetActive returns the active interval or (nil, nil) if none was ever created.
func (r *IntervalSQLite) GetActive(ctx context.Context) (*models.MaintenanceInterval, error) {
	mi, err := scanInterval(r.db.QueryRowContext(ctx, selectActiveIntervalSQL))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select active interval: %w", err)
	}
	return mi, nil
}

// Deactivate clears the active flag. Rows are never deleted.
func (r *IntervalSQLite) Deactivate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, deactivateIntervalsSQL); err != nil {
		return fmt.Errorf("deactivate intervals: %w", err)
	}
	return nil
}

// Create inserts an interval. Inserting a second active row fails with
// ErrActiveRowExists.
func (r *IntervalSQLite) Create(ctx context.Context, mi models.MaintenanceInterval) error {
	_, err := r.db.ExecContext(ctx, insertIntervalSQL,
		mi.ID,
		mi.Name,
		mi.BaselineHours.String(),
		mi.IntervalLengthHours,
		formatTime(mi.CreatedAt),
		boolToInt(mi.Active),
		mi.Reason,
		mi.Operator,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrActiveRowExists
		}
		return fmt.Errorf("insert interval %q: %w", mi.ID, err)
	}
	return nil
}

// List returns every interval, newest first.
func (r *IntervalSQLite) List(ctx context.Context) ([]models.MaintenanceInterval, error) {
	rows, err := r.db.QueryContext(ctx, listIntervalsSQL)
	if err != nil {
		return nil, fmt.Errorf("list intervals: %w", err)
	}
	defer rows.Close()

	out := make([]models.MaintenanceInterval, 0, 8)
	for rows.Next() {
		mi, err := scanInterval(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interval: %w", err)
		}
		out = append(out, *mi)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate intervals: %w", err)
	}
	return out, nil
}

func scanInterval(row rowScanner) (*models.MaintenanceInterval, error) {
	var (
		mi        models.MaintenanceInterval
		baseline  string
		createdAt string
		active    int
	)
	if err := row.Scan(
		&mi.ID,
		&mi.Name,
		&baseline,
		&mi.IntervalLengthHours,
		&createdAt,
		&active,
		&mi.Reason,
		&mi.Operator,
	); err != nil {
		return nil, err
	}

	var err error
	if mi.BaselineHours, err = parseDecimal(baseline); err != nil {
		return nil, err
	}
	if mi.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	mi.Active = active != 0
	return &mi, nil
}
