package repository

import (
	"context"
	"fmt"
	"time"

	"compressor_runtime/internal/models"
	"compressor_runtime/internal/repository/db"

	"github.com/shopspring/decimal"
)

type CorrectionSQLite struct {
	db db.DBTX
}

func NewCorrectionSQLite(conn db.DBTX) *CorrectionSQLite {
	return &CorrectionSQLite{db: conn}
}

var _ CorrectionRepo = (*CorrectionSQLite)(nil)

const (
	correctionColumns = `id, created_at, operator, delta_hours, target_hours, previous_hours, reason`

	insertCorrectionSQL = `INSERT INTO ledger_corrections (` + correctionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	listCorrectionsSQL = `SELECT ` + correctionColumns + ` FROM ledger_corrections ORDER BY created_at ASC`
)

// Append stores a correction. Decimal fields are written as exact text.
func (r *CorrectionSQLite) Append(ctx context.Context, c models.CorrectionEntry) error {
	_, err := r.db.ExecContext(ctx, insertCorrectionSQL,
		c.ID,
		formatTime(c.CreatedAt),
		c.Operator,
		c.DeltaHours.String(),
		c.TargetHours.String(),
		c.PreviousHours.String(),
		c.Reason,
	)
	if err != nil {
		return fmt.Errorf("insert correction %q: %w", c.ID, err)
	}
	return nil
}

// SumDeltas adds up correction deltas. A non-zero since keeps only corrections
// created at or after it. The sum is done here rather than in SQL so that no
// precision is lost to REAL arithmetic.
func (r *CorrectionSQLite) SumDeltas(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	query := `SELECT delta_hours FROM ledger_corrections`
	var args []any
	if !since.IsZero() {
		query += " WHERE created_at >= ?"
		args = append(args, formatTime(since))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return decimal.Zero, fmt.Errorf("select correction deltas: %w", err)
	}
	defer rows.Close()

	sum := decimal.Zero
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return decimal.Zero, fmt.Errorf("scan correction delta: %w", err)
		}
		d, err := parseDecimal(s)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(d)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("iterate correction deltas: %w", err)
	}
	return sum, nil
}

// List returns all corrections, oldest first.
func (r *CorrectionSQLite) List(ctx context.Context) ([]models.CorrectionEntry, error) {
	rows, err := r.db.QueryContext(ctx, listCorrectionsSQL)
	if err != nil {
		return nil, fmt.Errorf("list corrections: %w", err)
	}
	defer rows.Close()

	out := make([]models.CorrectionEntry, 0, 16)
	for rows.Next() {
		var (
			c         models.CorrectionEntry
			createdAt string
			delta     string
			target    string
			previous  string
		)
		if err := rows.Scan(&c.ID, &createdAt, &c.Operator, &delta, &target, &previous, &c.Reason); err != nil {
			return nil, fmt.Errorf("scan correction: %w", err)
		}
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if c.DeltaHours, err = parseDecimal(delta); err != nil {
			return nil, err
		}
		if c.TargetHours, err = parseDecimal(target); err != nil {
			return nil, err
		}
		if c.PreviousHours, err = parseDecimal(previous); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate corrections: %w", err)
	}
	return out, nil
}
