package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"compressor_runtime/internal/models"
	"compressor_runtime/internal/repository/db"
)

type SessionSQLite struct {
	db db.DBTX
}

func NewSessionSQLite(conn db.DBTX) *SessionSQLite {
	return &SessionSQLite{db: conn}
}

var _ SessionRepo = (*SessionSQLite)(nil)

const (
	sessionColumns = `id, start_time, end_time, status, operator, precheck_tested, precheck_result, precheck_tester, notes, duration_minutes`

	insertSessionSQL = `INSERT INTO run_sessions (` + sessionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectSessionByIDSQL = `SELECT ` + sessionColumns + ` FROM run_sessions WHERE id = ?`

	selectActiveSessionSQL = `SELECT ` + sessionColumns + ` FROM run_sessions WHERE status = 'RUNNING'`

	finishSessionSQL = `UPDATE run_sessions
		SET end_time = ?, status = ?, notes = ?, duration_minutes = ?
		WHERE id = ? AND status = 'RUNNING'`

	sumTerminalMinutesSQL = `SELECT COALESCE(SUM(duration_minutes), 0) FROM run_sessions
		WHERE status IN ('STOPPED', 'EMERGENCY_STOPPED')`
)

// Create inserts a new session. A second RUNNING row is rejected by the
// partial unique index and reported as ErrRunningSessionExists.
func (r *SessionSQLite) Create(ctx context.Context, s models.RunSession) error {
	var (
		tested     bool
		result     any
		testerName any
	)
	if s.PreCheck != nil {
		tested = s.PreCheck.Tested
		result = nullableString(s.PreCheck.Result)
		testerName = nullableString(s.PreCheck.TesterName)
	}

	_, err := r.db.ExecContext(ctx, insertSessionSQL,
		s.ID,
		formatTime(s.StartTime),
		nullableTime(s.EndTime),
		s.Status,
		s.Operator,
		boolToInt(tested),
		result,
		testerName,
		s.Notes,
		s.DurationMinutes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrRunningSessionExists
		}
		return fmt.Errorf("insert run session %q: %w", s.ID, err)
	}
	return nil
}

// GetByID returns (nil, nil) if the session does not exist.
func (r *SessionSQLite) GetByID(ctx context.Context, id string) (*models.RunSession, error) {
	s, err := scanSession(r.db.QueryRowContext(ctx, selectSessionByIDSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select run session %q: %w", id, err)
	}
	return s, nil
}

// GetActive returns the RUNNING session, or (nil, nil) when the compressor is idle.
func (r *SessionSQLite) GetActive(ctx context.Context) (*models.RunSession, error) {
	s, err := scanSession(r.db.QueryRowContext(ctx, selectActiveSessionSQL))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select active run session: %w", err)
	}
	return s, nil
}

// Finish writes the terminal fields of a RUNNING session. It affects exactly
// one row or returns ErrSessionNotRunning.
func (r *SessionSQLite) Finish(ctx context.Context, s models.RunSession) error {
	res, err := r.db.ExecContext(ctx, finishSessionSQL,
		nullableTime(s.EndTime),
		s.Status,
		s.Notes,
		s.DurationMinutes,
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("finish run session %q: %w", s.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for run session %q: %w", s.ID, err)
	}
	if n != 1 {
		return ErrSessionNotRunning
	}
	return nil
}

// List returns sessions filtered by start time range and status, ordered ASC.
func (r *SessionSQLite) List(ctx context.Context, q SessionQuery) ([]models.RunSession, error) {
	var (
		conds []string
		args  []any
	)
	if !q.From.IsZero() {
		conds = append(conds, "start_time >= ?")
		args = append(args, formatTime(q.From))
	}
	if !q.To.IsZero() {
		conds = append(conds, "start_time <= ?")
		args = append(args, formatTime(q.To))
	}
	if st := strings.ToUpper(strings.TrimSpace(q.Status)); st != "" {
		conds = append(conds, "status = ?")
		args = append(args, st)
	}

	query := `SELECT ` + sessionColumns + ` FROM run_sessions`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY start_time ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list run sessions: %w", err)
	}
	defer rows.Close()

	out := make([]models.RunSession, 0, 32)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run session: %w", err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run sessions: %w", err)
	}
	return out, nil
}

// SumTerminalMinutes totals duration_minutes of STOPPED and EMERGENCY_STOPPED
// sessions. A non-zero since restricts the sum to sessions started at or after it.
func (r *SessionSQLite) SumTerminalMinutes(ctx context.Context, since time.Time) (int64, error) {
	query := sumTerminalMinutesSQL
	var args []any
	if !since.IsZero() {
		query += " AND start_time >= ?"
		args = append(args, formatTime(since))
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum session minutes: %w", err)
	}
	return total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.RunSession, error) {
	var (
		s          models.RunSession
		startStr   string
		endStr     sql.NullString
		tested     int
		result     sql.NullString
		testerName sql.NullString
	)
	if err := row.Scan(
		&s.ID,
		&startStr,
		&endStr,
		&s.Status,
		&s.Operator,
		&tested,
		&result,
		&testerName,
		&s.Notes,
		&s.DurationMinutes,
	); err != nil {
		return nil, err
	}

	start, err := parseTime(startStr)
	if err != nil {
		return nil, err
	}
	s.StartTime = start
	if s.EndTime, err = parseNullableTime(endStr); err != nil {
		return nil, err
	}

	if tested != 0 || result.Valid || testerName.Valid {
		s.PreCheck = &models.PreCheck{
			Tested:     tested != 0,
			Result:     result.String,
			TesterName: testerName.String,
		}
	}
	return &s, nil
}
