package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"compressor_runtime/internal/models"
	"compressor_runtime/internal/repository/db"
)

type CartridgeSQLite struct {
	db db.DBTX
}

func NewCartridgeSQLite(conn db.DBTX) *CartridgeSQLite {
	return &CartridgeSQLite{db: conn}
}

var _ CartridgeRepo = (*CartridgeSQLite)(nil)

const (
	changeColumns = `id, changed_at, ledger_hours, operator, components, batch_codes`

	insertChangeSQL = `INSERT INTO cartridge_changes (` + changeColumns + `) VALUES (?, ?, ?, ?, ?, ?)`

	selectLastChangeSQL = `SELECT ` + changeColumns + ` FROM cartridge_changes ORDER BY changed_at DESC, rowid DESC LIMIT 1`

	listChangesSQL = `SELECT ` + changeColumns + ` FROM cartridge_changes ORDER BY changed_at DESC, rowid DESC`

	configColumns = `version, interval_hours, warning_lead_hours, active, created_at`

	insertConfigSQL = `INSERT INTO cartridge_configs (` + configColumns + `) VALUES (?, ?, ?, ?, ?)`

	selectActiveConfigSQL = `SELECT ` + configColumns + ` FROM cartridge_configs WHERE active = 1`

	selectMaxConfigVersionSQL = `SELECT COALESCE(MAX(version), 0) FROM cartridge_configs`

	deactivateConfigsSQL = `UPDATE cartridge_configs SET active = 0 WHERE active = 1`

	listConfigsSQL = `SELECT ` + configColumns + ` FROM cartridge_configs ORDER BY version DESC`
)

// AppendChange stores a cartridge change event.
func (r *CartridgeSQLite) AppendChange(ctx context.Context, ev models.CartridgeChangeEvent) error {
	components, err := marshalJSONColumn(ev.Components)
	if err != nil {
		return fmt.Errorf("marshal components for change %q: %w", ev.ID, err)
	}
	var batchCodes any
	if len(ev.BatchCodes) > 0 {
		s, err := marshalJSONColumn(ev.BatchCodes)
		if err != nil {
			return fmt.Errorf("marshal batch codes for change %q: %w", ev.ID, err)
		}
		batchCodes = s
	}

	_, err = r.db.ExecContext(ctx, insertChangeSQL,
		ev.ID,
		formatTime(ev.ChangedAt),
		ev.LedgerHoursAtChange.String(),
		ev.Operator,
		components,
		batchCodes,
	)
	if err != nil {
		return fmt.Errorf("insert cartridge change %q: %w", ev.ID, err)
	}
	return nil
}

// LastChange returns the most recent change or (nil, nil) if none was recorded.
func (r *CartridgeSQLite) LastChange(ctx context.Context) (*models.CartridgeChangeEvent, error) {
	ev, err := scanChange(r.db.QueryRowContext(ctx, selectLastChangeSQL))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select last cartridge change: %w", err)
	}
	return ev, nil
}

// ListChanges returns every change, newest first.
func (r *CartridgeSQLite) ListChanges(ctx context.Context) ([]models.CartridgeChangeEvent, error) {
	rows, err := r.db.QueryContext(ctx, listChangesSQL)
	if err != nil {
		return nil, fmt.Errorf("list cartridge changes: %w", err)
	}
	defer rows.Close()

	out := make([]models.CartridgeChangeEvent, 0, 8)
	for rows.Next() {
		ev, err := scanChange(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cartridge change: %w", err)
		}
		out = append(out, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cartridge changes: %w", err)
	}
	return out, nil
}

// ActiveConfig returns the active config version or (nil, nil).
func (r *CartridgeSQLite) ActiveConfig(ctx context.Context) (*models.CartridgeConfig, error) {
	cfg, err := scanConfig(r.db.QueryRowContext(ctx, selectActiveConfigSQL))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select active cartridge config: %w", err)
	}
	return cfg, nil
}

// NextConfigVersion returns max(version)+1, or 1 for an empty table.
func (r *CartridgeSQLite) NextConfigVersion(ctx context.Context) (int, error) {
	var maxVersion int
	if err := r.db.QueryRowContext(ctx, selectMaxConfigVersionSQL).Scan(&maxVersion); err != nil {
		return 0, fmt.Errorf("select max cartridge config version: %w", err)
	}
	return maxVersion + 1, nil
}

func (r *CartridgeSQLite) DeactivateConfigs(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, deactivateConfigsSQL); err != nil {
		return fmt.Errorf("deactivate cartridge configs: %w", err)
	}
	return nil
}

// CreateConfig inserts a config version. Duplicate versions or a second
// active row fail with ErrActiveRowExists.
func (r *CartridgeSQLite) CreateConfig(ctx context.Context, cfg models.CartridgeConfig) error {
	_, err := r.db.ExecContext(ctx, insertConfigSQL,
		cfg.Version,
		cfg.IntervalHours,
		cfg.WarningLeadHours,
		boolToInt(cfg.Active),
		formatTime(cfg.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrActiveRowExists
		}
		return fmt.Errorf("insert cartridge config v%d: %w", cfg.Version, err)
	}
	return nil
}

// ListConfigs returns every config version, newest first.
func (r *CartridgeSQLite) ListConfigs(ctx context.Context) ([]models.CartridgeConfig, error) {
	rows, err := r.db.QueryContext(ctx, listConfigsSQL)
	if err != nil {
		return nil, fmt.Errorf("list cartridge configs: %w", err)
	}
	defer rows.Close()

	out := make([]models.CartridgeConfig, 0, 8)
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cartridge config: %w", err)
		}
		out = append(out, *cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cartridge configs: %w", err)
	}
	return out, nil
}

func scanChange(row rowScanner) (*models.CartridgeChangeEvent, error) {
	var (
		ev         models.CartridgeChangeEvent
		changedAt  string
		ledger     string
		components string
		batchCodes sql.NullString
	)
	if err := row.Scan(&ev.ID, &changedAt, &ledger, &ev.Operator, &components, &batchCodes); err != nil {
		return nil, err
	}

	var err error
	if ev.ChangedAt, err = parseTime(changedAt); err != nil {
		return nil, err
	}
	if ev.LedgerHoursAtChange, err = parseDecimal(ledger); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(components), &ev.Components); err != nil {
		return nil, fmt.Errorf("decode components: %w", err)
	}
	if batchCodes.Valid && batchCodes.String != "" {
		if err := json.Unmarshal([]byte(batchCodes.String), &ev.BatchCodes); err != nil {
			return nil, fmt.Errorf("decode batch codes: %w", err)
		}
	}
	return &ev, nil
}

func scanConfig(row rowScanner) (*models.CartridgeConfig, error) {
	var (
		cfg       models.CartridgeConfig
		active    int
		createdAt string
	)
	if err := row.Scan(&cfg.Version, &cfg.IntervalHours, &cfg.WarningLeadHours, &active, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if cfg.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	cfg.Active = active != 0
	return &cfg, nil
}
