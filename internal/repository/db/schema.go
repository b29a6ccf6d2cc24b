package db

import (
	"database/sql"
	"fmt"
)

const schemaRunSessions = `
CREATE TABLE IF NOT EXISTS run_sessions (
    id               TEXT PRIMARY KEY,
    start_time       TEXT NOT NULL,
    end_time         TEXT,
    status           TEXT NOT NULL
                     CHECK (status IN ('RUNNING','STOPPED','EMERGENCY_STOPPED')),
    operator         TEXT NOT NULL,
    precheck_tested  INTEGER NOT NULL DEFAULT 0,
    precheck_result  TEXT CHECK (precheck_result IS NULL OR precheck_result IN ('OK','NOK')),
    precheck_tester  TEXT,
    notes            TEXT NOT NULL DEFAULT '',
    duration_minutes INTEGER NOT NULL DEFAULT 0 CHECK (duration_minutes >= 0)
);
`

// At most one RUNNING row, enforced by the store itself.
const indexRunningSession = `
CREATE UNIQUE INDEX IF NOT EXISTS ux_run_sessions_running
    ON run_sessions(status) WHERE status = 'RUNNING';
`

const indexRunSessionsStart = `
CREATE INDEX IF NOT EXISTS idx_run_sessions_start ON run_sessions(start_time);
`

const schemaLedgerCorrections = `
CREATE TABLE IF NOT EXISTS ledger_corrections (
    id             TEXT PRIMARY KEY,
    created_at     TEXT NOT NULL,
    operator       TEXT NOT NULL,
    delta_hours    TEXT NOT NULL,
    target_hours   TEXT NOT NULL,
    previous_hours TEXT NOT NULL,
    reason         TEXT NOT NULL
);
`

const schemaMaintenanceIntervals = `
CREATE TABLE IF NOT EXISTS maintenance_intervals (
    id                    TEXT PRIMARY KEY,
    name                  TEXT NOT NULL,
    baseline_hours        TEXT NOT NULL,
    interval_length_hours REAL NOT NULL CHECK (interval_length_hours > 0),
    created_at            TEXT NOT NULL,
    active                INTEGER NOT NULL DEFAULT 0,
    reason                TEXT NOT NULL DEFAULT '',
    operator              TEXT NOT NULL DEFAULT ''
);
`

const indexActiveInterval = `
CREATE UNIQUE INDEX IF NOT EXISTS ux_maintenance_intervals_active
    ON maintenance_intervals(active) WHERE active = 1;
`

const schemaCartridgeChanges = `
CREATE TABLE IF NOT EXISTS cartridge_changes (
    id           TEXT PRIMARY KEY,
    changed_at   TEXT NOT NULL,
    ledger_hours TEXT NOT NULL,
    operator     TEXT NOT NULL,
    components   TEXT NOT NULL,
    batch_codes  TEXT
);
`

const indexCartridgeChangesAt = `
CREATE INDEX IF NOT EXISTS idx_cartridge_changes_at ON cartridge_changes(changed_at);
`

const schemaCartridgeConfigs = `
CREATE TABLE IF NOT EXISTS cartridge_configs (
    version            INTEGER PRIMARY KEY CHECK (version > 0),
    interval_hours     REAL NOT NULL CHECK (interval_hours > 0),
    warning_lead_hours REAL NOT NULL CHECK (warning_lead_hours >= 0),
    active             INTEGER NOT NULL DEFAULT 0,
    created_at         TEXT NOT NULL
);
`

const indexActiveCartridgeConfig = `
CREATE UNIQUE INDEX IF NOT EXISTS ux_cartridge_configs_active
    ON cartridge_configs(active) WHERE active = 1;
`

const schemaAuditEvents = `
CREATE TABLE IF NOT EXISTS audit_events (
    id          TEXT PRIMARY KEY,
    occurred_at TEXT NOT NULL,
    type        TEXT NOT NULL,
    message     TEXT NOT NULL,
    meta        TEXT
);
`

const indexAuditEventsAt = `
CREATE INDEX IF NOT EXISTS idx_audit_events_at ON audit_events(occurred_at);
`

const schemaUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);
`

var schemaStatements = []string{
	schemaRunSessions,
	indexRunningSession,
	indexRunSessionsStart,
	schemaLedgerCorrections,
	schemaMaintenanceIntervals,
	indexActiveInterval,
	schemaCartridgeChanges,
	indexCartridgeChangesAt,
	schemaCartridgeConfigs,
	indexActiveCartridgeConfig,
	schemaAuditEvents,
	indexAuditEventsAt,
	schemaUsers,
}

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback()
	}()

	for i, stmt := range schemaStatements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
