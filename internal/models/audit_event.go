package models

import "time"

// Audit event types.
const (
	EventStart           = "START"
	EventStop            = "STOP"
	EventEmergencyStop   = "EMERGENCY_STOP"
	EventIntervalReset   = "INTERVAL_RESET"
	EventCartridgeChange = "CARTRIDGE_CHANGE"
	EventConfigUpdate    = "CONFIG_UPDATE"
	EventCorrection      = "CORRECTION"
)

// AuditEvent is a single entry of the append-only audit log.
type AuditEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // START | STOP | EMERGENCY_STOP | ...
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
