package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartridgeChangeEvent records one replacement of the filter cartridge set.
type CartridgeChangeEvent struct {
	ID                  string            `json:"id"`
	ChangedAt           time.Time         `json:"changed_at"`
	LedgerHoursAtChange decimal.Decimal   `json:"ledger_hours_at_change"`
	Operator            string            `json:"operator"`
	Components          map[string]bool   `json:"components"`            // component -> replaced
	BatchCodes          map[string]string `json:"batch_codes,omitempty"` // component -> batch code
}

// CartridgeConfig is one version of the cartridge countdown thresholds.
type CartridgeConfig struct {
	Version          int       `json:"version"`
	IntervalHours    float64   `json:"interval_hours"`
	WarningLeadHours float64   `json:"warning_lead_hours"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
}
