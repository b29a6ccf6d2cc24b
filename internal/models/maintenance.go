package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaintenanceInterval anchors a resettable service counter to a ledger value.
type MaintenanceInterval struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	BaselineHours       decimal.Decimal `json:"baseline_hours"`
	IntervalLengthHours float64         `json:"interval_length_hours"`
	CreatedAt           time.Time       `json:"created_at"`
	Active              bool            `json:"active"`
	Reason              string          `json:"reason,omitempty"`
	Operator            string          `json:"operator,omitempty"`
}
