package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SystemOperator tags ledger corrections; no human operator owns them.
const SystemOperator = "SYSTEM"

// CorrectionEntry is a signed adjustment of the cumulative hours ledger.
type CorrectionEntry struct {
	ID            string          `json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	Operator      string          `json:"operator"`
	DeltaHours    decimal.Decimal `json:"delta_hours"`
	TargetHours   decimal.Decimal `json:"target_hours"`
	PreviousHours decimal.Decimal `json:"previous_hours"`
	Reason        string          `json:"reason"`
}
