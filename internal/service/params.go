package service

import (
	"time"

	"compressor_runtime/internal/models"
)

type StartParams struct {
	Operator string
	PreCheck *models.PreCheck // optional
}

// SessionFilter narrows ListSessions by start time and status.
type SessionFilter struct {
	From   time.Time // inclusive; zero means no lower bound
	To     time.Time // inclusive; zero means no upper bound
	Status string    // "", "RUNNING", "STOPPED", "EMERGENCY_STOPPED"
}

type ResetParams struct {
	Name                string
	Reason              string
	IntervalLengthHours float64
	Operator            string
}

type ChangeParams struct {
	Operator   string
	Components map[string]bool   // component -> replaced
	BatchCodes map[string]string // optional, component -> batch code
}

type ConfigParams struct {
	IntervalHours    float64
	WarningLeadHours float64
}

type CorrectionParams struct {
	TargetTotalHours float64
	Reason           string
}

// LogFilter supports audit history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "START", "STOP", "EMERGENCY_STOP", "INTERVAL_RESET", ...
}

// Defaults are used until an interval or a cartridge config has been stored.
type Defaults struct {
	IntervalName              string
	IntervalHours             float64
	CartridgeIntervalHours    float64
	CartridgeWarningLeadHours float64
}
