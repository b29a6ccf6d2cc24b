package compressor_runtime

import "time"

// LedgerTotal is the cumulative operating time of the compressor.
type LedgerTotal struct {
	Hours float64    `json:"hours"`
	Since *time.Time `json:"since,omitempty"` // set for totalSince queries
}

// IntervalStatus is the maintenance countdown derived from the active interval.
type IntervalStatus struct {
	Name                string  `json:"name"`
	HoursSinceReset     float64 `json:"hours_since_reset"`
	DueIn               float64 `json:"due_in"`
	IsDue               bool    `json:"is_due"`
	IntervalLengthHours float64 `json:"interval_length_hours"`
}

// CartridgeStatus is the filter cartridge countdown.
type CartridgeStatus struct {
	HoursSinceLastChange float64 `json:"hours_since_last_change"`
	DueAt                float64 `json:"due_at"`    // ledger hours
	Remaining            float64 `json:"remaining"` // hours until due, never negative
	IsDue                bool    `json:"is_due"`
	WarningActive        bool    `json:"warning_active"`
	IntervalHours        float64 `json:"interval_hours"`
	WarningLeadHours     float64 `json:"warning_lead_hours"`
	ConfigVersion        int     `json:"config_version"`
}

// ActiveRun summarizes the session currently running, if any.
type ActiveRun struct {
	SessionID      string    `json:"session_id"`
	Operator       string    `json:"operator"`
	StartTime      time.Time `json:"start_time"`
	RunningMinutes int       `json:"running_minutes"`
}

// Dashboard is the combined snapshot pushed to reporting collaborators.
type Dashboard struct {
	Ledger      LedgerTotal     `json:"ledger"`
	Maintenance IntervalStatus  `json:"maintenance"`
	Cartridge   CartridgeStatus `json:"cartridge"`
	Active      *ActiveRun      `json:"active,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
}
