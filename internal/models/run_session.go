package models

import "time"

// Run session statuses. STOPPED and EMERGENCY_STOPPED are terminal.
const (
	StatusRunning          = "RUNNING"
	StatusStopped          = "STOPPED"
	StatusEmergencyStopped = "EMERGENCY_STOPPED"
)

// Pre-run check results.
const (
	CheckOK  = "OK"
	CheckNOK = "NOK"
)

// PreCheck is the optional test performed before the compressor is started.
type PreCheck struct {
	Tested     bool   `json:"tested"`
	Result     string `json:"result,omitempty"`      // OK | NOK
	TesterName string `json:"tester_name,omitempty"` // required when tested
}

// RunSession is one power-on/power-off cycle of the compressor.
type RunSession struct {
	ID              string     `json:"id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	Status          string     `json:"status"` // RUNNING | STOPPED | EMERGENCY_STOPPED
	Operator        string     `json:"operator"`
	PreCheck        *PreCheck  `json:"pre_check,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
}

// IsTerminal reports whether the session has left the RUNNING state.
func (s RunSession) IsTerminal() bool {
	return s.Status == StatusStopped || s.Status == StatusEmergencyStopped
}
