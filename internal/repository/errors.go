package repository

import "errors"

var (
	// ErrRunningSessionExists is returned when a second RUNNING row would be inserted.
	ErrRunningSessionExists = errors.New("a running session already exists")
	// ErrSessionNotRunning is returned when finishing a session that is not RUNNING.
	ErrSessionNotRunning = errors.New("session is not running")
	// ErrActiveRowExists is returned when a second active interval or config would be inserted.
	ErrActiveRowExists = errors.New("an active row already exists")
	// ErrUsernameTaken is returned when an operator account name is reused.
	ErrUsernameTaken = errors.New("username already exists")
)
