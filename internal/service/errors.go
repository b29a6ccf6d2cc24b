package service

import (
	"errors"
	"fmt"
)

// Error kinds returned by the accounting services. Callers match them with
// errors.Is; the wrapped message is the reason shown to the operator.
var (
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("store unavailable")
)

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// unavailable wraps a store failure. Errors that already carry a kind are
// returned unchanged.
func unavailable(err error) error {
	if err == nil || classified(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func classified(err error) bool {
	for _, kind := range []error{ErrConflict, ErrNotFound, ErrInvalidInput, ErrUnauthorized, ErrUnavailable} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
