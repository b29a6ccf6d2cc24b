package service

import (
	"context"
	"strings"
	"time"

	"compressor_runtime/internal/models"
	"compressor_runtime/internal/repository"
)

// EventLogService reads the audit trail written next to every committed
// mutation. It never writes.
type EventLogService struct {
	events repository.EventRepo
}

func NewEventLogService(events repository.EventRepo) *EventLogService {
	return &EventLogService{events: events}
}

var errInvalidTimeRange = invalidInput("invalid time range: from must be <= to")

// auditEventTypes are the only values the type filter accepts.
var auditEventTypes = map[string]struct{}{
	models.EventStart:           {},
	models.EventStop:            {},
	models.EventEmergencyStop:   {},
	models.EventIntervalReset:   {},
	models.EventCartridgeChange: {},
	models.EventConfigUpdate:    {},
	models.EventCorrection:      {},
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeAndValidateFilter folds both bounds to UTC and uppercases the
// type. Reversed ranges and unknown types are invalid input.
func normalizeAndValidateFilter(f LogFilter) (from, to time.Time, typ string, err error) {
	from, to = normalizeToUTC(f.From), normalizeToUTC(f.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	typ = strings.ToUpper(strings.TrimSpace(f.Type))
	if typ != "" {
		if _, ok := auditEventTypes[typ]; !ok {
			return time.Time{}, time.Time{}, "", invalidInput("unknown audit event type %q", f.Type)
		}
	}
	return from, to, typ, nil
}

// List returns audit events matching f, oldest first.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.AuditEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	events, err := s.events.List(ctx, from, to, typ)
	if err != nil {
		return nil, unavailable(err)
	}
	return events, nil
}
