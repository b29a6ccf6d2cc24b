package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"compressor_runtime/internal/models"
	"compressor_runtime/internal/repository"

	"github.com/google/uuid"
)

// RuntimeService owns the run session state machine:
// Idle -> Running -> Stopped | EmergencyStopped.
type RuntimeService struct {
	*store
}

func newRuntimeService(s *store) *RuntimeService {
	return &RuntimeService{store: s}
}

const emergencyNotePrefix = "EMERGENCY STOP: "

// StartSession opens a RUNNING session. At most one may exist; the check and
// the insert share a transaction and the store's unique index backs them up.
func (s *RuntimeService) StartSession(ctx context.Context, p StartParams) (models.RunSession, error) {
	operator := strings.TrimSpace(p.Operator)
	if operator == "" {
		return models.RunSession{}, invalidInput("operator is required")
	}
	preCheck, err := normalizePreCheck(p.PreCheck)
	if err != nil {
		return models.RunSession{}, err
	}

	session := models.RunSession{
		ID:        uuid.NewString(),
		StartTime: s.clock(),
		Status:    models.StatusRunning,
		Operator:  operator,
		PreCheck:  preCheck,
	}

	err = s.withinTx(ctx, func(ctx context.Context, repos *repository.Repository) error {
		active, err := repos.Sessions.GetActive(ctx)
		if err != nil {
			return err
		}
		if active != nil {
			return fmt.Errorf("%w: session %s is already running", ErrConflict, active.ID)
		}
		if err := repos.Sessions.Create(ctx, session); err != nil {
			if errors.Is(err, repository.ErrRunningSessionExists) {
				return fmt.Errorf("%w: a session is already running", ErrConflict)
			}
			return err
		}
		return repos.EventRepo.Append(ctx, models.AuditEvent{
			OccurredAt:  session.StartTime,
			Type:        models.EventStart,
			Description: "Compressor started",
			Metadata:    map[string]any{"session_id": session.ID, "operator": operator},
		})
	})
	if err != nil {
		return models.RunSession{}, err
	}

	s.committed(models.EventStart)
	s.log.Infow("session_started", "session_id", session.ID, "operator", operator)
	return session, nil
}

// StopSession ends the running session. endTime defaults to now.
func (s *RuntimeService) StopSession(ctx context.Context, sessionID string, endTime *time.Time) (models.RunSession, error) {
	end := s.clock()
	if endTime != nil {
		end = endTime.UTC()
	}
	session, err := s.finish(ctx, sessionID, end, models.StatusStopped, "")
	if err != nil {
		return models.RunSession{}, err
	}
	s.committed(models.EventStop)
	s.log.Infow("session_stopped", "session_id", session.ID, "duration_minutes", session.DurationMinutes)
	return session, nil
}

// EmergencyStop ends the running session now and records reason in its notes.
func (s *RuntimeService) EmergencyStop(ctx context.Context, sessionID, reason string) (models.RunSession, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return models.RunSession{}, invalidInput("emergency stop reason is required")
	}
	session, err := s.finish(ctx, sessionID, s.clock(), models.StatusEmergencyStopped, reason)
	if err != nil {
		return models.RunSession{}, err
	}
	s.committed(models.EventEmergencyStop)
	s.log.Warnw("session_emergency_stopped", "session_id", session.ID, "reason", reason)
	return session, nil
}

func (s *RuntimeService) finish(ctx context.Context, sessionID string, end time.Time, status, reason string) (models.RunSession, error) {
	sessionID = strings.TrimSpace(sessionID)

	var out models.RunSession
	err := s.withinTx(ctx, func(ctx context.Context, repos *repository.Repository) error {
		active, err := repos.Sessions.GetActive(ctx)
		if err != nil {
			return err
		}
		if active == nil || active.ID != sessionID {
			return fmt.Errorf("%w: no running session with id %q", ErrNotFound, sessionID)
		}
		if end.Before(active.StartTime) {
			return invalidInput("end time %s precedes start time %s",
				end.Format(time.RFC3339), active.StartTime.Format(time.RFC3339))
		}

		out = *active
		out.EndTime = &end
		out.Status = status
		out.DurationMinutes = durationMinutes(active.StartTime, end)
		if reason != "" {
			out.Notes = appendNote(out.Notes, emergencyNotePrefix+reason)
		}

		if err := repos.Sessions.Finish(ctx, out); err != nil {
			if errors.Is(err, repository.ErrSessionNotRunning) {
				return fmt.Errorf("%w: session %q is no longer running", ErrNotFound, sessionID)
			}
			return err
		}

		eventType, desc := models.EventStop, "Compressor stopped"
		if status == models.StatusEmergencyStopped {
			eventType, desc = models.EventEmergencyStop, "Compressor emergency stop"
		}
		meta := map[string]any{"session_id": out.ID, "duration_minutes": out.DurationMinutes}
		if reason != "" {
			meta["reason"] = reason
		}
		return repos.EventRepo.Append(ctx, models.AuditEvent{
			OccurredAt:  end,
			Type:        eventType,
			Description: desc,
			Metadata:    meta,
		})
	})
	if err != nil {
		return models.RunSession{}, err
	}
	return out, nil
}

// ActiveSession returns the running session or nil when idle.
func (s *RuntimeService) ActiveSession(ctx context.Context) (*models.RunSession, error) {
	active, err := s.repos.Sessions.GetActive(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	return active, nil
}

// ListSessions returns sessions ordered by start time.
func (s *RuntimeService) ListSessions(ctx context.Context, f SessionFilter) ([]models.RunSession, error) {
	from, to := normalizeToUTC(f.From), normalizeToUTC(f.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, invalidInput("from must not be after to")
	}
	status := strings.ToUpper(strings.TrimSpace(f.Status))
	switch status {
	case "", models.StatusRunning, models.StatusStopped, models.StatusEmergencyStopped:
	default:
		return nil, invalidInput("unknown session status %q", f.Status)
	}

	sessions, err := s.repos.Sessions.List(ctx, repository.SessionQuery{From: from, To: to, Status: status})
	if err != nil {
		return nil, unavailable(err)
	}
	return sessions, nil
}

// normalizePreCheck validates a pre-run check. A check that was not performed
// carries no result or tester.
func normalizePreCheck(pc *models.PreCheck) (*models.PreCheck, error) {
	if pc == nil || !pc.Tested {
		return nil, nil
	}
	result := strings.ToUpper(strings.TrimSpace(pc.Result))
	if result != models.CheckOK && result != models.CheckNOK {
		return nil, invalidInput("pre-check result must be OK or NOK, got %q", pc.Result)
	}
	tester := strings.TrimSpace(pc.TesterName)
	if tester == "" {
		return nil, invalidInput("pre-check tester name is required")
	}
	return &models.PreCheck{Tested: true, Result: result, TesterName: tester}, nil
}

// durationMinutes is floor((end-start) in minutes).
func durationMinutes(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}

func appendNote(notes, line string) string {
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}
