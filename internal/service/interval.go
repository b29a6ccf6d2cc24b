package service

import (
	"context"
	"math"
	"strings"

	cr "compressor_runtime"
	"compressor_runtime/internal/models"
	"compressor_runtime/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IntervalService tracks the resettable maintenance counter.
type IntervalService struct {
	*store
	defaults Defaults
}

func newIntervalService(s *store, defaults Defaults) *IntervalService {
	return &IntervalService{store: s, defaults: defaults}
}

// ResetInterval deactivates the current interval and anchors a new one at
// the current ledger total.
func (s *IntervalService) ResetInterval(ctx context.Context, p ResetParams) (models.MaintenanceInterval, error) {
	name := strings.TrimSpace(p.Name)
	operator := strings.TrimSpace(p.Operator)
	switch {
	case name == "":
		return models.MaintenanceInterval{}, invalidInput("interval name is required")
	case operator == "":
		return models.MaintenanceInterval{}, invalidInput("operator is required")
	case !isFinite(p.IntervalLengthHours) || p.IntervalLengthHours <= 0:
		return models.MaintenanceInterval{}, invalidInput("interval length must be > 0, got %v", p.IntervalLengthHours)
	}

	var out models.MaintenanceInterval
	err := s.withinTx(ctx, func(ctx context.Context, repos *repository.Repository) error {
		var err error
		out, err = s.resetWithin(ctx, repos, name, strings.TrimSpace(p.Reason), p.IntervalLengthHours, operator)
		return err
	})
	if err != nil {
		return models.MaintenanceInterval{}, err
	}

	s.committed(models.EventIntervalReset)
	s.log.Infow("interval_reset", "interval_id", out.ID, "name", out.Name, "baseline_hours", out.BaselineHours.String())
	return out, nil
}

// resetWithin performs the reset on transaction-bound repositories. The
// cartridge scheduler reuses it so that a change and its reset commit together.
func (s *IntervalService) resetWithin(ctx context.Context, repos *repository.Repository, name, reason string, length float64, operator string) (models.MaintenanceInterval, error) {
	total, err := ledgerTotal(ctx, repos, zeroTime)
	if err != nil {
		return models.MaintenanceInterval{}, err
	}
	if err := repos.Intervals.Deactivate(ctx); err != nil {
		return models.MaintenanceInterval{}, err
	}

	mi := models.MaintenanceInterval{
		ID:                  uuid.NewString(),
		Name:                name,
		BaselineHours:       total,
		IntervalLengthHours: length,
		CreatedAt:           s.clock(),
		Active:              true,
		Reason:              reason,
		Operator:            operator,
	}
	if err := repos.Intervals.Create(ctx, mi); err != nil {
		return models.MaintenanceInterval{}, err
	}

	err = repos.EventRepo.Append(ctx, models.AuditEvent{
		OccurredAt:  mi.CreatedAt,
		Type:        models.EventIntervalReset,
		Description: "Maintenance interval reset",
		Metadata: map[string]any{
			"interval_id":           mi.ID,
			"name":                  mi.Name,
			"baseline_hours":        mi.BaselineHours.String(),
			"interval_length_hours": mi.IntervalLengthHours,
			"reason":                mi.Reason,
			"operator":              mi.Operator,
		},
	})
	return mi, err
}

// activeInterval returns the stored active interval, or the implicit initial
// one (baseline 0) when none has been created yet.
func (s *IntervalService) activeInterval(ctx context.Context, repos *repository.Repository) (models.MaintenanceInterval, error) {
	mi, err := repos.Intervals.GetActive(ctx)
	if err != nil {
		return models.MaintenanceInterval{}, err
	}
	if mi != nil {
		return *mi, nil
	}
	return models.MaintenanceInterval{
		Name:                s.defaults.IntervalName,
		BaselineHours:       decimal.Zero,
		IntervalLengthHours: s.defaults.IntervalHours,
		Active:              true,
	}, nil
}

// Status reports hours since the last reset and how many remain.
func (s *IntervalService) Status(ctx context.Context) (cr.IntervalStatus, error) {
	st, err := s.statusWithin(ctx, s.repos)
	if err != nil {
		return cr.IntervalStatus{}, unavailable(err)
	}
	return st, nil
}

func (s *IntervalService) statusWithin(ctx context.Context, repos *repository.Repository) (cr.IntervalStatus, error) {
	mi, err := s.activeInterval(ctx, repos)
	if err != nil {
		return cr.IntervalStatus{}, err
	}
	total, err := ledgerTotal(ctx, repos, zeroTime)
	if err != nil {
		return cr.IntervalStatus{}, err
	}
	return intervalStatus(mi, total), nil
}

// History lists every interval, newest first.
func (s *IntervalService) History(ctx context.Context) ([]models.MaintenanceInterval, error) {
	list, err := s.repos.Intervals.List(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	return list, nil
}

func intervalStatus(mi models.MaintenanceInterval, total decimal.Decimal) cr.IntervalStatus {
	since := total.Sub(mi.BaselineHours)
	dueIn := decimal.Max(decimal.Zero, decimal.NewFromFloat(mi.IntervalLengthHours).Sub(since))
	return cr.IntervalStatus{
		Name:                mi.Name,
		HoursSinceReset:     since.InexactFloat64(),
		DueIn:               dueIn.InexactFloat64(),
		IsDue:               !dueIn.IsPositive(),
		IntervalLengthHours: mi.IntervalLengthHours,
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
