package service

import (
	"context"
	"strings"

	"compressor_runtime/internal/models"
	"compressor_runtime/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CorrectionService applies audited adjustments to the cumulative ledger.
type CorrectionService struct {
	*store
	auth AuthorizationCheck
}

func newCorrectionService(s *store, auth AuthorizationCheck) *CorrectionService {
	return &CorrectionService{store: s, auth: auth}
}

// ApplyCorrection appends delta = target - total so that the next ledger read
// returns target. Negative totals are not rejected here.
func (s *CorrectionService) ApplyCorrection(ctx context.Context, password string, p CorrectionParams) (models.CorrectionEntry, error) {
	if err := s.authorize(s.auth, "apply_correction", password); err != nil {
		return models.CorrectionEntry{}, err
	}
	reason := strings.TrimSpace(p.Reason)
	if reason == "" {
		return models.CorrectionEntry{}, invalidInput("correction reason is required")
	}
	if !isFinite(p.TargetTotalHours) {
		return models.CorrectionEntry{}, invalidInput("target total hours must be a finite number")
	}
	target := decimal.NewFromFloat(p.TargetTotalHours)

	var entry models.CorrectionEntry
	err := s.withinTx(ctx, func(ctx context.Context, repos *repository.Repository) error {
		previous, err := ledgerTotal(ctx, repos, zeroTime)
		if err != nil {
			return err
		}
		entry = models.CorrectionEntry{
			ID:            uuid.NewString(),
			CreatedAt:     s.clock(),
			Operator:      models.SystemOperator,
			DeltaHours:    target.Sub(previous),
			TargetHours:   target,
			PreviousHours: previous,
			Reason:        reason,
		}
		if err := repos.Corrections.Append(ctx, entry); err != nil {
			return err
		}
		return repos.EventRepo.Append(ctx, models.AuditEvent{
			OccurredAt:  entry.CreatedAt,
			Type:        models.EventCorrection,
			Description: "Ledger corrected",
			Metadata: map[string]any{
				"correction_id":  entry.ID,
				"previous_hours": entry.PreviousHours.String(),
				"target_hours":   entry.TargetHours.String(),
				"delta_hours":    entry.DeltaHours.String(),
				"reason":         reason,
			},
		})
	})
	if err != nil {
		return models.CorrectionEntry{}, err
	}

	s.committed(models.EventCorrection)
	s.log.Infow("ledger_corrected", "correction_id", entry.ID, "delta_hours", entry.DeltaHours.String(), "target_hours", entry.TargetHours.String())
	return entry, nil
}

// ListCorrections returns all corrections, oldest first.
func (s *CorrectionService) ListCorrections(ctx context.Context) ([]models.CorrectionEntry, error) {
	list, err := s.repos.Corrections.List(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	return list, nil
}
