package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	cr "compressor_runtime"
	"compressor_runtime/internal/models"
	"compressor_runtime/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// cartridgeChangeReason is recorded on the interval reset that accompanies
// every cartridge change.
const cartridgeChangeReason = "cartridge change"

// CartridgeService drives the filter cartridge countdown and owns the
// versioned cartridge configuration.
type CartridgeService struct {
	*store
	intervals *IntervalService
	auth      AuthorizationCheck
	defaults  Defaults
}

func newCartridgeService(s *store, intervals *IntervalService, auth AuthorizationCheck, defaults Defaults) *CartridgeService {
	return &CartridgeService{store: s, intervals: intervals, auth: auth, defaults: defaults}
}

// Status computes the countdown from the last change and the active config.
func (s *CartridgeService) Status(ctx context.Context) (cr.CartridgeStatus, error) {
	st, err := s.statusWithin(ctx, s.repos)
	if err != nil {
		return cr.CartridgeStatus{}, unavailable(err)
	}
	return st, nil
}

func (s *CartridgeService) statusWithin(ctx context.Context, repos *repository.Repository) (cr.CartridgeStatus, error) {
	cfg, err := s.activeConfig(ctx, repos)
	if err != nil {
		return cr.CartridgeStatus{}, err
	}
	last, err := repos.Cartridges.LastChange(ctx)
	if err != nil {
		return cr.CartridgeStatus{}, err
	}
	total, err := ledgerTotal(ctx, repos, zeroTime)
	if err != nil {
		return cr.CartridgeStatus{}, err
	}
	baseline := decimal.Zero
	if last != nil {
		baseline = last.LedgerHoursAtChange
	}
	return cartridgeStatus(cfg, baseline, total), nil
}

// RecordChange stores a cartridge change at the current ledger total and
// re-baselines the maintenance interval in the same transaction.
func (s *CartridgeService) RecordChange(ctx context.Context, password string, p ChangeParams) (models.CartridgeChangeEvent, error) {
	if err := s.authorize(s.auth, "record_cartridge_change", password); err != nil {
		return models.CartridgeChangeEvent{}, err
	}

	operator := strings.TrimSpace(p.Operator)
	if operator == "" {
		return models.CartridgeChangeEvent{}, invalidInput("operator is required")
	}
	components, replaced := normalizeComponents(p.Components)
	if len(replaced) == 0 {
		return models.CartridgeChangeEvent{}, invalidInput("at least one component must be marked as replaced")
	}
	batchCodes, err := normalizeBatchCodes(p.BatchCodes, components)
	if err != nil {
		return models.CartridgeChangeEvent{}, err
	}

	var (
		ev       models.CartridgeChangeEvent
		interval models.MaintenanceInterval
	)
	err = s.withinTx(ctx, func(ctx context.Context, repos *repository.Repository) error {
		total, err := ledgerTotal(ctx, repos, zeroTime)
		if err != nil {
			return err
		}

		ev = models.CartridgeChangeEvent{
			ID:                  uuid.NewString(),
			ChangedAt:           s.clock(),
			LedgerHoursAtChange: total,
			Operator:            operator,
			Components:          components,
			BatchCodes:          batchCodes,
		}
		if err := repos.Cartridges.AppendChange(ctx, ev); err != nil {
			return err
		}

		current, err := s.intervals.activeInterval(ctx, repos)
		if err != nil {
			return err
		}
		interval, err = s.intervals.resetWithin(ctx, repos, current.Name, cartridgeChangeReason, current.IntervalLengthHours, operator)
		if err != nil {
			return err
		}

		return repos.EventRepo.Append(ctx, models.AuditEvent{
			OccurredAt:  ev.ChangedAt,
			Type:        models.EventCartridgeChange,
			Description: "Filter cartridge changed",
			Metadata: map[string]any{
				"change_id":    ev.ID,
				"ledger_hours": ev.LedgerHoursAtChange.String(),
				"operator":     operator,
				"replaced":     replaced,
				"batch_codes":  batchCodes,
				"interval_id":  interval.ID,
			},
		})
	})
	if err != nil {
		return models.CartridgeChangeEvent{}, err
	}

	s.committed(models.EventCartridgeChange)
	s.committed(models.EventIntervalReset)
	s.log.Infow("cartridge_change_recorded", "change_id", ev.ID, "ledger_hours", ev.LedgerHoursAtChange.String(), "interval_id", interval.ID)
	return ev, nil
}

// UpdateConfig stores a new active config version.
func (s *CartridgeService) UpdateConfig(ctx context.Context, password string, p ConfigParams) (models.CartridgeConfig, error) {
	if err := s.authorize(s.auth, "update_cartridge_config", password); err != nil {
		return models.CartridgeConfig{}, err
	}
	if !isFinite(p.IntervalHours) || p.IntervalHours <= 0 {
		return models.CartridgeConfig{}, invalidInput("interval hours must be > 0, got %v", p.IntervalHours)
	}
	if !isFinite(p.WarningLeadHours) || p.WarningLeadHours < 0 {
		return models.CartridgeConfig{}, invalidInput("warning lead hours must be >= 0, got %v", p.WarningLeadHours)
	}

	var cfg models.CartridgeConfig
	err := s.withinTx(ctx, func(ctx context.Context, repos *repository.Repository) error {
		version, err := repos.Cartridges.NextConfigVersion(ctx)
		if err != nil {
			return err
		}
		if err := repos.Cartridges.DeactivateConfigs(ctx); err != nil {
			return err
		}
		cfg = models.CartridgeConfig{
			Version:          version,
			IntervalHours:    p.IntervalHours,
			WarningLeadHours: p.WarningLeadHours,
			Active:           true,
			CreatedAt:        s.clock(),
		}
		if err := repos.Cartridges.CreateConfig(ctx, cfg); err != nil {
			if errors.Is(err, repository.ErrActiveRowExists) {
				return fmt.Errorf("%w: cartridge config v%d was written concurrently", ErrConflict, version)
			}
			return err
		}
		return repos.EventRepo.Append(ctx, models.AuditEvent{
			OccurredAt:  cfg.CreatedAt,
			Type:        models.EventConfigUpdate,
			Description: "Cartridge config updated",
			Metadata: map[string]any{
				"version":            cfg.Version,
				"interval_hours":     cfg.IntervalHours,
				"warning_lead_hours": cfg.WarningLeadHours,
			},
		})
	})
	if err != nil {
		return models.CartridgeConfig{}, err
	}

	s.committed(models.EventConfigUpdate)
	s.log.Infow("cartridge_config_updated", "version", cfg.Version, "interval_hours", cfg.IntervalHours, "warning_lead_hours", cfg.WarningLeadHours)
	return cfg, nil
}

// ActiveConfig returns the stored active version, or version 0 built from
// the configured defaults.
func (s *CartridgeService) ActiveConfig(ctx context.Context) (models.CartridgeConfig, error) {
	cfg, err := s.activeConfig(ctx, s.repos)
	if err != nil {
		return models.CartridgeConfig{}, unavailable(err)
	}
	return cfg, nil
}

func (s *CartridgeService) activeConfig(ctx context.Context, repos *repository.Repository) (models.CartridgeConfig, error) {
	cfg, err := repos.Cartridges.ActiveConfig(ctx)
	if err != nil {
		return models.CartridgeConfig{}, err
	}
	if cfg != nil {
		return *cfg, nil
	}
	return models.CartridgeConfig{
		Version:          0,
		IntervalHours:    s.defaults.CartridgeIntervalHours,
		WarningLeadHours: s.defaults.CartridgeWarningLeadHours,
		Active:           true,
	}, nil
}

// ConfigHistory lists stored config versions, newest first.
func (s *CartridgeService) ConfigHistory(ctx context.Context) ([]models.CartridgeConfig, error) {
	list, err := s.repos.Cartridges.ListConfigs(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	return list, nil
}

// ChangeHistory lists recorded changes, newest first.
func (s *CartridgeService) ChangeHistory(ctx context.Context) ([]models.CartridgeChangeEvent, error) {
	list, err := s.repos.Cartridges.ListChanges(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	return list, nil
}

func cartridgeStatus(cfg models.CartridgeConfig, baseline, total decimal.Decimal) cr.CartridgeStatus {
	dueAt := baseline.Add(decimal.NewFromFloat(cfg.IntervalHours))
	remaining := decimal.Max(decimal.Zero, dueAt.Sub(total))
	return cr.CartridgeStatus{
		HoursSinceLastChange: total.Sub(baseline).InexactFloat64(),
		DueAt:                dueAt.InexactFloat64(),
		Remaining:            remaining.InexactFloat64(),
		IsDue:                !remaining.IsPositive(),
		WarningActive:        remaining.LessThanOrEqual(decimal.NewFromFloat(cfg.WarningLeadHours)),
		IntervalHours:        cfg.IntervalHours,
		WarningLeadHours:     cfg.WarningLeadHours,
		ConfigVersion:        cfg.Version,
	}
}

// normalizeComponents trims component names and drops blank ones. It also
// returns the sorted names flagged as replaced.
func normalizeComponents(in map[string]bool) (map[string]bool, []string) {
	out := make(map[string]bool, len(in))
	var replaced []string
	for name, ok := range in {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out[name] = out[name] || ok
	}
	for name, ok := range out {
		if ok {
			replaced = append(replaced, name)
		}
	}
	sort.Strings(replaced)
	return out, replaced
}

// normalizeBatchCodes keeps non-blank codes and rejects codes for components
// that were not part of the change.
func normalizeBatchCodes(in map[string]string, components map[string]bool) (map[string]string, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(in))
	for name, code := range in {
		name, code = strings.TrimSpace(name), strings.TrimSpace(code)
		if name == "" || code == "" {
			continue
		}
		if _, ok := components[name]; !ok {
			return nil, invalidInput("batch code given for unknown component %q", name)
		}
		out[name] = code
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
