package service

import (
	"context"

	cr "compressor_runtime"
	"compressor_runtime/internal/repository"
)

// DashboardService assembles the read-only snapshot shown to reporting
// clients. All parts are read from one transaction so they agree.
type DashboardService struct {
	*store
	intervals  *IntervalService
	cartridges *CartridgeService
}

func newDashboardService(s *store, intervals *IntervalService, cartridges *CartridgeService) *DashboardService {
	return &DashboardService{store: s, intervals: intervals, cartridges: cartridges}
}

// Snapshot returns ledger, maintenance, cartridge and active-run state.
func (s *DashboardService) Snapshot(ctx context.Context) (cr.Dashboard, error) {
	var out cr.Dashboard
	err := s.withinTx(ctx, func(ctx context.Context, repos *repository.Repository) error {
		now := s.clock()

		total, err := ledgerTotal(ctx, repos, zeroTime)
		if err != nil {
			return err
		}
		maintenance, err := s.intervals.statusWithin(ctx, repos)
		if err != nil {
			return err
		}
		cartridge, err := s.cartridges.statusWithin(ctx, repos)
		if err != nil {
			return err
		}
		active, err := repos.Sessions.GetActive(ctx)
		if err != nil {
			return err
		}

		out = cr.Dashboard{
			Ledger:      cr.LedgerTotal{Hours: total.InexactFloat64()},
			Maintenance: maintenance,
			Cartridge:   cartridge,
			GeneratedAt: now,
		}
		if active != nil {
			out.Active = &cr.ActiveRun{
				SessionID:      active.ID,
				Operator:       active.Operator,
				StartTime:      active.StartTime,
				RunningMinutes: max(0, durationMinutes(active.StartTime, now)),
			}
		}
		return nil
	})
	if err != nil {
		return cr.Dashboard{}, err
	}
	return out, nil
}
