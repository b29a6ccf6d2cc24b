package service

import (
	"context"
	"time"

	"compressor_runtime/internal/repository"

	"github.com/shopspring/decimal"
)

// divisionPrecision bounds minutes/60. The same rounding is applied on every
// read, so a correction computed against one total reproduces its target.
const divisionPrecision = 16

var minutesPerHour = decimal.NewFromInt(60)

// zeroTime means "no lower bound" for ledger queries.
var zeroTime time.Time

// LedgerService derives cumulative operating hours from the session log and
// the correction log. Nothing is cached.
type LedgerService struct {
	*store
}

func newLedgerService(s *store) *LedgerService {
	return &LedgerService{store: s}
}

// Total returns the cumulative hours over all terminal sessions plus corrections.
func (s *LedgerService) Total(ctx context.Context) (float64, error) {
	d, err := ledgerTotal(ctx, s.repos, zeroTime)
	if err != nil {
		return 0, unavailable(err)
	}
	return d.InexactFloat64(), nil
}

// TotalSince restricts Total to sessions started at or after since and to
// corrections created at or after since.
func (s *LedgerService) TotalSince(ctx context.Context, since time.Time) (float64, error) {
	if since.IsZero() {
		return 0, invalidInput("since timestamp is required")
	}
	d, err := ledgerTotal(ctx, s.repos, since.UTC())
	if err != nil {
		return 0, unavailable(err)
	}
	return d.InexactFloat64(), nil
}

// ledgerTotal is the single place hours are computed. Mutations call it with
// transaction-bound repositories so the value matches what they write.
func ledgerTotal(ctx context.Context, repos *repository.Repository, since time.Time) (decimal.Decimal, error) {
	minutes, err := repos.Sessions.SumTerminalMinutes(ctx, since)
	if err != nil {
		return decimal.Zero, err
	}
	deltas, err := repos.Corrections.SumDeltas(ctx, since)
	if err != nil {
		return decimal.Zero, err
	}
	hours := decimal.NewFromInt(minutes).DivRound(minutesPerHour, divisionPrecision)
	return hours.Add(deltas), nil
}
