package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"compressor_runtime/internal/models"
	"compressor_runtime/internal/repository"
	"compressor_runtime/internal/repository/db"
	"compressor_runtime/internal/testutil"

	"github.com/stretchr/testify/require"
)

const testSecret = "open-sesame"

var testDefaults = Defaults{
	IntervalName:              "service",
	IntervalHours:             500,
	CartridgeIntervalHours:    25,
	CartridgeWarningLeadHours: 2,
}

type harness struct {
	svc   *Service
	db    *sql.DB
	clock *testutil.Clock
	rec   *countingRecorder
}

type countingRecorder struct {
	mutations map[string]int
	denied    map[string]int
}

func (r *countingRecorder) RecordMutation(eventType string)   { r.mutations[eventType]++ }
func (r *countingRecorder) RecordAuthDenied(operation string) { r.denied[operation]++ }

func newHarness(t *testing.T) *harness {
	t.Helper()
	conn := testutil.NewTestDB(t)
	return newHarnessWithUoW(t, conn, db.NewSQLiteUnitOfWork(conn))
}

func newHarnessWithUoW(t *testing.T, conn *sql.DB, uow db.UnitOfWork) *harness {
	t.Helper()
	clock := testutil.NewClock(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	rec := &countingRecorder{mutations: map[string]int{}, denied: map[string]int{}}
	svc := NewService(repository.NewRepository(conn), uow, Options{
		Authorizer:    NewSharedSecret(testSecret),
		Defaults:      testDefaults,
		JWTSigningKey: "test",
		Clock:         clock.Now,
		Recorder:      rec,
	})
	return &harness{svc: svc, db: conn, clock: clock, rec: rec}
}

// run records one STOPPED session lasting d and moves the clock past it.
func (h *harness) run(t *testing.T, d time.Duration) models.RunSession {
	t.Helper()
	ctx := context.Background()
	s, err := h.svc.Runtime.StartSession(ctx, StartParams{Operator: "ana"})
	require.NoError(t, err)
	end := s.StartTime.Add(d)
	stopped, err := h.svc.Runtime.StopSession(ctx, s.ID, &end)
	require.NoError(t, err)
	h.clock.Advance(d + time.Minute)
	return stopped
}

func (h *harness) total(t *testing.T) float64 {
	t.Helper()
	v, err := h.svc.Ledger.Total(context.Background())
	require.NoError(t, err)
	return v
}

func (h *harness) auditCount(t *testing.T) int {
	t.Helper()
	events, err := h.svc.EventLog.List(context.Background(), LogFilter{})
	require.NoError(t, err)
	return len(events)
}
