package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"compressor_runtime/internal/models"
	"compressor_runtime/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartridgeStatus_DefaultConfig(t *testing.T) {
	h := newHarness(t)

	st, err := h.svc.Cartridge.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, st.ConfigVersion)
	assert.InDelta(t, 25.0, st.DueAt, 1e-12)
	assert.InDelta(t, 25.0, st.Remaining, 1e-12)
	assert.False(t, st.IsDue)
	assert.False(t, st.WarningActive)
}

func TestCartridgeStatus_WarningScenario(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	cfg, err := h.svc.Cartridge.UpdateConfig(ctx, testSecret, ConfigParams{IntervalHours: 12, WarningLeadHours: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Version)

	steps := []struct {
		run           time.Duration
		total         float64
		isDue         bool
		warningActive bool
	}{
		{run: 594 * time.Minute, total: 9.9, isDue: false, warningActive: false},
		{run: 12 * time.Minute, total: 10.1, isDue: false, warningActive: true},
		{run: 114 * time.Minute, total: 12.0, isDue: true, warningActive: true},
	}
	for _, step := range steps {
		h.run(t, step.run)
		require.InDelta(t, step.total, h.total(t), 1e-9)

		st, err := h.svc.Cartridge.Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, step.isDue, st.IsDue, "isDue at %.1fh", step.total)
		assert.Equal(t, step.warningActive, st.WarningActive, "warningActive at %.1fh", step.total)
		assert.InDelta(t, 12.0, st.DueAt, 1e-12)
	}

	st, err := h.svc.Cartridge.Status(ctx)
	require.NoError(t, err)
	assert.Zero(t, st.Remaining, "remaining is exactly 0 at dueAt")
}

func TestCartridgeStatus_RemainingNonIncreasing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.Cartridge.UpdateConfig(ctx, testSecret, ConfigParams{IntervalHours: 3, WarningLeadHours: 1})
	require.NoError(t, err)

	prev := 3.0
	for i := 0; i < 8; i++ {
		h.run(t, 25*time.Minute)
		st, err := h.svc.Cartridge.Status(ctx)
		require.NoError(t, err)
		assert.LessOrEqual(t, st.Remaining, prev)
		assert.GreaterOrEqual(t, st.Remaining, 0.0)
		prev = st.Remaining
	}
	assert.Zero(t, prev)
}

func TestUpdateConfig_WrongPasswordChangesNothing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.run(t, 5*time.Hour)
	before, err := h.svc.Cartridge.Status(ctx)
	require.NoError(t, err)
	auditBefore := h.auditCount(t)

	_, err = h.svc.Cartridge.UpdateConfig(ctx, "wrong", ConfigParams{IntervalHours: 1, WarningLeadHours: 0})
	require.ErrorIs(t, err, ErrUnauthorized)

	after, err := h.svc.Cartridge.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, auditBefore, h.auditCount(t))
	assert.Equal(t, 1, h.rec.denied["update_cartridge_config"])

	history, err := h.svc.Cartridge.ConfigHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestUpdateConfig_Validation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for _, p := range []ConfigParams{
		{IntervalHours: 0, WarningLeadHours: 1},
		{IntervalHours: -1, WarningLeadHours: 1},
		{IntervalHours: 10, WarningLeadHours: -0.5},
	} {
		_, err := h.svc.Cartridge.UpdateConfig(ctx, testSecret, p)
		require.ErrorIs(t, err, ErrInvalidInput, "%+v", p)
	}

	// zero lead time is allowed
	_, err := h.svc.Cartridge.UpdateConfig(ctx, testSecret, ConfigParams{IntervalHours: 10, WarningLeadHours: 0})
	require.NoError(t, err)
}

func TestUpdateConfig_VersionsIncreaseWithOneActive(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		cfg, err := h.svc.Cartridge.UpdateConfig(ctx, testSecret, ConfigParams{IntervalHours: float64(10 * i), WarningLeadHours: 1})
		require.NoError(t, err)
		assert.Equal(t, i, cfg.Version)
	}

	history, err := h.svc.Cartridge.ConfigHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 3)
	active := 0
	for _, c := range history {
		if c.Active {
			active++
			assert.Equal(t, 3, c.Version)
		}
	}
	assert.Equal(t, 1, active)

	cfg, err := h.svc.Cartridge.ActiveConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30.0, cfg.IntervalHours)
}

func TestRecordChange_RebaselinesCartridgeAndInterval(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.run(t, 6*time.Hour)
	_, err := h.svc.Maintenance.ResetInterval(ctx, ResetParams{Name: "compressor service", IntervalLengthHours: 50, Operator: "ana"})
	require.NoError(t, err)
	h.run(t, 4*time.Hour)

	ev, err := h.svc.Cartridge.RecordChange(ctx, testSecret, ChangeParams{
		Operator:   "bo",
		Components: map[string]bool{"molecular_sieve": true, "activated_carbon": true, "prefilter": false},
		BatchCodes: map[string]string{"molecular_sieve": "MS-2025-11"},
	})
	require.NoError(t, err)
	assert.Equal(t, "10", ev.LedgerHoursAtChange.String())

	cart, err := h.svc.Cartridge.Status(ctx)
	require.NoError(t, err)
	assert.Zero(t, cart.HoursSinceLastChange)
	assert.InDelta(t, 35.0, cart.DueAt, 1e-12)

	interval, err := h.svc.Maintenance.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "compressor service", interval.Name)
	assert.Zero(t, interval.HoursSinceReset)
	assert.InDelta(t, 50.0, interval.DueIn, 1e-12)

	history, err := h.svc.Maintenance.History(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.Equal(t, cartridgeChangeReason, history[0].Reason)
	assert.Equal(t, "bo", history[0].Operator)

	changes, err := h.svc.Cartridge.ChangeHistory(ctx)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "MS-2025-11", changes[0].BatchCodes["molecular_sieve"])

	h.run(t, 2*time.Hour)
	cart, err = h.svc.Cartridge.Status(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, cart.HoursSinceLastChange, 1e-12)
	assert.InDelta(t, 23.0, cart.Remaining, 1e-12)
}

func TestRecordChange_Rejections(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.Cartridge.RecordChange(ctx, "nope", ChangeParams{Operator: "bo", Components: map[string]bool{"a": true}})
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = h.svc.Cartridge.RecordChange(ctx, testSecret, ChangeParams{Operator: "", Components: map[string]bool{"a": true}})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = h.svc.Cartridge.RecordChange(ctx, testSecret, ChangeParams{Operator: "bo", Components: map[string]bool{"a": false}})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = h.svc.Cartridge.RecordChange(ctx, testSecret, ChangeParams{
		Operator: "bo", Components: map[string]bool{"a": true}, BatchCodes: map[string]string{"b": "X1"},
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	changes, err := h.svc.Cartridge.ChangeHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, changes)
	assert.Equal(t, 0, h.auditCount(t))
}

func TestRecordChange_RollsBackWhenIntervalResetFails(t *testing.T) {
	conn := testutil.NewTestDB(t)
	// Exec #1 = cartridge change insert, #2 = interval deactivate, #3 = interval insert
	uow := &testutil.FailOnNthExecUoW{DB: conn, FailOn: 3, Err: errors.New("injected interval insert failure")}
	h := newHarnessWithUoW(t, conn, uow)
	ctx := context.Background()

	_, err := h.svc.Cartridge.RecordChange(ctx, testSecret, ChangeParams{Operator: "bo", Components: map[string]bool{"a": true}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "injected interval insert failure")

	changes, err := h.svc.Cartridge.ChangeHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, changes, "change insert must be rolled back")

	history, err := h.svc.Maintenance.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Equal(t, 0, h.auditCount(t))
	assert.Zero(t, h.rec.mutations[models.EventCartridgeChange])
}
