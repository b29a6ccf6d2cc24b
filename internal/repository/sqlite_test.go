package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"compressor_runtime/internal/models"
	"compressor_runtime/internal/repository/db"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestSQLite_SessionLifecycle(t *testing.T) {
	conn := openTestDB(t)
	repo := NewSessionSQLite(conn)
	ctx := context.Background()

	start := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, models.RunSession{
		ID: "a", StartTime: start, Status: models.StatusRunning, Operator: "ana",
		PreCheck: &models.PreCheck{Tested: true, Result: models.CheckNOK, TesterName: "bo"},
	}))

	err := repo.Create(ctx, models.RunSession{ID: "b", StartTime: start, Status: models.StatusRunning, Operator: "ana"})
	assert.ErrorIs(t, err, ErrRunningSessionExists)

	active, err := repo.GetActive(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "a", active.ID)
	require.NotNil(t, active.PreCheck)
	assert.Equal(t, models.CheckNOK, active.PreCheck.Result)

	end := start.Add(90*time.Minute + 30*time.Second)
	stopped := *active
	stopped.EndTime = &end
	stopped.Status = models.StatusStopped
	stopped.DurationMinutes = 90
	require.NoError(t, repo.Finish(ctx, stopped))
	assert.ErrorIs(t, repo.Finish(ctx, stopped), ErrSessionNotRunning)

	active, err = repo.GetActive(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got.EndTime)
	assert.True(t, got.EndTime.Equal(end))
	assert.Equal(t, models.StatusStopped, got.Status)

	// a new RUNNING row is allowed once the previous one is terminal
	require.NoError(t, repo.Create(ctx, models.RunSession{
		ID: "b", StartTime: start.Add(3 * time.Hour), Status: models.StatusRunning, Operator: "ana",
	}))

	total, err := repo.SumTerminalMinutes(ctx, time.Time{})
	require.NoError(t, err)
	assert.EqualValues(t, 90, total)

	since, err := repo.SumTerminalMinutes(ctx, start.Add(time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 0, since)

	list, err := repo.List(ctx, SessionQuery{Status: "running"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)
	assert.Nil(t, list[0].PreCheck)
}

func TestSQLite_CorrectionSumIsExact(t *testing.T) {
	conn := openTestDB(t)
	repo := NewCorrectionSQLite(conn)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	deltas := []string{"0.1", "0.2", "-0.3", "1.0000000000000001"}
	for i, d := range deltas {
		require.NoError(t, repo.Append(ctx, models.CorrectionEntry{
			ID:            string(rune('a' + i)),
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
			Operator:      models.SystemOperator,
			DeltaHours:    decimal.RequireFromString(d),
			TargetHours:   decimal.Zero,
			PreviousHours: decimal.Zero,
			Reason:        "test",
		}))
	}

	sum, err := repo.SumDeltas(ctx, time.Time{})
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.RequireFromString("1.0000000000000001")), "sum=%s", sum)

	since, err := repo.SumDeltas(ctx, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.True(t, since.Equal(decimal.RequireFromString("0.7000000000000001")), "since=%s", since)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "-0.3", list[2].DeltaHours.String())
}

func TestSQLite_SingleActiveInterval(t *testing.T) {
	conn := openTestDB(t)
	repo := NewIntervalSQLite(conn)
	ctx := context.Background()

	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	first := models.MaintenanceInterval{
		ID: "i1", Name: "service", BaselineHours: decimal.Zero, IntervalLengthHours: 500,
		CreatedAt: now, Active: true, Operator: "ana",
	}
	require.NoError(t, repo.Create(ctx, first))

	second := first
	second.ID = "i2"
	second.BaselineHours = decimal.NewFromFloat(12.5)
	second.CreatedAt = now.Add(time.Hour)
	assert.ErrorIs(t, repo.Create(ctx, second), ErrActiveRowExists)

	require.NoError(t, repo.Deactivate(ctx))
	require.NoError(t, repo.Create(ctx, second))

	active, err := repo.GetActive(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "i2", active.ID)
	assert.Equal(t, "12.5", active.BaselineHours.String())

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "i2", all[0].ID)
	assert.False(t, all[1].Active)
}

func TestSQLite_CartridgeChangesAndConfigs(t *testing.T) {
	conn := openTestDB(t)
	repo := NewCartridgeSQLite(conn)
	ctx := context.Background()

	last, err := repo.LastChange(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.AppendChange(ctx, models.CartridgeChangeEvent{
		ID: "c1", ChangedAt: now, LedgerHoursAtChange: decimal.NewFromInt(10), Operator: "ana",
		Components: map[string]bool{"molecular_sieve": true, "carbon": false},
	}))
	require.NoError(t, repo.AppendChange(ctx, models.CartridgeChangeEvent{
		ID: "c2", ChangedAt: now.Add(time.Hour), LedgerHoursAtChange: decimal.NewFromInt(35), Operator: "bo",
		Components: map[string]bool{"carbon": true},
		BatchCodes: map[string]string{"carbon": "B-17"},
	}))

	last, err = repo.LastChange(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "c2", last.ID)
	assert.Equal(t, "B-17", last.BatchCodes["carbon"])

	changes, err := repo.ListChanges(ctx)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Nil(t, changes[1].BatchCodes)
	assert.False(t, changes[1].Components["carbon"])

	v, err := repo.NextConfigVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	require.NoError(t, repo.CreateConfig(ctx, models.CartridgeConfig{
		Version: 1, IntervalHours: 25, WarningLeadHours: 2, Active: true, CreatedAt: now,
	}))
	err = repo.CreateConfig(ctx, models.CartridgeConfig{
		Version: 2, IntervalHours: 12, WarningLeadHours: 2, Active: true, CreatedAt: now,
	})
	assert.True(t, errors.Is(err, ErrActiveRowExists))

	require.NoError(t, repo.DeactivateConfigs(ctx))
	require.NoError(t, repo.CreateConfig(ctx, models.CartridgeConfig{
		Version: 2, IntervalHours: 12, WarningLeadHours: 2, Active: true, CreatedAt: now,
	}))

	active, err := repo.ActiveConfig(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, 2, active.Version)

	v, err = repo.NextConfigVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	cfgs, err := repo.ListConfigs(ctx)
	require.NoError(t, err)
	require.Len(t, cfgs, 2)
	assert.Equal(t, 2, cfgs[0].Version)
}

func TestSQLite_UnitOfWorkRollsBack(t *testing.T) {
	conn := openTestDB(t)
	uow := db.NewSQLiteUnitOfWork(conn)
	ctx := context.Background()

	boom := errors.New("boom")
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := NewSessionSQLite(tx).Create(ctx, models.RunSession{
			ID: "x", StartTime: time.Now(), Status: models.StatusRunning, Operator: "ana",
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	active, err := NewSessionSQLite(conn).GetActive(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)
}
