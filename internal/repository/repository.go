package repository

import (
	"context"
	"time"

	"compressor_runtime/internal/models"
	"compressor_runtime/internal/repository/db"

	"github.com/shopspring/decimal"
)

type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// SessionQuery filters ListSessions. Zero values mean "no bound".
type SessionQuery struct {
	From   time.Time
	To     time.Time
	Status string
}

type SessionRepo interface {
	Create(ctx context.Context, s models.RunSession) error
	GetByID(ctx context.Context, id string) (*models.RunSession, error)
	GetActive(ctx context.Context) (*models.RunSession, error)
	Finish(ctx context.Context, s models.RunSession) error
	List(ctx context.Context, q SessionQuery) ([]models.RunSession, error)
	SumTerminalMinutes(ctx context.Context, since time.Time) (int64, error)
}

type CorrectionRepo interface {
	Append(ctx context.Context, c models.CorrectionEntry) error
	SumDeltas(ctx context.Context, since time.Time) (decimal.Decimal, error)
	List(ctx context.Context) ([]models.CorrectionEntry, error)
}

type IntervalRepo interface {
	GetActive(ctx context.Context) (*models.MaintenanceInterval, error)
	Deactivate(ctx context.Context) error
	Create(ctx context.Context, mi models.MaintenanceInterval) error
	List(ctx context.Context) ([]models.MaintenanceInterval, error)
}

type CartridgeRepo interface {
	AppendChange(ctx context.Context, ev models.CartridgeChangeEvent) error
	LastChange(ctx context.Context) (*models.CartridgeChangeEvent, error)
	ListChanges(ctx context.Context) ([]models.CartridgeChangeEvent, error)

	ActiveConfig(ctx context.Context) (*models.CartridgeConfig, error)
	NextConfigVersion(ctx context.Context) (int, error)
	DeactivateConfigs(ctx context.Context) error
	CreateConfig(ctx context.Context, cfg models.CartridgeConfig) error
	ListConfigs(ctx context.Context) ([]models.CartridgeConfig, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.AuditEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.AuditEvent, error)
}

type Repository struct {
	Sessions    SessionRepo
	Corrections CorrectionRepo
	Intervals   IntervalRepo
	Cartridges  CartridgeRepo
	EventRepo   EventRepo
	Auth        Authorization
}

// NewRepository binds every repository to conn, which is either the pool or
// an open transaction.
func NewRepository(conn db.DBTX) *Repository {
	return &Repository{
		Sessions:    NewSessionSQLite(conn),
		Corrections: NewCorrectionSQLite(conn),
		Intervals:   NewIntervalSQLite(conn),
		Cartridges:  NewCartridgeSQLite(conn),
		EventRepo:   NewEventSQLite(conn),
		Auth:        NewUserRepository(conn),
	}
}
