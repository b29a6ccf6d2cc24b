package service

import (
	"context"
	"time"

	cr "compressor_runtime"
	"compressor_runtime/internal/logger"
	"compressor_runtime/internal/models"
	"compressor_runtime/internal/repository"
	"compressor_runtime/internal/repository/db"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Runtime tracks compressor run sessions.
type Runtime interface {
	StartSession(ctx context.Context, p StartParams) (models.RunSession, error)
	StopSession(ctx context.Context, sessionID string, endTime *time.Time) (models.RunSession, error)
	EmergencyStop(ctx context.Context, sessionID, reason string) (models.RunSession, error)
	ActiveSession(ctx context.Context) (*models.RunSession, error)
	ListSessions(ctx context.Context, f SessionFilter) ([]models.RunSession, error)
}

// Ledger exposes cumulative operating hours.
type Ledger interface {
	Total(ctx context.Context) (float64, error)
	TotalSince(ctx context.Context, since time.Time) (float64, error)
}

// Maintenance exposes the resettable service interval.
type Maintenance interface {
	ResetInterval(ctx context.Context, p ResetParams) (models.MaintenanceInterval, error)
	Status(ctx context.Context) (cr.IntervalStatus, error)
	History(ctx context.Context) ([]models.MaintenanceInterval, error)
}

// Cartridge exposes the filter cartridge countdown and its config.
type Cartridge interface {
	Status(ctx context.Context) (cr.CartridgeStatus, error)
	RecordChange(ctx context.Context, password string, p ChangeParams) (models.CartridgeChangeEvent, error)
	UpdateConfig(ctx context.Context, password string, p ConfigParams) (models.CartridgeConfig, error)
	ActiveConfig(ctx context.Context) (models.CartridgeConfig, error)
	ConfigHistory(ctx context.Context) ([]models.CartridgeConfig, error)
	ChangeHistory(ctx context.Context) ([]models.CartridgeChangeEvent, error)
}

// Correction applies audited ledger adjustments.
type Correction interface {
	ApplyCorrection(ctx context.Context, password string, p CorrectionParams) (models.CorrectionEntry, error)
	ListCorrections(ctx context.Context) ([]models.CorrectionEntry, error)
}

// Dashboard exposes a combined read-only snapshot.
type Dashboard interface {
	Snapshot(ctx context.Context) (cr.Dashboard, error)
}

// EventLog exposes append-only audit logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.AuditEvent, error)
}

// Service aggregates all sub-services. The embedded interfaces have
// overlapping method names (Status), so callers go through the fields.
type Service struct {
	Runtime       Runtime
	Ledger        Ledger
	Maintenance   Maintenance
	Cartridge     Cartridge
	Correction    Correction
	Dashboard     Dashboard
	EventLog      EventLog
	Authorization Authorization
}

// Options carries everything the services need besides storage.
type Options struct {
	Authorizer    AuthorizationCheck
	Defaults      Defaults
	JWTSigningKey string
	TokenTTL      time.Duration
	Clock         func() time.Time // defaults to time.Now
	Recorder      Recorder         // optional
	Log           *logger.Logger   // optional
}

// NewService wires the repository layer into concrete services. repos must be
// bound to the pool; uow opens the transactions mutations run in.
func NewService(repos *repository.Repository, uow db.UnitOfWork, opts Options) *Service {
	st := &store{
		repos: repos,
		uow:   uow,
		now:   opts.Clock,
		rec:   opts.Recorder,
		log:   opts.Log,
	}
	if st.now == nil {
		st.now = time.Now
	}
	if st.rec == nil {
		st.rec = nopRecorder{}
	}
	if st.log == nil {
		st.log = logger.Nop()
	}
	auth := opts.Authorizer
	if auth == nil {
		auth = NewSharedSecret("")
	}

	intervals := newIntervalService(st, opts.Defaults)
	cartridges := newCartridgeService(st, intervals, auth, opts.Defaults)

	return &Service{
		Runtime:       newRuntimeService(st),
		Ledger:        newLedgerService(st),
		Maintenance:   intervals,
		Cartridge:     cartridges,
		Correction:    newCorrectionService(st, auth),
		Dashboard:     newDashboardService(st, intervals, cartridges),
		EventLog:      NewEventLogService(repos.EventRepo),
		Authorization: NewAuthService(repos.Auth, opts.JWTSigningKey, opts.TokenTTL),
	}
}
