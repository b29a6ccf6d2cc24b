package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "compressor_runtime/docs"
	"compressor_runtime/internal/config"
	"compressor_runtime/internal/handlers"
	"compressor_runtime/internal/logger"
	"compressor_runtime/internal/metrics"
	"compressor_runtime/internal/repository"
	"compressor_runtime/internal/repository/db"
	"compressor_runtime/internal/server"
	"compressor_runtime/internal/service"

	"github.com/spf13/cobra"
)

// @title                       Compressor Runtime API
// @version                     1.0
// @description                 Run sessions, cumulative hours, maintenance interval and filter cartridge scheduling.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "compressor",
		Short:        "Compressor runtime accounting and maintenance scheduling",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default configs/config.yml)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(configPath)
			},
		},
		newLedgerCmd(&configPath),
		newHashSecretCmd(),
	)
	return root
}

func serve(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	// init logger
	log := logger.Get(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

	// open DB
	conn, err := openDB(cfg, log)
	if err != nil {
		log.Errorw("failed to init sqlite", "err", err)
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	signingKey := cfg.Auth.JWTSigningKey
	if signingKey == "" {
		signingKey, err = randomKey()
		if err != nil {
			return err
		}
		log.Warnw("auth.jwt_signing_key not set; using a random key, tokens will not survive a restart")
	}
	if cfg.Auth.MaintenanceSecret == "" {
		log.Warnw("auth.maintenance_secret not set; password-gated operations will be rejected")
	}

	// wire dependencies
	m := metrics.New()
	services := newServices(conn, cfg, signingKey, m, log)
	m.TrackLedger(func() float64 {
		total, err := services.Ledger.Total(context.Background())
		if err != nil {
			return math.NaN()
		}
		return total
	})

	apiHandler := handlers.NewHandler(services, log,
		handlers.WithMetrics(m),
		handlers.WithRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		handlers.WithStreamInterval(cfg.Server.StreamInterval),
	)

	// start HTTP server
	srv := server.New(server.Timeouts{
		ReadHeader: cfg.Server.ReadHeaderTimeout,
		Write:      cfg.Server.WriteTimeout,
		Idle:       cfg.Server.IdleTimeout,
	})
	errCh := runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	return waitForShutdown(srv, errCh, cfg.Server.ShutdownTimeout, log)
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}
	return cfg, nil
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	log.Infow("opening sqlite", "path", cfg.DB.Path)
	return db.InitDB(cfg.DB.Path)
}

func newServices(conn *sql.DB, cfg *config.Config, signingKey string, rec service.Recorder, log *logger.Logger) *service.Service {
	return service.NewService(repository.NewRepository(conn), db.NewSQLiteUnitOfWork(conn), service.Options{
		Authorizer: service.NewSharedSecret(cfg.Auth.MaintenanceSecret),
		Defaults: service.Defaults{
			IntervalName:              cfg.Maintenance.DefaultIntervalName,
			IntervalHours:             cfg.Maintenance.DefaultIntervalHours,
			CartridgeIntervalHours:    cfg.Cartridge.DefaultIntervalHours,
			CartridgeWarningLeadHours: cfg.Cartridge.DefaultWarningLeadHours,
		},
		JWTSigningKey: signingKey,
		TokenTTL:      cfg.Auth.TokenTTL,
		Recorder:      rec,
		Log:           log,
	})
}

// runHTTPServer runs the HTTP server in a separate goroutine. The returned
// channel receives the error if the listener fails.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Infow("http server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Errorw("error starting server", "err", err)
			errCh <- err
		}
	}()
	return errCh
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, errCh <-chan error, timeout time.Duration, log *logger.Logger) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
		return err
	}
	return nil
}

func randomKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate signing key: %w", err)
	}
	return hex.EncodeToString(b), nil
}
