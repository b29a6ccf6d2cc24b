package service

import (
	"context"
	"time"

	"compressor_runtime/internal/logger"
	"compressor_runtime/internal/repository"
	"compressor_runtime/internal/repository/db"
)

// Recorder receives a notification for every committed mutation and every
// rejected password. The metrics package implements it.
type Recorder interface {
	RecordMutation(eventType string)
	RecordAuthDenied(operation string)
}

type nopRecorder struct{}

func (nopRecorder) RecordMutation(string)   {}
func (nopRecorder) RecordAuthDenied(string) {}

// store is shared by every accounting service. Reads go through repos, which
// is bound to the connection pool. Writes open a transaction and rebind the
// repositories to it.
type store struct {
	repos *repository.Repository
	uow   db.UnitOfWork
	now   func() time.Time
	rec   Recorder
	log   *logger.Logger
}

func (s *store) clock() time.Time {
	return s.now().UTC()
}

// withinTx runs fn with repositories bound to one transaction.
func (s *store) withinTx(ctx context.Context, fn func(ctx context.Context, repos *repository.Repository) error) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, repository.NewRepository(tx))
	})
	return unavailable(err)
}

// committed reports a successful mutation to the recorder.
func (s *store) committed(eventType string) {
	s.rec.RecordMutation(eventType)
}

func (s *store) authorize(check AuthorizationCheck, operation, password string) error {
	if err := check.Authorize(password); err != nil {
		s.log.Warnw("auth_denied", "operation", operation)
		s.rec.RecordAuthDenied(operation)
		return err
	}
	return nil
}
