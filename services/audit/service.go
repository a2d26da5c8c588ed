// Package audit records processed queries to the audit database. Recording is
// best-effort: a failed insert is logged and dropped so it can never fail the
// request that produced it.
package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/opsdesk/aws-agent/models"
	"github.com/opsdesk/aws-agent/repositories"
)

const insertTimeout = 3 * time.Second

// Service writes query records through a repositories.QueryRepository.
type Service struct {
	repo   repositories.QueryRepository
	logger *zap.Logger
}

// NewService creates an audit service. repo may be nil, in which case Record
// is a no-op.
func NewService(repo repositories.QueryRepository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Enabled reports whether an audit database is wired.
func (s *Service) Enabled() bool {
	return s.repo != nil
}

// Record persists a query record. The insert uses its own timeout detached
// from the request context so a cancelled request still gets audited.
func (s *Service) Record(ctx context.Context, rec *models.QueryRecord) {
	if s.repo == nil {
		return
	}

	insertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), insertTimeout)
	defer cancel()

	if err := s.repo.Insert(insertCtx, rec); err != nil {
		s.logger.Warn("failed to record query",
			zap.String("id", rec.ID.String()),
			zap.String("intent", rec.Intent),
			zap.Error(err))
	}
}

// Recent returns the newest audit entries for inspection tooling.
func (s *Service) Recent(ctx context.Context, limit int) ([]*models.QueryRecord, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.ListRecent(ctx, limit)
}
