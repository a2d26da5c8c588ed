// Package repositories defines the persistence interfaces for the agent.
package repositories

import (
	"context"

	"github.com/opsdesk/aws-agent/models"
)

// QueryRepository persists processed queries for audit.
type QueryRepository interface {
	// Insert stores a single query record.
	Insert(ctx context.Context, rec *models.QueryRecord) error

	// ListRecent returns the most recent query records, newest first.
	ListRecent(ctx context.Context, limit int) ([]*models.QueryRecord, error)
}
