package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/opsdesk/aws-agent/models"
	"github.com/opsdesk/aws-agent/repositories"
)

// QueryRepository implements repositories.QueryRepository on PostgreSQL
type QueryRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewQueryRepository creates a new query repository
func NewQueryRepository(db *DB, logger *zap.Logger) repositories.QueryRepository {
	return &QueryRepository{
		db:     db,
		logger: logger,
	}
}

// Insert inserts a new query record
func (r *QueryRepository) Insert(ctx context.Context, rec *models.QueryRecord) error {
	query := `
		INSERT INTO query_log (
			id, request_id, query, intent, outcome, error_message,
			latency_ms, ip_address, user_agent, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.RequestID,
		rec.Query,
		rec.Intent,
		rec.Outcome,
		nullString(rec.Error),
		rec.LatencyMs,
		nullString(rec.IPAddress),
		nullString(rec.UserAgent),
		rec.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert query record: %w", err)
	}

	r.logger.Debug("query record inserted",
		zap.String("id", rec.ID.String()),
		zap.String("intent", rec.Intent))
	return nil
}

// ListRecent retrieves the most recent query records, newest first
func (r *QueryRepository) ListRecent(ctx context.Context, limit int) ([]*models.QueryRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, request_id, query, intent, outcome, error_message,
		       latency_ms, ip_address, user_agent, created_at
		FROM query_log
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list query records: %w", err)
	}
	defer rows.Close()

	var records []*models.QueryRecord
	for rows.Next() {
		rec := &models.QueryRecord{}
		var errMsg, ipAddress, userAgent sql.NullString

		if err := rows.Scan(
			&rec.ID,
			&rec.RequestID,
			&rec.Query,
			&rec.Intent,
			&rec.Outcome,
			&errMsg,
			&rec.LatencyMs,
			&ipAddress,
			&userAgent,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan query record: %w", err)
		}

		rec.Error = errMsg.String
		rec.IPAddress = ipAddress.String
		rec.UserAgent = userAgent.String
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate query records: %w", err)
	}

	return records, nil
}

// nullString maps an empty string to SQL NULL
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
