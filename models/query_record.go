package models

import (
	"time"

	"github.com/google/uuid"
)

// QueryOutcome classifies how a processed query ended.
type QueryOutcome string

const (
	QueryOutcomeOK        QueryOutcome = "ok"
	QueryOutcomeError     QueryOutcome = "error"
	QueryOutcomeUnmatched QueryOutcome = "unmatched"
)

// QueryRecord is one processed operator query, persisted for audit when an
// audit database is configured.
type QueryRecord struct {
	ID        uuid.UUID
	RequestID string
	Query     string
	Intent    string
	Outcome   QueryOutcome
	Error     string
	LatencyMs int
	IPAddress string
	UserAgent string
	CreatedAt time.Time
}

// NewQueryRecord constructs a record with a fresh ID and timestamp.
func NewQueryRecord(query string) *QueryRecord {
	return &QueryRecord{
		ID:        uuid.New(),
		Query:     query,
		CreatedAt: time.Now().UTC(),
	}
}
