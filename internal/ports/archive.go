package ports

import (
	"context"
	"time"

	"ponte/internal/domain"
)

// QueryRecord is one finished query written to the archive
type QueryRecord struct {
	SessionID      string
	WorkingDir     string
	Outcome        domain.Outcome
	Usage          domain.TokenUsage
	ContextPercent int
	Duration       time.Duration
	StartedAt      time.Time
}

// QueryTotals aggregates archived queries
type QueryTotals struct {
	Queries       int
	InputTokens   int
	OutputTokens  int
	CacheRead     int
	CacheCreation int
}

// QueryArchive records finished queries for usage statistics. Archive
// failures are non-fatal to the engine.
type QueryArchive interface {
	Record(ctx context.Context, rec QueryRecord) error
	TotalsSince(ctx context.Context, since time.Time) (QueryTotals, error)
	OutcomeCountsSince(ctx context.Context, since time.Time) (map[domain.Outcome]int, error)
	Close() error
}
