package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ponte/internal/domain"
	"ponte/internal/ports"
)

func newTestArchive(t *testing.T) *SQLiteArchive {
	t.Helper()
	archive, err := NewSQLiteArchive(filepath.Join(t.TempDir(), "ponte.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = archive.Close() })
	return archive
}

func record(sessionID string, outcome domain.Outcome, in, out int, startedAt time.Time) ports.QueryRecord {
	return ports.QueryRecord{
		SessionID:  sessionID,
		WorkingDir: "/p",
		Outcome:    outcome,
		Usage:      domain.TokenUsage{InputTokens: in, OutputTokens: out},
		Duration:   3 * time.Second,
		StartedAt:  startedAt,
	}
}

func TestArchiveTotalsSince(t *testing.T) {
	archive := newTestArchive(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, archive.Record(ctx, record("s1", domain.OutcomeCompleted, 100, 50, now)))
	require.NoError(t, archive.Record(ctx, record("s1", domain.OutcomeCompleted, 200, 80, now)))
	require.NoError(t, archive.Record(ctx, record("s2", domain.OutcomeFailed, 999, 999, now.Add(-48*time.Hour))))

	totals, err := archive.TotalsSince(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, totals.Queries)
	assert.Equal(t, 300, totals.InputTokens)
	assert.Equal(t, 130, totals.OutputTokens)
}

func TestArchiveOutcomeCountsSince(t *testing.T) {
	archive := newTestArchive(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, archive.Record(ctx, record("s1", domain.OutcomeCompleted, 1, 1, now)))
	require.NoError(t, archive.Record(ctx, record("s1", domain.OutcomeCompleted, 1, 1, now)))
	require.NoError(t, archive.Record(ctx, record("s1", domain.OutcomeStopped, 1, 1, now)))

	counts, err := archive.OutcomeCountsSince(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, counts[domain.OutcomeCompleted])
	assert.Equal(t, 1, counts[domain.OutcomeStopped])
}

func TestArchiveEmpty(t *testing.T) {
	archive := newTestArchive(t)

	totals, err := archive.TotalsSince(context.Background(), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, totals.Queries)

	counts, err := archive.OutcomeCountsSince(context.Background(), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, counts)
}
