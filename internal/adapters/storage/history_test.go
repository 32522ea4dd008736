package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ponte/internal/domain"
)

func TestHistoryFileLoadMissing(t *testing.T) {
	store := NewHistoryFile(filepath.Join(t.TempDir(), "sessions.json"))

	history, err := store.Load()

	require.NoError(t, err)
	assert.Empty(t, history.Sessions)
}

func TestHistoryFileLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	history, err := NewHistoryFile(path).Load()

	require.NoError(t, err)
	assert.Empty(t, history.Sessions)
}

func TestHistoryFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sessions.json")
	store := NewHistoryFile(path)

	history := &domain.SessionHistory{}
	history.Upsert(domain.SavedSession{SessionID: "a", WorkingDir: "/p", Title: "first"})
	history.Upsert(domain.SavedSession{SessionID: "b", WorkingDir: "/p"})
	require.NoError(t, store.Save(history))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Sessions, 2)
	assert.Equal(t, "b", loaded.Sessions[0].SessionID)
	assert.Equal(t, "first", loaded.Sessions[1].Title)
}

func TestHistoryFileSaveShrinks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	store := NewHistoryFile(path)

	big := &domain.SessionHistory{}
	for _, id := range []string{"a", "b", "c"} {
		big.Upsert(domain.SavedSession{SessionID: id, Title: "a rather long session title"})
	}
	require.NoError(t, store.Save(big))

	small := &domain.SessionHistory{}
	small.Upsert(domain.SavedSession{SessionID: "only"})
	require.NoError(t, store.Save(small))

	// A shrinking rewrite must not leave trailing bytes behind
	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Sessions, 1)
	assert.Equal(t, "only", loaded.Sessions[0].SessionID)
}
