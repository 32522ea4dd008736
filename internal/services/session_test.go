package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ponte/internal/domain"
)

func TestSaveSessionUpserts(t *testing.T) {
	store := &memHistoryStore{}
	svc := NewSessionService(store)

	sess := domain.NewSession("/p")
	sess.SessionID = "sess-1"
	sess.Title = "first"
	require.NoError(t, svc.SaveSession(sess))

	sess.Title = "renamed"
	require.NoError(t, svc.SaveSession(sess))

	require.Len(t, store.history.Sessions, 1)
	assert.Equal(t, "renamed", store.history.Sessions[0].Title)
}

func TestSaveSessionSkipsUnidentified(t *testing.T) {
	store := &memHistoryStore{}
	svc := NewSessionService(store)

	require.NoError(t, svc.SaveSession(domain.NewSession("/p")))
	assert.Empty(t, store.history.Sessions)
}

func TestResumeAdoptsSavedIdentity(t *testing.T) {
	store := &memHistoryStore{}
	store.history.Upsert(domain.SavedSession{SessionID: "sess-1", WorkingDir: "/p", Title: "past work"})
	svc := NewSessionService(store)

	sess := domain.NewSession("/p")
	sess.SessionID = "sess-current"
	sess.ContextPercent = 80

	saved, err := svc.Resume(sess, "sess-1")

	require.NoError(t, err)
	assert.Equal(t, "sess-1", saved.SessionID)
	assert.Equal(t, "sess-1", sess.SessionID)
	assert.Equal(t, "past work", sess.Title)
	assert.Zero(t, sess.ContextPercent, "resume replaces the previous conversation state")
	assert.False(t, sess.LastActivity.IsZero())
}

func TestResumeUnknownSession(t *testing.T) {
	svc := NewSessionService(&memHistoryStore{})
	sess := domain.NewSession("/p")
	sess.SessionID = "sess-current"

	_, err := svc.Resume(sess, "nope")

	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Equal(t, "sess-current", sess.SessionID, "a failed resume must not touch the live session")
}

func TestResumeRejectsOtherDirectory(t *testing.T) {
	store := &memHistoryStore{}
	store.history.Upsert(domain.SavedSession{SessionID: "sess-1", WorkingDir: "/elsewhere"})
	svc := NewSessionService(store)
	sess := domain.NewSession("/p")

	_, err := svc.Resume(sess, "sess-1")

	assert.ErrorIs(t, err, domain.ErrDirectoryMismatch)
	assert.Empty(t, sess.SessionID)
}

func TestListSessionsFiltersByDirectory(t *testing.T) {
	store := &memHistoryStore{}
	store.history.Upsert(domain.SavedSession{SessionID: "a", WorkingDir: "/p"})
	store.history.Upsert(domain.SavedSession{SessionID: "b", WorkingDir: "/q"})
	svc := NewSessionService(store)

	assert.Len(t, svc.ListSessions("/p"), 1)
	assert.Len(t, svc.ListSessions(""), 2)
}
