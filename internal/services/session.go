package services

import (
	"fmt"
	"time"

	"ponte/internal/domain"
	"ponte/internal/logging"
	"ponte/internal/ports"
)

// SessionService persists and restores session identities through the
// history store. Persistence is advisory: load failures degrade to an empty
// history and save failures are surfaced to the caller, who typically logs
// and moves on.
type SessionService struct {
	store ports.HistoryStore
}

// NewSessionService creates a SessionService backed by the given store
func NewSessionService(store ports.HistoryStore) *SessionService {
	return &SessionService{store: store}
}

// SaveSession records the session's identity in history. Sessions without an
// identifier are skipped.
func (s *SessionService) SaveSession(sess *domain.Session) error {
	if sess.SessionID == "" {
		return nil
	}
	history, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load session history: %w", err)
	}
	history.Upsert(domain.SavedSession{
		SessionID:  sess.SessionID,
		SavedAt:    time.Now().UTC(),
		WorkingDir: sess.WorkingDir,
		Title:      sess.Title,
	})
	if err := s.store.Save(history); err != nil {
		return fmt.Errorf("failed to save session history: %w", err)
	}
	logging.Logger.Debug("Session saved to history", "session_id", sess.SessionID)
	return nil
}

// ListSessions returns saved sessions, newest first, optionally filtered to
// a working directory. Storage failures degrade to an empty list.
func (s *SessionService) ListSessions(workingDir string) []domain.SavedSession {
	history, err := s.store.Load()
	if err != nil {
		logging.Logger.Warn("Failed to load session history", "error", err)
		return nil
	}
	return history.ForWorkingDir(workingDir)
}

// Resume adopts a saved session's identity into the live session. The saved
// working directory must match the live one; resuming a conversation from a
// different directory would hand the agent the wrong filesystem context.
func (s *SessionService) Resume(sess *domain.Session, sessionID string) (domain.SavedSession, error) {
	history, err := s.store.Load()
	if err != nil {
		return domain.SavedSession{}, fmt.Errorf("failed to load session history: %w", err)
	}
	saved, ok := history.Find(sessionID)
	if !ok {
		return domain.SavedSession{}, domain.ErrSessionNotFound
	}
	if saved.WorkingDir != sess.WorkingDir {
		return domain.SavedSession{}, fmt.Errorf("%w: session belongs to %s", domain.ErrDirectoryMismatch, saved.WorkingDir)
	}
	sess.Reset()
	sess.SessionID = saved.SessionID
	sess.Title = saved.Title
	sess.TouchActivity()
	logging.Logger.Info("Session resumed", "session_id", saved.SessionID, "working_dir", saved.WorkingDir)
	return saved, nil
}

// ResetSession clears the live session's conversation identity. Saved
// history entries are untouched; they remain resumable.
func (s *SessionService) ResetSession(sess *domain.Session) {
	sess.Reset()
	logging.Logger.Info("Session reset", "working_dir", sess.WorkingDir)
}
