package ports

import "ponte/internal/domain"

// HistoryStore persists the bounded saved-session history. Implementations
// must treat a missing or unreadable file as an empty history, never as a
// fatal error.
type HistoryStore interface {
	Load() (*domain.SessionHistory, error)
	Save(history *domain.SessionHistory) error
}
