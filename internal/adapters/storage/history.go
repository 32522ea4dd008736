package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ponte/internal/domain"
	"ponte/internal/logging"
	"ponte/internal/ports"
)

// HistoryFile persists the saved-session history as a small JSON document.
// Multiple processes may touch the file; writes take an exclusive flock
// where the platform supports it and any unreadable content degrades to an
// empty history.
type HistoryFile struct {
	path string
}

// Verify interface compliance at compile time
var _ ports.HistoryStore = (*HistoryFile)(nil)

// NewHistoryFile creates a store backed by path
func NewHistoryFile(path string) *HistoryFile {
	return &HistoryFile{path: path}
}

// Load reads the history from disk. Missing or corrupt files are an empty
// history, never an error.
func (h *HistoryFile) Load() (*domain.SessionHistory, error) {
	data, err := os.ReadFile(h.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Logger.Warn("Failed to read session history, treating as empty",
				"path", h.path, "error", err)
		}
		return &domain.SessionHistory{}, nil
	}

	var history domain.SessionHistory
	if err := json.Unmarshal(data, &history); err != nil {
		logging.Logger.Warn("Corrupt session history, treating as empty",
			"path", h.path, "error", err)
		return &domain.SessionHistory{}, nil
	}

	return &history, nil
}

// Save writes the history to disk with file locking
func (h *HistoryFile) Save(history *domain.SessionHistory) error {
	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	file, err := os.OpenFile(h.path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()

	if err := lockFile(file); err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer unlockFile(file)

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if err := file.Truncate(0); err != nil {
		return fmt.Errorf("failed to truncate file: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		return fmt.Errorf("failed to seek to beginning: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}

	return nil
}
