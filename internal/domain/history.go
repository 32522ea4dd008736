package domain

import "time"

// HistoryCap bounds how many resumable sessions are kept on disk
const HistoryCap = 5

// SavedSession is a point-in-time snapshot of a resumable session, written
// whenever a session identifier is first observed
type SavedSession struct {
	SessionID  string    `json:"session_id"`
	SavedAt    time.Time `json:"saved_at"`
	WorkingDir string    `json:"working_dir"`
	Title      string    `json:"title"`
}

// SessionHistory is the ordered list of saved sessions, newest first
type SessionHistory struct {
	Sessions []SavedSession `json:"sessions"`
}

// Upsert replaces the entry with a matching session id in place, or prepends
// a new one, then evicts oldest entries beyond HistoryCap
func (h *SessionHistory) Upsert(entry SavedSession) {
	for i := range h.Sessions {
		if h.Sessions[i].SessionID == entry.SessionID {
			h.Sessions[i] = entry
			return
		}
	}

	h.Sessions = append([]SavedSession{entry}, h.Sessions...)
	if len(h.Sessions) > HistoryCap {
		h.Sessions = h.Sessions[:HistoryCap]
	}
}

// Find returns the saved session with the given id, if present
func (h *SessionHistory) Find(sessionID string) (SavedSession, bool) {
	for _, s := range h.Sessions {
		if s.SessionID == sessionID {
			return s, true
		}
	}
	return SavedSession{}, false
}

// ForWorkingDir returns entries matching workingDir, plus entries with no
// recorded directory. An empty workingDir returns everything.
func (h *SessionHistory) ForWorkingDir(workingDir string) []SavedSession {
	var out []SavedSession
	for _, s := range h.Sessions {
		if workingDir == "" || s.WorkingDir == "" || s.WorkingDir == workingDir {
			out = append(out, s)
		}
	}
	return out
}
