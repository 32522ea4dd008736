package domain

import (
	"strings"
	"time"
)

// maxStoredErrorLen bounds error text kept on a session so stack traces from
// the agent CLI never leak wholesale into chat surfaces.
const maxStoredErrorLen = 200

// Session is the long-lived conversation context against which queries run.
// The engine owns it for the duration of a query; callers must not run two
// queries against the same Session concurrently.
type Session struct {
	ChatID         string // conversation correlation id, survives Reset
	ContextPercent int
	CurrentTool    string
	LastActivity   time.Time
	LastError      string
	LastErrorAt    time.Time
	LastTool       string
	LastUsage      TokenUsage
	SessionID      string
	Title          string
	WorkingDir     string
}

// NewSession creates an empty session rooted at workingDir
func NewSession(workingDir string) *Session {
	return &Session{WorkingDir: workingDir}
}

// AdoptSessionID sets the session identifier the first time it is observed.
// Returns true if the identifier was newly adopted. Once set it is immutable
// until Reset.
func (s *Session) AdoptSessionID(id string) bool {
	if id == "" || s.SessionID != "" {
		return false
	}
	s.SessionID = id
	return true
}

// Reset clears conversation identity but keeps configuration such as the
// working directory.
func (s *Session) Reset() {
	s.ContextPercent = 0
	s.CurrentTool = ""
	s.LastError = ""
	s.LastErrorAt = time.Time{}
	s.LastTool = ""
	s.LastUsage = TokenUsage{}
	s.SessionID = ""
	s.Title = ""
}

// RecordError stores a truncated error message with a timestamp
func (s *Session) RecordError(msg string) {
	s.LastError = TruncateError(msg)
	s.LastErrorAt = time.Now()
}

// TouchActivity stamps the last-activity time
func (s *Session) TouchActivity() {
	s.LastActivity = time.Now()
}

// SetCurrentTool updates the tool currently in flight, remembering the
// previous one
func (s *Session) SetCurrentTool(name string) {
	if s.CurrentTool != "" {
		s.LastTool = s.CurrentTool
	}
	s.CurrentTool = name
}

// ClearCurrentTool marks no tool as in flight
func (s *Session) ClearCurrentTool() {
	if s.CurrentTool != "" {
		s.LastTool = s.CurrentTool
	}
	s.CurrentTool = ""
}

// TruncateError bounds error text to a chat-friendly length
func TruncateError(msg string) string {
	msg = strings.TrimSpace(msg)
	if len(msg) <= maxStoredErrorLen {
		return msg
	}
	return msg[:maxStoredErrorLen] + "…"
}
