package cmd

import (
	"fmt"
	"path/filepath"
)

// SessionsCmd manages saved sessions
type SessionsCmd struct {
	List   SessionsListCmd   `cmd:"" help:"List saved sessions (default)" default:"1"`
	Resume SessionsResumeCmd `cmd:"" help:"Resume a saved session in a chat"`
}

// SessionsResumeCmd opens a chat on a saved session
type SessionsResumeCmd struct {
	SessionID string `arg:"" help:"Saved session id to resume"`
	Dir       string `help:"Working directory the session was saved from" default:"."`
}

// Run executes the sessions resume command
func (sr *SessionsResumeCmd) Run(container *Container) error {
	chat := ChatCmd{Dir: sr.Dir, Resume: sr.SessionID}
	return chat.Run(container)
}

// SessionsListCmd lists saved sessions, newest first
type SessionsListCmd struct {
	Dir string `help:"Only show sessions saved from this directory"`
	All bool   `help:"Show sessions from every directory" short:"a"`
}

// Run executes the sessions list command
func (sl *SessionsListCmd) Run(container *Container) error {
	dir := sl.Dir
	if sl.All {
		dir = ""
	} else if dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("failed to resolve directory: %w", err)
		}
		dir = abs
	}

	sessions := container.SessionService.ListSessions(dir)
	if len(sessions) == 0 {
		fmt.Println("No saved sessions.")
		return nil
	}

	for _, s := range sessions {
		title := s.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%s  %s  %-40s %s\n",
			s.SessionID,
			s.SavedAt.Local().Format("2006-01-02 15:04"),
			title,
			s.WorkingDir)
	}
	return nil
}
