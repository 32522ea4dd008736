package ports

import (
	"context"
	"io"
)

// LaunchOptions configures one agent subprocess run. The prompt is written
// to the subprocess's stdin, never passed as an argument.
type LaunchOptions struct {
	ChatID     string // exported to the subprocess so ask requests correlate back
	Prompt     string
	SessionID  string // resume identifier, empty for a fresh conversation
	WorkingDir string
}

// AgentHandle is a running agent subprocess
type AgentHandle interface {
	// Output streams the subprocess's stdout (newline-delimited JSON events)
	Output() io.Reader

	// Wait blocks until the subprocess exits and returns its exit error
	Wait() error

	// Terminate kills the whole process tree. Safe to call more than once
	// and after the process has already exited.
	Terminate()

	// StderrTail returns the captured head of stderr for diagnostics
	StderrTail() string
}

// AgentLauncher spawns agent subprocesses
type AgentLauncher interface {
	Launch(ctx context.Context, opts LaunchOptions) (AgentHandle, error)
}
