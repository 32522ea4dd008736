package claude

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"ponte/internal/config"
	"ponte/internal/logging"
	"ponte/internal/ports"
)

// stderrCaptureLimit bounds how much stderr is kept for diagnostics
const stderrCaptureLimit = 4096

// Supervisor implements ports.AgentLauncher for the claude CLI
type Supervisor struct {
	binary             string
	extraDirs          []string
	grace              time.Duration
	model              string
	systemPromptAppend string
}

// Verify interface compliance at compile time
var _ ports.AgentLauncher = (*Supervisor)(nil)

// NewSupervisor creates a Supervisor from static configuration
func NewSupervisor(settings *config.Settings) *Supervisor {
	return &Supervisor{
		binary:             settings.AgentBinaryOrDefault(),
		extraDirs:          settings.AllowedDirs,
		grace:              settings.GracePeriodOrDefault(),
		model:              settings.Model,
		systemPromptAppend: settings.SystemPromptAppend,
	}
}

// Launch spawns the agent CLI in streaming mode, writes the prompt to its
// stdin and closes the stream. The prompt never appears on the command line.
func (s *Supervisor) Launch(ctx context.Context, opts ports.LaunchOptions) (ports.AgentHandle, error) {
	args := []string{
		"-p",
		"--output-format", "stream-json",
		"--verbose",
		"--include-partial-messages",
		"--dangerously-skip-permissions",
	}
	for _, dir := range s.extraDirs {
		args = append(args, "--add-dir", dir)
	}
	if s.model != "" {
		args = append(args, "--model", s.model)
	}
	if s.systemPromptAppend != "" {
		args = append(args, "--append-system-prompt", s.systemPromptAppend)
	}
	if opts.SessionID != "" {
		args = append(args, "--resume", opts.SessionID)
	}

	cmd := exec.CommandContext(ctx, s.binary, args...)
	cmd.Dir = opts.WorkingDir
	cmd.Env = cleanEnv()
	if opts.ChatID != "" {
		cmd.Env = append(cmd.Env, "PONTE_CHAT_ID="+opts.ChatID)
	}
	setProcAttrs(cmd)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", s.binary, err)
	}

	logging.Logger.Info("Agent subprocess started",
		"binary", s.binary,
		"pid", cmd.Process.Pid,
		"working_dir", opts.WorkingDir,
		"resume", opts.SessionID != "")

	h := &processHandle{
		cmd:    cmd,
		stdout: stdout,
		grace:  s.grace,
	}

	h.group.Go(func() error {
		h.captureStderr(stderr)
		return nil
	})
	h.group.Go(func() error {
		defer stdin.Close()
		if _, err := io.WriteString(stdin, opts.Prompt); err != nil {
			logging.Logger.Warn("Failed to write prompt to agent stdin", "error", err)
		}
		return nil
	})

	return h, nil
}

// cleanEnv returns os.Environ() with CLAUDECODE removed so the agent does
// not believe it is being supervised recursively and refuse to start
func cleanEnv() []string {
	env := os.Environ()
	out := make([]string, 0, len(env))
	for _, e := range env {
		if strings.HasPrefix(e, "CLAUDECODE=") {
			continue
		}
		out = append(out, e)
	}
	return out
}

// processHandle implements ports.AgentHandle around a running exec.Cmd
type processHandle struct {
	cmd    *exec.Cmd
	stdout io.Reader
	grace  time.Duration
	group  errgroup.Group

	stderrMu sync.Mutex
	stderrBuf strings.Builder

	waitOnce sync.Once
	waitErr  error
	termOnce sync.Once
}

func (h *processHandle) Output() io.Reader {
	return h.stdout
}

// Wait blocks until the I/O pumps drain and the subprocess exits
func (h *processHandle) Wait() error {
	h.waitOnce.Do(func() {
		_ = h.group.Wait()
		h.waitErr = h.cmd.Wait()
	})
	return h.waitErr
}

// Terminate kills the whole process tree. Graceful-then-forceful on
// platforms with process groups, forceful otherwise; a process that already
// exited is not an error.
func (h *processHandle) Terminate() {
	h.termOnce.Do(func() {
		terminateTree(h.cmd, h.grace)
	})
}

func (h *processHandle) StderrTail() string {
	h.stderrMu.Lock()
	defer h.stderrMu.Unlock()
	return h.stderrBuf.String()
}

// captureStderr drains stderr continuously, keeping a bounded head for error
// reporting and the context-limit fast path
func (h *processHandle) captureStderr(r io.Reader) {
	buf := make([]byte, 1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := string(buf[:n])
			logging.Logger.Debug("Agent stderr", "chunk", strings.TrimSpace(chunk))
			h.stderrMu.Lock()
			if h.stderrBuf.Len() < stderrCaptureLimit {
				remaining := stderrCaptureLimit - h.stderrBuf.Len()
				if len(chunk) > remaining {
					chunk = chunk[:remaining]
				}
				h.stderrBuf.WriteString(chunk)
			}
			h.stderrMu.Unlock()
		}
		if err != nil {
			return
		}
	}
}
