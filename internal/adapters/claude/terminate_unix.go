//go:build unix

package claude

import (
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"ponte/internal/logging"
)

// setProcAttrs puts the subprocess in its own process group so the whole
// tree can be signalled at once
func setProcAttrs(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminateTree sends SIGTERM to the process group, waits up to grace for it
// to exit, then SIGKILLs. A group that is already gone is not an error.
func terminateTree(cmd *exec.Cmd, grace time.Duration) {
	if cmd.Process == nil {
		return
	}
	pgid := -cmd.Process.Pid

	if err := unix.Kill(pgid, unix.SIGTERM); err != nil {
		// ESRCH: process group already exited
		return
	}

	deadline := time.Now().Add(grace)
	for time.Now().Before(deadline) {
		// Signal 0 probes for existence without delivering anything
		if err := unix.Kill(pgid, 0); err != nil {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	logging.Logger.Warn("Agent subprocess ignored SIGTERM, force killing",
		"pid", cmd.Process.Pid, "grace", grace)
	_ = unix.Kill(pgid, unix.SIGKILL)
}
