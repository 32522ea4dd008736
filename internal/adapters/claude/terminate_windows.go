//go:build windows

package claude

import (
	"os/exec"
	"strconv"
	"time"

	"ponte/internal/logging"
)

func setProcAttrs(cmd *exec.Cmd) {
	// No process-group semantics on Windows; taskkill handles the tree
}

// terminateTree force-kills the whole process tree. Windows has no graceful
// group signal, so the grace window does not apply here.
func terminateTree(cmd *exec.Cmd, _ time.Duration) {
	if cmd.Process == nil {
		return
	}
	kill := exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(cmd.Process.Pid))
	if err := kill.Run(); err != nil {
		// Exit code 128 means the process was already gone
		logging.Logger.Debug("taskkill finished with error", "error", err)
	}
}
