//go:build profile && windows

package profiler

import (
	"os/exec"
	"syscall"
)

// hideWindow keeps the viewer from flashing a console window.
func hideWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}
