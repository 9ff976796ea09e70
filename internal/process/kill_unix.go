//go:build !windows

// Package process manages the process groups of external tools, such as the
// stylesheet compiler and headless Chrome, so a cancelled build leaves no
// orphaned children behind.
package process

import (
	"os/exec"
	"syscall"
)

// SetProcessGroup makes cmd the leader of a new process group, so
// KillProcessGroup reaches the children it spawns.
func SetProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup sends SIGKILL to the process group led by pid.
func KillProcessGroup(pid int) {
	// Best-effort; callers also kill the leader directly.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
