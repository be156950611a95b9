//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

func setGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillGroup sends SIGKILL to the process group led by pid (negative PID).
func KillGroup(pid int) {
	// Best-effort; exec.Cmd.Wait still reaps the direct child.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
