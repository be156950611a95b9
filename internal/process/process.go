// Package process runs converter subprocesses in their own process group so a
// cancelled conversion also stops the TeX engine pandoc spawned.
package process

import "os/exec"

// Isolate configures cmd to start in a new process group and replaces the
// default context cancellation (kill of the direct child only) with a kill of
// the whole group.
func Isolate(cmd *exec.Cmd) {
	setGroup(cmd)
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		KillGroup(cmd.Process.Pid)
		return nil
	}
}
