//go:build unix

package shell

import (
	"os/exec"
	"syscall"
)

// configureProcess starts the shell in its own process group so that a
// timeout kills every descendant, not only the shell itself.
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}

// reapProcess kills whatever is left of the process group once the shell
// has returned, so background jobs do not outlive the call.
func reapProcess(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
