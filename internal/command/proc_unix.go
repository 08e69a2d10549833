//go:build unix

package command

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// configureProcess starts cmd in its own process group and makes context
// cancellation kill the whole group, so a script's own children cannot
// keep the output pipes open past a timeout or interrupt.
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}
}
