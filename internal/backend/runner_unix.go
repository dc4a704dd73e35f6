//go:build !windows

package backend

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// gracefulCancel asks the interpreter to stop with SIGTERM. If it is still
// running when WaitDelay expires, os/exec kills it.
//
// The child stays in the console's process group so it can keep reading
// the terminal for credential and power-on prompts.
func gracefulCancel(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		if err := cmd.Process.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return err
		}
		return nil
	}
}
