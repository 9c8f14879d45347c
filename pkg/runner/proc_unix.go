//go:build unix

package runner

import (
	"os"
	"os/exec"
	"syscall"

	"github.com/cockroachdb/errors"
)

// killGroup runs the tool in its own process group so cancellation also
// reaches any processes the tool started.
func killGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}
}
