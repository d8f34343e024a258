//go:build windows

package process

import (
	"os/exec"
	"syscall"
)

// Use a separate process group so that console control events aimed at the
// parent's group do not reach the child.
func decoupleFromParent(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}
