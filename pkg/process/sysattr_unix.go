//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// Use a separate process group so that signals aimed at the parent's group
// (e.g. terminal Ctrl-C) do not reach the child.
func decoupleFromParent(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
