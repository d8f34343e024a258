//go:build !windows

package process

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

func findOSProcess(osPid int) (*os.Process, error) {
	process, err := os.FindProcess(osPid)
	if err != nil {
		return nil, err
	}

	// os.FindProcess always succeeds on Unix; signal 0 checks actual existence.
	if err = process.Signal(syscall.Signal(0)); err != nil {
		if errors.Is(err, os.ErrProcessDone) || errors.Is(err, syscall.ESRCH) {
			return nil, fmt.Errorf("process with pid %d: %w", osPid, ErrNotFound)
		}
		// EPERM means the process exists but belongs to another user.
		if errors.Is(err, syscall.EPERM) {
			return process, nil
		}
		return nil, err
	}

	return process, nil
}
