//go:build !linux && !windows

package process

import "fmt"

func getAffinity(pid Pid_t) (uint64, error) {
	return 0, fmt.Errorf("processor affinity: %w", ErrNotSupported)
}

func setAffinity(pid Pid_t, mask uint64) error {
	return fmt.Errorf("processor affinity: %w", ErrNotSupported)
}
