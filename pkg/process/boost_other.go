//go:build !windows

package process

import "fmt"

func getPriorityBoost(pid Pid_t) (bool, error) {
	return false, fmt.Errorf("priority boost: %w", ErrNotSupported)
}

func setPriorityBoost(pid Pid_t, enabled bool) error {
	return fmt.Errorf("priority boost: %w", ErrNotSupported)
}
