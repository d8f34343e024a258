//go:build !windows

package process

import "fmt"

// POSIX systems have no direct equivalent of the Windows working-set quota
// (rlimits bound different resources with different semantics), so the
// operation is reported as unsupported rather than approximated.
func getWorkingSetLimits(pid Pid_t) (minBytes uint64, maxBytes uint64, err error) {
	return 0, 0, fmt.Errorf("working set limits: %w", ErrNotSupported)
}

func setWorkingSetLimits(pid Pid_t, minBytes uint64, maxBytes uint64) error {
	return fmt.Errorf("working set limits: %w", ErrNotSupported)
}
