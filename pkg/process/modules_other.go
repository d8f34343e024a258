//go:build !linux && !windows

package process

import "fmt"

func getModules(pid Pid_t) ([]ModuleInfo, error) {
	return nil, fmt.Errorf("module enumeration: %w", ErrNotSupported)
}
