//go:build !windows

package osutil

import (
	"os"
)

// IsAdmin reports whether the current process runs with superuser privileges.
// Elevated scheduling priorities require this on most POSIX systems.
func IsAdmin() (bool, error) {
	return os.Getuid() == 0, nil
}
