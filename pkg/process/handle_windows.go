//go:build windows

package process

import (
	"os"
)

func findOSProcess(osPid int) (*os.Process, error) {
	// On Windows os.FindProcess opens a real handle and fails if the process is gone.
	return os.FindProcess(osPid)
}
