//go:build !windows

package process

import (
	"golang.org/x/sys/unix"
)

func getSessionID(pid Pid_t) (uint32, error) {
	osPid, err := PidT_ToInt(pid)
	if err != nil {
		return 0, err
	}

	sid, err := unix.Getsid(osPid)
	if err != nil {
		return 0, classifyOSError(err)
	}

	return uint32(sid), nil
}
