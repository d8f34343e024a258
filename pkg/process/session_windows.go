//go:build windows

package process

import (
	"golang.org/x/sys/windows"
)

func getSessionID(pid Pid_t) (uint32, error) {
	osPid, err := PidT_ToUint32(pid)
	if err != nil {
		return 0, err
	}

	var sessionID uint32
	if err := windows.ProcessIdToSessionId(osPid, &sessionID); err != nil {
		return 0, classifyOSError(err)
	}

	return sessionID, nil
}
