//go:build windows

package process

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	procGetProcessPriorityBoost = kernel32.NewProc("GetProcessPriorityBoost")
	procSetProcessPriorityBoost = kernel32.NewProc("SetProcessPriorityBoost")
)

func getPriorityBoost(pid Pid_t) (bool, error) {
	h, err := openProcess(pid, windows.PROCESS_QUERY_LIMITED_INFORMATION)
	if err != nil {
		return false, err
	}
	defer windows.CloseHandle(h)

	var disabled int32
	r1, _, callErr := procGetProcessPriorityBoost.Call(
		uintptr(h),
		uintptr(unsafe.Pointer(&disabled)),
	)
	if r1 == 0 {
		return false, classifyOSError(callErr)
	}

	// The OS tracks "boost disabled"; the public surface exposes "boost enabled".
	return disabled == 0, nil
}

func setPriorityBoost(pid Pid_t, enabled bool) error {
	h, err := openProcess(pid, windows.PROCESS_SET_INFORMATION)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)

	var disable uintptr
	if !enabled {
		disable = 1
	}

	r1, _, callErr := procSetProcessPriorityBoost.Call(uintptr(h), disable)
	if r1 == 0 {
		return classifyOSError(callErr)
	}

	return nil
}
