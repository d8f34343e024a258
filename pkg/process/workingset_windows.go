//go:build windows

package process

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	procGetProcessWorkingSetSize = kernel32.NewProc("GetProcessWorkingSetSize")
	procSetProcessWorkingSetSize = kernel32.NewProc("SetProcessWorkingSetSize")
)

func getWorkingSetLimits(pid Pid_t) (minBytes uint64, maxBytes uint64, err error) {
	h, err := openProcess(pid, windows.PROCESS_QUERY_LIMITED_INFORMATION)
	if err != nil {
		return 0, 0, err
	}
	defer windows.CloseHandle(h)

	var minSize, maxSize uintptr
	r1, _, callErr := procGetProcessWorkingSetSize.Call(
		uintptr(h),
		uintptr(unsafe.Pointer(&minSize)),
		uintptr(unsafe.Pointer(&maxSize)),
	)
	if r1 == 0 {
		return 0, 0, classifyOSError(callErr)
	}

	return uint64(minSize), uint64(maxSize), nil
}

func setWorkingSetLimits(pid Pid_t, minBytes uint64, maxBytes uint64) error {
	h, err := openProcess(pid, windows.PROCESS_SET_QUOTA)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)

	r1, _, callErr := procSetProcessWorkingSetSize.Call(
		uintptr(h),
		uintptr(minBytes),
		uintptr(maxBytes),
	)
	if r1 == 0 {
		return classifyOSError(callErr)
	}

	return nil
}
