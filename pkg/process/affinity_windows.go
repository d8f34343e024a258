//go:build windows

package process

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32                   = windows.NewLazySystemDLL("kernel32.dll")
	procGetProcessAffinityMask = kernel32.NewProc("GetProcessAffinityMask")
	procSetProcessAffinityMask = kernel32.NewProc("SetProcessAffinityMask")
)

func getAffinity(pid Pid_t) (uint64, error) {
	h, err := openProcess(pid, windows.PROCESS_QUERY_LIMITED_INFORMATION)
	if err != nil {
		return 0, err
	}
	defer windows.CloseHandle(h)

	var processMask, systemMask uintptr
	r1, _, callErr := procGetProcessAffinityMask.Call(
		uintptr(h),
		uintptr(unsafe.Pointer(&processMask)),
		uintptr(unsafe.Pointer(&systemMask)),
	)
	if r1 == 0 {
		return 0, classifyOSError(callErr)
	}

	return uint64(processMask), nil
}

func setAffinity(pid Pid_t, mask uint64) error {
	h, err := openProcess(pid, windows.PROCESS_SET_INFORMATION)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)

	r1, _, callErr := procSetProcessAffinityMask.Call(uintptr(h), uintptr(mask))
	if r1 == 0 {
		return classifyOSError(callErr)
	}

	return nil
}
