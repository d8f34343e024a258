//go:build windows

package process

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// NativePriority maps an abstract priority level to a Windows priority class.
func NativePriority(level PriorityLevel) (int, error) {
	if err := checkPriorityLevel(level); err != nil {
		return 0, err
	}

	switch level {
	case PriorityIdle:
		return windows.IDLE_PRIORITY_CLASS, nil
	case PriorityBelowNormal:
		return windows.BELOW_NORMAL_PRIORITY_CLASS, nil
	case PriorityAboveNormal:
		return windows.ABOVE_NORMAL_PRIORITY_CLASS, nil
	case PriorityHigh:
		return windows.HIGH_PRIORITY_CLASS, nil
	case PriorityRealTime:
		return windows.REALTIME_PRIORITY_CLASS, nil
	default:
		return windows.NORMAL_PRIORITY_CLASS, nil
	}
}

// PriorityFromNative maps a Windows priority class back to the abstract level.
// An unrecognized class value maps to PriorityNormal.
func PriorityFromNative(class int) PriorityLevel {
	switch uint32(class) {
	case windows.IDLE_PRIORITY_CLASS:
		return PriorityIdle
	case windows.BELOW_NORMAL_PRIORITY_CLASS:
		return PriorityBelowNormal
	case windows.ABOVE_NORMAL_PRIORITY_CLASS:
		return PriorityAboveNormal
	case windows.HIGH_PRIORITY_CLASS:
		return PriorityHigh
	case windows.REALTIME_PRIORITY_CLASS:
		return PriorityRealTime
	default:
		return PriorityNormal
	}
}

func getPriority(pid Pid_t) (PriorityLevel, error) {
	h, err := openProcess(pid, windows.PROCESS_QUERY_LIMITED_INFORMATION)
	if err != nil {
		return PriorityNormal, err
	}
	defer windows.CloseHandle(h)

	class, err := windows.GetPriorityClass(h)
	if err != nil {
		return PriorityNormal, classifyOSError(err)
	}

	return PriorityFromNative(int(class)), nil
}

func setPriority(pid Pid_t, level PriorityLevel) error {
	class, err := NativePriority(level)
	if err != nil {
		return err
	}

	h, err := openProcess(pid, windows.PROCESS_SET_INFORMATION|windows.PROCESS_QUERY_LIMITED_INFORMATION)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)

	if err := windows.SetPriorityClass(h, uint32(class)); err != nil {
		return classifyOSError(err)
	}

	// REALTIME_PRIORITY_CLASS requires SeIncreaseBasePriorityPrivilege. Without
	// it the OS quietly grants HIGH instead; read back and report the downgrade.
	if level == PriorityRealTime {
		granted, err := windows.GetPriorityClass(h)
		if err == nil && granted != windows.REALTIME_PRIORITY_CLASS {
			return fmt.Errorf("real-time priority was not granted: %w", ErrPermission)
		}
	}

	return nil
}

func openProcess(pid Pid_t, access uint32) (windows.Handle, error) {
	osPid, err := PidT_ToUint32(pid)
	if err != nil {
		return 0, err
	}

	h, err := windows.OpenProcess(access, false, osPid)
	if err != nil {
		return 0, fmt.Errorf("could not open process %d: %w", pid, classifyOSError(err))
	}

	return h, nil
}
