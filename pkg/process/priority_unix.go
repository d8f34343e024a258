//go:build !windows

package process

import (
	ps "github.com/shirou/gopsutil/v4/process"
	"golang.org/x/sys/unix"
)

// Fixed representative nice values for each abstract level. Lower nice means
// scheduled more favorably, the inverse of the Windows priority-class scale.
const (
	niceRealTime    = -19
	niceHigh        = -11
	niceAboveNormal = -6
	niceNormal      = 0
	niceBelowNormal = 10
	niceIdle        = 19
)

// NativePriority maps an abstract priority level to its nice value.
func NativePriority(level PriorityLevel) (int, error) {
	if err := checkPriorityLevel(level); err != nil {
		return 0, err
	}

	switch level {
	case PriorityRealTime:
		return niceRealTime, nil
	case PriorityHigh:
		return niceHigh, nil
	case PriorityAboveNormal:
		return niceAboveNormal, nil
	case PriorityBelowNormal:
		return niceBelowNormal, nil
	case PriorityIdle:
		return niceIdle, nil
	default:
		return niceNormal, nil
	}
}

// PriorityFromNative rounds an arbitrary nice value to the nearest abstract
// level. Bracket boundaries are the midpoints between the representative
// values above: <= -15 real-time, -14..-9 high, -8..-3 above-normal,
// -2..5 normal, 6..14 below-normal, >= 15 idle.
func PriorityFromNative(nice int) PriorityLevel {
	switch {
	case nice <= -15:
		return PriorityRealTime
	case nice <= -9:
		return PriorityHigh
	case nice <= -3:
		return PriorityAboveNormal
	case nice <= 5:
		return PriorityNormal
	case nice <= 14:
		return PriorityBelowNormal
	default:
		return PriorityIdle
	}
}

func getPriority(pid Pid_t) (PriorityLevel, error) {
	osPid, err := PidT_ToUint32(pid)
	if err != nil {
		return PriorityNormal, err
	}

	// The raw getpriority syscall encodes the nice value differently across
	// kernels; gopsutil normalizes it to the actual nice value everywhere.
	proc, err := ps.NewProcess(int32(osPid))
	if err != nil {
		return PriorityNormal, classifyOSError(err)
	}

	nice, err := proc.Nice()
	if err != nil {
		return PriorityNormal, classifyOSError(err)
	}

	return PriorityFromNative(int(nice)), nil
}

func setPriority(pid Pid_t, level PriorityLevel) error {
	nice, err := NativePriority(level)
	if err != nil {
		return err
	}

	osPid, err := PidT_ToInt(pid)
	if err != nil {
		return err
	}

	// Lowering nice below the current value requires privilege; surface that
	// as ErrPermission rather than silently downgrading.
	if err := unix.Setpriority(unix.PRIO_PROCESS, osPid, nice); err != nil {
		return classifyOSError(err)
	}

	return nil
}
