package process

import (
	"fmt"
	"math"
	"strconv"
)

// Pid_t is the portable process id type. It is wider than any OS pid so that
// invalid and sentinel values can be represented.
type Pid_t int64

const (
	// A valid exit code of a process is a non-negative number. We use UnknownExitCode to indicate that we have not obtained the exit code yet.
	UnknownExitCode int32 = -1

	// Unknown PID code is used when a process is not started (or fails to start)
	UnknownPID Pid_t = -1
)

func IntToPidT(val int) (Pid_t, error) {
	return convertPid[int64, Pid_t](int64(val))
}

func Int64_ToPidT(val int64) (Pid_t, error) {
	return convertPid[int64, Pid_t](val)
}

func Uint32_ToPidT(val uint32) Pid_t {
	// uint32 is always valid as a PID value (see convertPid()), and can always be converted to Pid_t, which is int64-based.
	return Pid_t(val)
}

func PidT_ToInt(val Pid_t) (int, error) {
	return convertPid[Pid_t, int](val)
}

func PidT_ToUint32(val Pid_t) (uint32, error) {
	return convertPid[Pid_t, uint32](val)
}

func StringToPidT(val string) (Pid_t, error) {
	u64val, u64ParseErr := strconv.ParseUint(val, 10, 32)
	if u64ParseErr != nil {
		return UnknownPID, fmt.Errorf("%q is not a valid process ID: %w", val, ErrInvalidArgument)
	}

	return convertPid[uint64, Pid_t](u64val)
}

func convertPid[From ~int64 | ~uint64 | ~uint32, To ~int64 | ~int | ~uint32](val From) (To, error) {
	outOfRange := val < 0 || uint64(val) > math.MaxUint32
	if outOfRange {
		return 0, fmt.Errorf("value %d is out of range of valid process ID values: %w", val, ErrInvalidArgument)
	}
	return To(val), nil
}
