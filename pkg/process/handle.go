package process

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	ps "github.com/shirou/gopsutil/v4/process"

	"github.com/fffej/corefx/pkg/osutil"
)

// ProcessHandle is a compound type representing a reference to a process.
// It holds the process ID and its identity time (used to distinguish between
// different instances of processes with the same PID after PID reuse).
//
// The IdentityTime may not be a valid wall-clock time on all platforms; on Linux
// it is deliberately zero because creation-time reads have proved unreliable
// there (particularly in containers), leaving the PID alone as the identity.
//
// ProcessHandle is a value type and is safe to use as a map key.
type ProcessHandle struct {
	Pid          Pid_t
	IdentityTime time.Time
}

// NewProcessHandle creates a ProcessHandle from a PID and an identity time.
func NewProcessHandle(pid Pid_t, identityTime time.Time) ProcessHandle {
	return ProcessHandle{
		Pid:          pid,
		IdentityTime: identityTime,
	}
}

// ProcessHandleFromCmd creates a ProcessHandle from a started exec.Cmd.
// The command must have been started (cmd.Process must be non-nil).
func ProcessHandleFromCmd(cmd *exec.Cmd) ProcessHandle {
	if cmd.Process == nil {
		return ProcessHandle{Pid: UnknownPID}
	}

	pid := Uint32_ToPidT(uint32(cmd.Process.Pid))
	return ProcessHandle{
		Pid:          pid,
		IdentityTime: ProcessIdentityTime(pid),
	}
}

// We serialize timestamps with millisecond precision, so a maximum couple of milliseconds of difference works well.
const ProcessIdentityTimeMaximumDifference = 2 * time.Millisecond

// Returns the creation time as a time.Time for a process.
// This time is intended for display purposes and may differ from the raw start time used to verify
// process identity; the value returned can change due to clock adjustments etc.
func StartTimeForProcess(pid Pid_t) time.Time {
	osPid, osPidErr := PidT_ToUint32(pid)
	if osPidErr != nil {
		return time.Time{}
	}

	proc, procErr := ps.NewProcess(int32(osPid))
	if procErr != nil {
		return time.Time{}
	}

	createTimestamp, err := proc.CreateTime()
	if err != nil {
		return time.Time{}
	}

	return time.UnixMilli(createTimestamp)
}

// Gets the raw start time for the process, used to verify process identity.
// This time may not match the wall clock time returned by StartTimeForProcess() on all OS platforms and
// should not be used for display purposes, but is stable across system clock changes.
func ProcessIdentityTime(pid Pid_t) time.Time {
	osPid, osPidErr := PidT_ToUint32(pid)
	if osPidErr != nil {
		return time.Time{}
	}

	proc, procErr := ps.NewProcess(int32(osPid))
	if procErr != nil {
		return time.Time{}
	}

	return processIdentityTime(proc)
}

func HasExpectedIdentityTime(proc *ps.Process, expectedIdentityTime time.Time) bool {
	if expectedIdentityTime.IsZero() {
		return true
	}

	identityTime := processIdentityTime(proc)
	return osutil.Within(expectedIdentityTime, identityTime, ProcessIdentityTimeMaximumDifference)
}

func findPsProcess(handle ProcessHandle) (*ps.Process, error) {
	osPid, err := PidT_ToUint32(handle.Pid)
	if err != nil {
		return nil, err
	}

	proc, procErr := ps.NewProcess(int32(osPid))
	if procErr != nil {
		if !errors.Is(procErr, ps.ErrorProcessNotRunning) {
			return nil, procErr
		}
		return nil, fmt.Errorf("process with pid %d: %w", handle.Pid, ErrNotFound)
	}

	if !HasExpectedIdentityTime(proc, handle.IdentityTime) {
		actualIdentityTime := processIdentityTime(proc)

		return nil, fmt.Errorf(
			"process start time mismatch, pid %d might have been reused (expected start time %s, actual start time %s): %w",
			handle.Pid,
			handle.IdentityTime.Format(osutil.RFC3339MiliTimestampFormat),
			actualIdentityTime.Format(osutil.RFC3339MiliTimestampFormat),
			ErrNotFound,
		)
	}

	return proc, nil
}

// FindProcess returns the live os.Process for the handle. If the handle carries
// a non-zero identity time, the process start time must match within tolerance,
// otherwise ErrNotFound is returned (the PID was recycled).
func FindProcess(handle ProcessHandle) (*os.Process, error) {
	proc, err := findPsProcess(handle)
	if err != nil {
		return nil, err
	}

	return findOSProcess(int(proc.Pid))
}
