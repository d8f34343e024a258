//go:build linux

package process

import (
	"golang.org/x/sys/unix"
)

// The affinity mask covers the first 64 logical processors, which matches the
// Windows process affinity mask width.
func getAffinity(pid Pid_t) (uint64, error) {
	osPid, err := PidT_ToInt(pid)
	if err != nil {
		return 0, err
	}

	var set unix.CPUSet
	if err := unix.SchedGetaffinity(osPid, &set); err != nil {
		return 0, classifyOSError(err)
	}

	var mask uint64
	for cpu := 0; cpu < 64; cpu++ {
		if set.IsSet(cpu) {
			mask |= 1 << uint(cpu)
		}
	}

	return mask, nil
}

func setAffinity(pid Pid_t, mask uint64) error {
	osPid, err := PidT_ToInt(pid)
	if err != nil {
		return err
	}

	var set unix.CPUSet
	for cpu := 0; cpu < 64; cpu++ {
		if mask&(1<<uint(cpu)) != 0 {
			set.Set(cpu)
		}
	}

	if err := unix.SchedSetaffinity(osPid, &set); err != nil {
		return classifyOSError(err)
	}

	return nil
}
