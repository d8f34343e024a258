package process

import (
	"fmt"
	"time"
)

// MemoryCounters holds per-process memory metrics in bytes. Counters that the
// current platform does not track are zero.
type MemoryCounters struct {
	Resident     uint64 // bytes currently resident in physical memory (working set)
	PeakResident uint64 // high-water mark of Resident, zero where not tracked
	Virtual      uint64 // virtual address space size
	Paged        uint64 // paged pool usage, zero outside Windows
	Private      uint64 // private (non-shared) bytes, zero where not tracked
	Swap         uint64 // bytes swapped out
}

// CPUTimes holds the processor time consumed by a process, split by mode.
type CPUTimes struct {
	User       time.Duration
	Privileged time.Duration
}

func (t CPUTimes) Total() time.Duration {
	return t.User + t.Privileged
}

// Snapshot is one atomically-replaced observation of a live process.
// Readers always see a complete snapshot: Refresh either fully replaces the
// previous one or fails and leaves it intact.
type Snapshot struct {
	Memory        MemoryCounters
	CPU           CPUTimes
	Priority      PriorityLevel
	Affinity      uint64
	WorkingSetMin uint64
	WorkingSetMax uint64
	SessionID     uint32
	TakenAt       time.Time

	modules    []ModuleInfo
	modulesErr error
}

// Modules returns the module list captured with the snapshot.
// Platforms without module enumeration report ErrNotSupported rather than an
// empty list, so "no modules" and "cannot query" stay distinguishable.
func (s *Snapshot) Modules() ([]ModuleInfo, error) {
	if s.modulesErr != nil {
		return nil, s.modulesErr
	}
	return s.modules, nil
}

// collectSnapshot queries the OS for every tracked metric of the process and
// returns a fully-populated snapshot. Memory and CPU queries are mandatory;
// their failure fails the whole collection. Metrics that are meaningless on
// the current platform are left at their zero sentinel.
func collectSnapshot(handle ProcessHandle) (*Snapshot, error) {
	proc, err := findPsProcess(handle)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{TakenAt: time.Now()}

	memInfo, err := proc.MemoryInfo()
	if err != nil {
		return nil, fmt.Errorf("could not query memory counters for process %d: %w", handle.Pid, err)
	}
	snap.Memory = MemoryCounters{
		Resident:     memInfo.RSS,
		PeakResident: memInfo.HWM,
		Virtual:      memInfo.VMS,
		Private:      memInfo.Data,
		Swap:         memInfo.Swap,
	}

	cpuTimes, err := proc.Times()
	if err != nil {
		return nil, fmt.Errorf("could not query processor times for process %d: %w", handle.Pid, err)
	}
	snap.CPU = CPUTimes{
		User:       time.Duration(cpuTimes.User * float64(time.Second)),
		Privileged: time.Duration(cpuTimes.System * float64(time.Second)),
	}

	// The remaining metrics are optional: platforms that lack a concept report
	// the documented zero sentinel instead of failing the refresh.
	snap.Priority = PriorityNormal
	if level, err := getPriority(handle.Pid); err == nil {
		snap.Priority = level
	}

	if mask, err := getAffinity(handle.Pid); err == nil {
		snap.Affinity = mask
	}

	if minBytes, maxBytes, err := getWorkingSetLimits(handle.Pid); err == nil {
		snap.WorkingSetMin = minBytes
		snap.WorkingSetMax = maxBytes
	}

	if sessionID, err := getSessionID(handle.Pid); err == nil {
		snap.SessionID = sessionID
	}

	// Module enumeration failures are captured in the snapshot so that the
	// Modules getter can report them without invalidating the other metrics.
	snap.modules, snap.modulesErr = getModules(handle.Pid)

	return snap, nil
}
