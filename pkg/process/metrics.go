package process

import (
	"fmt"
	"time"
)

// Getter and setter surface over the cached metric snapshot. Getters read the
// snapshot captured by the last Refresh (or Start/attach) and never query the
// OS implicitly; setters validate, apply the change to the OS at assignment
// time, and patch the cached snapshot so a read-after-write returns the value
// just set without an intervening Refresh.

func (p *Process) currentSnapshotLocked() (*Snapshot, error) {
	switch {
	case p.closed:
		return nil, fmt.Errorf("process entity is closed: %w", ErrInvalidOperation)
	case p.state == StateNotStarted || p.state == StateStarting:
		return nil, fmt.Errorf("the process has not been started: %w", ErrInvalidOperation)
	case p.snapshot == nil:
		return nil, fmt.Errorf("no metrics have been captured for process %d, call Refresh first: %w", p.handle.Pid, ErrInvalidOperation)
	}
	return p.snapshot, nil
}

// checkControllableLocked guards every control operation: the entity must be
// local, open and Running.
func (p *Process) checkControllableLocked() error {
	switch {
	case !p.host.IsLocal():
		return fmt.Errorf("control operations are not available for processes on remote host %q: %w", p.host, ErrNotSupported)
	case p.closed:
		return fmt.Errorf("process entity is closed: %w", ErrInvalidOperation)
	case p.state == StateExited:
		return fmt.Errorf("the process has exited: %w", ErrInvalidOperation)
	case p.state != StateRunning:
		return fmt.Errorf("the process is not running: %w", ErrInvalidOperation)
	}
	return nil
}

// MemoryCounters returns the memory counters from the current snapshot.
func (p *Process) MemoryCounters() (MemoryCounters, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap, err := p.currentSnapshotLocked()
	if err != nil {
		return MemoryCounters{}, err
	}
	return snap.Memory, nil
}

// CPUTimes returns the processor time splits from the current snapshot.
func (p *Process) CPUTimes() (CPUTimes, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap, err := p.currentSnapshotLocked()
	if err != nil {
		return CPUTimes{}, err
	}
	return snap.CPU, nil
}

// SessionID returns the OS session the process belongs to.
func (p *Process) SessionID() (uint32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap, err := p.currentSnapshotLocked()
	if err != nil {
		return 0, err
	}
	return snap.SessionID, nil
}

// Modules returns the modules loaded into the process, from the current
// snapshot. Platforms without module enumeration report ErrNotSupported.
func (p *Process) Modules() ([]ModuleInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap, err := p.currentSnapshotLocked()
	if err != nil {
		return nil, err
	}
	return snap.Modules()
}

// SnapshotTime returns the time the current snapshot was captured.
func (p *Process) SnapshotTime() (time.Time, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap, err := p.currentSnapshotLocked()
	if err != nil {
		return time.Time{}, err
	}
	return snap.TakenAt, nil
}

// Priority returns the abstract priority level from the current snapshot.
func (p *Process) Priority() (PriorityLevel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap, err := p.currentSnapshotLocked()
	if err != nil {
		return PriorityNormal, err
	}
	return snap.Priority, nil
}

// SetPriority changes the scheduling priority of the running process.
// An unrecognized level fails with ErrInvalidArgument before any OS call;
// insufficient privilege surfaces as ErrPermission.
func (p *Process) SetPriority(level PriorityLevel) error {
	if err := checkPriorityLevel(level); err != nil {
		return err
	}

	p.mu.Lock()
	if err := p.checkControllableLocked(); err != nil {
		p.mu.Unlock()
		return err
	}
	pid := p.handle.Pid
	p.mu.Unlock()

	if err := setPriority(pid, level); err != nil {
		return err
	}

	p.mu.Lock()
	if p.snapshot != nil {
		p.snapshot.Priority = level
	}
	p.mu.Unlock()
	return nil
}

// ProcessorAffinity returns the processor affinity mask from the current snapshot.
func (p *Process) ProcessorAffinity() (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap, err := p.currentSnapshotLocked()
	if err != nil {
		return 0, err
	}
	return snap.Affinity, nil
}

// SetProcessorAffinity restricts the process to the logical processors set in
// the mask. An empty mask fails with ErrInvalidArgument before any OS call.
func (p *Process) SetProcessorAffinity(mask uint64) error {
	if mask == 0 {
		return fmt.Errorf("processor affinity mask must have at least one processor set: %w", ErrInvalidArgument)
	}

	p.mu.Lock()
	if err := p.checkControllableLocked(); err != nil {
		p.mu.Unlock()
		return err
	}
	pid := p.handle.Pid
	p.mu.Unlock()

	if err := setAffinity(pid, mask); err != nil {
		return err
	}

	p.mu.Lock()
	if p.snapshot != nil {
		p.snapshot.Affinity = mask
	}
	p.mu.Unlock()
	return nil
}

// WorkingSetLimits returns the working-set bounds from the current snapshot.
// On platforms without working-set quotas both bounds are zero there; use
// SetWorkingSetLimits to find out whether the concept is supported.
func (p *Process) WorkingSetLimits() (minBytes uint64, maxBytes uint64, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap, err := p.currentSnapshotLocked()
	if err != nil {
		return 0, 0, err
	}
	return snap.WorkingSetMin, snap.WorkingSetMax, nil
}

// SetWorkingSetLimits sets the working-set bounds of the running process,
// in bytes. It fails with ErrNotSupported on platforms without the concept.
func (p *Process) SetWorkingSetLimits(minBytes uint64, maxBytes uint64) error {
	if minBytes > maxBytes {
		return fmt.Errorf("working set minimum %d exceeds maximum %d: %w", minBytes, maxBytes, ErrInvalidArgument)
	}

	p.mu.Lock()
	if err := p.checkControllableLocked(); err != nil {
		p.mu.Unlock()
		return err
	}
	pid := p.handle.Pid
	p.mu.Unlock()

	if err := setWorkingSetLimits(pid, minBytes, maxBytes); err != nil {
		return err
	}

	p.mu.Lock()
	if p.snapshot != nil {
		p.snapshot.WorkingSetMin = minBytes
		p.snapshot.WorkingSetMax = maxBytes
	}
	p.mu.Unlock()
	return nil
}

// PriorityBoost reports whether the OS temporarily boosts the process
// priority on wake-up. Windows only; elsewhere ErrNotSupported.
func (p *Process) PriorityBoost() (bool, error) {
	p.mu.Lock()
	if err := p.checkControllableLocked(); err != nil {
		p.mu.Unlock()
		return false, err
	}
	pid := p.handle.Pid
	p.mu.Unlock()

	return getPriorityBoost(pid)
}

// SetPriorityBoost enables or disables the wake-up priority boost.
// Windows only; elsewhere ErrNotSupported.
func (p *Process) SetPriorityBoost(enabled bool) error {
	p.mu.Lock()
	if err := p.checkControllableLocked(); err != nil {
		p.mu.Unlock()
		return err
	}
	pid := p.handle.Pid
	p.mu.Unlock()

	return setPriorityBoost(pid, enabled)
}
