package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/go-logr/logr"
	ps "github.com/tklauser/ps"
)

// Identity pins down one OS process: a PID is unique only within a host and
// time window, so the creation timestamp disambiguates recycled PIDs.
type Identity struct {
	Pid       Pid_t
	StartTime time.Time
	Host      Host
}

// Process is the aggregate over one OS process: lifecycle control, cached
// metrics and exit notification. It is safe for concurrent use.
type Process struct {
	log logr.Logger

	mu       sync.Mutex
	host     Host
	name     string
	state    State
	config   *StartConfig
	attached bool
	closed   bool

	handle    ProcessHandle
	osProc    *os.Process
	cmd       *exec.Cmd
	startTime time.Time

	snapshot *Snapshot

	autoNotify  bool
	subscribers map[int]ExitHandler
	nextSubID   int

	watcher *exitWatcher

	exitCode      int32
	exitCodeKnown bool
	exitTime      time.Time
}

// New creates a Process in the NotStarted state with the given start
// configuration. The configuration may be nil and assigned later via SetConfig.
func New(log logr.Logger, config *StartConfig) *Process {
	p := &Process{
		log:         log.WithName("process"),
		state:       StateNotStarted,
		subscribers: map[int]ExitHandler{},
		exitCode:    UnknownExitCode,
	}
	if config != nil {
		p.config = config.clone()
	}
	return p
}

// CurrentState returns the lifecycle state at the time of the call.
func (p *Process) CurrentState() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Pid returns the process id, or UnknownPID before a successful Start.
func (p *Process) Pid() Pid_t {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle.Pid == 0 {
		return UnknownPID
	}
	return p.handle.Pid
}

// Name returns the executable-derived process name (extension-stripped on
// Windows), or an empty string before Start.
func (p *Process) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.name
}

// HostName returns the host this entity was resolved against.
func (p *Process) HostName() Host {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.host
}

// Identity returns the identity triple of the underlying OS process.
func (p *Process) Identity() Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Identity{Pid: p.handle.Pid, StartTime: p.startTime, Host: p.host}
}

// Handle returns the handle (PID plus identity time) of the process.
func (p *Process) Handle() ProcessHandle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handle
}

// Config returns a copy of the captured start configuration, or nil for
// attached entities.
func (p *Process) Config() *StartConfig {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.config == nil {
		return nil
	}
	return p.config.clone()
}

// SetConfig assigns the start configuration. It is only valid before the
// first successful Start and never on attached entities.
func (p *Process) SetConfig(config *StartConfig) error {
	if err := config.validate(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.attached {
		return fmt.Errorf("cannot set start configuration on a process attached by id: %w", ErrInvalidOperation)
	}
	if p.state != StateNotStarted {
		return fmt.Errorf("start configuration is read-only once the process has started: %w", ErrInvalidOperation)
	}

	p.config = config.clone()
	return nil
}

// Start creates the OS process described by the captured configuration.
// The context bounds process creation only; cancelling it later does not
// affect the running process.
//
// Start blocks for the duration of the OS creation call. On failure the
// entity returns to NotStarted and may be started again.
func (p *Process) Start(ctx context.Context) (Identity, error) {
	p.mu.Lock()

	switch {
	case p.closed:
		p.mu.Unlock()
		return Identity{}, fmt.Errorf("process entity is closed: %w", ErrInvalidOperation)
	case p.state == StateExited:
		p.mu.Unlock()
		return Identity{}, fmt.Errorf("the process has already exited and cannot be restarted: %w", ErrInvalidOperation)
	case p.state != StateNotStarted:
		p.mu.Unlock()
		return Identity{}, fmt.Errorf("the process is already started: %w", ErrInvalidOperation)
	}

	if err := p.config.validate(); err != nil {
		p.mu.Unlock()
		return Identity{}, err
	}
	if err := ctx.Err(); err != nil {
		p.mu.Unlock()
		return Identity{}, err
	}

	config := p.config
	p.state = StateStarting
	p.mu.Unlock()

	cmd, err := buildCmd(config)
	if err == nil {
		err = cmd.Start()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.state = StateNotStarted
		return Identity{}, fmt.Errorf("could not start %q: %w", config.FileName, classifyOSError(err))
	}

	pid := Uint32_ToPidT(uint32(cmd.Process.Pid))
	startTime := time.Now()
	if psProc, psErr := ps.FindProcess(cmd.Process.Pid); psErr == nil {
		// This is what the OS process startup timestamp is, so it is the most accurate value we can get.
		startTime = psProc.CreationTime()
	} else {
		p.log.V(1).Info("could not find process startup time", "PID", pid)
	}

	p.cmd = cmd
	p.osProc = cmd.Process
	p.handle = NewProcessHandle(pid, ProcessIdentityTime(pid))
	p.startTime = startTime
	p.name = nameFromExecutable(config.FileName)
	p.state = StateRunning

	// First observation; refresh failures here are not fatal, the process may
	// have exited already.
	if snap, snapErr := collectSnapshot(p.handle); snapErr == nil {
		p.snapshot = snap
	}

	if p.autoNotify {
		p.ensureWatcherLocked()
	}

	p.log.V(1).Info("process started", "PID", pid, "name", p.name)
	return Identity{Pid: pid, StartTime: startTime, Host: p.host}, nil
}

func buildCmd(config *StartConfig) (*exec.Cmd, error) {
	cmd := exec.Command(config.FileName, config.Args...)
	cmd.Dir = config.Dir
	cmd.Stdout = config.Stdout
	cmd.Stderr = config.Stderr
	cmd.Stdin = config.Stdin
	if config.NewProcessGroup {
		decoupleFromParent(cmd)
	}

	env, err := config.environment()
	if err != nil {
		return nil, err
	}
	cmd.Env = env

	return cmd, nil
}

// Kill requests forced termination of the process. It does not wait for the
// transition to Exited; use WaitForExit for that. Killing an already-exited
// process is a no-op, and a kill racing a natural exit reports success.
func (p *Process) Kill() error {
	p.mu.Lock()

	switch {
	case p.closed:
		p.mu.Unlock()
		return fmt.Errorf("process entity is closed: %w", ErrInvalidOperation)
	case !p.host.IsLocal():
		p.mu.Unlock()
		return fmt.Errorf("cannot kill a process on remote host %q: %w", p.host, ErrNotSupported)
	case p.state == StateExited:
		p.mu.Unlock()
		return nil
	case p.state != StateRunning:
		p.mu.Unlock()
		return fmt.Errorf("the process is not running: %w", ErrInvalidOperation)
	}

	proc := p.osProc
	// Make sure somebody reaps the exit status.
	p.ensureWatcherLocked()
	p.mu.Unlock()

	err := proc.Kill()
	if err != nil && !isProcessGoneError(err) {
		return classifyOSError(err)
	}

	return nil
}

// WaitForExit blocks until the process exits or the timeout elapses.
// A negative timeout means wait indefinitely. It returns (true, nil) once the
// process has fully exited at the OS level (exit code and time are then
// populated and stable), (false, nil) if it is still running when the timeout
// elapses, and (false, err) if the entity is not in a waitable state.
func (p *Process) WaitForExit(timeout time.Duration) (bool, error) {
	p.mu.Lock()

	switch {
	case p.closed:
		p.mu.Unlock()
		return false, fmt.Errorf("process entity is closed: %w", ErrInvalidOperation)
	case p.state == StateExited:
		p.mu.Unlock()
		return true, nil
	case p.state != StateRunning:
		p.mu.Unlock()
		return false, fmt.Errorf("the process is not running: %w", ErrInvalidOperation)
	}

	w := p.ensureWatcherLocked()
	p.mu.Unlock()

	if timeout < 0 {
		select {
		case <-w.exited:
			return true, nil
		case <-w.ctx.Done():
			return w.exitedOrClosedError()
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-w.exited:
		return true, nil
	case <-w.ctx.Done():
		return w.exitedOrClosedError()
	case <-timer.C:
		return false, nil
	}
}

// A close racing the exit notification: report the exit if it was committed,
// otherwise the disposal error.
func (w *exitWatcher) exitedOrClosedError() (bool, error) {
	select {
	case <-w.exited:
		return true, nil
	default:
		return false, fmt.Errorf("process entity was closed while waiting: %w", ErrInvalidOperation)
	}
}

// Refresh re-queries the OS for every tracked metric and atomically replaces
// the cached snapshot. It either fully succeeds or leaves the previous
// snapshot intact. In the Exited state the final snapshot is frozen and
// Refresh is a no-op.
func (p *Process) Refresh() error {
	p.mu.Lock()

	switch {
	case p.closed:
		p.mu.Unlock()
		return fmt.Errorf("process entity is closed: %w", ErrInvalidOperation)
	case !p.host.IsLocal():
		p.mu.Unlock()
		return fmt.Errorf("cannot refresh metrics of a process on remote host %q: %w", p.host, ErrNotSupported)
	case p.state == StateExited:
		p.mu.Unlock()
		return nil
	case p.state != StateRunning:
		p.mu.Unlock()
		return fmt.Errorf("the process has not been started: %w", ErrInvalidOperation)
	}

	handle := p.handle
	p.mu.Unlock()

	snap, err := collectSnapshot(handle)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateRunning {
		p.snapshot = snap
	}
	return nil
}

// Close releases the OS-level handle reference. It never terminates the
// underlying process; a Close before exit notification suppresses delivery.
// Closing an already-closed entity is a no-op.
func (p *Process) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	if p.watcher != nil {
		p.watcher.cancel()
	}

	// Release the OS reference only when no waiter holds it; the watcher
	// goroutine drops its reference when it observes cancellation.
	if p.watcher == nil && p.osProc != nil && p.cmd == nil {
		_ = p.osProc.Release()
	}
	p.osProc = nil
	p.snapshot = nil

	return nil
}

// ExitCode returns the exit code of the terminated process. Reading it before
// termination fails with ErrInvalidOperation. For attached processes whose
// exit status the OS did not deliver to this process, it fails with
// ErrNotSupported.
func (p *Process) ExitCode() (int32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateExited {
		return UnknownExitCode, fmt.Errorf("the process has not exited yet: %w", ErrInvalidOperation)
	}
	if !p.exitCodeKnown {
		return UnknownExitCode, fmt.Errorf("exit code of process %d was not observable: %w", p.handle.Pid, ErrNotSupported)
	}
	return p.exitCode, nil
}

// ExitTime returns the time the process was observed to have terminated.
// Reading it before termination fails with ErrInvalidOperation.
func (p *Process) ExitTime() (time.Time, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateExited {
		return time.Time{}, fmt.Errorf("the process has not exited yet: %w", ErrInvalidOperation)
	}
	return p.exitTime, nil
}

func isProcessGoneError(err error) bool {
	return errors.Is(err, os.ErrProcessDone) || errors.Is(err, ErrNotFound)
}
