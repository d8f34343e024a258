package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/fffej/corefx/pkg/maps"
	"github.com/fffej/corefx/pkg/resiliency"
	"github.com/fffej/corefx/pkg/slices"
)

const defaultWaitPollInterval = 2 * time.Second

// ExitHandler receives the exit notification for a watched process.
// If err is nil, the exit code was properly captured and the exitCode value is valid;
// otherwise there was a problem tracking the process and the exitCode value is not valid.
type ExitHandler interface {
	OnProcessExited(pid Pid_t, exitCode int32, err error)
}

// Make it easy to supply a function as a process exit handler.
type ExitHandlerFunc func(Pid_t, int32, error)

func (f ExitHandlerFunc) OnProcessExited(pid Pid_t, exitCode int32, err error) {
	f(pid, exitCode, err)
}

// ExitInfo is the terminal status of a process, as delivered over a channel
// by ChannelExitHandler.
type ExitInfo struct {
	PID      Pid_t
	ExitCode int32
	Err      error
}

// ChannelExitHandler is a simple process exit handler that writes the finished
// process status to a channel and closes it.
type ChannelExitHandler struct {
	c chan ExitInfo
}

func NewChannelExitHandler(c chan ExitInfo) *ChannelExitHandler {
	return &ChannelExitHandler{c: c}
}

func (eh *ChannelExitHandler) OnProcessExited(pid Pid_t, exitCode int32, err error) {
	eh.c <- ExitInfo{PID: pid, ExitCode: exitCode, Err: err}
	close(eh.c)
}

// exitWatcher is the single background waiter attached to a Running process.
// There is at most one OS-level wait per handle; WaitForExit callers and exit
// subscribers all fan out from it in-process.
type exitWatcher struct {
	exited    chan struct{} // closed strictly after the Exited state is committed
	delivered bool          // at-most-once notification guard, under Process.mu
	ctx       context.Context
	cancel    context.CancelFunc
}

// AutoNotify reports whether exit callbacks are delivered automatically.
func (p *Process) AutoNotify() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.autoNotify
}

// SetAutoNotify controls background exit watching. When enabled on a Running
// process, a watcher is started immediately; when left disabled (the default)
// subscribed handlers are never called and callers must poll or use
// WaitForExit.
func (p *Process) SetAutoNotify(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.autoNotify = enabled
	if enabled && p.state == StateRunning && !p.closed {
		p.ensureWatcherLocked()
	}
}

// Subscribe registers an exit handler and returns a token for Unsubscribe.
// Handlers fire at most once per process lifetime, only when auto-notify is
// enabled, and always on a dedicated goroutine, so they may safely call back
// into the Process.
func (p *Process) Subscribe(handler ExitHandler) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextSubID++
	p.subscribers[p.nextSubID] = handler
	return p.nextSubID
}

// Unsubscribe removes a previously registered exit handler.
func (p *Process) Unsubscribe(token int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.subscribers, token)
}

// ensureWatcherLocked starts the single background waiter for this process if
// it is not running yet. Callers must hold p.mu.
func (p *Process) ensureWatcherLocked() *exitWatcher {
	if p.watcher != nil {
		return p.watcher
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &exitWatcher{
		exited: make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
	p.watcher = w

	go p.watch(w)
	return w
}

func (p *Process) watch(w *exitWatcher) {
	exitCode, exitCodeKnown, waitErr := p.waitForTermination(w.ctx)
	if w.ctx.Err() != nil && waitErr != nil {
		// The entity was closed while the process was still running;
		// there is no exit to report.
		return
	}
	exitTime := time.Now()

	p.mu.Lock()
	if p.state != StateExited {
		p.state = StateExited
		p.exitCode = exitCode
		p.exitCodeKnown = exitCodeKnown
		p.exitTime = exitTime
	}
	deliver := p.autoNotify && !p.closed && !w.delivered && len(p.subscribers) > 0
	var handlers []ExitHandler
	if deliver {
		w.delivered = true
		handlers = slices.Map(maps.Keys(p.subscribers), func(id int) ExitHandler {
			return p.subscribers[id]
		})
	}
	pid := p.handle.Pid
	log := p.log
	p.mu.Unlock()

	// State is committed before anyone is woken up: a WaitForExit that returns
	// true, or a callback that fires, always observes Exited with stable
	// exit code and time.
	close(w.exited)

	if !deliver {
		return
	}

	go func() {
		defer func() {
			if panicVal := recover(); panicVal != nil {
				_ = resiliency.MakePanicError(panicVal, log)
			}
		}()

		var notifyErr error
		if !exitCodeKnown {
			notifyErr = waitErr
			if notifyErr == nil {
				notifyErr = fmt.Errorf("exit code of process %d was not observable: %w", pid, ErrNotSupported)
			}
		}
		for _, h := range handlers {
			h.OnProcessExited(pid, exitCode, notifyErr)
		}
	}()
}

// waitForTermination blocks until the underlying OS process terminates.
// For processes this package started, it reaps the child and captures the
// exit code. For attached processes it waits on the OS reference and falls
// back to liveness polling when the OS refuses to wait on a non-child
// (the ECHILD case).
func (p *Process) waitForTermination(ctx context.Context) (int32, bool, error) {
	p.mu.Lock()
	cmd := p.cmd
	proc := p.osProc
	handle := p.handle
	p.mu.Unlock()

	if cmd != nil {
		waitErr := cmd.Wait()
		return exitCodeFromWait(waitErr, cmd)
	}

	if proc == nil {
		return UnknownExitCode, false, fmt.Errorf("process entity has no OS reference: %w", ErrInvalidOperation)
	}

	state, waitErr := proc.Wait()
	if waitErr == nil && state != nil {
		// Waiting on non-children succeeds on Windows, where the handle wait
		// also yields the exit code.
		return int32(state.ExitCode()), true, nil
	}

	var errno syscall.Errno
	if errors.As(waitErr, &errno) && errno == syscall.ECHILD {
		return p.pollUntilGone(ctx, handle)
	}
	if errors.Is(waitErr, os.ErrProcessDone) {
		return UnknownExitCode, false, nil
	}

	return UnknownExitCode, false, waitErr
}

func (p *Process) pollUntilGone(ctx context.Context, handle ProcessHandle) (int32, bool, error) {
	timer := time.NewTimer(defaultWaitPollInterval)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			if _, err := FindProcess(handle); err != nil {
				// The PID is gone (or recycled): the process has exited.
				// The exit code of a non-child is not observable here.
				return UnknownExitCode, false, nil
			}
			timer.Reset(defaultWaitPollInterval)

		case <-ctx.Done():
			return UnknownExitCode, false, ctx.Err()
		}
	}
}

// Returns the process exit code depending on the result of the command wait call.
func exitCodeFromWait(waitErr error, cmd *exec.Cmd) (int32, bool, error) {
	var ee *exec.ExitError
	switch {
	case waitErr == nil:
		return int32(cmd.ProcessState.ExitCode()), true, nil
	case errors.As(waitErr, &ee):
		return int32(ee.ExitCode()), true, nil
	default:
		return UnknownExitCode, false, waitErr
	}
}
