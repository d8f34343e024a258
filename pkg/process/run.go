package process

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"
)

// Run starts the process described by config and blocks until it exits,
// returning the captured exit code. Cancelling the context requests forced
// termination; Run still waits for the process to be fully reaped before
// returning, so do not assume it returns quickly after cancellation.
func Run(ctx context.Context, log logr.Logger, config *StartConfig) (int32, error) {
	p := New(log, config)
	defer p.Close()

	exitCh := make(chan ExitInfo, 1)
	p.SetAutoNotify(true)
	p.Subscribe(NewChannelExitHandler(exitCh))

	if _, err := p.Start(ctx); err != nil {
		return UnknownExitCode, err
	}

	select {
	case <-ctx.Done():
		if err := p.Kill(); err != nil && !errors.Is(err, ErrInvalidOperation) {
			return UnknownExitCode, errors.Join(err, ctx.Err())
		}
		// Only return when the process exit is observed, not merely
		// because the context was cancelled.
		exitInfo := <-exitCh
		return exitInfo.ExitCode, errors.Join(exitInfo.Err, ctx.Err())

	case exitInfo := <-exitCh:
		return exitInfo.ExitCode, exitInfo.Err
	}
}

// RunWithTimeout runs the command to completion unless the timeout elapses
// first, in which case the process is killed and context.DeadlineExceeded is
// returned alongside whatever exit status was captured.
func RunWithTimeout(ctx context.Context, log logr.Logger, config *StartConfig, timeout time.Duration) (int32, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return Run(timeoutCtx, log, config)
}
