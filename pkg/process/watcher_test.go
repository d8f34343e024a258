package process

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fffej/corefx/pkg/testutil"
)

// Subscribed handlers must stay silent unless auto-notify is enabled.
func TestNoNotificationWithoutAutoNotify(t *testing.T) {
	t.Parallel()

	log := testutil.NewLogForTesting(t.Name())
	testCtx, cancel := testutil.GetTestContext(t, 20*time.Second)
	defer cancel()

	p := New(log, NewStartConfig(delayTool(t), "-d", "50ms"))
	defer p.Close()

	var calls atomic.Int32
	p.Subscribe(ExitHandlerFunc(func(Pid_t, int32, error) {
		calls.Add(1)
	}))

	_, err := p.Start(testCtx)
	require.NoError(t, err)

	exited, err := p.WaitForExit(10 * time.Second)
	require.NoError(t, err)
	require.True(t, exited)

	// Give a wrongly-started delivery goroutine a chance to run.
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestNotificationDeliveredExactlyOnce(t *testing.T) {
	t.Parallel()

	log := testutil.NewLogForTesting(t.Name())
	testCtx, cancel := testutil.GetTestContext(t, 20*time.Second)
	defer cancel()

	p := New(log, NewStartConfig(delayTool(t), "-d", "50ms", "-e", "7"))
	defer p.Close()

	var calls atomic.Int32
	exitCh := make(chan ExitInfo, 2)
	p.SetAutoNotify(true)
	p.Subscribe(ExitHandlerFunc(func(pid Pid_t, exitCode int32, err error) {
		calls.Add(1)
		exitCh <- ExitInfo{PID: pid, ExitCode: exitCode, Err: err}
	}))

	_, err := p.Start(testCtx)
	require.NoError(t, err)

	select {
	case ei := <-exitCh:
		require.NoError(t, ei.Err)
		assert.Equal(t, int32(7), ei.ExitCode)
	case <-testCtx.Done():
		t.Fatal("timed out waiting for the exit notification")
	}

	// The handler observes the committed terminal state.
	assert.Equal(t, StateExited, p.CurrentState())
	exitCode, err := p.ExitCode()
	require.NoError(t, err)
	assert.Equal(t, int32(7), exitCode)

	// No second delivery, and extra waiters do not re-trigger one.
	exited, err := p.WaitForExit(time.Second)
	require.NoError(t, err)
	require.True(t, exited)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestUnsubscribedHandlerNotCalled(t *testing.T) {
	t.Parallel()

	log := testutil.NewLogForTesting(t.Name())
	testCtx, cancel := testutil.GetTestContext(t, 20*time.Second)
	defer cancel()

	p := New(log, NewStartConfig(delayTool(t), "-d", "100ms"))
	defer p.Close()

	var removedCalls, keptCalls atomic.Int32
	p.SetAutoNotify(true)
	token := p.Subscribe(ExitHandlerFunc(func(Pid_t, int32, error) {
		removedCalls.Add(1)
	}))
	exitCh := make(chan ExitInfo, 1)
	p.Subscribe(ExitHandlerFunc(func(pid Pid_t, exitCode int32, err error) {
		keptCalls.Add(1)
		exitCh <- ExitInfo{PID: pid, ExitCode: exitCode, Err: err}
	}))
	p.Unsubscribe(token)

	_, err := p.Start(testCtx)
	require.NoError(t, err)

	select {
	case <-exitCh:
	case <-testCtx.Done():
		t.Fatal("timed out waiting for the exit notification")
	}

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), removedCalls.Load())
	assert.Equal(t, int32(1), keptCalls.Load())
}

// Disposing the entity before the process exits suppresses the notification.
func TestCloseSuppressesNotification(t *testing.T) {
	t.Parallel()

	log := testutil.NewLogForTesting(t.Name())
	testCtx, cancel := testutil.GetTestContext(t, 20*time.Second)
	defer cancel()

	p := New(log, NewStartConfig(delayTool(t), "-d", "20s"))

	var calls atomic.Int32
	p.SetAutoNotify(true)
	p.Subscribe(ExitHandlerFunc(func(Pid_t, int32, error) {
		calls.Add(1)
	}))

	_, err := p.Start(testCtx)
	require.NoError(t, err)

	// Dispose the entity first so the suppression is committed before the
	// exit can possibly be observed, then reap the OS process directly.
	handle := p.Handle()
	require.NoError(t, p.Close())

	proc, err := FindProcess(handle)
	require.NoError(t, err)
	require.NoError(t, proc.Kill())

	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

// A panicking exit handler must not take down the process or block other
// handlers from being invoked.
func TestPanickingHandlerIsContained(t *testing.T) {
	t.Parallel()

	log := testutil.NewLogForTesting(t.Name())
	testCtx, cancel := testutil.GetTestContext(t, 20*time.Second)
	defer cancel()

	p := New(log, NewStartConfig(delayTool(t), "-d", "50ms"))
	defer p.Close()

	p.SetAutoNotify(true)
	p.Subscribe(ExitHandlerFunc(func(Pid_t, int32, error) {
		panic("exit handler gone wrong")
	}))

	_, err := p.Start(testCtx)
	require.NoError(t, err)

	exited, err := p.WaitForExit(10 * time.Second)
	require.NoError(t, err)
	assert.True(t, exited)
	time.Sleep(200 * time.Millisecond)
}
