package process

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fffej/corefx/pkg/testutil"
)

func delayTool(t *testing.T) string {
	t.Helper()
	path, err := testutil.DelayToolPath()
	require.NoError(t, err, "could not build the 'delay' test tool")
	return path
}

func TestRunToCompletion(t *testing.T) {
	t.Parallel()

	log := testutil.NewLogForTesting(t.Name())
	testCtx, cancel := testutil.GetTestContext(t, 20*time.Second)
	defer cancel()

	// The command will wait for 100 ms and then exit with code 12.
	config := NewStartConfig(delayTool(t), "-d", "100ms", "-e", "12")
	p := New(log, config)
	defer p.Close()

	exitCh := make(chan ExitInfo, 1)
	p.SetAutoNotify(true)
	p.Subscribe(NewChannelExitHandler(exitCh))

	preStart := time.Now()
	identity, err := p.Start(testCtx)
	require.NoError(t, err)
	assert.Greater(t, identity.Pid, Pid_t(0))
	assert.Equal(t, identity.Pid, p.Pid())
	assert.Equal(t, "delay", filepath.Base(p.Name()))

	exited, err := p.WaitForExit(10 * time.Second)
	require.NoError(t, err)
	require.True(t, exited, "process did not exit in time")
	assert.Equal(t, StateExited, p.CurrentState())

	exitCode, err := p.ExitCode()
	require.NoError(t, err)
	assert.Equal(t, int32(12), exitCode, "program exit code was not captured properly")

	exitTime, err := p.ExitTime()
	require.NoError(t, err)
	assert.False(t, exitTime.Before(preStart))

	select {
	case ei := <-exitCh:
		require.NoError(t, ei.Err)
		assert.Equal(t, int32(12), ei.ExitCode)
		assert.Equal(t, identity.Pid, ei.PID)
	case <-testCtx.Done():
		t.Fatal("timed out waiting for the exit notification")
	}

	// Killing an already-exited process is a no-op.
	require.NoError(t, p.Kill())

	// Exited is terminal: the entity cannot be started again.
	_, err = p.Start(testCtx)
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestKillRunningProcess(t *testing.T) {
	t.Parallel()

	log := testutil.NewLogForTesting(t.Name())
	testCtx, cancel := testutil.GetTestContext(t, 20*time.Second)
	defer cancel()

	// Command returns on its own after 20 seconds. This prevents the test from hanging.
	config := NewStartConfig(delayTool(t), "-d", "20s")
	p := New(log, config)
	defer p.Close()

	_, err := p.Start(testCtx)
	require.NoError(t, err)

	require.NoError(t, p.Kill())

	exited, err := p.WaitForExit(10 * time.Second)
	require.NoError(t, err)
	require.True(t, exited, "killed process was not reaped in time")

	exitCode, err := p.ExitCode()
	require.NoError(t, err)
	assert.NotEqual(t, int32(0), exitCode, "a killed process must not report success")
}

func TestWaitForExitTimeout(t *testing.T) {
	t.Parallel()

	log := testutil.NewLogForTesting(t.Name())
	testCtx, cancel := testutil.GetTestContext(t, 20*time.Second)
	defer cancel()

	config := NewStartConfig(delayTool(t), "-d", "20s")
	p := New(log, config)
	defer p.Close()

	_, err := p.Start(testCtx)
	require.NoError(t, err)

	exited, err := p.WaitForExit(100 * time.Millisecond)
	require.NoError(t, err)
	assert.False(t, exited)
	assert.Equal(t, StateRunning, p.CurrentState())

	require.NoError(t, p.Kill())
	exited, err = p.WaitForExit(10 * time.Second)
	require.NoError(t, err)
	assert.True(t, exited)
}

func TestLifecycleGuards(t *testing.T) {
	t.Parallel()

	log := testutil.NewLogForTesting(t.Name())
	p := New(log, NewStartConfig(delayTool(t), "-d", "1s"))
	defer p.Close()

	assert.Equal(t, StateNotStarted, p.CurrentState())
	assert.Equal(t, UnknownPID, p.Pid())

	_, err := p.ExitCode()
	assert.ErrorIs(t, err, ErrInvalidOperation)

	_, err = p.ExitTime()
	assert.ErrorIs(t, err, ErrInvalidOperation)

	assert.ErrorIs(t, p.Kill(), ErrInvalidOperation)
	assert.ErrorIs(t, p.Refresh(), ErrInvalidOperation)

	_, err = p.WaitForExit(time.Second)
	assert.ErrorIs(t, err, ErrInvalidOperation)

	_, err = p.MemoryCounters()
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestStartWithoutConfig(t *testing.T) {
	t.Parallel()

	log := testutil.NewLogForTesting(t.Name())
	testCtx, cancel := testutil.GetTestContext(t, 10*time.Second)
	defer cancel()

	p := New(log, nil)
	defer p.Close()

	_, err := p.Start(testCtx)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

// A failed start reverts the entity to NotStarted so it can be reconfigured
// and started again.
func TestFailedStartIsRetryable(t *testing.T) {
	t.Parallel()

	log := testutil.NewLogForTesting(t.Name())
	testCtx, cancel := testutil.GetTestContext(t, 20*time.Second)
	defer cancel()

	p := New(log, NewStartConfig(filepath.Join(t.TempDir(), "no-such-program")))
	defer p.Close()

	_, err := p.Start(testCtx)
	require.Error(t, err)
	assert.Equal(t, StateNotStarted, p.CurrentState())

	require.NoError(t, p.SetConfig(NewStartConfig(delayTool(t), "-d", "1ms")))

	_, err = p.Start(testCtx)
	require.NoError(t, err)

	exited, err := p.WaitForExit(10 * time.Second)
	require.NoError(t, err)
	assert.True(t, exited)
}

func TestSetConfigAfterStart(t *testing.T) {
	t.Parallel()

	log := testutil.NewLogForTesting(t.Name())
	testCtx, cancel := testutil.GetTestContext(t, 20*time.Second)
	defer cancel()

	p := New(log, NewStartConfig(delayTool(t), "-d", "20s"))
	defer p.Close()

	_, err := p.Start(testCtx)
	require.NoError(t, err)

	err = p.SetConfig(NewStartConfig("something-else"))
	assert.ErrorIs(t, err, ErrInvalidOperation)

	require.NoError(t, p.Kill())
	exited, err := p.WaitForExit(10 * time.Second)
	require.NoError(t, err)
	require.True(t, exited)
}

func TestCloseDisablesEntity(t *testing.T) {
	t.Parallel()

	log := testutil.NewLogForTesting(t.Name())
	testCtx, cancel := testutil.GetTestContext(t, 20*time.Second)
	defer cancel()

	p := New(log, NewStartConfig(delayTool(t), "-d", "20s"))

	_, err := p.Start(testCtx)
	require.NoError(t, err)
	require.NoError(t, p.Kill())

	require.NoError(t, p.Close())
	require.NoError(t, p.Close(), "Close must be idempotent")

	assert.ErrorIs(t, p.Kill(), ErrInvalidOperation)
	assert.ErrorIs(t, p.Refresh(), ErrInvalidOperation)

	_, err = p.Start(testCtx)
	assert.ErrorIs(t, err, ErrInvalidOperation)

	_, err = p.MemoryCounters()
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestCapturedOutput(t *testing.T) {
	t.Parallel()

	log := testutil.NewLogForTesting(t.Name())
	testCtx, cancel := testutil.GetTestContext(t, 20*time.Second)
	defer cancel()

	config := NewStartConfig(delayTool(t), "-d", "50ms")
	var stdout bytes.Buffer
	config.Stdout = &stdout

	p := New(log, config)
	defer p.Close()

	_, err := p.Start(testCtx)
	require.NoError(t, err)

	exited, err := p.WaitForExit(10 * time.Second)
	require.NoError(t, err)
	require.True(t, exited)

	assert.Contains(t, stdout.String(), "Ran to completion")
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "not-started", StateNotStarted.String())
	assert.Equal(t, "starting", StateStarting.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "exited", StateExited.String())
	assert.Equal(t, "unknown", State(42).String())
}
