package process

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fffej/corefx/pkg/testutil"
)

func TestRunCompleted(t *testing.T) {
	t.Parallel()

	log := testutil.NewLogForTesting(t.Name())
	testCtx, cancel := testutil.GetTestContext(t, 20*time.Second)
	defer cancel()

	// The command will wait for 300 ms and then exit with code 12.
	config := NewStartConfig(delayTool(t), "-d", "300ms", "-e", "12")

	exitCode, err := Run(testCtx, log, config)
	require.NoError(t, err, "program execution failed unexpectedly")
	assert.Equal(t, int32(12), exitCode, "program exit code was not captured properly")
}

// Tests that the process is terminated when the context expires.
func TestRunDeadlineExceeded(t *testing.T) {
	t.Parallel()

	log := testutil.NewLogForTesting(t.Name())

	// Command returns on its own after 20 seconds. This prevents the test from hanging.
	config := NewStartConfig(delayTool(t), "-d", "20s")

	ctx, cancelFn := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancelFn()

	start := time.Now()
	_, err := Run(ctx, log, config)
	elapsed := time.Since(start)

	require.True(t, errors.Is(err, context.DeadlineExceeded))
	if elapsed > 5*time.Second {
		t.Fatal("process was not terminated timely")
	}
}

// Tests that the process is terminated when the context is manually cancelled.
func TestRunCancelled(t *testing.T) {
	t.Parallel()

	log := testutil.NewLogForTesting(t.Name())

	config := NewStartConfig(delayTool(t), "-d", "20s")

	ctx, cancelFn := context.WithCancel(context.Background())
	go func() {
		time.Sleep(300 * time.Millisecond)
		cancelFn()
	}()

	start := time.Now()
	_, err := Run(ctx, log, config)
	elapsed := time.Since(start)

	require.True(t, errors.Is(err, context.Canceled))
	if elapsed > 5*time.Second {
		t.Fatal("process was not terminated timely")
	}
}

func TestRunWithTimeout(t *testing.T) {
	t.Parallel()

	log := testutil.NewLogForTesting(t.Name())
	testCtx, cancel := testutil.GetTestContext(t, 30*time.Second)
	defer cancel()

	exitCode, err := RunWithTimeout(testCtx, log, NewStartConfig(delayTool(t), "-d", "50ms"), 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int32(0), exitCode)

	_, err = RunWithTimeout(testCtx, log, NewStartConfig(delayTool(t), "-d", "20s"), 500*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
