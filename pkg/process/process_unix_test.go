//go:build !windows

package process

import (
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fffej/corefx/pkg/testutil"
)

// Tests that processes that ignore SIGTERM can still be terminated.
// Run on Unix-like systems only, because Windows does not have signals.
func TestKillIgnoresSigterm(t *testing.T) {
	t.Parallel()

	log := testutil.NewLogForTesting(t.Name())
	testCtx, cancel := testutil.GetTestContext(t, 30*time.Second)
	defer cancel()

	// Command returns on its own after 20 seconds. This prevents the test from hanging.
	p := New(log, NewStartConfig(delayTool(t), "-d", "20s", "--ignore-sigterm"))
	defer p.Close()

	_, err := p.Start(testCtx)
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, p.Kill())
	exited, err := p.WaitForExit(10 * time.Second)
	require.NoError(t, err)
	require.True(t, exited)
	if time.Since(start) > 10*time.Second {
		t.Fatal("process was not terminated timely")
	}
}

func TestNewProcessGroup(t *testing.T) {
	t.Parallel()

	log := testutil.NewLogForTesting(t.Name())
	testCtx, cancel := testutil.GetTestContext(t, 30*time.Second)
	defer cancel()

	config := NewStartConfig(delayTool(t), "-d", "20s")
	config.NewProcessGroup = true
	p := New(log, config)
	defer p.Close()

	_, err := p.Start(testCtx)
	require.NoError(t, err)

	osPid, err := PidT_ToInt(p.Pid())
	require.NoError(t, err)

	// The child leads its own process group.
	pgid, err := syscall.Getpgid(osPid)
	require.NoError(t, err)
	assert.Equal(t, osPid, pgid)

	require.NoError(t, p.Kill())
	exited, err := p.WaitForExit(10 * time.Second)
	require.NoError(t, err)
	require.True(t, exited)
}

// Attach to a process this test did not start (so the OS refuses to wait on
// it) and verify that termination is still observed, by polling. The exit
// code of a non-child is not observable and must say so.
func TestAttachedNonChildKillAndWait(t *testing.T) {
	t.Parallel()

	log := testutil.NewLogForTesting(t.Name())

	// The shell exits immediately, orphaning the delay process.
	script := fmt.Sprintf("%s -d 60s >/dev/null 2>&1 & echo $!", delayTool(t))
	out, err := exec.Command("/bin/sh", "-c", script).Output()
	require.NoError(t, err)

	pid, err := StringToPidT(strings.TrimSpace(string(out)))
	require.NoError(t, err)

	dir := NewDirectory(log)
	p, err := dir.GetByID(pid, Localhost)
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.Kill())

	exited, err := p.WaitForExit(15 * time.Second)
	require.NoError(t, err)
	require.True(t, exited, "exit of a non-child process was not observed")
	assert.Equal(t, StateExited, p.CurrentState())

	_, err = p.ExitCode()
	assert.ErrorIs(t, err, ErrNotSupported)

	exitTime, err := p.ExitTime()
	require.NoError(t, err)
	assert.False(t, exitTime.IsZero())
}
