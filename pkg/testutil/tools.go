package testutil

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
)

var buildDelayTool = sync.OnceValues(func() (string, error) {
	rootDir, err := FindRootFor(DirTarget, "test", "delay")
	if err != nil {
		return "", fmt.Errorf("could not locate the 'delay' test tool sources: %w", err)
	}

	outDir, err := os.MkdirTemp("", "delaytool")
	if err != nil {
		return "", err
	}

	exeName := "delay"
	if runtime.GOOS == "windows" {
		exeName += ".exe"
	}
	exePath := filepath.Join(outDir, exeName)

	cmd := exec.Command("go", "build", "-o", exePath, "./test/delay")
	cmd.Dir = rootDir
	if out, buildErr := cmd.CombinedOutput(); buildErr != nil {
		return "", fmt.Errorf("could not build the 'delay' test tool: %w\n%s", buildErr, out)
	}

	return exePath, nil
})

// DelayToolPath builds (once per test binary) and returns the path to the
// 'delay' helper executable used by process lifecycle tests.
func DelayToolPath() (string, error) {
	return buildDelayTool()
}
