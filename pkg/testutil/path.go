package testutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type PathFindTarget int

const (
	FileTarget PathFindTarget = 1
	DirTarget  PathFindTarget = 2
)

// FindRootFor walks up the directory hierarchy from the current working
// directory and returns the first ancestor that contains the given path tail
// (a file or a directory, per target). Tests use it to locate repository
// assets regardless of which package directory they run from.
func FindRootFor(target PathFindTarget, tailElem ...string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	for {
		candidate := filepath.Join(append([]string{dir}, tailElem...)...)
		info, statErr := os.Stat(candidate)
		switch {
		case statErr == nil:
			if info.IsDir() == (target == DirTarget) {
				return dir, nil
			}
		case !errors.Is(statErr, fs.ErrNotExist):
			return "", fmt.Errorf("could not check for existence of path '%s': %w", candidate, statErr)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("path ending with '%s' not found", filepath.Join(tailElem...))
		}
		dir = parent
	}
}
