package process

import (
	"errors"
	"io/fs"
	"os"
	"syscall"
)

var (
	// A malformed input: unrecognized priority level, empty affinity mask, nil configuration.
	ErrInvalidArgument = errors.New("invalid argument")

	// The operation is not valid in the current lifecycle state,
	// e.g. a second Start, or reading the exit code before termination.
	ErrInvalidOperation = errors.New("operation is not valid in the current process state")

	// No live process matches the requested id or name
	// (also returned when the OS has recycled a PID to a different process).
	ErrNotFound = errors.New("process does not exist")

	// The operation is meaningless on the current platform, or was attempted
	// against a remote-resolved process.
	ErrNotSupported = errors.New("operation is not supported on this platform or host")

	// The OS rejected the operation due to insufficient privilege.
	ErrPermission = errors.New("insufficient operating system privilege")

	// The process host could not be reached.
	ErrHostUnreachable = errors.New("could not communicate with the process host")
)

// Classifies an OS-level error as ErrPermission where appropriate,
// otherwise returns it unchanged.
func classifyOSError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrPermission) || errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, syscall.EPERM) || errors.Is(err, syscall.EACCES) {
		return errors.Join(ErrPermission, err)
	}

	return err
}
