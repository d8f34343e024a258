package process

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	ps "github.com/shirou/gopsutil/v4/process"

	"github.com/fffej/corefx/pkg/osutil"
	"github.com/fffej/corefx/pkg/slices"
)

// Directory enumerates and looks up processes visible at the OS level. It
// holds no state beyond a logger; every call is an independent observation.
//
// Remote hosts: the kernel interfaces this package uses only reach the local
// machine, so any non-local host argument fails fast with ErrNotSupported.
// Entities carrying a remote host field reject control operations the same way,
// which keeps the public contract uniform should a remote provider appear.
type Directory struct {
	log logr.Logger
}

func NewDirectory(log logr.Logger) *Directory {
	return &Directory{log: log.WithName("process-directory")}
}

// ListAll enumerates every process visible on the host. A process that
// vanishes mid-enumeration is omitted; per-entry metric failures never abort
// the whole listing.
func (d *Directory) ListAll(host Host) ([]*Process, error) {
	if !host.IsLocal() {
		return nil, fmt.Errorf("cannot enumerate processes on remote host %q: %w", host, ErrNotSupported)
	}

	procs, err := ps.Processes()
	if err != nil {
		return nil, fmt.Errorf("could not enumerate processes: %w", classifyOSError(err))
	}

	result := make([]*Process, 0, len(procs))
	for _, proc := range procs {
		entity, attachErr := d.attach(proc, host)
		if attachErr != nil {
			// The process exited between enumeration and identity capture.
			d.log.V(2).Info("skipping vanished process", "PID", proc.Pid)
			continue
		}
		result = append(result, entity)
	}

	return result, nil
}

// FindByName returns the processes whose executable-derived name equals the
// given name, compared case-insensitively. On Windows the comparison ignores
// a trailing ".exe" on either side.
func (d *Directory) FindByName(name string, host Host) ([]*Process, error) {
	all, err := d.ListAll(host)
	if err != nil {
		return nil, err
	}

	wanted := nameFromExecutable(name)
	return slices.Select(all, func(p *Process) bool {
		return strings.EqualFold(p.Name(), wanted)
	}), nil
}

// GetByID resolves a live process by id. It fails with ErrNotFound if no live
// process has that id on the host at call time.
func (d *Directory) GetByID(pid Pid_t, host Host) (*Process, error) {
	if !host.IsLocal() {
		return nil, fmt.Errorf("cannot look up processes on remote host %q: %w", host, ErrNotSupported)
	}

	osPid, err := PidT_ToUint32(pid)
	if err != nil {
		return nil, err
	}

	proc, err := ps.NewProcess(int32(osPid))
	if err != nil {
		return nil, fmt.Errorf("process with pid %d: %w", pid, ErrNotFound)
	}

	return d.attach(proc, host)
}

// Current returns an entity representing the calling process itself.
// It always succeeds and is always Running until process exit.
func (d *Directory) Current() (*Process, error) {
	self, err := thisProcess()
	if err != nil {
		return nil, err
	}

	osPid, err := PidT_ToUint32(self.Pid)
	if err != nil {
		return nil, err
	}

	proc, err := ps.NewProcess(int32(osPid))
	if err != nil {
		return nil, fmt.Errorf("could not observe the current process: %w", err)
	}

	return d.attach(proc, Localhost)
}

// attach builds a Running entity around an existing OS process. The entity
// has no start configuration and cannot be (re)started.
func (d *Directory) attach(proc *ps.Process, host Host) (*Process, error) {
	pid := Uint32_ToPidT(uint32(proc.Pid))
	handle := NewProcessHandle(pid, processIdentityTime(proc))

	osProc, err := findOSProcess(int(proc.Pid))
	if err != nil {
		return nil, err
	}

	name, err := proc.Name()
	if err != nil {
		name = ""
	}

	p := New(d.log, nil)
	p.host = host
	p.name = nameFromExecutable(name)
	p.attached = true
	p.state = StateRunning
	p.handle = handle
	p.osProc = osProc
	p.startTime = StartTimeForProcess(pid)

	// First observation is best effort; enumeration races with process exit.
	if snap, snapErr := collectSnapshot(handle); snapErr == nil {
		p.snapshot = snap
	}

	return p, nil
}

var thisProcess = sync.OnceValues(func() (ProcessHandle, error) {
	osPid := os.Getpid()
	pid := Uint32_ToPidT(uint32(osPid))

	proc, err := ps.NewProcess(int32(osPid))
	if err != nil {
		return ProcessHandle{Pid: UnknownPID}, err
	}

	return NewProcessHandle(pid, processIdentityTime(proc)), nil
})

func init() {
	// Boot time feeds process creation timestamps; caching it keeps repeated
	// identity-time lookups cheap.
	ps.EnableBootTimeCache(true)
}

// nameFromExecutable derives the comparable process name from an executable
// path or name: the final path element, with the ".exe" extension stripped on
// Windows.
func nameFromExecutable(fileName string) string {
	name := fileName
	if idx := strings.LastIndexAny(name, `/\`); idx >= 0 {
		name = name[idx+1:]
	}
	if osutil.IsWindows() {
		name = strings.TrimSuffix(strings.TrimSuffix(name, ".exe"), ".EXE")
	}
	return name
}
