//go:build windows

package process

import (
	"errors"
	"fmt"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Module enumeration on Windows walks a Toolhelp module snapshot.
// The snapshot API does not expose entry points, so EntryPoint stays zero.
func getModules(pid Pid_t) ([]ModuleInfo, error) {
	osPid, err := PidT_ToUint32(pid)
	if err != nil {
		return nil, err
	}

	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPMODULE|windows.TH32CS_SNAPMODULE32, osPid)
	if err != nil {
		if errors.Is(err, windows.ERROR_INVALID_PARAMETER) {
			return nil, fmt.Errorf("process with pid %d: %w", pid, ErrNotFound)
		}
		return nil, classifyOSError(err)
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ModuleEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	var result []ModuleInfo
	err = windows.Module32First(snapshot, &entry)
	for err == nil {
		path := windows.UTF16ToString(entry.ExePath[:])
		result = append(result, ModuleInfo{
			Name:        filepath.Base(path),
			Path:        path,
			BaseAddress: uint64(entry.ModBaseAddr),
			MemorySize:  uint64(entry.ModBaseSize),
		})
		err = windows.Module32Next(snapshot, &entry)
	}
	if !errors.Is(err, windows.ERROR_NO_MORE_FILES) {
		return nil, classifyOSError(err)
	}

	return result, nil
}
