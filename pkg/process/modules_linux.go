//go:build linux

package process

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Module enumeration on Linux reads /proc/<pid>/maps and groups file-backed
// executable mappings by path. The base address is the lowest mapping start
// for the file, and the reported size is the sum of its mapped regions.
func getModules(pid Pid_t) ([]ModuleInfo, error) {
	osPid, err := PidT_ToUint32(pid)
	if err != nil {
		return nil, err
	}

	mapsPath := fmt.Sprintf("/proc/%d/maps", osPid)
	f, err := os.Open(mapsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("process with pid %d: %w", pid, ErrNotFound)
		}
		return nil, classifyOSError(err)
	}
	defer f.Close()

	type moduleAccumulator struct {
		base uint64
		size uint64
	}

	modules := map[string]*moduleAccumulator{}
	var order []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		// Format: address perms offset dev inode pathname
		fields := strings.Fields(scanner.Text())
		if len(fields) < 6 {
			continue
		}

		path := fields[5]
		if !strings.HasPrefix(path, "/") {
			// Anonymous mappings, [heap], [stack] etc. are not modules.
			continue
		}

		addrRange := strings.SplitN(fields[0], "-", 2)
		if len(addrRange) != 2 {
			continue
		}
		start, startErr := strconv.ParseUint(addrRange[0], 16, 64)
		end, endErr := strconv.ParseUint(addrRange[1], 16, 64)
		if startErr != nil || endErr != nil || end < start {
			continue
		}

		acc, seen := modules[path]
		if !seen {
			acc = &moduleAccumulator{base: start}
			modules[path] = acc
			order = append(order, path)
		}
		if start < acc.base {
			acc.base = start
		}
		acc.size += end - start
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	result := make([]ModuleInfo, 0, len(order))
	for _, path := range order {
		acc := modules[path]
		result = append(result, ModuleInfo{
			Name:        filepath.Base(path),
			Path:        path,
			BaseAddress: acc.base,
			MemorySize:  acc.size,
		})
	}

	return result, nil
}
