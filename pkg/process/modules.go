package process

// ModuleInfo describes one executable module (binary or shared library)
// loaded into a process. EntryPoint is zero on platforms that do not expose it.
type ModuleInfo struct {
	// Name is the file name of the module without directories.
	Name string

	// Path is the full on-disk path of the module.
	Path string

	// BaseAddress is the address the module is loaded at.
	BaseAddress uint64

	// EntryPoint is the address of the module entry point, or zero if unknown.
	EntryPoint uint64

	// MemorySize is the amount of address space the module occupies, in bytes.
	MemorySize uint64
}
