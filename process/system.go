package process

import (
	"io"
)

// InfoProvider exposes the OS process table and per-process resources.
// The Linux implementation walks /proc; tests substitute an in-memory
// synthetic table.
type InfoProvider interface {
	// Pids lists every live process id in enumeration order.
	Pids() ([]ProcessID, error)

	// Comm returns the kernel-recorded short name of a process,
	// possibly newline-terminated. The OS truncates it beyond a fixed
	// length (historically 16 characters).
	Comm(pid ProcessID) (string, error)

	// OpenMaps opens the line-oriented memory-map resource for a
	// process. The caller closes it.
	OpenMaps(pid ProcessID) (io.ReadCloser, error)
}

// MemoryAccessor performs sized cross-process memory transfers. It is
// independent of the region model: addresses are not validated against
// any memory map before the transfer is issued.
type MemoryAccessor interface {
	// ReadMemory reads exactly size bytes at addr in the target
	// process. A transfer that moves fewer bytes fails with
	// ErrPartialTransfer instead of returning a truncated buffer.
	ReadMemory(pid ProcessID, addr ProcessMemoryAddress, size ProcessMemorySize) ([]byte, error)

	// WriteMemory writes all of data at addr in the target process
	// with the same exact-count semantics as ReadMemory.
	WriteMemory(pid ProcessID, addr ProcessMemoryAddress, data []byte) error
}

// System bundles the capabilities a Handle needs from the OS.
type System interface {
	InfoProvider
	MemoryAccessor
}
