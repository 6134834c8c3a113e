package process

import (
	"fmt"
	"strings"

	"procmem/process/memmap"
)

// Handle is an open view of a running process: its pid, its recorded
// name and, after ParseMaps, a snapshot of its memory regions.
//
// pid and name never change after construction. The region snapshot is
// plain mutable state with no internal locking: concurrent ParseMaps
// and region queries on the same handle are a data race unless the
// caller serializes them.
type Handle struct {
	pid  ProcessID
	name string
	sys  System

	// Region snapshot lifecycle: unmapped until the first successful
	// ParseMaps, then replaced wholesale on every later success.
	mapped  bool
	regions memmap.Map
}

// Open resolves name against the process table and returns a handle to
// the first match in enumeration order. Entries whose name cannot be
// read (the process exited mid-walk, or its comm is unreadable) are
// skipped. When several processes share the name only the first is
// ever returned.
func Open(sys System, name string) (*Handle, error) {
	pids, err := sys.Pids()
	if err != nil {
		return nil, &LookupError{Name: name, Err: fmt.Errorf("%w: %w", ErrEnumerationFailed, err)}
	}

	for _, pid := range pids {
		comm, err := sys.Comm(pid)
		if err != nil {
			// Raced with process exit, or unreadable entry. Not fatal.
			continue
		}
		if trimmed := strings.TrimRight(comm, " \t\r\n"); trimmed == name {
			return &Handle{pid: pid, name: trimmed, sys: sys}, nil
		}
	}

	return nil, &LookupError{Name: name, Err: ErrProcessNotFound}
}

// OpenPid returns a handle for a known pid, reading its recorded name
// from the process table.
func OpenPid(sys System, pid ProcessID) (*Handle, error) {
	comm, err := sys.Comm(pid)
	if err != nil {
		return nil, fmt.Errorf("read name of pid %d: %w", pid, err)
	}
	return &Handle{pid: pid, name: strings.TrimRight(comm, " \t\r\n"), sys: sys}, nil
}

// PID returns the process id.
func (h *Handle) PID() ProcessID { return h.pid }

// Name returns the recorded process name.
func (h *Handle) Name() string { return h.name }

// ParseMaps reads and parses the memory-map resource for the process
// and replaces the region snapshot. The replacement is all-or-nothing:
// on any parse or read failure the previous snapshot (or its absence)
// is left untouched.
func (h *Handle) ParseMaps() error {
	r, err := h.sys.OpenMaps(h.pid)
	if err != nil {
		return fmt.Errorf("open maps for pid %d: %w: %w", h.pid, memmap.ErrIO, err)
	}
	regions, err := memmap.Parse(r)
	r.Close()
	if err != nil {
		return fmt.Errorf("parse maps for pid %d: %w", h.pid, err)
	}

	h.regions = regions
	h.mapped = true
	return nil
}

// Regions returns the current region snapshot in OS enumeration order.
// It fails with ErrNotMapped before the first successful ParseMaps.
func (h *Handle) Regions() (memmap.Map, error) {
	if !h.mapped {
		return nil, ErrNotMapped
	}
	return h.regions, nil
}

// FindRegion returns the first region whose basename equals name,
// optionally requiring its permissions to match perms exactly. See
// memmap.Map.FindFirstByName for the exact match rules.
func (h *Handle) FindRegion(name string, perms *memmap.Permissions) (*memmap.Region, error) {
	if !h.mapped {
		return nil, ErrNotMapped
	}
	return h.regions.FindFirstByName(name, perms)
}

// FindRegionAt returns the first region containing addr. The upper
// bound is inclusive: a region's End address is considered contained.
func (h *Handle) FindRegionAt(addr ProcessMemoryAddress) (*memmap.Region, error) {
	if !h.mapped {
		return nil, ErrNotMapped
	}
	return h.regions.FindContaining(uint64(addr))
}

// ReadMemory reads size bytes at addr in the target process. The
// target keeps running during the transfer, so the bytes may be stale
// by the time the caller looks at them.
func (h *Handle) ReadMemory(addr ProcessMemoryAddress, size ProcessMemorySize) ([]byte, error) {
	return h.sys.ReadMemory(h.pid, addr, size)
}

// WriteMemory writes data at addr in the target process. The write is
// a single transfer with no read-modify-write and no atomicity
// guarantee across page boundaries.
func (h *Handle) WriteMemory(addr ProcessMemoryAddress, data []byte) error {
	return h.sys.WriteMemory(h.pid, addr, data)
}
