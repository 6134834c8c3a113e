package process

import (
	"errors"
	"fmt"
)

var (
	// ErrProcessNotFound is returned when no live process matches the
	// requested name.
	ErrProcessNotFound = errors.New("process not found")

	// ErrEnumerationFailed is returned when the process table itself
	// cannot be listed. Individual unreadable entries are skipped and
	// do not produce this error.
	ErrEnumerationFailed = errors.New("process enumeration failed")

	// ErrNotMapped is returned by region accessors before the first
	// successful ParseMaps call on a handle.
	ErrNotMapped = errors.New("memory regions not mapped")

	// ErrPermissionDenied is returned when the caller lacks
	// ptrace-equivalent privilege over the target process.
	ErrPermissionDenied = errors.New("remote memory access not permitted")

	// ErrPartialTransfer is returned when the kernel reports fewer
	// bytes moved than requested. No partial buffer is returned.
	ErrPartialTransfer = errors.New("partial memory transfer")
)

// LookupError describes a failed process lookup by name.
type LookupError struct {
	Name string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("locate process %q: %v", e.Name, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// TransferError describes a failed cross-process memory transfer.
// Requested and Transferred carry the exact byte counts so callers can
// tell a short transfer from an outright syscall failure.
type TransferError struct {
	Op          string // "read" or "write"
	Addr        ProcessMemoryAddress
	Requested   ProcessMemorySize
	Transferred ProcessMemorySize
	Err         error
}

func (e *TransferError) Error() string {
	if errors.Is(e.Err, ErrPartialTransfer) {
		return fmt.Sprintf("%s at %s: %v: %d of %d bytes",
			e.Op, e.Addr, e.Err, uint(e.Transferred), uint(e.Requested))
	}
	return fmt.Sprintf("%s %s at %s: %v", e.Op, e.Requested, e.Addr, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }
