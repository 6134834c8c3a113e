//go:build linux

package process_linux

import (
	"unsafe"

	"procmem/process"

	"golang.org/x/sys/unix"
)

// process_vm_readv issues a single scatter-gather read request against
// the target's address space: one local iovec over buf, one remote
// iovec at addr. Returns the byte count reported by the kernel.
func process_vm_readv(pid process.ProcessID, buf []byte, addr process.ProcessMemoryAddress) (int, error) {
	localIov := unix.Iovec{
		Base: &buf[0],
		Len:  uint64(len(buf)),
	}
	remoteIov := unix.RemoteIovec{
		Base: uintptr(addr),
		Len:  len(buf),
	}

	n, _, errno := unix.Syscall6(
		unix.SYS_PROCESS_VM_READV,
		uintptr(pid),                        // Remote process PID
		uintptr(unsafe.Pointer(&localIov)),  // Local iovec
		uintptr(1),                          // Number of local iovecs
		uintptr(unsafe.Pointer(&remoteIov)), // Remote iovec
		uintptr(1),                          // Number of remote iovecs
		uintptr(0),                          // Flags (reserved for future use)
	)

	if errno != 0 {
		return 0, errno
	}

	return int(n), nil
}

// Indirection for tests that need to script kernel-reported counts.
var vmReadv = process_vm_readv

// ReadMemory reads exactly size bytes at addr in the target process.
// Requires ptrace-equivalent privilege over the target; a short read
// (e.g. straddling an unmapped page) fails with ErrPartialTransfer and
// returns no buffer. No retry is attempted.
func (s *System) ReadMemory(pid process.ProcessID, addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}

	buf := make([]byte, size)
	n, err := vmReadv(pid, buf, addr)
	if err != nil {
		return nil, &process.TransferError{
			Op: "read", Addr: addr, Requested: size, Err: classifyErrno(err),
		}
	}
	if n != int(size) {
		return nil, &process.TransferError{
			Op: "read", Addr: addr, Requested: size,
			Transferred: process.ProcessMemorySize(n),
			Err:         process.ErrPartialTransfer,
		}
	}

	return buf, nil
}

// classifyErrno maps privilege errnos onto the permission sentinel so
// callers can match with errors.Is. Other errnos pass through.
func classifyErrno(err error) error {
	if err == unix.EPERM || err == unix.EACCES {
		return process.ErrPermissionDenied
	}
	return err
}
