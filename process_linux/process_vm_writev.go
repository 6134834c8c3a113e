//go:build linux

package process_linux

import (
	"unsafe"

	"procmem/process"

	"golang.org/x/sys/unix"
)

// process_vm_writev issues a single scatter-gather write request
// against the target's address space. Returns the byte count reported
// by the kernel.
func process_vm_writev(pid process.ProcessID, buf []byte, addr process.ProcessMemoryAddress) (int, error) {
	localIov := unix.Iovec{
		Base: &buf[0],
		Len:  uint64(len(buf)),
	}
	remoteIov := unix.RemoteIovec{
		Base: uintptr(addr),
		Len:  len(buf),
	}

	n, _, errno := unix.Syscall6(
		unix.SYS_PROCESS_VM_WRITEV,
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
var vmWritev = process_vm_writev

// WriteMemory writes all of data at addr in the target process with
// the same privilege and exact-count semantics as ReadMemory. There is
// no read-modify-write and no atomicity guarantee beyond what the
// single underlying transfer provides across a page boundary.
func (s *System) WriteMemory(pid process.ProcessID, addr process.ProcessMemoryAddress, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	size := process.ProcessMemorySize(len(data))

	// Copy so a concurrent caller mutating data cannot race the
	// syscall's view of the buffer.
	buf := make([]byte, len(data))
	copy(buf, data)

	n, err := vmWritev(pid, buf, addr)
	if err != nil {
		return &process.TransferError{
			Op: "write", Addr: addr, Requested: size, Err: classifyErrno(err),
		}
	}
	if n != len(data) {
		return &process.TransferError{
			Op: "write", Addr: addr, Requested: size,
			Transferred: process.ProcessMemorySize(n),
			Err:         process.ErrPartialTransfer,
		}
	}

	return nil
}
