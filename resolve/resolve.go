// Package resolve turns raw remote reads into addresses: rel32
// displacements found in instruction streams and chains of pointers.
// It consumes only the public read contract of a process handle and
// assumes a little-endian target.
package resolve

import (
	"encoding/binary"
	"errors"
	"fmt"

	"procmem/process"
)

// ErrNilPointer is returned when a pointer read along a chain is zero.
var ErrNilPointer = errors.New("nil pointer in chain")

// MemoryReader is the subset of a process handle the resolvers need.
type MemoryReader interface {
	ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error)
}

// AbsoluteAddress reads a 32-bit little-endian displacement disp bytes
// past addr and resolves it against the instruction at addr: the
// result is displacement + addr + width, where width is the encoded
// length of the instruction.
func AbsoluteAddress(r MemoryReader, addr process.ProcessMemoryAddress, disp, width process.ProcessMemorySize) (process.ProcessMemoryAddress, error) {
	buf, err := r.ReadMemory(addr+process.ProcessMemoryAddress(disp), 4)
	if err != nil {
		return 0, fmt.Errorf("read displacement at %s+%d: %w", addr, uint(disp), err)
	}

	value := binary.LittleEndian.Uint32(buf)
	return process.ProcessMemoryAddress(value) + addr + process.ProcessMemoryAddress(width), nil
}

// CallTarget resolves the destination of a 5-byte rel32 call
// instruction at addr: the displacement sits one byte past the opcode
// and is relative to the following instruction.
func CallTarget(r MemoryReader, addr process.ProcessMemoryAddress) (process.ProcessMemoryAddress, error) {
	return AbsoluteAddress(r, addr, 1, 5)
}

// PointerChain walks 64-bit pointers starting at base: for each offset
// but the last it reads the pointer at the current address plus that
// offset and follows it. The final offset is added without a read, so
// the result is the address of the value, not the value itself. A zero
// pointer anywhere along the chain fails with ErrNilPointer.
func PointerChain(r MemoryReader, base process.ProcessMemoryAddress, offsets ...process.ProcessMemorySize) (process.ProcessMemoryAddress, error) {
	addr := base
	for i := 0; i < len(offsets)-1; i++ {
		at := addr + process.ProcessMemoryAddress(offsets[i])
		buf, err := r.ReadMemory(at, 8)
		if err != nil {
			return 0, fmt.Errorf("read pointer %d at %s: %w", i, at, err)
		}
		ptr := binary.LittleEndian.Uint64(buf)
		if ptr == 0 {
			return 0, fmt.Errorf("pointer %d at %s: %w", i, at, ErrNilPointer)
		}
		addr = process.ProcessMemoryAddress(ptr)
	}

	if len(offsets) > 0 {
		addr += process.ProcessMemoryAddress(offsets[len(offsets)-1])
	}
	return addr, nil
}
