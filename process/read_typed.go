package process

import (
	"unsafe"
)

// Read reads a single value of type T from addr in the target process.
// The transfer size is the static size of T, computed here at the call
// site; nothing about the remote layout is consulted.
func Read[T any](h *Handle, addr ProcessMemoryAddress) (T, error) {
	var value T
	size := ProcessMemorySize(unsafe.Sizeof(value))
	if size == 0 {
		return value, nil
	}

	data, err := h.ReadMemory(addr, size)
	if err != nil {
		return value, err
	}

	copy(unsafe.Slice((*byte)(unsafe.Pointer(&value)), size), data)
	return value, nil
}

// Write writes a single value of type T at addr in the target process.
// The transfer size is the static size of T.
func Write[T any](h *Handle, addr ProcessMemoryAddress, value T) error {
	size := unsafe.Sizeof(value)
	if size == 0 {
		return nil
	}

	data := make([]byte, size)
	copy(data, unsafe.Slice((*byte)(unsafe.Pointer(&value)), size))
	return h.WriteMemory(addr, data)
}
