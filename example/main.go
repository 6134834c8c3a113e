// Treats the current process as the remote target: locates it in the
// process table, looks up its heap region and round-trips a value
// through the cross-process read/write path.
package main

import (
	"fmt"
	"os"
	"runtime"
	"unsafe"

	"procmem/process"
	"procmem/process_linux"
)

func main() {
	h, err := process_linux.OpenPid(process.ProcessID(os.Getpid()))
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	fmt.Printf("example process id: %d (%s)\n", h.PID(), h.Name())

	if err := h.ParseMaps(); err != nil {
		fmt.Fprintln(os.Stderr, "parse maps:", err)
		os.Exit(1)
	}

	if heap, err := h.FindRegion("[heap]", nil); err == nil {
		fmt.Printf("heap region: %s\n", heap)
	} else {
		fmt.Println("no [heap] region:", err)
	}

	// Round-trip a value through the remote transfer path.
	kindOfRemoteVar := int32(1337)
	addr := process.ProcessMemoryAddress(uintptr(unsafe.Pointer(&kindOfRemoteVar)))

	got, err := process.Read[int32](h, addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}
	fmt.Printf("kind_of_remote_var read back: %d\n", got)

	if err := process.Write[int32](h, addr, 10); err != nil {
		fmt.Fprintln(os.Stderr, "write:", err)
		os.Exit(1)
	}
	fmt.Printf("kind_of_remote_var after write: %d\n", kindOfRemoteVar)

	runtime.KeepAlive(&kindOfRemoteVar)
}
