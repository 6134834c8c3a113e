//go:build linux

package process_linux

import (
	"errors"
	"os"
	"testing"
	"unsafe"

	"procmem/process"
	"procmem/process/memmap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// Package scope keeps the buffer out of any movable goroutine stack.
var roundTripBuf [32]byte

func selfPid() process.ProcessID {
	return process.ProcessID(os.Getpid())
}

func TestSelfRoundTrip(t *testing.T) {
	sys := NewSystem()
	addr := process.ProcessMemoryAddress(uintptr(unsafe.Pointer(&roundTripBuf[0])))

	want := []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01, 0x02, 0x03}
	err := sys.WriteMemory(selfPid(), addr, want)
	if errors.Is(err, process.ErrPermissionDenied) || errors.Is(err, unix.ENOSYS) {
		t.Skip("process_vm_writev not available in this environment")
	}
	require.NoError(t, err)

	assert.Equal(t, want, roundTripBuf[:len(want)], "write landed in the local buffer")

	got, err := sys.ReadMemory(selfPid(), addr, process.ProcessMemorySize(len(want)))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTypedSelfRoundTrip(t *testing.T) {
	h, err := OpenPid(selfPid())
	require.NoError(t, err)

	addr := process.ProcessMemoryAddress(uintptr(unsafe.Pointer(&roundTripBuf[8])))
	if err := process.Write[uint32](h, addr, 1337); errors.Is(err, process.ErrPermissionDenied) || errors.Is(err, unix.ENOSYS) {
		t.Skip("process_vm_writev not available in this environment")
	} else {
		require.NoError(t, err)
	}

	got, err := process.Read[uint32](h, addr)
	require.NoError(t, err)
	assert.Equal(t, uint32(1337), got)
}

func TestShortReadReportedAsPartialTransfer(t *testing.T) {
	orig := vmReadv
	vmReadv = func(_ process.ProcessID, buf []byte, _ process.ProcessMemoryAddress) (int, error) {
		return len(buf) / 2, nil
	}
	defer func() { vmReadv = orig }()

	sys := NewSystem()
	buf, err := sys.ReadMemory(selfPid(), 0x1000, 8)
	require.Error(t, err)
	assert.Nil(t, buf)
	assert.ErrorIs(t, err, process.ErrPartialTransfer)

	var transfer *process.TransferError
	require.ErrorAs(t, err, &transfer)
	assert.Equal(t, "read", transfer.Op)
	assert.Equal(t, process.ProcessMemorySize(8), transfer.Requested)
	assert.Equal(t, process.ProcessMemorySize(4), transfer.Transferred)
}

func TestShortWriteReportedAsPartialTransfer(t *testing.T) {
	orig := vmWritev
	vmWritev = func(_ process.ProcessID, buf []byte, _ process.ProcessMemoryAddress) (int, error) {
		return len(buf) - 1, nil
	}
	defer func() { vmWritev = orig }()

	sys := NewSystem()
	err := sys.WriteMemory(selfPid(), 0x1000, []byte{1, 2, 3, 4})
	require.Error(t, err)
	assert.ErrorIs(t, err, process.ErrPartialTransfer)

	var transfer *process.TransferError
	require.ErrorAs(t, err, &transfer)
	assert.Equal(t, "write", transfer.Op)
	assert.Equal(t, process.ProcessMemorySize(4), transfer.Requested)
	assert.Equal(t, process.ProcessMemorySize(3), transfer.Transferred)
}

func TestPrivilegeErrnoClassified(t *testing.T) {
	orig := vmReadv
	vmReadv = func(process.ProcessID, []byte, process.ProcessMemoryAddress) (int, error) {
		return 0, unix.EPERM
	}
	defer func() { vmReadv = orig }()

	sys := NewSystem()
	_, err := sys.ReadMemory(1, 0x1000, 4)
	assert.ErrorIs(t, err, process.ErrPermissionDenied)
}

func TestPidsIncludesSelf(t *testing.T) {
	sys := NewSystem()
	pids, err := sys.Pids()
	require.NoError(t, err)
	assert.Contains(t, pids, selfPid())

	// Ascending order.
	for i := 1; i < len(pids); i++ {
		require.Less(t, pids[i-1], pids[i])
	}
}

func TestCommSelf(t *testing.T) {
	sys := NewSystem()
	comm, err := sys.Comm(selfPid())
	require.NoError(t, err)
	require.NotEmpty(t, comm)
	assert.Equal(t, byte('\n'), comm[len(comm)-1], "comm is newline-terminated")
}

func TestSelfMapsParseAndQuery(t *testing.T) {
	h, err := OpenPid(selfPid())
	require.NoError(t, err)
	require.NoError(t, h.ParseMaps())

	regions, err := h.Regions()
	require.NoError(t, err)
	require.NotEmpty(t, regions)

	addr := process.ProcessMemoryAddress(uintptr(unsafe.Pointer(&roundTripBuf[0])))
	region, err := h.FindRegionAt(addr)
	require.NoError(t, err)
	assert.True(t, region.Permissions.Readable)
	assert.True(t, region.Permissions.Writeable)

	_, err = h.FindRegion("no-such-mapping.so", nil)
	assert.ErrorIs(t, err, memmap.ErrRegionNotFound)
}
