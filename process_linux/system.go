//go:build linux

// Package process_linux implements the process.System capabilities on
// Linux, backed by the proc filesystem and the process_vm_readv /
// process_vm_writev syscalls.
package process_linux

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"procmem/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// System implements process.System against a proc filesystem root.
type System struct {
	procRoot string
	log      *logger.Logger
}

// NewSystem returns a System reading the standard /proc mount.
func NewSystem() *System {
	return NewSystemAt("/proc")
}

// NewSystemAt returns a System reading an alternate proc root, e.g.
// a bind-mounted host /proc inside a container.
func NewSystemAt(procRoot string) *System {
	return &System{
		procRoot: procRoot,
		log:      logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "procfs")),
	}
}

// Pids lists the numerically-named entries of the proc root in
// ascending pid order.
func (s *System) Pids() ([]process.ProcessID, error) {
	entries, err := os.ReadDir(s.procRoot)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.procRoot, err)
	}

	pids := make([]process.ProcessID, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil || pid <= 0 {
			continue // not a PID dir
		}
		pids = append(pids, process.ProcessID(pid))
	}

	// ReadDir sorts lexically; put the table back in pid order.
	sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })

	return pids, nil
}

// Comm returns the raw contents of /proc/<pid>/comm, newline included.
func (s *System) Comm(pid process.ProcessID) (string, error) {
	b, err := os.ReadFile(filepath.Join(s.procRoot, strconv.Itoa(int(pid)), "comm"))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// OpenMaps opens /proc/<pid>/maps for reading.
func (s *System) OpenMaps(pid process.ProcessID) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.procRoot, strconv.Itoa(int(pid)), "maps"))
}

// OpenByName resolves name against /proc and returns a handle to the
// first match, logging the outcome.
func OpenByName(name string) (*process.Handle, error) {
	sys := NewSystem()
	h, err := process.Open(sys, name)
	if err != nil {
		sys.log.Warn("Failed to locate process: ", err)
		return nil, err
	}
	sys.log.Infoln(fmt.Sprintf("Located process %q with pid %d", h.Name(), h.PID()))
	return h, nil
}

// OpenPid returns a handle for a known pid.
func OpenPid(pid process.ProcessID) (*process.Handle, error) {
	return process.OpenPid(NewSystem(), pid)
}
