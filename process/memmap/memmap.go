// Package memmap models the per-process memory-map resource: parsing
// its line-oriented text into regions and answering ordered queries
// over the result.
package memmap

import (
	"fmt"
	"strings"
)

// AnonymousName is the basename reported for regions with no backing
// path.
const AnonymousName = "[anonymous_region]"

// Permissions describes how pages in a region can be accessed. For a
// region with permission field "r-xp", Readable and Executable are
// true while Writeable and Shared are false. Compared by value.
type Permissions struct {
	Readable   bool
	Writeable  bool
	Executable bool
	Shared     bool
}

// String renders the permissions in the maps-file format, e.g. "rw-p".
func (p Permissions) String() string {
	var b [4]byte
	b[0], b[1], b[2], b[3] = '-', '-', '-', 'p'
	if p.Readable {
		b[0] = 'r'
	}
	if p.Writeable {
		b[1] = 'w'
	}
	if p.Executable {
		b[2] = 'x'
	}
	if p.Shared {
		b[3] = 's'
	}
	return string(b[:])
}

// ParsePermissions parses a permission field positionally: position 0
// is 'r', 1 is 'w', 2 is 'x', 3 is 's'. Any other character in a
// position (conventionally '-', or 'p' in the share slot) leaves the
// corresponding flag false; unexpected characters are ignored rather
// than rejected.
func ParsePermissions(field string) Permissions {
	var p Permissions
	if len(field) > 0 && field[0] == 'r' {
		p.Readable = true
	}
	if len(field) > 1 && field[1] == 'w' {
		p.Writeable = true
	}
	if len(field) > 2 && field[2] == 'x' {
		p.Executable = true
	}
	if len(field) > 3 && field[3] == 's' {
		p.Shared = true
	}
	return p
}

// Region is one contiguous span of a process's virtual address space
// with uniform permissions, as reported by one maps line.
type Region struct {
	// Start and End are the raw boundary addresses from the maps line.
	Start uint64
	End   uint64

	Permissions Permissions

	// Offset is the file offset the mapping begins at, 0 if the
	// region is anonymous.
	Offset uint64

	// DevMajor and DevMinor identify the device of the backing file,
	// 0:0 if anonymous.
	DevMajor uint32
	DevMinor uint32

	// Inode is the file number of the backing file, 0 if anonymous.
	Inode uint64

	// Path is the backing file path, or a kernel-special name such as
	// "[heap]" or "[stack]". Empty for anonymous regions.
	Path string
}

// Size returns the length of the region in bytes.
func (r Region) Size() uint64 { return r.End - r.Start }

// IsAnonymous reports whether the region has no backing path.
func (r Region) IsAnonymous() bool { return r.Path == "" }

// Basename returns the substring of Path after the final '/', or
// AnonymousName when the region has no path.
func (r Region) Basename() string {
	if r.Path == "" {
		return AnonymousName
	}
	if i := strings.LastIndexByte(r.Path, '/'); i >= 0 {
		return r.Path[i+1:]
	}
	return r.Path
}

// Contains reports whether addr falls inside the region. The upper
// bound is inclusive: End itself is considered contained.
func (r Region) Contains(addr uint64) bool {
	return addr >= r.Start && addr <= r.End
}

// String renders the region roughly in the maps-file layout.
func (r Region) String() string {
	path := r.Path
	if path == "" {
		path = AnonymousName
	}
	return fmt.Sprintf("%016x-%016x %s %08x %x:%x %d %s",
		r.Start, r.End, r.Permissions, r.Offset, r.DevMajor, r.DevMinor, r.Inode, path)
}

// Map is an ordered sequence of regions in OS enumeration order
// (observed ascending by Start, not independently enforced).
type Map []Region

// FindFirstByName returns the first region whose Basename equals name.
// When perms is non-nil the first name match must also carry exactly
// those permissions; if it does not, the call fails with a
// PermissionMismatchError without scanning further, even if a later
// region with the same name would satisfy the filter.
func (m Map) FindFirstByName(name string, perms *Permissions) (*Region, error) {
	for i := range m {
		if m[i].Basename() != name {
			continue
		}
		if perms != nil && *perms != m[i].Permissions {
			return nil, &PermissionMismatchError{Name: name, Want: *perms, Got: m[i].Permissions}
		}
		return &m[i], nil
	}
	return nil, fmt.Errorf("region %q: %w", name, ErrRegionNotFound)
}

// FindContaining returns the first region containing addr, with the
// inclusive upper bound of Region.Contains.
func (m Map) FindContaining(addr uint64) (*Region, error) {
	for i := range m {
		if m[i].Contains(addr) {
			return &m[i], nil
		}
	}
	return nil, fmt.Errorf("no region contains 0x%x: %w", addr, ErrRegionNotFound)
}
