package memmap

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedLine is returned when a maps line fails the
	// positional-field grammar. The whole parse aborts; no partial
	// region list is produced.
	ErrMalformedLine = errors.New("malformed maps line")

	// ErrIO is returned when the maps resource cannot be read.
	ErrIO = errors.New("maps i/o failure")

	// ErrRegionNotFound is returned by queries that match no region.
	ErrRegionNotFound = errors.New("region not found")

	// ErrPermissionMismatch is returned when the first region matching
	// a name does not carry the requested permissions.
	ErrPermissionMismatch = errors.New("region permission mismatch")
)

// MalformedLineError reports the line that aborted a parse.
type MalformedLineError struct {
	Line int // 1-based line number
	Text string
	Err  error
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("maps line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *MalformedLineError) Unwrap() error { return e.Err }

func (e *MalformedLineError) Is(target error) bool { return target == ErrMalformedLine }

// PermissionMismatchError reports the requested and actual permissions
// of the first region matching a name.
type PermissionMismatchError struct {
	Name string
	Want Permissions
	Got  Permissions
}

func (e *PermissionMismatchError) Error() string {
	return fmt.Sprintf("region %q: %v: want %s, got %s", e.Name, ErrPermissionMismatch, e.Want, e.Got)
}

func (e *PermissionMismatchError) Is(target error) bool { return target == ErrPermissionMismatch }
