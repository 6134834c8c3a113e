package memmap

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse reads a maps resource line by line and returns the regions in
// input order. Any line that fails the grammar aborts the whole parse
// with a MalformedLineError; a read failure aborts it with ErrIO.
//
// Line grammar:
//
//	<start>-<end> <perms> <offset> <major>:<minor> <inode> [<path>]
//
// with start, end, offset, major and minor in hex and inode decimal.
func Parse(r io.Reader) (Map, error) {
	sc := bufio.NewScanner(r)
	// Paths can push lines past bufio's default token size.
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var regions Map
	line := 0
	for sc.Scan() {
		line++
		region, err := parseLine(sc.Text())
		if err != nil {
			return nil, &MalformedLineError{Line: line, Text: sc.Text(), Err: err}
		}
		regions = append(regions, region)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	return regions, nil
}

func parseLine(text string) (Region, error) {
	fields := strings.Fields(text)
	if len(fields) < 5 {
		return Region{}, fmt.Errorf("want at least 5 fields, got %d", len(fields))
	}

	startField, endField, ok := strings.Cut(fields[0], "-")
	if !ok {
		return Region{}, fmt.Errorf("address range %q: missing '-'", fields[0])
	}
	start, err := strconv.ParseUint(startField, 16, 64)
	if err != nil {
		return Region{}, fmt.Errorf("start address %q: %w", startField, err)
	}
	end, err := strconv.ParseUint(endField, 16, 64)
	if err != nil {
		return Region{}, fmt.Errorf("end address %q: %w", endField, err)
	}

	offset, err := strconv.ParseUint(fields[2], 16, 64)
	if err != nil {
		return Region{}, fmt.Errorf("offset %q: %w", fields[2], err)
	}

	majorField, minorField, ok := strings.Cut(fields[3], ":")
	if !ok {
		return Region{}, fmt.Errorf("device %q: missing ':'", fields[3])
	}
	major, err := strconv.ParseUint(majorField, 16, 32)
	if err != nil {
		return Region{}, fmt.Errorf("device major %q: %w", majorField, err)
	}
	minor, err := strconv.ParseUint(minorField, 16, 32)
	if err != nil {
		return Region{}, fmt.Errorf("device minor %q: %w", minorField, err)
	}

	inode, err := strconv.ParseUint(fields[4], 10, 64)
	if err != nil {
		return Region{}, fmt.Errorf("inode %q: %w", fields[4], err)
	}

	// The path is optional; when absent the region is anonymous.
	// Deleted mappings keep their " (deleted)" suffix intact.
	var path string
	if len(fields) > 5 {
		path = strings.Join(fields[5:], " ")
	}

	return Region{
		Start:       start,
		End:         end,
		Permissions: ParsePermissions(fields[1]),
		Offset:      offset,
		DevMajor:    uint32(major),
		DevMinor:    uint32(minor),
		Inode:       inode,
		Path:        path,
	}, nil
}
