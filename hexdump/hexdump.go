// Package hexdump formats byte buffers for terminal output.
package hexdump

import (
	"fmt"
	"strings"
)

// Options customizes the dump layout.
type Options struct {
	// BytesPerLine is the number of bytes rendered per line.
	BytesPerLine int

	// GroupSize groups hex bytes with an extra space every GroupSize
	// bytes (usually 1, 2, 4 or 8).
	GroupSize int

	// ShowASCII appends the printable-ASCII column.
	ShowASCII bool

	// BaseAddress is the address printed for the first byte.
	BaseAddress uint64
}

// DefaultOptions returns the conventional 16-bytes-per-line layout.
func DefaultOptions() Options {
	return Options{
		BytesPerLine: 16,
		GroupSize:    1,
		ShowASCII:    true,
	}
}

// Dump renders data with DefaultOptions starting at baseAddress.
func Dump(data []byte, baseAddress uint64) string {
	opts := DefaultOptions()
	opts.BaseAddress = baseAddress
	return DumpWith(data, opts)
}

// DumpWith renders data line by line according to opts.
func DumpWith(data []byte, opts Options) string {
	if opts.BytesPerLine <= 0 {
		opts.BytesPerLine = 16
	}
	if opts.GroupSize <= 0 {
		opts.GroupSize = 1
	}

	var sb strings.Builder
	for lineStart := 0; lineStart < len(data); lineStart += opts.BytesPerLine {
		lineEnd := lineStart + opts.BytesPerLine
		if lineEnd > len(data) {
			lineEnd = len(data)
		}
		line := data[lineStart:lineEnd]

		fmt.Fprintf(&sb, "%016x  ", opts.BaseAddress+uint64(lineStart))

		for i := 0; i < opts.BytesPerLine; i++ {
			if i > 0 && i%opts.GroupSize == 0 {
				sb.WriteByte(' ')
			}
			if i < len(line) {
				fmt.Fprintf(&sb, "%02x", line[i])
			} else if opts.ShowASCII {
				// Pad short final lines so the ASCII column aligns.
				sb.WriteString("  ")
			}
		}

		if opts.ShowASCII {
			sb.WriteString("  |")
			for _, b := range line {
				if b >= 0x20 && b <= 0x7e {
					sb.WriteByte(b)
				} else {
					sb.WriteByte('.')
				}
			}
			sb.WriteByte('|')
		}

		sb.WriteByte('\n')
	}

	return sb.String()
}
