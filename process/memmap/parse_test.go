package memmap

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePreservesLineOrder(t *testing.T) {
	text := strings.Join([]string{
		"08048000-08049000 r-xp 00000000 03:0c 64593 /bin/cat",
		"08049000-0804a000 rw-p 00001000 03:0c 64593 /bin/cat",
		"b7f00000-b7f21000 rw-p 00000000 00:00 0 [heap]",
		"b7f21000-b7f42000 rw-p 00000000 00:00 0",
	}, "\n")

	m, err := Parse(strings.NewReader(text))
	require.NoError(t, err)
	require.Len(t, m, 4)

	starts := []uint64{m[0].Start, m[1].Start, m[2].Start, m[3].Start}
	assert.Equal(t, []uint64{0x08048000, 0x08049000, 0xb7f00000, 0xb7f21000}, starts)
}

func TestParseFileBackedLine(t *testing.T) {
	m, err := Parse(strings.NewReader("08048000-08049000 r-xp 00000000 03:0c 64593 /bin/cat"))
	require.NoError(t, err)
	require.Len(t, m, 1)

	want := Region{
		Start:       0x08048000,
		End:         0x08049000,
		Permissions: Permissions{Readable: true, Executable: true},
		Offset:      0,
		DevMajor:    3,
		DevMinor:    12,
		Inode:       64593,
		Path:        "/bin/cat",
	}
	if diff := cmp.Diff(want, m[0]); diff != "" {
		t.Errorf("region mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePermissionsPositional(t *testing.T) {
	// Every subset of {r,w,x,s} rendered in fixed positions, '-' for
	// absent flags.
	for mask := 0; mask < 16; mask++ {
		field := []byte("----")
		want := Permissions{}
		if mask&1 != 0 {
			field[0], want.Readable = 'r', true
		}
		if mask&2 != 0 {
			field[1], want.Writeable = 'w', true
		}
		if mask&4 != 0 {
			field[2], want.Executable = 'x', true
		}
		if mask&8 != 0 {
			field[3], want.Shared = 's', true
		}
		assert.Equalf(t, want, ParsePermissions(string(field)), "field %q", field)
	}
}

func TestParsePermissionsIgnoresUnexpectedCharacters(t *testing.T) {
	tests := []struct {
		field string
		want  Permissions
	}{
		{"r-xp", Permissions{Readable: true, Executable: true}},
		{"rw-p", Permissions{Readable: true, Writeable: true}},
		{"rwxs", Permissions{Readable: true, Writeable: true, Executable: true, Shared: true}},
		{"q-xp", Permissions{Executable: true}}, // junk in the read slot
		{"rw", Permissions{Readable: true, Writeable: true}}, // short field
		{"", Permissions{}},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, ParsePermissions(tt.field), "field %q", tt.field)
	}
}

func TestParseAnonymousRegion(t *testing.T) {
	m, err := Parse(strings.NewReader("7f0000000000-7f0000021000 rw-p 00000000 00:00 0"))
	require.NoError(t, err)
	require.Len(t, m, 1)

	assert.True(t, m[0].IsAnonymous())
	assert.Empty(t, m[0].Path)
	assert.Equal(t, AnonymousName, m[0].Basename())
	assert.Zero(t, m[0].Inode)
}

func TestParseKeepsDeletedSuffix(t *testing.T) {
	m, err := Parse(strings.NewReader("7f0000000000-7f0000001000 r--p 00000000 08:01 123 /usr/lib/libfoo.so (deleted)"))
	require.NoError(t, err)
	require.Equal(t, "/usr/lib/libfoo.so (deleted)", m[0].Path)
}

func TestParseMalformedLineAborts(t *testing.T) {
	good := "08048000-08049000 r-xp 00000000 03:0c 64593 /bin/cat"
	tests := []struct {
		name string
		line string
	}{
		{"bad start address", "zzz48000-08049000 r-xp 00000000 03:0c 64593"},
		{"bad end address", "08048000-zzz49000 r-xp 00000000 03:0c 64593"},
		{"missing range dash", "0804800008049000 r-xp 00000000 03:0c 64593"},
		{"bad offset", "08048000-08049000 r-xp qqqq 03:0c 64593"},
		{"missing device colon", "08048000-08049000 r-xp 00000000 030c 64593"},
		{"bad device major", "08048000-08049000 r-xp 00000000 zz:0c 64593"},
		{"bad inode", "08048000-08049000 r-xp 00000000 03:0c abc"},
		{"too few fields", "08048000-08049000 r-xp 00000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse(strings.NewReader(good + "\n" + tt.line))
			require.Error(t, err)
			assert.Nil(t, m, "no partial region list on failure")
			assert.ErrorIs(t, err, ErrMalformedLine)

			var malformed *MalformedLineError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, 2, malformed.Line)
			assert.Equal(t, tt.line, malformed.Text)
		})
	}
}

type failingReader struct{ err error }

func (r *failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestParseReadFailure(t *testing.T) {
	m, err := Parse(&failingReader{err: errors.New("disk gone")})
	require.Error(t, err)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrIO)
}

func TestParseEmptyInput(t *testing.T) {
	m, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, m)
}
