package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marmos91/nfsshell/internal/mount"
	"github.com/marmos91/nfsshell/internal/nfs3"
)

func TestModeString_RegularFile(t *testing.T) {
	attr := &nfs3.FileAttr{Type: nfs3.TypeReg, Mode: 0o644}
	assert.Equal(t, "-rw-r--r--", modeString(attr))
}

func TestModeString_Directory(t *testing.T) {
	attr := &nfs3.FileAttr{Type: nfs3.TypeDir, Mode: 0o755}
	assert.Equal(t, "drwxr-xr-x", modeString(attr))
}

func TestModeString_SetuidBit(t *testing.T) {
	attr := &nfs3.FileAttr{Type: nfs3.TypeReg, Mode: 0o4755}
	assert.Equal(t, "-rwsr-xr-x", modeString(attr))
}

func TestModeString_SetuidBitWithoutExec(t *testing.T) {
	attr := &nfs3.FileAttr{Type: nfs3.TypeReg, Mode: 0o4644}
	assert.Equal(t, "-rwSr--r--", modeString(attr))
}

func TestModeString_StickyBit(t *testing.T) {
	attr := &nfs3.FileAttr{Type: nfs3.TypeDir, Mode: 0o1777}
	assert.Equal(t, "drwxrwxrwt", modeString(attr))
}

func TestModeString_NilAttr(t *testing.T) {
	assert.Equal(t, "??????????", modeString(nil))
}

func TestWriteLongListing_SymlinkShowsTarget(t *testing.T) {
	var buf bytes.Buffer
	WriteLongListing(&buf, []LongEntry{
		{Name: "link", Attr: &nfs3.FileAttr{Type: nfs3.TypeLnk, Mode: 0o777}, SymlinkTarget: "target"},
	})
	out := buf.String()
	assert.Contains(t, out, "link -> target")
}

func TestWriteLongListing_RegularEntry(t *testing.T) {
	var buf bytes.Buffer
	WriteLongListing(&buf, []LongEntry{
		{Name: "file.txt", Attr: &nfs3.FileAttr{Type: nfs3.TypeReg, Mode: 0o644, Size: 1024, UID: 1000, GID: 100, Nlink: 1}},
	})
	out := buf.String()
	assert.Contains(t, out, "file.txt")
	assert.Contains(t, out, "1024")
	assert.Contains(t, out, "1000")
}

func TestWriteShortListing(t *testing.T) {
	var buf bytes.Buffer
	WriteShortListing(&buf, []string{"a", "b", "c"})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}

func TestWriteFsstat(t *testing.T) {
	var buf bytes.Buffer
	WriteFsstat(&buf, &nfs3.FsstatResult{
		TotalBytes: 1000000,
		FreeBytes:  400000,
		AvailBytes: 400000,
		TotalFiles: 100,
		AvailFiles: 50,
	})
	out := buf.String()
	assert.Contains(t, out, "remote")
}

func TestWriteFsstat_UsedNeverNegative(t *testing.T) {
	var buf bytes.Buffer
	// FreeBytes > TotalBytes would underflow a naive subtraction.
	assert.NotPanics(t, func() {
		WriteFsstat(&buf, &nfs3.FsstatResult{TotalBytes: 100, FreeBytes: 200, AvailBytes: 200})
	})
	assert.NotContains(t, buf.String(), "TiB")
}

func TestWriteDump(t *testing.T) {
	var buf bytes.Buffer
	WriteDump(&buf, []mount.MountEntry{
		{Hostname: "client1", Directory: "/export/home"},
	})
	out := buf.String()
	assert.Contains(t, out, "client1")
	assert.Contains(t, out, "/export/home")
}

func TestWriteExport_NoGroupsMeansEveryone(t *testing.T) {
	var buf bytes.Buffer
	WriteExport(&buf, []mount.ExportEntry{
		{Directory: "/export", Groups: nil},
	})
	out := buf.String()
	assert.Contains(t, out, "(everyone)")
}

func TestWriteExport_WithGroups(t *testing.T) {
	var buf bytes.Buffer
	WriteExport(&buf, []mount.ExportEntry{
		{Directory: "/export", Groups: []string{"admins", "staff"}},
	})
	out := buf.String()
	assert.Contains(t, out, "admins,staff")
}
