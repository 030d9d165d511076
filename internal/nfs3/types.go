// Package nfs3 implements an ONC-RPC client for NFS version 3 (RFC 1813):
// the file and directory operations used once a mount has produced a
// root file handle.
package nfs3

// TimeVal is the wire nfstime3 type: POSIX seconds plus nanoseconds.
type TimeVal struct {
	Seconds  uint32
	Nseconds uint32
}

// FileAttr is the wire fattr3 type (RFC 1813 Section 2.3.3).
type FileAttr struct {
	Type   uint32
	Mode   uint32
	Nlink  uint32
	UID    uint32
	GID    uint32
	Size   uint64
	Used   uint64
	Rdev   [2]uint32
	Fsid   uint64
	Fileid uint64
	Atime  TimeVal
	Mtime  TimeVal
	Ctime  TimeVal
}

// WccAttr is the wire wcc_attr type used in weak cache consistency data
// (RFC 1813 Section 2.6): the directory's pre-operation size and times.
type WccAttr struct {
	Size  uint64
	Mtime TimeVal
	Ctime TimeVal
}

// WccData pairs pre- and post-operation directory attributes so the
// client can detect whether the directory changed underneath it.
type WccData struct {
	Before    *WccAttr
	After     *FileAttr
	HasBefore bool
	HasAfter  bool
}

// File type values (ftype3, RFC 1813 Section 2.3.3).
const (
	TypeReg  uint32 = 1
	TypeDir  uint32 = 2
	TypeBlk  uint32 = 3
	TypeChr  uint32 = 4
	TypeLnk  uint32 = 5
	TypeSock uint32 = 6
	TypeFifo uint32 = 7
)

// TypeName returns a one-character ls(1)-style type indicator.
func TypeName(t uint32) string {
	switch t {
	case TypeReg:
		return "-"
	case TypeDir:
		return "d"
	case TypeBlk:
		return "b"
	case TypeChr:
		return "c"
	case TypeLnk:
		return "l"
	case TypeSock:
		return "s"
	case TypeFifo:
		return "p"
	default:
		return "?"
	}
}
