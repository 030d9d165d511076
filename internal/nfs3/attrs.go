package nfs3

import (
	"bytes"
	"fmt"

	"github.com/marmos91/nfsshell/internal/protocol/xdr"
)

func encodeFileHandle(buf *bytes.Buffer, handle []byte) error {
	if len(handle) > MaxFileHandle {
		return fmt.Errorf("nfs3: file handle exceeds %d bytes", MaxFileHandle)
	}
	return xdr.WriteXDROpaque(buf, handle)
}

func decodeFileHandle(r *bytes.Reader) ([]byte, error) {
	handle, err := xdr.DecodeOpaque(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode file handle: %w", err)
	}
	if len(handle) > MaxFileHandle {
		return nil, fmt.Errorf("nfs3: file handle exceeds %d bytes", MaxFileHandle)
	}
	return handle, nil
}

func encodeName(buf *bytes.Buffer, name string) error {
	if len(name) > MaxNameLen {
		return fmt.Errorf("nfs3: name %q exceeds %d bytes", name, MaxNameLen)
	}
	return xdr.WriteXDRString(buf, name)
}

func decodeName(r *bytes.Reader) (string, error) {
	name, err := xdr.DecodeString(r)
	if err != nil {
		return "", fmt.Errorf("nfs3: decode name: %w", err)
	}
	if len(name) > MaxNameLen {
		return "", fmt.Errorf("nfs3: name exceeds %d bytes", MaxNameLen)
	}
	return name, nil
}

func encodePath(buf *bytes.Buffer, path string) error {
	if len(path) > MaxPathLen {
		return fmt.Errorf("nfs3: path %q exceeds %d bytes", path, MaxPathLen)
	}
	return xdr.WriteXDRString(buf, path)
}

func decodePath(r *bytes.Reader) (string, error) {
	path, err := xdr.DecodeString(r)
	if err != nil {
		return "", fmt.Errorf("nfs3: decode path: %w", err)
	}
	if len(path) > MaxPathLen {
		return "", fmt.Errorf("nfs3: path exceeds %d bytes", MaxPathLen)
	}
	return path, nil
}

// diropArgs3 is the (dir handle, name) pair shared by LOOKUP, CREATE,
// MKDIR, REMOVE, RMDIR, and the source side of RENAME/LINK.
type diropArgs3 struct {
	Dir  []byte
	Name string
}

func encodeDiropArgs(buf *bytes.Buffer, a diropArgs3) error {
	if err := encodeFileHandle(buf, a.Dir); err != nil {
		return err
	}
	return encodeName(buf, a.Name)
}

func encodeTimeVal(buf *bytes.Buffer, t TimeVal) {
	xdr.WriteUint32(buf, t.Seconds)
	xdr.WriteUint32(buf, t.Nseconds)
}

func decodeTimeVal(r *bytes.Reader) (TimeVal, error) {
	sec, err := xdr.DecodeUint32(r)
	if err != nil {
		return TimeVal{}, err
	}
	nsec, err := xdr.DecodeUint32(r)
	if err != nil {
		return TimeVal{}, err
	}
	return TimeVal{Seconds: sec, Nseconds: nsec}, nil
}

func encodeFileAttr(buf *bytes.Buffer, a FileAttr) {
	xdr.WriteUint32(buf, a.Type)
	xdr.WriteUint32(buf, a.Mode)
	xdr.WriteUint32(buf, a.Nlink)
	xdr.WriteUint32(buf, a.UID)
	xdr.WriteUint32(buf, a.GID)
	xdr.WriteUint64(buf, a.Size)
	xdr.WriteUint64(buf, a.Used)
	xdr.WriteUint32(buf, a.Rdev[0])
	xdr.WriteUint32(buf, a.Rdev[1])
	xdr.WriteUint64(buf, a.Fsid)
	xdr.WriteUint64(buf, a.Fileid)
	encodeTimeVal(buf, a.Atime)
	encodeTimeVal(buf, a.Mtime)
	encodeTimeVal(buf, a.Ctime)
}

func decodeFileAttr(r *bytes.Reader) (*FileAttr, error) {
	var a FileAttr
	var err error
	if a.Type, err = xdr.DecodeUint32(r); err != nil {
		return nil, fmt.Errorf("nfs3: decode attr type: %w", err)
	}
	if a.Mode, err = xdr.DecodeUint32(r); err != nil {
		return nil, err
	}
	if a.Nlink, err = xdr.DecodeUint32(r); err != nil {
		return nil, err
	}
	if a.UID, err = xdr.DecodeUint32(r); err != nil {
		return nil, err
	}
	if a.GID, err = xdr.DecodeUint32(r); err != nil {
		return nil, err
	}
	if a.Size, err = xdr.DecodeUint64(r); err != nil {
		return nil, err
	}
	if a.Used, err = xdr.DecodeUint64(r); err != nil {
		return nil, err
	}
	if a.Rdev[0], err = xdr.DecodeUint32(r); err != nil {
		return nil, err
	}
	if a.Rdev[1], err = xdr.DecodeUint32(r); err != nil {
		return nil, err
	}
	if a.Fsid, err = xdr.DecodeUint64(r); err != nil {
		return nil, err
	}
	if a.Fileid, err = xdr.DecodeUint64(r); err != nil {
		return nil, err
	}
	if a.Atime, err = decodeTimeVal(r); err != nil {
		return nil, err
	}
	if a.Mtime, err = decodeTimeVal(r); err != nil {
		return nil, err
	}
	if a.Ctime, err = decodeTimeVal(r); err != nil {
		return nil, err
	}
	return &a, nil
}

// decodePostOpAttr decodes a post_op_attr union: a bool discriminant
// followed by a fattr3 when true.
func decodePostOpAttr(r *bytes.Reader) (*FileAttr, error) {
	present, err := xdr.DecodeBool(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode post_op_attr discriminant: %w", err)
	}
	if !present {
		return nil, nil
	}
	return decodeFileAttr(r)
}

func encodePostOpAttr(buf *bytes.Buffer, a *FileAttr) {
	if a == nil {
		xdr.WriteBool(buf, false)
		return
	}
	xdr.WriteBool(buf, true)
	encodeFileAttr(buf, *a)
}

func decodeWccAttr(r *bytes.Reader) (*WccAttr, error) {
	size, err := xdr.DecodeUint64(r)
	if err != nil {
		return nil, err
	}
	mtime, err := decodeTimeVal(r)
	if err != nil {
		return nil, err
	}
	ctime, err := decodeTimeVal(r)
	if err != nil {
		return nil, err
	}
	return &WccAttr{Size: size, Mtime: mtime, Ctime: ctime}, nil
}

// decodeWccData decodes a wcc_data: pre_op_attr (wcc_attr) followed by
// post_op_attr (fattr3), both optional (RFC 1813 Section 2.6).
func decodeWccData(r *bytes.Reader) (*WccData, error) {
	beforePresent, err := xdr.DecodeBool(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode wcc pre_op discriminant: %w", err)
	}
	wd := &WccData{}
	if beforePresent {
		before, err := decodeWccAttr(r)
		if err != nil {
			return nil, err
		}
		wd.Before = before
		wd.HasBefore = true
	}
	after, err := decodePostOpAttr(r)
	if err != nil {
		return nil, err
	}
	if after != nil {
		wd.After = after
		wd.HasAfter = true
	}
	return wd, nil
}

// SetAttr carries only the fields the user actually requested to change
// (sattr3, RFC 1813 Section 2.6): each field is optional, encoded as a
// present-flag followed by its value.
type SetAttr struct {
	Mode     *uint32
	UID      *uint32
	GID      *uint32
	Size     *uint64
	SetAtime bool
	Atime    TimeVal
	SetMtime bool
	Mtime    TimeVal
}

// encodeSetAttr writes an sattr3 struct. Atime/Mtime use the
// SET_TO_CLIENT_TIME discriminant (2) when SetAtime/SetMtime request an
// explicit value, and DONT_CHANGE (0) otherwise; this client never uses
// SET_TO_SERVER_TIME (1).
func encodeSetAttr(buf *bytes.Buffer, sa SetAttr) {
	encodeOptionalUint32(buf, sa.Mode)
	encodeOptionalUint32(buf, sa.UID)
	encodeOptionalUint32(buf, sa.GID)
	encodeOptionalUint64(buf, sa.Size)

	if sa.SetAtime {
		xdr.WriteUint32(buf, 2)
		encodeTimeVal(buf, sa.Atime)
	} else {
		xdr.WriteUint32(buf, 0)
	}
	if sa.SetMtime {
		xdr.WriteUint32(buf, 2)
		encodeTimeVal(buf, sa.Mtime)
	} else {
		xdr.WriteUint32(buf, 0)
	}
}

func encodeOptionalUint32(buf *bytes.Buffer, v *uint32) {
	if v == nil {
		xdr.WriteBool(buf, false)
		return
	}
	xdr.WriteBool(buf, true)
	xdr.WriteUint32(buf, *v)
}

func encodeOptionalUint64(buf *bytes.Buffer, v *uint64) {
	if v == nil {
		xdr.WriteBool(buf, false)
		return
	}
	xdr.WriteBool(buf, true)
	xdr.WriteUint64(buf, *v)
}
