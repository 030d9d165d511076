package nfs3

import (
	"bytes"
	"fmt"
)

// CreateResult is the decoded reply shared by CREATE, MKDIR, SYMLINK, and
// MKNOD: an optional new handle plus its attributes, and the parent
// directory's wcc_data.
type CreateResult struct {
	Status  uint32
	Handle  []byte
	Attr    *FileAttr
	DirWcc  *WccData
}

func decodeCreateLikeResult(data []byte) (*CreateResult, error) {
	r := bytes.NewReader(data)
	status, err := decodeStatus(r)
	if err != nil {
		return nil, err
	}
	res := &CreateResult{Status: status}
	if status == OK {
		handlePresent, err := decodeBool(r)
		if err != nil {
			return nil, fmt.Errorf("nfs3: decode handle discriminant: %w", err)
		}
		if handlePresent {
			handle, err := decodeFileHandle(r)
			if err != nil {
				return nil, err
			}
			res.Handle = handle
		}
		attr, err := decodePostOpAttr(r)
		if err != nil {
			return nil, err
		}
		res.Attr = attr
	}
	wcc, err := decodeWccData(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode parent wcc: %w", err)
	}
	res.DirWcc = wcc
	return res, nil
}

// encodeCreateArgs builds NFSPROC3_CREATE arguments. mode selects
// UNCHECKED/GUARDED/EXCLUSIVE (RFC 1813 Section 3.3.8); EXCLUSIVE is used
// for the put/write-loop path and carries an 8-byte verifier instead of
// sattr3.
func encodeCreateArgs(dir []byte, name string, mode uint32, attr SetAttr, verifier uint64) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeDiropArgs(&buf, diropArgs3{Dir: dir, Name: name}); err != nil {
		return nil, err
	}
	writeUint32(&buf, mode)
	if mode == CreateExclusive {
		writeUint64(&buf, verifier)
	} else {
		encodeSetAttr(&buf, attr)
	}
	return buf.Bytes(), nil
}

func encodeMkdirArgs(dir []byte, name string, attr SetAttr) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeDiropArgs(&buf, diropArgs3{Dir: dir, Name: name}); err != nil {
		return nil, err
	}
	encodeSetAttr(&buf, attr)
	return buf.Bytes(), nil
}

func encodeSymlinkArgs(dir []byte, name, target string, attr SetAttr) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeDiropArgs(&buf, diropArgs3{Dir: dir, Name: name}); err != nil {
		return nil, err
	}
	encodeSetAttr(&buf, attr)
	if err := encodePath(&buf, target); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Device type discriminants for MKNOD (ftype3 values that carry device
// numbers: NF3CHR and NF3BLK; NF3SOCK and NF3FIFO carry only sattr3).
func encodeMknodArgs(dir []byte, name string, kind uint32, attr SetAttr, major, minor uint32) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeDiropArgs(&buf, diropArgs3{Dir: dir, Name: name}); err != nil {
		return nil, err
	}
	writeUint32(&buf, kind)
	switch kind {
	case TypeChr, TypeBlk:
		encodeSetAttr(&buf, attr)
		writeUint32(&buf, major)
		writeUint32(&buf, minor)
	default:
		encodeSetAttr(&buf, attr)
	}
	return buf.Bytes(), nil
}
