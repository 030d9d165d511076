package nfs3

import (
	"bytes"
	"fmt"
)

// GetattrResult is the decoded reply of NFSPROC3_GETATTR.
type GetattrResult struct {
	Status uint32
	Attr   *FileAttr
}

func encodeGetattrArgs(handle []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeFileHandle(&buf, handle); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGetattrResult(data []byte) (*GetattrResult, error) {
	r := bytes.NewReader(data)
	status, err := decodeStatus(r)
	if err != nil {
		return nil, err
	}
	res := &GetattrResult{Status: status}
	if status != OK {
		return res, nil
	}
	attr, err := decodeFileAttr(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode getattr attributes: %w", err)
	}
	res.Attr = attr
	return res, nil
}

// SetattrResult is the decoded reply of NFSPROC3_SETATTR.
type SetattrResult struct {
	Status uint32
	Wcc    *WccData
}

func encodeSetattrArgs(handle []byte, sa SetAttr) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeFileHandle(&buf, handle); err != nil {
		return nil, err
	}
	encodeSetAttr(&buf, sa)
	writeBool(&buf, false) // guard: check = false, unconditional SETATTR
	return buf.Bytes(), nil
}

func decodeSetattrResult(data []byte) (*SetattrResult, error) {
	r := bytes.NewReader(data)
	status, err := decodeStatus(r)
	if err != nil {
		return nil, err
	}
	wcc, err := decodeWccData(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode setattr wcc: %w", err)
	}
	return &SetattrResult{Status: status, Wcc: wcc}, nil
}

// LookupResult is the decoded reply of NFSPROC3_LOOKUP.
type LookupResult struct {
	Status  uint32
	Handle  []byte
	Attr    *FileAttr
	DirAttr *FileAttr
}

func encodeLookupArgs(dir []byte, name string) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeDiropArgs(&buf, diropArgs3{Dir: dir, Name: name}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeLookupResult(data []byte) (*LookupResult, error) {
	r := bytes.NewReader(data)
	status, err := decodeStatus(r)
	if err != nil {
		return nil, err
	}
	res := &LookupResult{Status: status}
	if status == OK {
		handle, err := decodeFileHandle(r)
		if err != nil {
			return nil, err
		}
		res.Handle = handle
		attr, err := decodePostOpAttr(r)
		if err != nil {
			return nil, err
		}
		res.Attr = attr
	}
	dirAttr, err := decodePostOpAttr(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode lookup dir attributes: %w", err)
	}
	res.DirAttr = dirAttr
	return res, nil
}

// AccessResult is the decoded reply of NFSPROC3_ACCESS.
type AccessResult struct {
	Status  uint32
	Attr    *FileAttr
	Granted uint32
}

func encodeAccessArgs(handle []byte, wanted uint32) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeFileHandle(&buf, handle); err != nil {
		return nil, err
	}
	writeUint32(&buf, wanted)
	return buf.Bytes(), nil
}

func decodeAccessResult(data []byte) (*AccessResult, error) {
	r := bytes.NewReader(data)
	status, err := decodeStatus(r)
	if err != nil {
		return nil, err
	}
	res := &AccessResult{Status: status}
	attr, err := decodePostOpAttr(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode access attributes: %w", err)
	}
	res.Attr = attr
	if status != OK {
		return res, nil
	}
	granted, err := decodeUint32(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode access mask: %w", err)
	}
	res.Granted = granted
	return res, nil
}

// ReadlinkResult is the decoded reply of NFSPROC3_READLINK.
type ReadlinkResult struct {
	Status uint32
	Attr   *FileAttr
	Target string
}

func encodeReadlinkArgs(handle []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeFileHandle(&buf, handle); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeReadlinkResult(data []byte) (*ReadlinkResult, error) {
	r := bytes.NewReader(data)
	status, err := decodeStatus(r)
	if err != nil {
		return nil, err
	}
	res := &ReadlinkResult{Status: status}
	attr, err := decodePostOpAttr(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode readlink attributes: %w", err)
	}
	res.Attr = attr
	if status != OK {
		return res, nil
	}
	target, err := decodePath(r)
	if err != nil {
		return nil, err
	}
	res.Target = target
	return res, nil
}
