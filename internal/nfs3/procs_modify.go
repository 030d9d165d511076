package nfs3

import (
	"bytes"
	"fmt"
)

// WccResult is the decoded reply shared by REMOVE and RMDIR: a status
// and the parent directory's wcc_data.
type WccResult struct {
	Status uint32
	Wcc    *WccData
}

func decodeWccResult(data []byte) (*WccResult, error) {
	r := bytes.NewReader(data)
	status, err := decodeStatus(r)
	if err != nil {
		return nil, err
	}
	wcc, err := decodeWccData(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode wcc: %w", err)
	}
	return &WccResult{Status: status, Wcc: wcc}, nil
}

func encodeRemoveArgs(dir []byte, name string) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeDiropArgs(&buf, diropArgs3{Dir: dir, Name: name}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeRmdirArgs(dir []byte, name string) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeDiropArgs(&buf, diropArgs3{Dir: dir, Name: name}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenameResult is the decoded reply of NFSPROC3_RENAME: wcc_data for
// both the source and target directories.
type RenameResult struct {
	Status  uint32
	FromWcc *WccData
	ToWcc   *WccData
}

func encodeRenameArgs(fromDir []byte, fromName string, toDir []byte, toName string) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeDiropArgs(&buf, diropArgs3{Dir: fromDir, Name: fromName}); err != nil {
		return nil, err
	}
	if err := encodeDiropArgs(&buf, diropArgs3{Dir: toDir, Name: toName}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeRenameResult(data []byte) (*RenameResult, error) {
	r := bytes.NewReader(data)
	status, err := decodeStatus(r)
	if err != nil {
		return nil, err
	}
	fromWcc, err := decodeWccData(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode rename from-wcc: %w", err)
	}
	toWcc, err := decodeWccData(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode rename to-wcc: %w", err)
	}
	return &RenameResult{Status: status, FromWcc: fromWcc, ToWcc: toWcc}, nil
}

// LinkResult is the decoded reply of NFSPROC3_LINK: the linked file's
// attributes plus the target directory's wcc_data.
type LinkResult struct {
	Status  uint32
	Attr    *FileAttr
	DirWcc  *WccData
}

func encodeLinkArgs(handle []byte, dir []byte, name string) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeFileHandle(&buf, handle); err != nil {
		return nil, err
	}
	if err := encodeDiropArgs(&buf, diropArgs3{Dir: dir, Name: name}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeLinkResult(data []byte) (*LinkResult, error) {
	r := bytes.NewReader(data)
	status, err := decodeStatus(r)
	if err != nil {
		return nil, err
	}
	res := &LinkResult{Status: status}
	attr, err := decodePostOpAttr(r)
	if err != nil {
		return nil, err
	}
	res.Attr = attr
	wcc, err := decodeWccData(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode link dir wcc: %w", err)
	}
	res.DirWcc = wcc
	return res, nil
}
