package nfs3

import (
	"bytes"
	"fmt"
)

// DirEntry is one node of the entry3 linked list READDIR returns.
type DirEntry struct {
	FileID uint64
	Name   string
	Cookie uint64
}

// ReaddirResult is the decoded reply of NFSPROC3_READDIR.
type ReaddirResult struct {
	Status  uint32
	DirAttr *FileAttr
	Entries []DirEntry
	EOF     bool
}

func encodeReaddirArgs(dir []byte, cookie uint64, cookieVerf uint64, count uint32) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeFileHandle(&buf, dir); err != nil {
		return nil, err
	}
	writeUint64(&buf, cookie)
	writeUint64(&buf, cookieVerf)
	writeUint32(&buf, count)
	return buf.Bytes(), nil
}

func decodeReaddirResult(data []byte) (*ReaddirResult, error) {
	r := bytes.NewReader(data)
	status, err := decodeStatus(r)
	if err != nil {
		return nil, err
	}
	res := &ReaddirResult{Status: status}
	attr, err := decodePostOpAttr(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode readdir dir attributes: %w", err)
	}
	res.DirAttr = attr
	if status != OK {
		return res, nil
	}

	if _, err := decodeUint64(r); err != nil { // cookieverf3, opaque 8 bytes
		return nil, fmt.Errorf("nfs3: decode readdir cookieverf: %w", err)
	}

	for {
		hasNext, err := decodeBool(r)
		if err != nil {
			return nil, fmt.Errorf("nfs3: decode readdir entry discriminant: %w", err)
		}
		if !hasNext {
			break
		}
		fileID, err := decodeUint64(r)
		if err != nil {
			return nil, err
		}
		name, err := decodeName(r)
		if err != nil {
			return nil, err
		}
		cookie, err := decodeUint64(r)
		if err != nil {
			return nil, err
		}
		res.Entries = append(res.Entries, DirEntry{FileID: fileID, Name: name, Cookie: cookie})
	}

	eof, err := decodeBool(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode readdir eof: %w", err)
	}
	res.EOF = eof
	return res, nil
}

// FsstatResult is the decoded reply of NFSPROC3_FSSTAT.
type FsstatResult struct {
	Status     uint32
	Attr       *FileAttr
	TotalBytes uint64
	FreeBytes  uint64
	AvailBytes uint64
	TotalFiles uint64
	FreeFiles  uint64
	AvailFiles uint64
	Invarsec   uint32
}

func encodeFsstatArgs(handle []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeFileHandle(&buf, handle); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeFsstatResult(data []byte) (*FsstatResult, error) {
	r := bytes.NewReader(data)
	status, err := decodeStatus(r)
	if err != nil {
		return nil, err
	}
	res := &FsstatResult{Status: status}
	attr, err := decodePostOpAttr(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode fsstat attributes: %w", err)
	}
	res.Attr = attr
	if status != OK {
		return res, nil
	}
	vals := make([]uint64, 6)
	for i := range vals {
		v, err := decodeUint64(r)
		if err != nil {
			return nil, fmt.Errorf("nfs3: decode fsstat field %d: %w", i, err)
		}
		vals[i] = v
	}
	res.TotalBytes, res.FreeBytes, res.AvailBytes = vals[0], vals[1], vals[2]
	res.TotalFiles, res.FreeFiles, res.AvailFiles = vals[3], vals[4], vals[5]
	invarsec, err := decodeUint32(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode fsstat invarsec: %w", err)
	}
	res.Invarsec = invarsec
	return res, nil
}

// FsinfoResult is the decoded reply of NFSPROC3_FSINFO; nfsshell only
// consults Wtmax to bound its write-loop chunk size.
type FsinfoResult struct {
	Status  uint32
	Attr    *FileAttr
	Rtmax   uint32
	Rtpref  uint32
	Rtmult  uint32
	Wtmax   uint32
	Wtpref  uint32
	Wtmult  uint32
	Dtpref  uint32
	MaxFilesize uint64
	TimeDelta   TimeVal
	Properties  uint32
}

func encodeFsinfoArgs(handle []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeFileHandle(&buf, handle); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeFsinfoResult(data []byte) (*FsinfoResult, error) {
	r := bytes.NewReader(data)
	status, err := decodeStatus(r)
	if err != nil {
		return nil, err
	}
	res := &FsinfoResult{Status: status}
	attr, err := decodePostOpAttr(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode fsinfo attributes: %w", err)
	}
	res.Attr = attr
	if status != OK {
		return res, nil
	}

	fields := []*uint32{&res.Rtmax, &res.Rtpref, &res.Rtmult, &res.Wtmax, &res.Wtpref, &res.Wtmult, &res.Dtpref}
	for i, f := range fields {
		v, err := decodeUint32(r)
		if err != nil {
			return nil, fmt.Errorf("nfs3: decode fsinfo field %d: %w", i, err)
		}
		*f = v
	}
	maxFilesize, err := decodeUint64(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode fsinfo maxfilesize: %w", err)
	}
	res.MaxFilesize = maxFilesize
	timeDelta, err := decodeTimeVal(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode fsinfo time_delta: %w", err)
	}
	res.TimeDelta = timeDelta
	properties, err := decodeUint32(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode fsinfo properties: %w", err)
	}
	res.Properties = properties
	return res, nil
}
