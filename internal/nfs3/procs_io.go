package nfs3

import (
	"bytes"
	"fmt"
)

// ReadResult is the decoded reply of NFSPROC3_READ.
type ReadResult struct {
	Status uint32
	Attr   *FileAttr
	Count  uint32
	EOF    bool
	Data   []byte
}

func encodeReadArgs(handle []byte, offset uint64, count uint32) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeFileHandle(&buf, handle); err != nil {
		return nil, err
	}
	writeUint64(&buf, offset)
	writeUint32(&buf, count)
	return buf.Bytes(), nil
}

func decodeReadResult(data []byte) (*ReadResult, error) {
	r := bytes.NewReader(data)
	status, err := decodeStatus(r)
	if err != nil {
		return nil, err
	}
	res := &ReadResult{Status: status}
	attr, err := decodePostOpAttr(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode read attributes: %w", err)
	}
	res.Attr = attr
	if status != OK {
		return res, nil
	}
	count, err := decodeUint32(r)
	if err != nil {
		return nil, err
	}
	res.Count = count
	eof, err := decodeBool(r)
	if err != nil {
		return nil, err
	}
	res.EOF = eof
	payload, err := decodeOpaqueBytes(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode read data: %w", err)
	}
	res.Data = payload
	return res, nil
}

// WriteResult is the decoded reply of NFSPROC3_WRITE.
type WriteResult struct {
	Status  uint32
	Wcc     *WccData
	Count   uint32
	Stable  uint32
	Verf    uint64
}

// encodeWriteArgs always requests Unstable writes: this client never
// issues a trailing COMMIT.
func encodeWriteArgs(handle []byte, offset uint64, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeFileHandle(&buf, handle); err != nil {
		return nil, err
	}
	writeUint64(&buf, offset)
	writeUint32(&buf, uint32(len(data)))
	writeUint32(&buf, Unstable)
	if err := writeOpaqueBytes(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeWriteResult(data []byte) (*WriteResult, error) {
	r := bytes.NewReader(data)
	status, err := decodeStatus(r)
	if err != nil {
		return nil, err
	}
	wcc, err := decodeWccData(r)
	if err != nil {
		return nil, fmt.Errorf("nfs3: decode write wcc: %w", err)
	}
	res := &WriteResult{Status: status, Wcc: wcc}
	if status != OK {
		return res, nil
	}
	count, err := decodeUint32(r)
	if err != nil {
		return nil, err
	}
	res.Count = count
	stable, err := decodeUint32(r)
	if err != nil {
		return nil, err
	}
	res.Stable = stable
	verf, err := decodeUint64(r)
	if err != nil {
		return nil, err
	}
	res.Verf = verf
	return res, nil
}
