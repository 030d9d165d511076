package xdr

import (
	"bytes"
	"io"
)

// EncodeUnionDiscriminant writes the uint32 discriminant of an XDR
// union (RFC 4506 §4.15) — an alias for WriteUint32 that makes status-led
// result encoding self-documenting at the call site.
func EncodeUnionDiscriminant(buf *bytes.Buffer, disc uint32) error {
	return WriteUint32(buf, disc)
}

// DecodeUnionDiscriminant reads the uint32 discriminant of an XDR
// union (RFC 4506 §4.15): every NFS/MOUNT reply leads with one,
// selecting the OK arm or the error arm that follows.
func DecodeUnionDiscriminant(r io.Reader) (uint32, error) {
	return DecodeUint32(r)
}
