package nfs3

import (
	"bytes"
	"fmt"

	"github.com/marmos91/nfsshell/internal/protocol/xdr"
)

func writeUint32(buf *bytes.Buffer, v uint32) { xdr.WriteUint32(buf, v) }
func writeUint64(buf *bytes.Buffer, v uint64) { xdr.WriteUint64(buf, v) }
func writeBool(buf *bytes.Buffer, v bool)     { xdr.WriteBool(buf, v) }

func decodeUint32(r *bytes.Reader) (uint32, error) { return xdr.DecodeUint32(r) }
func decodeUint64(r *bytes.Reader) (uint64, error) { return xdr.DecodeUint64(r) }
func decodeBool(r *bytes.Reader) (bool, error)     { return xdr.DecodeBool(r) }

// decodeStatus reads the nfsstat3 discriminant every NFSv3 reply's
// result union starts with, selecting which arm (OK vs. error) follows.
func decodeStatus(r *bytes.Reader) (uint32, error) {
	status, err := xdr.DecodeUnionDiscriminant(r)
	if err != nil {
		return 0, fmt.Errorf("nfs3: decode status: %w", err)
	}
	return status, nil
}

func writeOpaqueBytes(buf *bytes.Buffer, data []byte) error {
	return xdr.WriteXDROpaque(buf, data)
}

func decodeOpaqueBytes(r *bytes.Reader) ([]byte, error) {
	return xdr.DecodeOpaque(r)
}
