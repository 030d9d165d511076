package rpc

import (
	"encoding/binary"
	"fmt"
	"io"
)

// lastFragmentBit marks the final fragment of a TCP record (RFC 5531
// Section 11), read by a reusable writer/reader pair shared by the NFS
// and MOUNT TCP transports.
const lastFragmentBit = 0x80000000

// maxFragmentLen guards against a malformed or hostile peer claiming an
// unreasonable record length.
const maxFragmentLen = 4 * 1024 * 1024

// WriteRecord frames msg as a single last-fragment TCP record and writes it.
func WriteRecord(w io.Writer, msg []byte) error {
	header := uint32(len(msg)) | lastFragmentBit
	framed := make([]byte, 4+len(msg))
	binary.BigEndian.PutUint32(framed[0:4], header)
	copy(framed[4:], msg)
	_, err := w.Write(framed)
	return err
}

// ReadRecord reassembles fragments from r until one with the last-fragment
// bit set is read, returning their concatenation.
func ReadRecord(r io.Reader) ([]byte, error) {
	var out []byte
	for {
		var headerBuf [4]byte
		if _, err := io.ReadFull(r, headerBuf[:]); err != nil {
			return nil, fmt.Errorf("read fragment header: %w", err)
		}
		header := binary.BigEndian.Uint32(headerBuf[:])
		last := header&lastFragmentBit != 0
		fragLen := header &^ lastFragmentBit
		if fragLen > maxFragmentLen {
			return nil, fmt.Errorf("fragment length %d exceeds maximum %d", fragLen, maxFragmentLen)
		}

		frag := make([]byte, fragLen)
		if _, err := io.ReadFull(r, frag); err != nil {
			return nil, fmt.Errorf("read fragment body: %w", err)
		}
		out = append(out, frag...)

		if last {
			return out, nil
		}
	}
}
