package mount

import (
	"bytes"
	"fmt"

	"github.com/marmos91/nfsshell/internal/protocol/xdr"
)

// MaxPathLen is the largest dirpath MNT/UMNT will accept (RFC 1813
// Appendix I: MNTPATHLEN3 = 1024).
const MaxPathLen = 1024

// EncodeMntArgs encodes a bare MNT request, exposed for callers that
// issue MNT indirectly through the portmap CALLIT proxy path.
func EncodeMntArgs(path string) ([]byte, error) {
	return encodeDirPath(path)
}

// DecodeMntResult decodes a bare MNT reply, the counterpart to
// EncodeMntArgs.
func DecodeMntResult(data []byte) (*MountResult, error) {
	return decodeMountResult(data)
}

func encodeDirPath(path string) ([]byte, error) {
	if len(path) > MaxPathLen {
		return nil, fmt.Errorf("mount: path %q exceeds %d bytes", path, MaxPathLen)
	}
	var buf bytes.Buffer
	if err := xdr.WriteXDRString(&buf, path); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MountResult is the decoded reply of the MNT procedure.
type MountResult struct {
	Status      uint32
	FileHandle  []byte
	AuthFlavors []int32
}

func decodeMountResult(data []byte) (*MountResult, error) {
	r := bytes.NewReader(data)
	status, err := xdr.DecodeUnionDiscriminant(r)
	if err != nil {
		return nil, fmt.Errorf("mount: decode status: %w", err)
	}
	res := &MountResult{Status: status}
	if status != OK {
		return res, nil
	}

	handle, err := xdr.DecodeOpaque(r)
	if err != nil {
		return nil, fmt.Errorf("mount: decode file handle: %w", err)
	}
	res.FileHandle = handle

	count, err := xdr.DecodeUint32(r)
	if err != nil {
		return nil, fmt.Errorf("mount: decode auth flavor count: %w", err)
	}
	flavors := make([]int32, 0, count)
	for i := uint32(0); i < count; i++ {
		f, err := xdr.DecodeInt32(r)
		if err != nil {
			return nil, fmt.Errorf("mount: decode auth flavor %d: %w", i, err)
		}
		flavors = append(flavors, f)
	}
	res.AuthFlavors = flavors
	return res, nil
}

// MountEntry is one node in the linked list DUMP returns: a client
// hostname paired with the directory it has mounted.
type MountEntry struct {
	Hostname  string
	Directory string
}

func decodeMountList(data []byte) ([]MountEntry, error) {
	r := bytes.NewReader(data)
	var entries []MountEntry
	for {
		hasNext, err := xdr.DecodeBool(r)
		if err != nil {
			return nil, fmt.Errorf("mount: decode mountlist discriminant: %w", err)
		}
		if !hasNext {
			return entries, nil
		}
		host, err := xdr.DecodeString(r)
		if err != nil {
			return nil, fmt.Errorf("mount: decode mountlist hostname: %w", err)
		}
		dir, err := xdr.DecodeString(r)
		if err != nil {
			return nil, fmt.Errorf("mount: decode mountlist directory: %w", err)
		}
		entries = append(entries, MountEntry{Hostname: host, Directory: dir})
	}
}

// ExportEntry is one node in the linked list EXPORT returns: an exported
// directory paired with the groups allowed to mount it.
type ExportEntry struct {
	Directory string
	Groups    []string
}

func decodeExportList(data []byte) ([]ExportEntry, error) {
	r := bytes.NewReader(data)
	var entries []ExportEntry
	for {
		hasNext, err := xdr.DecodeBool(r)
		if err != nil {
			return nil, fmt.Errorf("mount: decode exportlist discriminant: %w", err)
		}
		if !hasNext {
			return entries, nil
		}
		dir, err := xdr.DecodeString(r)
		if err != nil {
			return nil, fmt.Errorf("mount: decode export directory: %w", err)
		}
		groups, err := decodeGroupList(r)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ExportEntry{Directory: dir, Groups: groups})
	}
}

func decodeGroupList(r *bytes.Reader) ([]string, error) {
	var groups []string
	for {
		hasNext, err := xdr.DecodeBool(r)
		if err != nil {
			return nil, fmt.Errorf("mount: decode grouplist discriminant: %w", err)
		}
		if !hasNext {
			return groups, nil
		}
		name, err := xdr.DecodeString(r)
		if err != nil {
			return nil, fmt.Errorf("mount: decode group name: %w", err)
		}
		groups = append(groups, name)
	}
}
