package portmap

import (
	"bytes"
	"fmt"

	"github.com/marmos91/nfsshell/internal/protocol/xdr"
)

// Mapping is the (prog, vers, prot, port) tuple exchanged by GETPORT,
// SET, and UNSET (RFC 1057 Section A).
//
// Wire format: [prog:uint32][vers:uint32][prot:uint32][port:uint32]
type Mapping struct {
	Prog uint32
	Vers uint32
	Prot uint32
	Port uint32
}

const mappingSize = 16

func encodeMapping(m Mapping) []byte {
	var buf bytes.Buffer
	xdr.WriteUint32(&buf, m.Prog)
	xdr.WriteUint32(&buf, m.Vers)
	xdr.WriteUint32(&buf, m.Prot)
	xdr.WriteUint32(&buf, m.Port)
	return buf.Bytes()
}

func decodeMapping(data []byte) (*Mapping, error) {
	if len(data) < mappingSize {
		return nil, fmt.Errorf("portmap: mapping too short: got %d bytes, need %d", len(data), mappingSize)
	}
	r := bytes.NewReader(data)
	prog, _ := xdr.DecodeUint32(r)
	vers, _ := xdr.DecodeUint32(r)
	prot, _ := xdr.DecodeUint32(r)
	port, _ := xdr.DecodeUint32(r)
	return &Mapping{Prog: prog, Vers: vers, Prot: prot, Port: port}, nil
}

func decodeGetportResult(data []byte) (uint32, error) {
	r := bytes.NewReader(data)
	port, err := xdr.DecodeUint32(r)
	if err != nil {
		return 0, fmt.Errorf("portmap: decode getport result: %w", err)
	}
	return port, nil
}

// DumpEntry is one node of the linked list returned by DUMP.
type DumpEntry struct {
	Mapping Mapping
}

// decodeDumpResult decodes the "optional next" linked list returned by
// PMAPPROC_DUMP: a sequence of [bool-has-next][mapping]... terminated by
// a false discriminant.
func decodeDumpResult(data []byte) ([]DumpEntry, error) {
	r := bytes.NewReader(data)
	var entries []DumpEntry
	for {
		hasNext, err := xdr.DecodeBool(r)
		if err != nil {
			return nil, fmt.Errorf("portmap: decode dump list discriminant: %w", err)
		}
		if !hasNext {
			return entries, nil
		}
		prog, _ := xdr.DecodeUint32(r)
		vers, _ := xdr.DecodeUint32(r)
		prot, _ := xdr.DecodeUint32(r)
		port, err := xdr.DecodeUint32(r)
		if err != nil {
			return nil, fmt.Errorf("portmap: decode dump entry: %w", err)
		}
		entries = append(entries, DumpEntry{Mapping: Mapping{Prog: prog, Vers: vers, Prot: prot, Port: port}})
	}
}

// encodeCallitArgs encodes the CALLIT procedure's argument: the proxied
// program/version/procedure plus its already-encoded arguments (RFC 1057
// Section A).
func encodeCallitArgs(prog, vers, proc uint32, args []byte) []byte {
	var buf bytes.Buffer
	xdr.WriteUint32(&buf, prog)
	xdr.WriteUint32(&buf, vers)
	xdr.WriteUint32(&buf, proc)
	xdr.WriteXDROpaque(&buf, args)
	return buf.Bytes()
}

// callitResult is CALLIT's reply: the port the proxied service answered
// on, followed by its opaque result bytes.
type callitResult struct {
	Port   uint32
	Result []byte
}

func decodeCallitResult(data []byte) (*callitResult, error) {
	r := bytes.NewReader(data)
	port, err := xdr.DecodeUint32(r)
	if err != nil {
		return nil, fmt.Errorf("portmap: decode callit port: %w", err)
	}
	result, err := xdr.DecodeOpaque(r)
	if err != nil {
		return nil, fmt.Errorf("portmap: decode callit result: %w", err)
	}
	return &callitResult{Port: port, Result: result}, nil
}
