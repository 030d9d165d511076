// Package portmap implements an ONC-RPC client for the portmapper (RFC
// 1833, program 100000, version 2) used to resolve the TCP/UDP port a
// MOUNT or NFS service listens on for a given host.
package portmap

// Program and Version identify the portmapper itself in an RPC call
// header (RFC 1057 Section A).
const (
	Program uint32 = 100000
	Version uint32 = 2
)

// Procedure numbers (RFC 1057 Section A). ProcCallit is implemented
// read-only: the client can issue it, but nfsshell only ever uses it to
// proxy a MOUNT MNT (`mount -p`) through the remote portmapper, never to
// relay arbitrary programs.
const (
	ProcNull    uint32 = 0
	ProcSet     uint32 = 1
	ProcUnset   uint32 = 2
	ProcGetport uint32 = 3
	ProcDump    uint32 = 4
	ProcCallit  uint32 = 5
)

// IPPROTO values as used in the portmap mapping struct (RFC 1057).
const (
	ProtoTCP uint32 = 6
	ProtoUDP uint32 = 17
)

// WellKnownPort is the port the portmapper itself always listens on.
const WellKnownPort = 111
