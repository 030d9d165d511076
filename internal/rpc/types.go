// Package rpc implements the client side of ONC-RPC (RFC 5531): building
// CALL messages, parsing REPLY messages, and carrying them over a UDP or
// TCP transport with per-channel XID tracking.
package rpc

import "fmt"

// Message types (RFC 5531 Section 8).
const (
	MsgCall  uint32 = 0
	MsgReply uint32 = 1
)

// Reply status (RFC 5531 Section 8).
const (
	MsgAccepted uint32 = 0
	MsgDenied   uint32 = 1
)

// Accept status, valid only when MsgAccepted.
const (
	Success      uint32 = 0 // RPC executed successfully
	ProgUnavail  uint32 = 1 // remote hasn't exported program
	ProgMismatch uint32 = 2 // remote can't support version
	ProcUnavail  uint32 = 3 // program can't support procedure
	GarbageArgs  uint32 = 4 // procedure can't decode params
	SystemErr    uint32 = 5 // other errors
)

// Reject status, valid only when MsgDenied.
const (
	RPCMismatch uint32 = 0 // RPC version number != 2
	AuthError   uint32 = 1
)

// AuthFlavor identifies the credential flavor attached to a call.
type AuthFlavor uint32

const (
	AuthNone  AuthFlavor = 0
	AuthUnix  AuthFlavor = 1
	AuthShort AuthFlavor = 2
	// AuthDES is reserved per RFC 5531 Appendix A. This client keeps the
	// constant so the auth surface is documented, but nothing builds an
	// AUTH_DES credential: NewChannel always uses AUTH_UNIX, and secure
	// NFS is not implemented.
	AuthDES AuthFlavor = 3
)

// Opaque auth is the (flavor, body) pair carried as cred and verf.
type OpaqueAuth struct {
	Flavor AuthFlavor
	Body   []byte
}

// RPCError reports a failure at the RPC envelope level (as opposed to a
// successfully-decoded procedure-level status). It distinguishes three
// envelope failure kinds: program error, auth error, and plain
// transport/decode trouble.
type RPCError struct {
	Kind    string // "transport", "program", "auth"
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc %s error: %s", e.Kind, e.Message)
}

func newProgramError(format string, args ...any) error {
	return &RPCError{Kind: "program", Message: fmt.Sprintf(format, args...)}
}

func newTransportError(format string, args ...any) error {
	return &RPCError{Kind: "transport", Message: fmt.Sprintf(format, args...)}
}

func newAuthError(format string, args ...any) error {
	return &RPCError{Kind: "auth", Message: fmt.Sprintf(format, args...)}
}
