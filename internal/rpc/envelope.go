package rpc

import (
	"bytes"
	"fmt"

	xdr2 "github.com/rasky/go-xdr/xdr2"

	"github.com/marmos91/nfsshell/internal/protocol/xdr"
)

// callHeaderFixed is the fixed-shape prefix of an RPC CALL message (RFC 5531
// Section 8): six consecutive uint32 fields with no variable-length parts.
// It is marshaled with the go-xdr reflection codec since its shape never
// varies by procedure; the credential/verifier and procedure arguments that
// follow are variable-length and use the hand-rolled internal/protocol/xdr
// codec instead.
type callHeaderFixed struct {
	XID     uint32
	MsgType uint32
	RPCVers uint32
	Prog    uint32
	Vers    uint32
	Proc    uint32
}

const rpcVersion2 = 2

// BuildCall encodes a complete RPC CALL message: xid, header, credential,
// verifier, and the already-XDR-encoded procedure arguments.
func BuildCall(xid, prog, vers, proc uint32, cred, verf OpaqueAuth, args []byte) ([]byte, error) {
	var buf bytes.Buffer

	hdr := callHeaderFixed{
		XID:     xid,
		MsgType: MsgCall,
		RPCVers: rpcVersion2,
		Prog:    prog,
		Vers:    vers,
		Proc:    proc,
	}
	if _, err := xdr2.Marshal(&buf, hdr); err != nil {
		return nil, fmt.Errorf("marshal call header: %w", err)
	}

	if err := xdr.WriteUint32(&buf, uint32(cred.Flavor)); err != nil {
		return nil, err
	}
	if err := xdr.WriteXDROpaque(&buf, cred.Body); err != nil {
		return nil, fmt.Errorf("encode cred: %w", err)
	}

	if err := xdr.WriteUint32(&buf, uint32(verf.Flavor)); err != nil {
		return nil, err
	}
	if err := xdr.WriteXDROpaque(&buf, verf.Body); err != nil {
		return nil, fmt.Errorf("encode verf: %w", err)
	}

	if _, err := buf.Write(args); err != nil {
		return nil, fmt.Errorf("write args: %w", err)
	}

	return buf.Bytes(), nil
}

// ReplyHeader is the decoded envelope of an RPC REPLY message, with the
// procedure-level payload left undecoded as Body for the caller (the NFS3/
// MOUNT3 client) to interpret.
type ReplyHeader struct {
	XID         uint32
	AcceptState uint32 // valid when Accepted
	RejectState uint32 // valid when !Accepted
	Accepted    bool
	Body        []byte
}

// ParseReply decodes an RPC REPLY message: successful envelopes return
// (hdr, nil) with hdr.Body holding the procedure-specific payload;
// program/auth-level rejections return a *RPCError of the matching Kind.
func ParseReply(msg []byte) (*ReplyHeader, error) {
	r := bytes.NewReader(msg)

	xid, err := xdr.DecodeUint32(r)
	if err != nil {
		return nil, newTransportError("truncated reply: %s", err)
	}
	msgType, err := xdr.DecodeUint32(r)
	if err != nil {
		return nil, newTransportError("truncated reply: %s", err)
	}
	if msgType != MsgReply {
		return nil, newTransportError("unexpected message type %d, want REPLY", msgType)
	}

	replyStat, err := xdr.DecodeUint32(r)
	if err != nil {
		return nil, newTransportError("truncated reply status: %s", err)
	}

	hdr := &ReplyHeader{XID: xid}

	switch replyStat {
	case MsgAccepted:
		hdr.Accepted = true
		// verifier (flavor + opaque body) always precedes the accept_stat.
		if _, err := xdr.DecodeUint32(r); err != nil {
			return nil, newTransportError("truncated verf flavor: %s", err)
		}
		if _, err := xdr.DecodeOpaque(r); err != nil {
			return nil, newTransportError("truncated verf body: %s", err)
		}
		acceptStat, err := xdr.DecodeUint32(r)
		if err != nil {
			return nil, newTransportError("truncated accept_stat: %s", err)
		}
		hdr.AcceptState = acceptStat

		switch acceptStat {
		case Success:
			rest := make([]byte, r.Len())
			if _, err := r.Read(rest); err != nil && len(rest) > 0 {
				return nil, newTransportError("read reply body: %s", err)
			}
			hdr.Body = rest
			return hdr, nil
		case ProgUnavail:
			return hdr, newProgramError("program unavailable")
		case ProgMismatch:
			return hdr, newProgramError("program version mismatch")
		case ProcUnavail:
			return hdr, newProgramError("procedure unavailable")
		case GarbageArgs:
			return hdr, newProgramError("server could not decode arguments")
		default:
			return hdr, newProgramError("system error (accept_stat=%d)", acceptStat)
		}

	case MsgDenied:
		hdr.Accepted = false
		rejectStat, err := xdr.DecodeUint32(r)
		if err != nil {
			return nil, newTransportError("truncated reject_stat: %s", err)
		}
		hdr.RejectState = rejectStat
		if rejectStat == RPCMismatch {
			return hdr, newTransportError("RPC version mismatch")
		}
		authStat, err := xdr.DecodeUint32(r)
		if err != nil {
			return nil, newTransportError("truncated auth_stat: %s", err)
		}
		return hdr, newAuthError("authentication rejected (auth_stat=%d)", authStat)

	default:
		return nil, newTransportError("unexpected reply_stat %d", replyStat)
	}
}
