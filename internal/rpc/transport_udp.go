package rpc

import (
	"bytes"
	"context"
	"net"
	"time"

	"github.com/marmos91/nfsshell/internal/protocol/xdr"
)

// initialBackoff and maxBackoff bound the UDP retransmit schedule:
// exponential backoff, bounded by the per-call timeout.
const (
	initialBackoff = 250 * time.Millisecond
	maxBackoff     = 2 * time.Second
)

// udpTransport sends a single datagram per attempt and retransmits with
// exponential backoff until a reply with a matching XID arrives or the
// context deadline elapses. Replies with a mismatched XID are discarded
// and the receive loop continues. The wrapped conn is always already
// connected to its single peer (privport.Dial and sourceroute.Dial both
// connect the datagram socket before handing it back), so this writes
// and reads on it directly rather than through the PacketConn
// WriteTo/ReadFrom pair, which Go rejects on a connected UDP socket.
type udpTransport struct {
	conn net.Conn
}

// NewUDPTransport wraps an already-connected net.Conn (a *net.UDPConn
// dialed or connect(2)'d to a single peer) as an ONC-RPC UDP transport.
func NewUDPTransport(conn net.Conn) Transport {
	return &udpTransport{conn: conn}
}

func (t *udpTransport) Send(ctx context.Context, xid uint32, callMsg []byte) ([]byte, error) {
	backoff := initialBackoff
	buf := make([]byte, 65536)

	for {
		if _, err := t.conn.Write(callMsg); err != nil {
			return nil, newTransportError("write datagram: %s", err)
		}

		attemptDeadline := time.Now().Add(backoff)
		if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(attemptDeadline) {
			attemptDeadline = ctxDeadline
		}
		if err := t.conn.SetReadDeadline(attemptDeadline); err != nil {
			return nil, newTransportError("set read deadline: %s", err)
		}

		for {
			n, err := t.conn.Read(buf)
			if err != nil {
				if ne, ok := err.(net.Error); ok && ne.Timeout() {
					break // fall through to retransmit or give up
				}
				return nil, newTransportError("read datagram: %s", err)
			}

			replyXID, xerr := xdr.DecodeUint32(bytes.NewReader(buf[:n]))
			if xerr != nil {
				continue
			}
			if replyXID != xid {
				continue // stale reply from an earlier retransmission or unrelated call
			}
			return append([]byte(nil), buf[:n]...), nil
		}

		select {
		case <-ctx.Done():
			return nil, newTransportError("timed out waiting for reply: %s", ctx.Err())
		default:
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

func (t *udpTransport) Close() error {
	return t.conn.Close()
}

func (t *udpTransport) LocalAddr() net.Addr {
	return t.conn.LocalAddr()
}
