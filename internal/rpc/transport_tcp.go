package rpc

import (
	"context"
	"net"
	"sync"
	"time"
)

// tcpTransport sends one RPC message per call over a single persistent
// connection, framed with record marks. A broken connection is reported
// as a call failure and is not silently reconnected.
type tcpTransport struct {
	conn net.Conn
	mu   sync.Mutex // serializes calls: one request in flight at a time
}

// NewTCPTransport wraps an already-connected net.Conn as an ONC-RPC TCP
// transport.
func NewTCPTransport(conn net.Conn) Transport {
	return &tcpTransport{conn: conn}
}

func (t *tcpTransport) Send(ctx context.Context, xid uint32, callMsg []byte) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		if err := t.conn.SetDeadline(deadline); err != nil {
			return nil, newTransportError("set deadline: %s", err)
		}
	}
	defer t.conn.SetDeadline(time.Time{})

	if err := WriteRecord(t.conn, callMsg); err != nil {
		return nil, newTransportError("write call: %s", err)
	}

	reply, err := ReadRecord(t.conn)
	if err != nil {
		return nil, newTransportError("read reply: %s", err)
	}
	return reply, nil
}

func (t *tcpTransport) Close() error {
	return t.conn.Close()
}

func (t *tcpTransport) LocalAddr() net.Addr {
	return t.conn.LocalAddr()
}
