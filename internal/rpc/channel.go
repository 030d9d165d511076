package rpc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/marmos91/nfsshell/internal/logger"
)

// DefaultTimeout is the per-call timeout every channel starts with.
const DefaultTimeout = 60 * time.Second

// Channel binds a Transport to a specific (program, version) and tracks
// the monotonically increasing XID and AUTH_UNIX credentials used for
// every call made on it.
type Channel struct {
	transport Transport
	proto     Proto
	program   uint32
	version   uint32
	timeout   time.Duration

	mu    sync.Mutex
	xid   uint32
	cred  OpaqueAuth
	creds Credentials
}

// NewChannel wires an already-dialed Transport to the given RPC program
// and version, building an initial AUTH_UNIX credential from creds.
func NewChannel(transport Transport, proto Proto, program, version uint32, creds Credentials) (*Channel, error) {
	cred, err := BuildAuthUnix(creds)
	if err != nil {
		return nil, fmt.Errorf("build credentials: %w", err)
	}
	return &Channel{
		transport: transport,
		proto:     proto,
		program:   program,
		version:   version,
		timeout:   DefaultTimeout,
		xid:       1,
		cred:      cred,
		creds:     creds,
	}, nil
}

// Proto reports which transport this channel rides on.
func (c *Channel) Proto() Proto { return c.proto }

// SetTimeout overrides the per-call timeout (default DefaultTimeout).
func (c *Channel) SetTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = d
}

// SetCredentials rebuilds the AUTH_UNIX credential in place without
// touching the underlying socket: a uid/gid change only needs a new
// authenticator on the next call, not a fresh connection.
func (c *Channel) SetCredentials(creds Credentials) error {
	cred, err := BuildAuthUnix(creds)
	if err != nil {
		return fmt.Errorf("build credentials: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cred = cred
	c.creds = creds
	return nil
}

// Credentials returns the uid/gid currently in effect.
func (c *Channel) Credentials() Credentials {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.creds
}

// Call issues one RPC, blocking until a reply is received, the context is
// cancelled, or the channel timeout elapses (whichever is first). argBytes
// must already be XDR-encoded procedure arguments; the returned bytes are
// the XDR-encoded procedure result (envelope stripped).
func (c *Channel) Call(ctx context.Context, proc uint32, argBytes []byte) ([]byte, error) {
	c.mu.Lock()
	xid := c.xid
	c.xid++
	cred := c.cred
	timeout := c.timeout
	c.mu.Unlock()

	callCtx := ctx
	var cancel context.CancelFunc
	if _, ok := ctx.Deadline(); !ok {
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	callMsg, err := BuildCall(xid, c.program, c.version, proc, cred, AuthNullAuth(), argBytes)
	if err != nil {
		return nil, fmt.Errorf("build call: %w", err)
	}

	start := time.Now()
	logger.DebugCtx(ctx, "rpc call", logger.KeyProcedure, proc, logger.KeyRequestID, xid)

	replyMsg, err := c.transport.Send(callCtx, xid, callMsg)
	if err != nil {
		logger.DebugCtx(ctx, "rpc call failed", logger.KeyRequestID, xid, logger.KeyError, err.Error(),
			logger.KeyDurationMs, logger.Duration(start))
		return nil, err
	}

	hdr, err := ParseReply(replyMsg)
	if err != nil {
		return nil, err
	}
	if hdr.XID != xid {
		return nil, newTransportError("reply xid %d does not match call xid %d", hdr.XID, xid)
	}
	logger.DebugCtx(ctx, "rpc call complete", logger.KeyRequestID, xid, logger.KeyDurationMs, logger.Duration(start))
	return hdr.Body, nil
}

// Close releases the underlying transport (socket).
func (c *Channel) Close() error {
	return c.transport.Close()
}
