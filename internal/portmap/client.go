package portmap

import (
	"context"
	"fmt"
	"net"

	"github.com/marmos91/nfsshell/internal/privport"
	"github.com/marmos91/nfsshell/internal/rpc"
)

// Client talks to a remote portmapper over UDP (the conventional
// transport for program 100000, per RFC 1057).
type Client struct {
	channel *rpc.Channel
}

// Dial connects to the portmapper on host:111. privileged requests a
// source port in 512-1023; creds are sent as AUTH_UNIX though the
// portmapper itself ignores them for read-only procedures.
func Dial(ctx context.Context, host string, privileged bool, creds rpc.Credentials) (*Client, error) {
	raddr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", host, WellKnownPort))
	if err != nil {
		return nil, fmt.Errorf("portmap: resolve %s: %w", host, err)
	}

	conn, err := privport.Dial("udp", nil, raddr, privileged)
	if err != nil {
		return nil, fmt.Errorf("portmap: dial %s: %w", host, err)
	}

	transport := rpc.NewUDPTransport(conn)
	channel, err := rpc.NewChannel(transport, rpc.ProtoUDP, Program, Version, creds)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &Client{channel: channel}, nil
}

// DialConn wraps an already-connected net.Conn as a portmap client, used
// by the source-route dialer which needs to install IP_OPTIONS before
// connecting.
func DialConn(conn net.Conn, creds rpc.Credentials) (*Client, error) {
	transport := rpc.NewUDPTransport(conn)
	channel, err := rpc.NewChannel(transport, rpc.ProtoUDP, Program, Version, creds)
	if err != nil {
		return nil, err
	}
	return &Client{channel: channel}, nil
}

// Close releases the underlying socket.
func (c *Client) Close() error {
	return c.channel.Close()
}

// Null pings the portmapper (connectivity check).
func (c *Client) Null(ctx context.Context) error {
	_, err := c.channel.Call(ctx, ProcNull, nil)
	return err
}

// GetPort resolves the port a (program, version) pair listens on,
// returning 0 if no such service is registered.
func (c *Client) GetPort(ctx context.Context, program, version, proto uint32) (uint32, error) {
	args := encodeMapping(Mapping{Prog: program, Vers: version, Prot: proto})
	reply, err := c.channel.Call(ctx, ProcGetport, args)
	if err != nil {
		return 0, err
	}
	return decodeGetportResult(reply)
}

// Dump lists every (program, version, protocol, port) mapping the remote
// portmapper currently holds. No REPL command calls it: the "dump"
// command issues MOUNT3 DUMP instead.
func (c *Client) Dump(ctx context.Context) ([]DumpEntry, error) {
	reply, err := c.channel.Call(ctx, ProcDump, nil)
	if err != nil {
		return nil, err
	}
	return decodeDumpResult(reply)
}

// CallIt proxies a call to another RPC program through the portmapper,
// used as a last resort when a service's real port is firewalled off but
// 111/udp is reachable (RFC 1057 Section A). The caller supplies
// already-encoded procedure arguments and gets back the proxied port and
// the opaque result bytes.
func (c *Client) CallIt(ctx context.Context, program, version, proc uint32, args []byte) (port uint32, result []byte, err error) {
	reply, err := c.channel.Call(ctx, ProcCallit, encodeCallitArgs(program, version, proc, args))
	if err != nil {
		return 0, nil, err
	}
	res, err := decodeCallitResult(reply)
	if err != nil {
		return 0, nil, err
	}
	return res.Port, res.Result, nil
}
