package mount

import (
	"context"
	"fmt"
	"net"

	"github.com/marmos91/nfsshell/internal/privport"
	"github.com/marmos91/nfsshell/internal/rpc"
)

// Client talks MOUNT3 to a single server over either TCP or UDP.
type Client struct {
	channel *rpc.Channel
}

// Dial connects to the mount service at host:port over the given
// transport ("tcp" or "udp"). privileged requests a reserved source
// port.
func Dial(ctx context.Context, network, host string, port int, privileged bool, creds rpc.Credentials) (*Client, error) {
	var channel *rpc.Channel
	switch network {
	case "tcp":
		raddr, err := net.ResolveTCPAddr("tcp", fmt.Sprintf("%s:%d", host, port))
		if err != nil {
			return nil, fmt.Errorf("mount: resolve %s: %w", host, err)
		}
		conn, err := privport.Dial("tcp", raddr, nil, privileged)
		if err != nil {
			return nil, fmt.Errorf("mount: dial %s: %w", host, err)
		}
		transport := rpc.NewTCPTransport(conn)
		channel, err = rpc.NewChannel(transport, rpc.ProtoTCP, Program, Version, creds)
		if err != nil {
			conn.Close()
			return nil, err
		}
	case "udp":
		raddr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", host, port))
		if err != nil {
			return nil, fmt.Errorf("mount: resolve %s: %w", host, err)
		}
		conn, err := privport.Dial("udp", nil, raddr, privileged)
		if err != nil {
			return nil, fmt.Errorf("mount: dial %s: %w", host, err)
		}
		transport := rpc.NewUDPTransport(conn)
		channel, err = rpc.NewChannel(transport, rpc.ProtoUDP, Program, Version, creds)
		if err != nil {
			conn.Close()
			return nil, err
		}
	default:
		return nil, fmt.Errorf("mount: unsupported network %q", network)
	}

	return &Client{channel: channel}, nil
}

// DialConn wraps an already-connected net.Conn as a MOUNT3 client, used by
// the source-route dialer which needs to install IP_OPTIONS before
// connecting.
func DialConn(conn net.Conn, proto rpc.Proto, creds rpc.Credentials) (*Client, error) {
	var transport rpc.Transport
	switch proto {
	case rpc.ProtoTCP:
		transport = rpc.NewTCPTransport(conn)
	case rpc.ProtoUDP:
		transport = rpc.NewUDPTransport(conn)
	default:
		return nil, fmt.Errorf("mount: unknown transport")
	}
	channel, err := rpc.NewChannel(transport, proto, Program, Version, creds)
	if err != nil {
		return nil, err
	}
	return &Client{channel: channel}, nil
}

// Close releases the underlying socket.
func (c *Client) Close() error {
	return c.channel.Close()
}

// SetCredentials propagates a uid/gid change onto the channel's
// AUTH_UNIX authenticator without reconnecting.
func (c *Client) SetCredentials(creds rpc.Credentials) error {
	return c.channel.SetCredentials(creds)
}

// Null pings the mount service.
func (c *Client) Null(ctx context.Context) error {
	_, err := c.channel.Call(ctx, ProcNull, nil)
	return err
}

// Mnt requests a file handle for dirpath.
func (c *Client) Mnt(ctx context.Context, dirpath string) (*MountResult, error) {
	args, err := encodeDirPath(dirpath)
	if err != nil {
		return nil, err
	}
	reply, err := c.channel.Call(ctx, ProcMnt, args)
	if err != nil {
		return nil, err
	}
	return decodeMountResult(reply)
}

// Umnt releases the mount entry this client holds for dirpath.
func (c *Client) Umnt(ctx context.Context, dirpath string) error {
	args, err := encodeDirPath(dirpath)
	if err != nil {
		return err
	}
	_, err = c.channel.Call(ctx, ProcUmnt, args)
	return err
}

// UmntAll releases every mount entry the server holds for this client,
// regardless of which directories were mounted.
func (c *Client) UmntAll(ctx context.Context) error {
	_, err := c.channel.Call(ctx, ProcUmntAll, nil)
	return err
}

// Dump lists every client/directory pair the server currently has
// mounted.
func (c *Client) Dump(ctx context.Context) ([]MountEntry, error) {
	reply, err := c.channel.Call(ctx, ProcDump, nil)
	if err != nil {
		return nil, err
	}
	return decodeMountList(reply)
}

// Export lists every directory the server exports and the groups
// allowed to mount each one.
func (c *Client) Export(ctx context.Context) ([]ExportEntry, error) {
	reply, err := c.channel.Call(ctx, ProcExport, nil)
	if err != nil {
		return nil, err
	}
	return decodeExportList(reply)
}
