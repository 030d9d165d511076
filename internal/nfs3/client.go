package nfs3

import (
	"context"
	"fmt"
	"net"

	"github.com/marmos91/nfsshell/internal/privport"
	"github.com/marmos91/nfsshell/internal/rpc"
)

// Client talks NFSv3 to a single server over either TCP or UDP.
type Client struct {
	channel *rpc.Channel
}

// Dial connects to the NFS service at host:port. privileged requests a
// reserved source port.
func Dial(ctx context.Context, network, host string, port int, privileged bool, creds rpc.Credentials) (*Client, error) {
	var channel *rpc.Channel
	switch network {
	case "tcp":
		raddr, err := net.ResolveTCPAddr("tcp", fmt.Sprintf("%s:%d", host, port))
		if err != nil {
			return nil, fmt.Errorf("nfs3: resolve %s: %w", host, err)
		}
		conn, err := privport.Dial("tcp", raddr, nil, privileged)
		if err != nil {
			return nil, fmt.Errorf("nfs3: dial %s: %w", host, err)
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
			return nil, fmt.Errorf("nfs3: resolve %s: %w", host, err)
		}
		conn, err := privport.Dial("udp", nil, raddr, privileged)
		if err != nil {
			return nil, fmt.Errorf("nfs3: dial %s: %w", host, err)
		}
		transport := rpc.NewUDPTransport(conn)
		channel, err = rpc.NewChannel(transport, rpc.ProtoUDP, Program, Version, creds)
		if err != nil {
			conn.Close()
			return nil, err
		}
	default:
		return nil, fmt.Errorf("nfs3: unsupported network %q", network)
	}
	return &Client{channel: channel}, nil
}

// DialConn wraps an already-connected net.Conn (used by the source-route
// dialer, which needs to install IP_OPTIONS before connecting).
func DialConn(conn net.Conn, proto rpc.Proto, creds rpc.Credentials) (*Client, error) {
	var transport rpc.Transport
	switch proto {
	case rpc.ProtoTCP:
		transport = rpc.NewTCPTransport(conn)
	case rpc.ProtoUDP:
		transport = rpc.NewUDPTransport(conn)
	default:
		return nil, fmt.Errorf("nfs3: unknown transport")
	}
	channel, err := rpc.NewChannel(transport, proto, Program, Version, creds)
	if err != nil {
		return nil, err
	}
	return &Client{channel: channel}, nil
}

// Close releases the underlying socket.
func (c *Client) Close() error { return c.channel.Close() }

// SetCredentials propagates a uid/gid change onto the channel's
// AUTH_UNIX authenticator without reconnecting.
func (c *Client) SetCredentials(creds rpc.Credentials) error {
	return c.channel.SetCredentials(creds)
}

func (c *Client) Null(ctx context.Context) error {
	_, err := c.channel.Call(ctx, ProcNull, nil)
	return err
}

func (c *Client) Getattr(ctx context.Context, handle []byte) (*GetattrResult, error) {
	args, err := encodeGetattrArgs(handle)
	if err != nil {
		return nil, err
	}
	reply, err := c.channel.Call(ctx, ProcGetattr, args)
	if err != nil {
		return nil, err
	}
	return decodeGetattrResult(reply)
}

func (c *Client) Setattr(ctx context.Context, handle []byte, sa SetAttr) (*SetattrResult, error) {
	args, err := encodeSetattrArgs(handle, sa)
	if err != nil {
		return nil, err
	}
	reply, err := c.channel.Call(ctx, ProcSetattr, args)
	if err != nil {
		return nil, err
	}
	return decodeSetattrResult(reply)
}

func (c *Client) Lookup(ctx context.Context, dir []byte, name string) (*LookupResult, error) {
	args, err := encodeLookupArgs(dir, name)
	if err != nil {
		return nil, err
	}
	reply, err := c.channel.Call(ctx, ProcLookup, args)
	if err != nil {
		return nil, err
	}
	return decodeLookupResult(reply)
}

func (c *Client) Access(ctx context.Context, handle []byte, wanted uint32) (*AccessResult, error) {
	args, err := encodeAccessArgs(handle, wanted)
	if err != nil {
		return nil, err
	}
	reply, err := c.channel.Call(ctx, ProcAccess, args)
	if err != nil {
		return nil, err
	}
	return decodeAccessResult(reply)
}

func (c *Client) Readlink(ctx context.Context, handle []byte) (*ReadlinkResult, error) {
	args, err := encodeReadlinkArgs(handle)
	if err != nil {
		return nil, err
	}
	reply, err := c.channel.Call(ctx, ProcReadlink, args)
	if err != nil {
		return nil, err
	}
	return decodeReadlinkResult(reply)
}

func (c *Client) Read(ctx context.Context, handle []byte, offset uint64, count uint32) (*ReadResult, error) {
	args, err := encodeReadArgs(handle, offset, count)
	if err != nil {
		return nil, err
	}
	reply, err := c.channel.Call(ctx, ProcRead, args)
	if err != nil {
		return nil, err
	}
	return decodeReadResult(reply)
}

func (c *Client) Write(ctx context.Context, handle []byte, offset uint64, data []byte) (*WriteResult, error) {
	args, err := encodeWriteArgs(handle, offset, data)
	if err != nil {
		return nil, err
	}
	reply, err := c.channel.Call(ctx, ProcWrite, args)
	if err != nil {
		return nil, err
	}
	return decodeWriteResult(reply)
}

func (c *Client) Create(ctx context.Context, dir []byte, name string, mode uint32, attr SetAttr, verifier uint64) (*CreateResult, error) {
	args, err := encodeCreateArgs(dir, name, mode, attr, verifier)
	if err != nil {
		return nil, err
	}
	reply, err := c.channel.Call(ctx, ProcCreate, args)
	if err != nil {
		return nil, err
	}
	return decodeCreateLikeResult(reply)
}

func (c *Client) Mkdir(ctx context.Context, dir []byte, name string, attr SetAttr) (*CreateResult, error) {
	args, err := encodeMkdirArgs(dir, name, attr)
	if err != nil {
		return nil, err
	}
	reply, err := c.channel.Call(ctx, ProcMkdir, args)
	if err != nil {
		return nil, err
	}
	return decodeCreateLikeResult(reply)
}

func (c *Client) Symlink(ctx context.Context, dir []byte, name, target string, attr SetAttr) (*CreateResult, error) {
	args, err := encodeSymlinkArgs(dir, name, target, attr)
	if err != nil {
		return nil, err
	}
	reply, err := c.channel.Call(ctx, ProcSymlink, args)
	if err != nil {
		return nil, err
	}
	return decodeCreateLikeResult(reply)
}

func (c *Client) Mknod(ctx context.Context, dir []byte, name string, kind uint32, attr SetAttr, major, minor uint32) (*CreateResult, error) {
	args, err := encodeMknodArgs(dir, name, kind, attr, major, minor)
	if err != nil {
		return nil, err
	}
	reply, err := c.channel.Call(ctx, ProcMknod, args)
	if err != nil {
		return nil, err
	}
	return decodeCreateLikeResult(reply)
}

func (c *Client) Remove(ctx context.Context, dir []byte, name string) (*WccResult, error) {
	args, err := encodeRemoveArgs(dir, name)
	if err != nil {
		return nil, err
	}
	reply, err := c.channel.Call(ctx, ProcRemove, args)
	if err != nil {
		return nil, err
	}
	return decodeWccResult(reply)
}

func (c *Client) Rmdir(ctx context.Context, dir []byte, name string) (*WccResult, error) {
	args, err := encodeRmdirArgs(dir, name)
	if err != nil {
		return nil, err
	}
	reply, err := c.channel.Call(ctx, ProcRmdir, args)
	if err != nil {
		return nil, err
	}
	return decodeWccResult(reply)
}

func (c *Client) Rename(ctx context.Context, fromDir []byte, fromName string, toDir []byte, toName string) (*RenameResult, error) {
	args, err := encodeRenameArgs(fromDir, fromName, toDir, toName)
	if err != nil {
		return nil, err
	}
	reply, err := c.channel.Call(ctx, ProcRename, args)
	if err != nil {
		return nil, err
	}
	return decodeRenameResult(reply)
}

func (c *Client) Link(ctx context.Context, handle []byte, dir []byte, name string) (*LinkResult, error) {
	args, err := encodeLinkArgs(handle, dir, name)
	if err != nil {
		return nil, err
	}
	reply, err := c.channel.Call(ctx, ProcLink, args)
	if err != nil {
		return nil, err
	}
	return decodeLinkResult(reply)
}

func (c *Client) Readdir(ctx context.Context, dir []byte, cookie, cookieVerf uint64, count uint32) (*ReaddirResult, error) {
	args, err := encodeReaddirArgs(dir, cookie, cookieVerf, count)
	if err != nil {
		return nil, err
	}
	reply, err := c.channel.Call(ctx, ProcReaddir, args)
	if err != nil {
		return nil, err
	}
	return decodeReaddirResult(reply)
}

func (c *Client) Fsstat(ctx context.Context, handle []byte) (*FsstatResult, error) {
	args, err := encodeFsstatArgs(handle)
	if err != nil {
		return nil, err
	}
	reply, err := c.channel.Call(ctx, ProcFsstat, args)
	if err != nil {
		return nil, err
	}
	return decodeFsstatResult(reply)
}

func (c *Client) Fsinfo(ctx context.Context, handle []byte) (*FsinfoResult, error) {
	args, err := encodeFsinfoArgs(handle)
	if err != nil {
		return nil, err
	}
	reply, err := c.channel.Call(ctx, ProcFsinfo, args)
	if err != nil {
		return nil, err
	}
	return decodeFsinfoResult(reply)
}
