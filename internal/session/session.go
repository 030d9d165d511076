// Package session holds the single piece of process-wide mutable state
// the REPL operates on: the current host binding, mount, and directory
// handle, passed explicitly to each command handler instead of living
// in package-level globals.
package session

import (
	"context"
	"fmt"
	"net"

	"github.com/marmos91/nfsshell/internal/logger"
	"github.com/marmos91/nfsshell/internal/mount"
	"github.com/marmos91/nfsshell/internal/nfs3"
	"github.com/marmos91/nfsshell/internal/portmap"
	"github.com/marmos91/nfsshell/internal/rpc"
	"github.com/marmos91/nfsshell/internal/sourceroute"
)

// State names the session's position in its host/mount lifecycle.
type State int

const (
	Empty State = iota
	HostBound
	Mounted
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case HostBound:
		return "host-bound"
	case Mounted:
		return "mounted"
	default:
		return "unknown"
	}
}

// defaultWtmax is used when FSINFO fails or hasn't been called yet.
const defaultWtmax = 8192

// DialOptions controls how the NFS/MOUNT channels for a mount are
// established.
type DialOptions struct {
	ForceTCP    bool
	ForceUDP    bool
	ViaPortmap  bool
	HideMount   bool
	Port        int // explicit -P override; 0 means "discover via portmap"
	Privileged  bool

	// MaxTransferSize caps the negotiated wtmax regardless of what the
	// server's FSINFO reply advertises. Zero means no cap.
	MaxTransferSize uint32
}

// Session is the process-wide state the REPL mutates between commands.
type Session struct {
	state State

	hostDisplay string
	hostAddr    string

	mountClient *mount.Client
	nfsClient   *nfs3.Client

	mountPath string // server-side path, or "<handle>" for a synthetic mount
	rootFH    []byte
	cwdFH     []byte
	wtmax     uint32

	creds rpc.Credentials

	// route is the parsed form of the host expression the session was
	// bound with. Every host expression parses (a bare hostname is a
	// Route with no hops and no source address); a route carrying hops
	// or a source address routes every subsequent dial for this host
	// through the IP loose-source-routing socket path instead of a
	// plain connect.
	route *sourceroute.Route
}

// New returns a session in the Empty state with the given default
// credentials.
func New(uid, gid uint32) *Session {
	return &Session{state: Empty, creds: rpc.Credentials{UID: uid, GID: gid}}
}

func (s *Session) State() State        { return s.state }
func (s *Session) Host() string        { return s.hostDisplay }
func (s *Session) MountPath() string   { return s.mountPath }
func (s *Session) RootHandle() []byte  { return s.rootFH }
func (s *Session) CurrentHandle() []byte { return s.cwdFH }
func (s *Session) Wtmax() uint32       { return s.wtmax }
func (s *Session) Credentials() rpc.Credentials { return s.creds }
func (s *Session) NFS() *nfs3.Client   { return s.nfsClient }

// MountClient exposes the underlying MOUNT3 client for commands that need
// to issue MOUNT procedures directly (umountall).
func (s *Session) MountClient() *mount.Client { return s.mountClient }

// SetCurrentHandle installs a user-supplied handle as the current
// directory without otherwise touching session state (the `handle`
// command).
func (s *Session) SetCurrentHandle(h []byte) {
	s.cwdFH = h
}

// SetCredentials rebuilds the NFS channel's authenticator in place
// without tearing down the socket.
func (s *Session) SetCredentials(uid, gid uint32) error {
	s.creds = rpc.Credentials{UID: uid, GID: gid}
	if s.nfsClient != nil {
		if err := s.nfsClient.SetCredentials(s.creds); err != nil {
			return err
		}
	}
	if s.mountClient != nil {
		if err := s.mountClient.SetCredentials(s.creds); err != nil {
			return err
		}
	}
	return nil
}

// Host parses hostExpr as a route expression (bare hostnames parse as
// a destination-only route) and opens a MOUNT channel, trying TCP then
// falling back to UDP, moving the session from Empty to HostBound. Any
// previously open session is closed first.
func (s *Session) Host(ctx context.Context, hostExpr string, privileged bool) error {
	if s.state != Empty {
		s.Close(ctx)
	}

	route, err := sourceroute.Parse(hostExpr)
	if err != nil {
		return fmt.Errorf("host: %w", err)
	}

	addr := route.Destination
	if net.ParseIP(addr) == nil {
		ips, err := net.LookupHost(addr)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", addr, err)
		}
		if len(ips) == 0 {
			return fmt.Errorf("resolve %s: no addresses", addr)
		}
		addr = ips[0]
		route.Destination = addr
	}

	s.route = route
	s.hostAddr = addr

	pm, err := s.dialPortmap(ctx, privileged)
	if err != nil {
		return fmt.Errorf("contact portmapper on %s: %w", hostExpr, err)
	}
	mountPort, err := pm.GetPort(ctx, mount.Program, mount.Version, portmap.ProtoTCP)
	pm.Close()
	if err != nil || mountPort == 0 {
		mountPort = 635 // conventional mountd port when portmap lookup fails
	}

	mountClient, network, err := s.dialMountWithFallback(ctx, int(mountPort), privileged)
	if err != nil {
		s.route = nil
		s.hostAddr = ""
		return fmt.Errorf("open mount channel to %s: %w", hostExpr, err)
	}

	logger.Info("host bound", "host", hostExpr, "addr", addr, "mount_transport", network,
		"routed", len(route.Hops) > 0 || route.SrcAddr != "")

	s.hostDisplay = hostExpr
	s.mountClient = mountClient
	s.state = HostBound
	return nil
}

// dialPortmap opens a portmap channel to the bound host, routing through
// sourceroute.Dial when the host expression carried hops or a source
// address, and through a plain dial otherwise.
func (s *Session) dialPortmap(ctx context.Context, privileged bool) (*portmap.Client, error) {
	if s.routed() {
		conn, err := sourceroute.Dial("udp", s.route, int(portmap.WellKnownPort), privileged)
		if err != nil {
			return nil, err
		}
		return portmap.DialConn(conn, s.creds)
	}
	return portmap.Dial(ctx, s.hostAddr, privileged, s.creds)
}

// routed reports whether the bound host expression requires source
// routing rather than a plain connect.
func (s *Session) routed() bool {
	return s.route != nil && (len(s.route.Hops) > 0 || s.route.SrcAddr != "")
}

func (s *Session) dialMountWithFallback(ctx context.Context, port int, privileged bool) (*mount.Client, string, error) {
	c, err := s.dialMount(ctx, "tcp", port, privileged)
	if err == nil {
		return c, "tcp", nil
	}
	c, err = s.dialMount(ctx, "udp", port, privileged)
	if err != nil {
		return nil, "", err
	}
	return c, "udp", nil
}

func (s *Session) dialMount(ctx context.Context, network string, port int, privileged bool) (*mount.Client, error) {
	if s.routed() {
		conn, err := sourceroute.Dial(network, s.route, port, privileged)
		if err != nil {
			return nil, err
		}
		proto := rpc.ProtoTCP
		if network == "udp" {
			proto = rpc.ProtoUDP
		}
		c, err := mount.DialConn(conn, proto, s.creds)
		if err != nil {
			conn.Close()
			return nil, err
		}
		return c, nil
	}
	return mount.Dial(ctx, network, s.hostAddr, port, privileged, s.creds)
}

// Mount performs a MOUNT3 MNT against path (or via a portmap CALLIT proxy
// when opts.ViaPortmap is set), opens the NFS channel, and calls FSINFO
// to discover the server's write transfer size.
//
// The NFS channel always dials the NFS service's own port, never the
// mount endpoint's, even though the two commonly share a host.
func (s *Session) Mount(ctx context.Context, path string, opts DialOptions) error {
	if s.state != HostBound {
		return fmt.Errorf("mount: no host bound")
	}

	lc := logger.NewLogContext(s.hostAddr).WithShare(path).WithAuth(s.creds.UID, s.creds.GID, uint32(rpc.AuthUnix))
	ctx = logger.WithContext(ctx, lc)

	var mntResult *mount.MountResult
	if opts.ViaPortmap {
		res, err := s.mountViaPortmap(ctx, path, opts.Privileged)
		if err != nil {
			return err
		}
		mntResult = res
	} else {
		res, err := s.mountClient.Mnt(ctx, path)
		if err != nil {
			return fmt.Errorf("mount: %w", err)
		}
		mntResult = res
	}

	if mntResult.Status != mount.OK {
		return fmt.Errorf("mount: %s", mount.StatusMessage(mntResult.Status))
	}

	nfsPort := opts.Port
	if nfsPort == 0 {
		pm, err := s.dialPortmap(ctx, opts.Privileged)
		if err == nil {
			proto := portmap.ProtoTCP
			if opts.ForceUDP {
				proto = portmap.ProtoUDP
			}
			port, gerr := pm.GetPort(ctx, nfs3.Program, nfs3.Version, proto)
			pm.Close()
			if gerr == nil && port != 0 {
				nfsPort = int(port)
			}
		}
		if nfsPort == 0 {
			nfsPort = 2049 // conventional nfsd port when portmap lookup fails
		}
	}

	nfsClient, err := s.dialNFS(ctx, nfsPort, opts)
	if err != nil {
		return fmt.Errorf("open NFS channel: %w", err)
	}

	s.mountPath = path
	s.rootFH = mntResult.FileHandle
	s.cwdFH = mntResult.FileHandle
	s.nfsClient = nfsClient
	s.wtmax = defaultWtmax
	s.state = Mounted

	if fsinfo, err := nfsClient.Fsinfo(ctx, s.rootFH); err == nil && fsinfo.Status == nfs3.OK && fsinfo.Wtmax > 0 {
		s.wtmax = fsinfo.Wtmax
	}
	if opts.MaxTransferSize > 0 && opts.MaxTransferSize < s.wtmax {
		s.wtmax = opts.MaxTransferSize
	}

	if opts.HideMount {
		if err := s.mountClient.Umnt(ctx, path); err != nil {
			logger.Warn("hidden mount: UMNT after MNT failed", "path", path, "error", err)
		}
	}

	return nil
}

func (s *Session) dialNFS(ctx context.Context, port int, opts DialOptions) (*nfs3.Client, error) {
	if opts.ForceTCP {
		return s.dialNFSNetwork(ctx, "tcp", port, opts.Privileged)
	}
	if opts.ForceUDP {
		return s.dialNFSNetwork(ctx, "udp", port, opts.Privileged)
	}
	c, err := s.dialNFSNetwork(ctx, "tcp", port, opts.Privileged)
	if err == nil {
		return c, nil
	}
	return s.dialNFSNetwork(ctx, "udp", port, opts.Privileged)
}

func (s *Session) dialNFSNetwork(ctx context.Context, network string, port int, privileged bool) (*nfs3.Client, error) {
	if s.routed() {
		conn, err := sourceroute.Dial(network, s.route, port, privileged)
		if err != nil {
			return nil, err
		}
		proto := rpc.ProtoTCP
		if network == "udp" {
			proto = rpc.ProtoUDP
		}
		c, err := nfs3.DialConn(conn, proto, s.creds)
		if err != nil {
			conn.Close()
			return nil, err
		}
		return c, nil
	}
	return nfs3.Dial(ctx, network, s.hostAddr, port, privileged, s.creds)
}

// mountViaPortmap performs MNT by proxying the call through the remote
// portmapper's CALLIT procedure: the result handle is identical to a
// direct MNT.
func (s *Session) mountViaPortmap(ctx context.Context, path string, privileged bool) (*mount.MountResult, error) {
	pm, err := s.dialPortmap(ctx, privileged)
	if err != nil {
		return nil, fmt.Errorf("mount via portmap: %w", err)
	}
	defer pm.Close()

	args, err := mount.EncodeMntArgs(path)
	if err != nil {
		return nil, err
	}
	_, result, err := pm.CallIt(ctx, mount.Program, mount.Version, mount.ProcMnt, args)
	if err != nil {
		return nil, fmt.Errorf("mount via portmap: %w", err)
	}
	return mount.DecodeMntResult(result)
}

// HandleMount installs a user-supplied handle directly, skipping MNT,
// moving the session from HostBound to a synthetic Mounted.
func (s *Session) HandleMount(ctx context.Context, handle []byte, opts DialOptions) error {
	if s.state != HostBound {
		return fmt.Errorf("handle: no host bound")
	}

	nfsPort := opts.Port
	if nfsPort == 0 {
		pm, err := s.dialPortmap(ctx, opts.Privileged)
		if err == nil {
			port, gerr := pm.GetPort(ctx, nfs3.Program, nfs3.Version, portmap.ProtoTCP)
			pm.Close()
			if gerr == nil && port != 0 {
				nfsPort = int(port)
			}
		}
		if nfsPort == 0 {
			nfsPort = 2049
		}
	}

	nfsClient, err := s.dialNFS(ctx, nfsPort, opts)
	if err != nil {
		return fmt.Errorf("open NFS channel: %w", err)
	}

	s.mountPath = "<handle>"
	s.rootFH = handle
	s.cwdFH = handle
	s.nfsClient = nfsClient
	s.wtmax = defaultWtmax
	if opts.MaxTransferSize > 0 && opts.MaxTransferSize < s.wtmax {
		s.wtmax = opts.MaxTransferSize
	}
	s.state = Mounted
	return nil
}

// Umount calls MOUNT3 UMNT and tears down the NFS channel, moving the
// session from Mounted back to HostBound.
func (s *Session) Umount(ctx context.Context) error {
	if s.state != Mounted {
		return fmt.Errorf("umount: not mounted")
	}
	var umntErr error
	if s.mountPath != "<handle>" {
		umntErr = s.mountClient.Umnt(ctx, s.mountPath)
	}
	if s.nfsClient != nil {
		s.nfsClient.Close()
	}
	s.nfsClient = nil
	s.mountPath = ""
	s.rootFH = nil
	s.cwdFH = nil
	s.state = HostBound
	return umntErr
}

// Close cascades a full teardown: NFS first, then MOUNT.
func (s *Session) Close(ctx context.Context) {
	if s.nfsClient != nil {
		s.nfsClient.Close()
		s.nfsClient = nil
	}
	if s.mountClient != nil {
		s.mountClient.Close()
		s.mountClient = nil
	}
	s.state = Empty
	s.hostDisplay = ""
	s.hostAddr = ""
	s.route = nil
	s.mountPath = ""
	s.rootFH = nil
	s.cwdFH = nil
}

// Dump returns this session's own MOUNT RPC view of active mounts, used
// by the "dump" command.
func (s *Session) Dump(ctx context.Context) ([]mount.MountEntry, error) {
	if s.mountClient == nil {
		return nil, fmt.Errorf("dump: no host bound")
	}
	return s.mountClient.Dump(ctx)
}

// Export returns the server's export list, used by "export".
func (s *Session) Export(ctx context.Context) ([]mount.ExportEntry, error) {
	if s.mountClient == nil {
		return nil, fmt.Errorf("export: no host bound")
	}
	return s.mountClient.Export(ctx)
}
