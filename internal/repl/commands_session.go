package repl

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/marmos91/nfsshell/internal/repl/args"
	"github.com/marmos91/nfsshell/internal/session"
)

// maxFileHandle is NFSv3's maximum opaque file handle length (RFC 1813
// FHSIZE3).
const maxFileHandle = 64

// cmdHost implements "host <hostname>": the Empty -> HostBound
// transition, and HostBound's re-binding to a different host.
func cmdHost(ctx context.Context, r *REPL, argv []string) error {
	if len(argv) != 1 {
		return usageError("usage: host <hostname>")
	}
	if err := r.Session.Host(ctx, argv[0], true); err != nil {
		return classify(err)
	}
	fmt.Fprintf(r.Out, "using host %s\n", r.Session.Host())
	return nil
}

// cmdUID implements "uid [n [key]]". With no arguments it prints the
// current uid; the optional trailing "key" token is accepted and
// ignored, a vestigial secure-NFS key slot left over from AUTH_DES,
// which this client never implements.
func cmdUID(ctx context.Context, r *REPL, argv []string) error {
	if len(argv) == 0 {
		fmt.Fprintf(r.Out, "uid=%d\n", r.Session.Credentials().UID)
		return nil
	}
	n, err := strconv.ParseUint(argv[0], 10, 32)
	if err != nil {
		return usageError("uid: invalid uid %q", argv[0])
	}
	if err := r.Session.SetCredentials(uint32(n), r.Session.Credentials().GID); err != nil {
		return classify(err)
	}
	return nil
}

// cmdGID implements "gid [n]".
func cmdGID(ctx context.Context, r *REPL, argv []string) error {
	if len(argv) == 0 {
		fmt.Fprintf(r.Out, "gid=%d\n", r.Session.Credentials().GID)
		return nil
	}
	n, err := strconv.ParseUint(argv[0], 10, 32)
	if err != nil {
		return usageError("gid: invalid gid %q", argv[0])
	}
	if err := r.Session.SetCredentials(r.Session.Credentials().UID, uint32(n)); err != nil {
		return classify(err)
	}
	return nil
}

// cmdMount implements "mount [-upTU] [-P port] path", the HostBound ->
// Mounted transition.
func cmdMount(ctx context.Context, r *REPL, argv []string) error {
	opts, rest, err := parseMountFlags(argv, true)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return usageError("usage: mount [-upTU] [-P port] path")
	}
	applyConfiguredTransferCap(r, &opts)
	if err := r.Session.Mount(ctx, rest[0], opts); err != nil {
		return classify(err)
	}
	fmt.Fprintf(r.Out, "mounted %s\n", rest[0])
	return nil
}

// cmdUmount implements "umount", the Mounted -> HostBound transition.
func cmdUmount(ctx context.Context, r *REPL, argv []string) error {
	if len(argv) != 0 {
		return usageError("usage: umount")
	}
	if err := r.Session.Umount(ctx); err != nil {
		return classify(err)
	}
	return nil
}

// cmdUmountAll implements "umountall": a single MOUNT3 UMNTALL
// round-trip clearing every mount entry this client is recorded as
// holding, distinct from "umount" which only releases the current
// mount path.
func cmdUmountAll(ctx context.Context, r *REPL, argv []string) error {
	if len(argv) != 0 {
		return usageError("usage: umountall")
	}
	mc := r.Session.MountClient()
	if mc == nil {
		return usageError("umountall: no host bound")
	}
	if err := mc.UmntAll(ctx); err != nil {
		return classify(err)
	}
	return nil
}

// cmdHandle implements "handle [-TU] [-P port] <hex-byte ...>": a
// HostBound session installs a synthetic handle and moves to Mounted;
// a Mounted session just changes its current handle. With no arguments
// it prints the current handle.
func cmdHandle(ctx context.Context, r *REPL, argv []string) error {
	opts, rest, err := parseMountFlags(argv, true)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		h := r.Session.CurrentHandle()
		if h == nil {
			fmt.Fprintln(r.Out, "no current handle")
			return nil
		}
		fmt.Fprintln(r.Out, formatHandle(h))
		return nil
	}

	handle, err := args.ParseHandle(rest, maxFileHandle)
	if err != nil {
		return usageError("%s", err)
	}
	applyConfiguredTransferCap(r, &opts)

	switch r.Session.State() {
	case session.Mounted:
		r.Session.SetCurrentHandle(handle)
		return nil
	case session.HostBound:
		if err := r.Session.HandleMount(ctx, handle, opts); err != nil {
			return classify(err)
		}
		return nil
	default:
		return usageError("handle: no host bound")
	}
}

// cmdStatus implements "status", reporting the bound host, session
// state, mount path, negotiated transfer size, and credentials.
func cmdStatus(ctx context.Context, r *REPL, argv []string) error {
	if len(argv) != 0 {
		return usageError("usage: status")
	}
	fmt.Fprintf(r.Out, "Host: %s\n", orNone(r.Session.Host()))
	fmt.Fprintf(r.Out, "State: %s\n", r.Session.State())
	fmt.Fprintf(r.Out, "Mount path: %s\n", orNone(r.Session.MountPath()))
	if r.Session.State() == session.Mounted {
		fmt.Fprintf(r.Out, "Transfer size: %d\n", r.Session.Wtmax())
	}
	creds := r.Session.Credentials()
	fmt.Fprintf(r.Out, "Credentials: uid=%d gid=%d\n", creds.UID, creds.GID)
	return nil
}

// applyConfiguredTransferCap fills opts.MaxTransferSize from the live
// config unless a caller already set one (there is no flag for this
// today, but a future -m <size> would take precedence).
func applyConfiguredTransferCap(r *REPL, opts *session.DialOptions) {
	if r.Watcher == nil || opts.MaxTransferSize != 0 {
		return
	}
	if max := r.Watcher.Config().MaxTransferSize; max > 0 {
		opts.MaxTransferSize = uint32(max.Uint64())
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func formatHandle(h []byte) string {
	parts := make([]string, len(h))
	for i, b := range h {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	return strings.Join(parts, " ")
}
