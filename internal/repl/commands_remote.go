package repl

import (
	"context"
	"fmt"
	"net"

	"github.com/marmos91/nfsshell/internal/mount"
	"github.com/marmos91/nfsshell/internal/portmap"
	"github.com/marmos91/nfsshell/internal/repl/output"
)

// exportRemoteHost implements "export -h host": a one-shot MOUNT3
// EXPORT against a host other than the bound session, opening and
// closing its own MOUNT channel without touching r.Session.
func exportRemoteHost(ctx context.Context, r *REPL, host string) error {
	addr := host
	if net.ParseIP(addr) == nil {
		ips, err := net.LookupHost(addr)
		if err != nil {
			return localError("export -h: resolve %s: %s", host, err)
		}
		if len(ips) == 0 {
			return localError("export -h: resolve %s: no addresses", host)
		}
		addr = ips[0]
	}

	creds := r.Session.Credentials()
	pm, err := portmap.Dial(ctx, addr, false, creds)
	if err != nil {
		return classify(fmt.Errorf("export -h: contact portmapper on %s: %w", host, err))
	}
	port, err := pm.GetPort(ctx, mount.Program, mount.Version, portmap.ProtoTCP)
	pm.Close()
	if err != nil || port == 0 {
		port = 635
	}

	mc, err := mount.Dial(ctx, "tcp", addr, int(port), false, creds)
	if err != nil {
		mc, err = mount.Dial(ctx, "udp", addr, int(port), false, creds)
	}
	if err != nil {
		return classify(fmt.Errorf("export -h: open mount channel to %s: %w", host, err))
	}
	defer mc.Close()

	entries, err := mc.Export(ctx)
	if err != nil {
		return classify(err)
	}
	output.WriteExport(r.Out, entries)
	return nil
}
