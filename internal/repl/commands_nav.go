package repl

import (
	"context"
	"fmt"

	"github.com/marmos91/nfsshell/internal/nfs3"
	"github.com/marmos91/nfsshell/internal/pathresolver"
	"github.com/marmos91/nfsshell/internal/repl/output"
	"github.com/marmos91/nfsshell/internal/session"
)

func requireMounted(r *REPL) error {
	if r.Session.State() != session.Mounted {
		return usageError("not mounted")
	}
	return nil
}

// cmdCd implements "cd [path]". With no argument it resets the
// current directory to the mount root.
func cmdCd(ctx context.Context, r *REPL, argv []string) error {
	if err := requireMounted(r); err != nil {
		return err
	}
	if len(argv) > 1 {
		return usageError("usage: cd [path]")
	}
	path := "/"
	if len(argv) == 1 {
		path = argv[0]
	}
	handle, err := pathresolver.Resolve(ctx, r.Session.NFS(), r.Session.RootHandle(), r.Session.CurrentHandle(), path)
	if err != nil {
		return classify(err)
	}
	r.Session.SetCurrentHandle(handle)
	return nil
}

// cmdLcd implements "lcd [path]"; HOME is consulted with no argument.
func cmdLcd(ctx context.Context, r *REPL, argv []string) error {
	if len(argv) > 1 {
		return usageError("usage: lcd [path]")
	}
	if len(argv) == 0 {
		home, err := osUserHomeDir()
		if err != nil {
			return localError("lcd: %s", err)
		}
		r.LocalDir = home
		return nil
	}
	dir := resolveLocalPath(r, argv[0])
	if !isDir(dir) {
		return localError("lcd: %s: not a directory", argv[0])
	}
	r.LocalDir = dir
	return nil
}

// cmdLs implements "ls [-l] [glob ...]".
func cmdLs(ctx context.Context, r *REPL, argv []string) error {
	if err := requireMounted(r); err != nil {
		return err
	}
	long := false
	patterns := argv
	if len(argv) > 0 && argv[0] == "-l" {
		long = true
		patterns = argv[1:]
	}

	dir := r.Session.CurrentHandle()
	names, err := pathresolver.ReadDir(ctx, r.Session.NFS(), dir)
	if err != nil {
		return classify(err)
	}

	var matched []string
	for _, n := range names {
		if n == "." || n == ".." {
			continue
		}
		if pathresolver.Match(n, patterns) {
			matched = append(matched, n)
		}
	}

	if !long {
		output.WriteShortListing(r.Out, matched)
		return nil
	}

	entries := make([]output.LongEntry, 0, len(matched))
	for _, name := range matched {
		lr, err := r.Session.NFS().Lookup(ctx, dir, name)
		if err != nil {
			return classify(err)
		}
		if lr.Status != nfs3.OK {
			return nfsStatusError("lookup "+name, lr.Status)
		}
		entry := output.LongEntry{Name: name, Attr: lr.Attr}
		if lr.Attr != nil && lr.Attr.Type == nfs3.TypeLnk {
			rl, err := r.Session.NFS().Readlink(ctx, lr.Handle)
			if err == nil && rl.Status == nfs3.OK {
				entry.SymlinkTarget = rl.Target
			}
		}
		entries = append(entries, entry)
	}
	output.WriteLongListing(r.Out, entries)
	return nil
}

// cmdDf implements "df": after `umount` it prints "no remote file
// system mounted" and emits no RPC call.
func cmdDf(ctx context.Context, r *REPL, argv []string) error {
	if len(argv) != 0 {
		return usageError("usage: df")
	}
	if r.Session.State() != session.Mounted {
		fmt.Fprintln(r.Out, "no remote file system mounted")
		return nil
	}
	res, err := r.Session.NFS().Fsstat(ctx, r.Session.RootHandle())
	if err != nil {
		return classify(err)
	}
	if res.Status != nfs3.OK {
		return nfsStatusError("df", res.Status)
	}
	output.WriteFsstat(r.Out, res)
	return nil
}

// cmdDump implements "dump" (MOUNT3 DUMP).
func cmdDump(ctx context.Context, r *REPL, argv []string) error {
	if len(argv) != 0 {
		return usageError("usage: dump")
	}
	entries, err := r.Session.Dump(ctx)
	if err != nil {
		return classify(err)
	}
	output.WriteDump(r.Out, entries)
	return nil
}

// cmdExport implements "export [-h]"; -h runs a one-shot MOUNT client
// against a different host, leaving the bound session untouched.
func cmdExport(ctx context.Context, r *REPL, argv []string) error {
	if len(argv) == 2 && argv[0] == "-h" {
		return exportRemoteHost(ctx, r, argv[1])
	}
	if len(argv) != 0 {
		return usageError("usage: export [-h host]")
	}
	entries, err := r.Session.Export(ctx)
	if err != nil {
		return classify(err)
	}
	output.WriteExport(r.Out, entries)
	return nil
}
