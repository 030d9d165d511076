package repl

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/marmos91/nfsshell/internal/logger"
	"github.com/marmos91/nfsshell/internal/nfs3"
	"github.com/marmos91/nfsshell/internal/pathresolver"
	"github.com/marmos91/nfsshell/internal/repl/args"
)

// createVerifier generates the 8-byte verifier CREATE's EXCLUSIVE mode
// carries.
func createVerifier() uint64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return binary.BigEndian.Uint64(b[:])
}

// lookupFile resolves name in the current directory and requires it to
// exist; used by every command that targets a single existing remote
// file.
func lookupFile(ctx context.Context, r *REPL, name string) (*nfs3.LookupResult, error) {
	res, err := r.Session.NFS().Lookup(ctx, r.Session.CurrentHandle(), name)
	if err != nil {
		return nil, classify(err)
	}
	if res.Status != nfs3.OK {
		return nil, nfsStatusError("lookup "+name, res.Status)
	}
	return res, nil
}

// cmdCat implements "cat file": a full READ-loop straight to r.Out,
// with no local file target.
func cmdCat(ctx context.Context, r *REPL, argv []string) error {
	if err := requireMounted(r); err != nil {
		return err
	}
	if len(argv) != 1 {
		return usageError("usage: cat file")
	}
	lr, err := lookupFile(ctx, r, argv[0])
	if err != nil {
		return err
	}
	return readLoop(ctx, r, lr.Handle, r.Out)
}

// checkAccess issues an ACCESS pre-check against handle and refuses op
// with a permission-denied status unless every bit in wanted comes
// back granted, so a read-only mount or restrictive mode bit is caught
// before the mutating RPC that would otherwise fail partway through.
func checkAccess(ctx context.Context, r *REPL, op string, handle []byte, wanted uint32) error {
	res, err := r.Session.NFS().Access(ctx, handle, wanted)
	if err != nil {
		return classify(err)
	}
	if res.Status != nfs3.OK {
		return nfsStatusError(op, res.Status)
	}
	if res.Granted&wanted != wanted {
		return nfsStatusError(op, nfs3.ErrAcces)
	}
	return nil
}

// readLoop issues READ at successive T-sized offsets until eof,
// writing each chunk to w.
func readLoop(ctx context.Context, r *REPL, handle []byte, w io.Writer) error {
	t := r.Session.Wtmax()
	var offset uint64
	for {
		res, err := r.Session.NFS().Read(ctx, handle, offset, t)
		if err != nil {
			return classify(err)
		}
		if res.Status != nfs3.OK {
			return nfsStatusError("read", res.Status)
		}
		if len(res.Data) > 0 {
			if _, err := w.Write(res.Data); err != nil {
				return localError("read: %s", err)
			}
		}
		offset += uint64(len(res.Data))
		if res.EOF || len(res.Data) == 0 {
			logger.Debug("read complete", logger.KeyBytesRead, offset, logger.KeyEOF, res.EOF)
			return nil
		}
	}
}

// cmdGet implements "get [-i] [glob ...]". Each matched remote name in
// the current directory is copied to a same-named file under the
// local working directory; -i prompts for confirmation per file, and
// each file is its own READ-loop, cancellable independently.
func cmdGet(ctx context.Context, r *REPL, argv []string) error {
	if err := requireMounted(r); err != nil {
		return err
	}
	interactive := false
	patterns := argv
	if len(argv) > 0 && argv[0] == "-i" {
		interactive = true
		patterns = argv[1:]
	}

	names, err := pathresolver.ReadDir(ctx, r.Session.NFS(), r.Session.CurrentHandle())
	if err != nil {
		return classify(err)
	}

	for _, name := range names {
		if name == "." || name == ".." || !pathresolver.Match(name, patterns) {
			continue
		}
		if interactive && !confirmPrompt(r, fmt.Sprintf("get %s?", name)) {
			continue
		}
		if err := getOne(ctx, r, name); err != nil {
			fmt.Fprintf(r.Err, "%s: %s\n", name, err)
		}
	}
	return nil
}

func getOne(ctx context.Context, r *REPL, name string) error {
	lr, err := lookupFile(ctx, r, name)
	if err != nil {
		return err
	}
	if lr.Attr != nil && lr.Attr.Type != nfs3.TypeReg {
		return usageError("%s: not a regular file", name)
	}
	if err := checkAccess(ctx, r, "get "+name, lr.Handle, nfs3.AccessRead); err != nil {
		return err
	}

	local := resolveLocalPath(r, name)
	f, err := os.Create(local)
	if err != nil {
		return localError("get: %s", err)
	}
	defer f.Close()

	if err := readLoop(ctx, r, lr.Handle, f); err != nil {
		return err
	}

	if lr.Attr != nil {
		if info, statErr := f.Stat(); statErr == nil && uint64(info.Size()) != lr.Attr.Size {
			fmt.Fprintf(r.Err, "%s: warning: transferred %d bytes, server reports size %d\n",
				name, info.Size(), lr.Attr.Size)
		}
	}
	return nil
}

// cmdPut implements "put local [remote]".
func cmdPut(ctx context.Context, r *REPL, argv []string) error {
	if err := requireMounted(r); err != nil {
		return err
	}
	if len(argv) < 1 || len(argv) > 2 {
		return usageError("usage: put local [remote]")
	}
	localPath := resolveLocalPath(r, argv[0])
	remoteName := filepath.Base(argv[0])
	if len(argv) == 2 {
		remoteName = argv[1]
	}

	f, err := os.Open(localPath)
	if err != nil {
		return localError("put: %s", err)
	}
	defer f.Close()

	if err := checkAccess(ctx, r, "put "+remoteName, r.Session.CurrentHandle(), nfs3.AccessModify|nfs3.AccessExtend); err != nil {
		return err
	}

	creds := r.Session.Credentials()
	mode := uint32(0644)
	attr := nfs3.SetAttr{Mode: &mode, UID: &creds.UID, GID: &creds.GID}
	verifier := createVerifier()

	cr, err := r.Session.NFS().Create(ctx, r.Session.CurrentHandle(), remoteName, nfs3.CreateExclusive, attr, verifier)
	if err != nil {
		return classify(err)
	}
	if cr.Status != nfs3.OK {
		return nfsStatusError("create "+remoteName, cr.Status)
	}

	handle := cr.Handle
	if handle == nil {
		lr, err := lookupFile(ctx, r, remoteName)
		if err != nil {
			return err
		}
		handle = lr.Handle
	}

	return writeLoop(ctx, r, handle, f)
}

// writeLoop reads the local file in chunks of the local buffer size
// and WRITEs each chunk at its offset, UNSTABLE, with no trailing
// COMMIT.
func writeLoop(ctx context.Context, r *REPL, handle []byte, src io.Reader) error {
	bufSize := r.Session.Wtmax()
	if bufSize == 0 {
		bufSize = 8192
	}
	buf := make([]byte, bufSize)
	var offset uint64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			res, err := r.Session.NFS().Write(ctx, handle, offset, buf[:n])
			if err != nil {
				return classify(err)
			}
			if res.Status != nfs3.OK {
				return nfsStatusError("write", res.Status)
			}
			offset += uint64(res.Count)
		}
		if readErr == io.EOF {
			logger.Debug("write complete", logger.KeyBytesWritten, offset)
			return nil
		}
		if readErr != nil {
			return localError("put: %s", readErr)
		}
	}
}

// cmdRm implements "rm file".
func cmdRm(ctx context.Context, r *REPL, argv []string) error {
	if err := requireMounted(r); err != nil {
		return err
	}
	if len(argv) != 1 {
		return usageError("usage: rm file")
	}
	if err := checkAccess(ctx, r, "rm "+argv[0], r.Session.CurrentHandle(), nfs3.AccessDelete); err != nil {
		return err
	}
	res, err := r.Session.NFS().Remove(ctx, r.Session.CurrentHandle(), argv[0])
	if err != nil {
		return classify(err)
	}
	if res.Status != nfs3.OK {
		return nfsStatusError("rm", res.Status)
	}
	return nil
}

// cmdLn implements "ln src dst" (NFSv3 LINK: a hard link within the
// current directory).
func cmdLn(ctx context.Context, r *REPL, argv []string) error {
	if err := requireMounted(r); err != nil {
		return err
	}
	if len(argv) != 2 {
		return usageError("usage: ln src dst")
	}
	lr, err := lookupFile(ctx, r, argv[0])
	if err != nil {
		return err
	}
	res, err := r.Session.NFS().Link(ctx, lr.Handle, r.Session.CurrentHandle(), argv[1])
	if err != nil {
		return classify(err)
	}
	if res.Status != nfs3.OK {
		return nfsStatusError("ln", res.Status)
	}
	return nil
}

// cmdMv implements "mv src dst" (NFSv3 RENAME within the current
// directory).
func cmdMv(ctx context.Context, r *REPL, argv []string) error {
	if err := requireMounted(r); err != nil {
		return err
	}
	if len(argv) != 2 {
		return usageError("usage: mv src dst")
	}
	cwd := r.Session.CurrentHandle()
	res, err := r.Session.NFS().Rename(ctx, cwd, argv[0], cwd, argv[1])
	if err != nil {
		return classify(err)
	}
	if res.Status != nfs3.OK {
		return nfsStatusError("mv", res.Status)
	}
	return nil
}

// cmdMkdir implements "mkdir dir".
func cmdMkdir(ctx context.Context, r *REPL, argv []string) error {
	if err := requireMounted(r); err != nil {
		return err
	}
	if len(argv) != 1 {
		return usageError("usage: mkdir dir")
	}
	creds := r.Session.Credentials()
	mode := uint32(0777)
	attr := nfs3.SetAttr{Mode: &mode, UID: &creds.UID, GID: &creds.GID}
	res, err := r.Session.NFS().Mkdir(ctx, r.Session.CurrentHandle(), argv[0], attr)
	if err != nil {
		return classify(err)
	}
	if res.Status != nfs3.OK {
		return nfsStatusError("mkdir", res.Status)
	}
	return nil
}

// cmdRmdir implements "rmdir dir".
func cmdRmdir(ctx context.Context, r *REPL, argv []string) error {
	if err := requireMounted(r); err != nil {
		return err
	}
	if len(argv) != 1 {
		return usageError("usage: rmdir dir")
	}
	res, err := r.Session.NFS().Rmdir(ctx, r.Session.CurrentHandle(), argv[0])
	if err != nil {
		return classify(err)
	}
	if res.Status != nfs3.OK {
		return nfsStatusError("rmdir", res.Status)
	}
	return nil
}

// cmdChmod implements "chmod <octal> file" as an unconditional SETATTR
// (check=false).
func cmdChmod(ctx context.Context, r *REPL, argv []string) error {
	if err := requireMounted(r); err != nil {
		return err
	}
	if len(argv) != 2 {
		return usageError("usage: chmod <octal> file")
	}
	mode, err := args.ParseMode(argv[0])
	if err != nil {
		return usageError("%s", err)
	}
	lr, err := lookupFile(ctx, r, argv[1])
	if err != nil {
		return err
	}
	res, err := r.Session.NFS().Setattr(ctx, lr.Handle, nfs3.SetAttr{Mode: &mode})
	if err != nil {
		return classify(err)
	}
	if res.Status != nfs3.OK {
		return nfsStatusError("chmod", res.Status)
	}
	return nil
}

// cmdChown implements "chown uid[.gid] file".
func cmdChown(ctx context.Context, r *REPL, argv []string) error {
	if err := requireMounted(r); err != nil {
		return err
	}
	if len(argv) != 2 {
		return usageError("usage: chown uid[.gid] file")
	}
	owner, err := args.ParseOwner(argv[0])
	if err != nil {
		return usageError("%s", err)
	}
	lr, err := lookupFile(ctx, r, argv[1])
	if err != nil {
		return err
	}
	sa := nfs3.SetAttr{UID: &owner.UID}
	if owner.HasGID {
		sa.GID = &owner.GID
	}
	res, err := r.Session.NFS().Setattr(ctx, lr.Handle, sa)
	if err != nil {
		return classify(err)
	}
	if res.Status != nfs3.OK {
		return nfsStatusError("chown", res.Status)
	}
	return nil
}

// cmdMknod implements "mknod name {p | b maj min | c maj min}", using
// the session's owner/group and mode 0777.
func cmdMknod(ctx context.Context, r *REPL, argv []string) error {
	if err := requireMounted(r); err != nil {
		return err
	}
	if len(argv) < 2 {
		return usageError("usage: mknod name {p | b maj min | c maj min}")
	}
	name, kindTok := argv[0], argv[1]

	creds := r.Session.Credentials()
	mode := uint32(0777)
	attr := nfs3.SetAttr{Mode: &mode, UID: &creds.UID, GID: &creds.GID}

	var kind uint32
	var major, minor uint32
	switch kindTok {
	case "p":
		if len(argv) != 2 {
			return usageError("usage: mknod name p")
		}
		kind = nfs3.TypeFifo
	case "b", "c":
		if len(argv) != 4 {
			return usageError("usage: mknod name %s maj min", kindTok)
		}
		dev, err := args.ParseDeviceNumbers(argv[2], argv[3])
		if err != nil {
			return usageError("%s", err)
		}
		major, minor = dev.Major, dev.Minor
		if kindTok == "b" {
			kind = nfs3.TypeBlk
		} else {
			kind = nfs3.TypeChr
		}
	default:
		return usageError("mknod: unknown type %q, want p, b, or c", kindTok)
	}

	res, err := r.Session.NFS().Mknod(ctx, r.Session.CurrentHandle(), name, kind, attr, major, minor)
	if err != nil {
		return classify(err)
	}
	if res.Status != nfs3.OK {
		return nfsStatusError("mknod", res.Status)
	}
	return nil
}
