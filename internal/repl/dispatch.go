package repl

import (
	"context"
	"fmt"
	"time"
)

// handlerFunc is the signature every command handler shares: the
// REPL's state, plus the tokens after the command word.
type handlerFunc func(ctx context.Context, r *REPL, argv []string) error

// commandTable maps every verb in the REPL's grammar to its handler.
// "quit"/"bye" and "help" are handled directly in the Loop, not here,
// since they need access to the table itself or to the loop's exit
// path.
var commandTable = map[string]handlerFunc{
	"host":      cmdHost,
	"uid":       cmdUID,
	"gid":       cmdGID,
	"cd":        cmdCd,
	"lcd":       cmdLcd,
	"cat":       cmdCat,
	"ls":        cmdLs,
	"get":       cmdGet,
	"put":       cmdPut,
	"df":        cmdDf,
	"rm":        cmdRm,
	"ln":        cmdLn,
	"mv":        cmdMv,
	"mkdir":     cmdMkdir,
	"rmdir":     cmdRmdir,
	"chmod":     cmdChmod,
	"chown":     cmdChown,
	"mknod":     cmdMknod,
	"mount":     cmdMount,
	"umount":    cmdUmount,
	"umountall": cmdUmountAll,
	"export":    cmdExport,
	"dump":      cmdDump,
	"handle":    cmdHandle,
	"status":    cmdStatus,
}

// commandOrder lists every command name exactly once, in the order
// `help` with no argument should list them.
var commandOrder = []string{
	"host", "uid", "gid", "cd", "lcd", "cat", "ls", "get", "put", "df",
	"rm", "ln", "mv", "mkdir", "rmdir", "chmod", "chown", "mknod",
	"mount", "umount", "umountall", "export", "dump", "handle", "status",
	"help", "quit",
}

var commandHelp = map[string]string{
	"host":      "host <hostname>                 bind to a remote host",
	"uid":       "uid [n [key]]                   show or set the credential uid",
	"gid":       "gid [n]                         show or set the credential gid",
	"cd":        "cd [path]                       change the remote working directory",
	"lcd":       "lcd [path]                      change the local working directory",
	"cat":       "cat file                        print a remote file's contents",
	"ls":        "ls [-l] [glob ...]              list the remote working directory",
	"get":       "get [-i] [glob ...]             copy remote files to the local directory",
	"put":       "put local [remote]              copy a local file to the remote directory",
	"df":        "df                              report remote filesystem statistics",
	"rm":        "rm file                         remove a remote file",
	"ln":        "ln src dst                      create a hard link",
	"mv":        "mv src dst                      rename within the remote directory",
	"mkdir":     "mkdir dir                       create a remote directory",
	"rmdir":     "rmdir dir                       remove a remote directory",
	"chmod":     "chmod <octal> file              change a remote file's mode",
	"chown":     "chown uid[.gid] file            change a remote file's owner",
	"mknod":     "mknod name {p | b maj min | c maj min}  create a device or FIFO node",
	"mount":     "mount [-upTU] [-P port] path    mount a remote export",
	"umount":    "umount                          unmount the current export",
	"umountall": "umountall                       release every mount this client holds",
	"export":    "export [-h host]                list a server's exports",
	"dump":      "dump                            list a server's active mounts",
	"handle":    "handle [-TU] [-P port] <hex-byte ...>  show or install a file handle",
	"status":    "status                          show the current session state",
	"help":      "help [cmd]                      show command help",
	"quit":      "quit / bye                      exit nfsshell",
}

// Dispatch looks up and runs the handler for name, returning a
// *CommandError the loop can format uniformly.
func Dispatch(ctx context.Context, r *REPL, name string, argv []string) error {
	handler, ok := commandTable[name]
	if !ok {
		return usageError("%s: unknown command (try 'help')", name)
	}

	start := time.Now()
	err := handler(ctx, r, argv)
	recordCommandMetrics(r, name, start, err)
	return err
}

// recordCommandMetrics reports the outcome and duration of one dispatched
// command, then refreshes the session-state gauge so it reflects whatever
// the handler just did (mount/umount/host all change state).
func recordCommandMetrics(r *REPL, name string, start time.Time, err error) {
	if r.Metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.Metrics.RecordCall("nfsshell", name, outcome, time.Since(start).Seconds())
	if r.Session != nil {
		r.Metrics.SetSessionState(int(r.Session.State()))
	}
}

// Help implements "help [cmd]".
func Help(r *REPL, argv []string) {
	if len(argv) == 1 {
		if text, ok := commandHelp[argv[0]]; ok {
			fmt.Fprintln(r.Out, text)
			return
		}
		fmt.Fprintf(r.Out, "%s: no such command\n", argv[0])
		return
	}
	for _, name := range commandOrder {
		fmt.Fprintln(r.Out, commandHelp[name])
	}
}
