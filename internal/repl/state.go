package repl

import (
	"io"
	"os"

	"github.com/marmos91/nfsshell/internal/config"
	"github.com/marmos91/nfsshell/internal/metrics"
	"github.com/marmos91/nfsshell/internal/session"
)

// Options carries the CLI flags that shape REPL behavior: -v (verbose
// off by default) and -i (interactive confirmation prompts off).
type Options struct {
	Verbose     bool
	Interactive bool
}

// REPL is the top-level value the command table closures operate over:
// the single Session plus the peripheral local state that sits outside
// the protocol core (local working directory, output stream, options).
type REPL struct {
	Session *session.Session
	Options Options

	LocalDir string // lcd target; HOME at startup

	Watcher *config.Watcher
	Metrics *metrics.Metrics

	Out io.Writer
	Err io.Writer
}

// New builds a REPL in the Empty session state.
func New(uid, gid uint32, opts Options) *REPL {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &REPL{
		Session:  session.New(uid, gid),
		Options:  opts,
		LocalDir: home,
		Out:      os.Stdout,
		Err:      os.Stderr,
	}
}
