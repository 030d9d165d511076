package repl

import (
	"strconv"

	"github.com/marmos91/nfsshell/internal/session"
)

// parseMountFlags consumes the leading flag tokens of "mount [-upTU]
// [-P port] path" / "handle [-TU] [-P port] <hex-byte ...>" and
// returns the remaining positional arguments.
func parseMountFlags(argv []string, privilegedDefault bool) (session.DialOptions, []string, error) {
	opts := session.DialOptions{Privileged: privilegedDefault}
	i := 0
	for i < len(argv) {
		tok := argv[i]
		if len(tok) < 2 || tok[0] != '-' {
			break
		}
		switch tok {
		case "-u":
			opts.HideMount = true
		case "-p":
			opts.ViaPortmap = true
		case "-T":
			opts.ForceTCP = true
		case "-U":
			opts.ForceUDP = true
		case "-P":
			if i+1 >= len(argv) {
				return opts, nil, usageError("-P requires a port number")
			}
			i++
			port, err := strconv.Atoi(argv[i])
			if err != nil {
				return opts, nil, usageError("invalid port %q", argv[i])
			}
			opts.Port = port
		default:
			return opts, nil, usageError("unknown flag %q", tok)
		}
		i++
	}
	if opts.ForceTCP && opts.ForceUDP {
		return opts, nil, usageError("-T and -U are mutually exclusive")
	}
	return opts, argv[i:], nil
}
