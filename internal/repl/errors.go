package repl

import (
	"errors"
	"fmt"

	"github.com/marmos91/nfsshell/internal/nfs3"
	"github.com/marmos91/nfsshell/internal/rpc"
)

// ErrorKind distinguishes the five error kinds the REPL's top-level
// loop needs to print a uniform message and never tear down the
// session on anything but the explicit transitions (host/umount/quit).
type ErrorKind int

const (
	KindLocalResource ErrorKind = iota + 1
	KindTransport
	KindProgram
	KindNFSStatus
	KindUserInput
)

func (k ErrorKind) String() string {
	switch k {
	case KindLocalResource:
		return "local resource error"
	case KindTransport:
		return "rpc transport error"
	case KindProgram:
		return "rpc program error"
	case KindNFSStatus:
		return "nfs status error"
	case KindUserInput:
		return "usage error"
	default:
		return "error"
	}
}

// CommandError is every error a command handler returns to the loop.
// The loop formats it, never propagates session teardown from it.
type CommandError struct {
	Kind ErrorKind
	Err  error
}

func (e *CommandError) Error() string { return e.Err.Error() }
func (e *CommandError) Unwrap() error { return e.Err }

func usageError(format string, args ...any) *CommandError {
	return &CommandError{Kind: KindUserInput, Err: fmt.Errorf(format, args...)}
}

func localError(format string, args ...any) *CommandError {
	return &CommandError{Kind: KindLocalResource, Err: fmt.Errorf(format, args...)}
}

// classify wraps an arbitrary error returned from a session/RPC call
// into a CommandError, mapping *rpc.RPCError's Kind field onto
// KindTransport/KindProgram, *nfs3.StatusError onto KindNFSStatus, and
// leaving everything else as a local resource error.
func classify(err error) *CommandError {
	if err == nil {
		return nil
	}
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce
	}
	var statusErr *nfs3.StatusError
	if errors.As(err, &statusErr) {
		return &CommandError{Kind: KindNFSStatus, Err: err}
	}
	var rpcErr *rpc.RPCError
	if errors.As(err, &rpcErr) {
		switch rpcErr.Kind {
		case "transport":
			return &CommandError{Kind: KindTransport, Err: err}
		case "program", "auth":
			return &CommandError{Kind: KindProgram, Err: err}
		}
	}
	return &CommandError{Kind: KindLocalResource, Err: err}
}

// nfsStatusError reports a well-formed NFS reply whose status was not OK.
func nfsStatusError(op string, status uint32) *CommandError {
	return &CommandError{Kind: KindNFSStatus, Err: fmt.Errorf("%s: %s", op, nfs3.StatusMessage(status))}
}
