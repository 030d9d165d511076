package repl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/nfsshell/internal/nfs3"
	"github.com/marmos91/nfsshell/internal/rpc"
)

func TestClassify_Nil(t *testing.T) {
	assert.Nil(t, classify(nil))
}

func TestClassify_AlreadyCommandError_PassesThrough(t *testing.T) {
	ce := usageError("bad args")
	got := classify(ce)
	assert.Same(t, ce, got)
}

func TestClassify_StatusError(t *testing.T) {
	err := &nfs3.StatusError{Op: "lookup", Status: nfs3.ErrNoEnt}
	got := classify(err)
	require.NotNil(t, got)
	assert.Equal(t, KindNFSStatus, got.Kind)
}

func TestClassify_WrappedStatusError(t *testing.T) {
	err := errors.Join(&nfs3.StatusError{Op: "lookup", Status: nfs3.ErrNoEnt})
	got := classify(err)
	require.NotNil(t, got)
	assert.Equal(t, KindNFSStatus, got.Kind)
}

func TestClassify_TransportRPCError(t *testing.T) {
	err := &rpc.RPCError{Kind: "transport", Message: "timeout"}
	got := classify(err)
	assert.Equal(t, KindTransport, got.Kind)
}

func TestClassify_ProgramRPCError(t *testing.T) {
	err := &rpc.RPCError{Kind: "program", Message: "unavailable"}
	got := classify(err)
	assert.Equal(t, KindProgram, got.Kind)
}

func TestClassify_AuthRPCError_IsProgramKind(t *testing.T) {
	err := &rpc.RPCError{Kind: "auth", Message: "rejected"}
	got := classify(err)
	assert.Equal(t, KindProgram, got.Kind)
}

func TestClassify_GenericError_IsLocalResource(t *testing.T) {
	got := classify(errors.New("boom"))
	assert.Equal(t, KindLocalResource, got.Kind)
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "usage error", KindUserInput.String())
	assert.Equal(t, "nfs status error", KindNFSStatus.String())
}
