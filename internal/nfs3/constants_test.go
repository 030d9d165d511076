package nfs3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMessage_KnownCode(t *testing.T) {
	assert.Equal(t, "no such file or directory", StatusMessage(ErrNoEnt))
	assert.Equal(t, "ok", StatusMessage(OK))
}

func TestStatusMessage_UnknownCode(t *testing.T) {
	assert.Contains(t, StatusMessage(999999), "UNKNOWN NFS ERROR")
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "-", TypeName(TypeReg))
	assert.Equal(t, "d", TypeName(TypeDir))
	assert.Equal(t, "l", TypeName(TypeLnk))
	assert.Equal(t, "?", TypeName(99))
}
