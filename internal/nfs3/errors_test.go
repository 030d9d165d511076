package nfs3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusError_Error(t *testing.T) {
	err := &StatusError{Op: "lookup foo", Status: ErrNoEnt}
	assert.Equal(t, "lookup foo: no such file or directory", err.Error())
}
