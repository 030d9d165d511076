package nfs3

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeAccessArgs(t *testing.T) {
	data, err := encodeAccessArgs([]byte{1, 2, 3, 4}, AccessRead|AccessModify)
	require.NoError(t, err)

	r := bytes.NewReader(data)
	handle, err := decodeOpaqueBytes(r)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, handle)

	wanted, err := decodeUint32(r)
	require.NoError(t, err)
	assert.Equal(t, AccessRead|AccessModify, wanted)
}

func TestDecodeAccessResult_OK_DecodesGrantedMask(t *testing.T) {
	var buf bytes.Buffer
	writeUint32(&buf, OK)
	writeUint32(&buf, 0) // postOpAttr: attributes_follow = false
	writeUint32(&buf, AccessRead|AccessLookup)

	res, err := decodeAccessResult(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, OK, res.Status)
	assert.Equal(t, AccessRead|AccessLookup, res.Granted)
}

func TestDecodeAccessResult_NotOK_SkipsMask(t *testing.T) {
	var buf bytes.Buffer
	writeUint32(&buf, ErrAcces)
	writeUint32(&buf, 0) // postOpAttr: attributes_follow = false

	res, err := decodeAccessResult(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, ErrAcces, res.Status)
	assert.Zero(t, res.Granted)
}
