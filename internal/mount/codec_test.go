package mount

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/nfsshell/internal/protocol/xdr"
)

func TestEncodeMntArgs_PathTooLong(t *testing.T) {
	long := make([]byte, MaxPathLen+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err := EncodeMntArgs(string(long))
	assert.Error(t, err)
}

func TestEncodeMntArgs_ValidPath(t *testing.T) {
	args, err := EncodeMntArgs("/export/home")
	require.NoError(t, err)
	assert.NotEmpty(t, args)
}

func TestDecodeMntResult_FailureStatus(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, xdr.WriteUint32(&buf, uint32(ErrAccess)))
	res, err := DecodeMntResult(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint32(ErrAccess), res.Status)
	assert.Nil(t, res.FileHandle)
}

func TestDecodeMntResult_Success(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, xdr.WriteUint32(&buf, OK))
	require.NoError(t, xdr.WriteXDROpaque(&buf, []byte{1, 2, 3, 4}))
	require.NoError(t, xdr.WriteUint32(&buf, 1)) // one auth flavor
	require.NoError(t, xdr.WriteInt32(&buf, 1))  // AUTH_UNIX

	res, err := DecodeMntResult(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint32(OK), res.Status)
	assert.Equal(t, []byte{1, 2, 3, 4}, res.FileHandle)
	assert.Equal(t, []int32{1}, res.AuthFlavors)
}

func TestDecodeMountList_EmptyList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, xdr.WriteBool(&buf, false))
	entries, err := decodeMountList(buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDecodeMountList_TwoEntries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, xdr.WriteBool(&buf, true))
	require.NoError(t, xdr.WriteXDRString(&buf, "client1"))
	require.NoError(t, xdr.WriteXDRString(&buf, "/export/a"))
	require.NoError(t, xdr.WriteBool(&buf, true))
	require.NoError(t, xdr.WriteXDRString(&buf, "client2"))
	require.NoError(t, xdr.WriteXDRString(&buf, "/export/b"))
	require.NoError(t, xdr.WriteBool(&buf, false))

	entries, err := decodeMountList(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, MountEntry{Hostname: "client1", Directory: "/export/a"}, entries[0])
	assert.Equal(t, MountEntry{Hostname: "client2", Directory: "/export/b"}, entries[1])
}

func TestDecodeExportList_WithGroups(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, xdr.WriteBool(&buf, true))
	require.NoError(t, xdr.WriteXDRString(&buf, "/export"))
	require.NoError(t, xdr.WriteBool(&buf, true))
	require.NoError(t, xdr.WriteXDRString(&buf, "admins"))
	require.NoError(t, xdr.WriteBool(&buf, false))
	require.NoError(t, xdr.WriteBool(&buf, false))

	entries, err := decodeExportList(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/export", entries[0].Directory)
	assert.Equal(t, []string{"admins"}, entries[0].Groups)
}
