package args

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	bits, err := ParseMode("0755")
	require.NoError(t, err)
	assert.Equal(t, uint32(0o755), bits)

	bits, err = ParseMode("644")
	require.NoError(t, err)
	assert.Equal(t, uint32(0o644), bits)
}

func TestParseMode_Invalid(t *testing.T) {
	_, err := ParseMode("")
	assert.Error(t, err)

	_, err = ParseMode("99999")
	assert.Error(t, err)

	_, err = ParseMode("rwx")
	assert.Error(t, err)
}

func TestParseOwner_UIDOnly(t *testing.T) {
	o, err := ParseOwner("1000")
	require.NoError(t, err)
	assert.Equal(t, uint32(1000), o.UID)
	assert.False(t, o.HasGID)
}

func TestParseOwner_UIDAndGID(t *testing.T) {
	o, err := ParseOwner("1000.100")
	require.NoError(t, err)
	assert.Equal(t, uint32(1000), o.UID)
	assert.Equal(t, uint32(100), o.GID)
	assert.True(t, o.HasGID)
}

func TestParseOwner_InvalidUID(t *testing.T) {
	_, err := ParseOwner("notanumber")
	assert.Error(t, err)
}

func TestParseOwner_InvalidGID(t *testing.T) {
	_, err := ParseOwner("1000.notanumber")
	assert.Error(t, err)
}

func TestParseDeviceNumbers(t *testing.T) {
	d, err := ParseDeviceNumbers("8", "1")
	require.NoError(t, err)
	assert.Equal(t, uint32(8), d.Major)
	assert.Equal(t, uint32(1), d.Minor)
}

func TestParseDeviceNumbers_InvalidMajor(t *testing.T) {
	_, err := ParseDeviceNumbers("x", "1")
	assert.Error(t, err)
}

func TestParseDeviceNumbers_InvalidMinor(t *testing.T) {
	_, err := ParseDeviceNumbers("8", "x")
	assert.Error(t, err)
}

func TestParseHandle(t *testing.T) {
	h, err := ParseHandle([]string{"01", "ff", "0a"}, 64)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0xff, 0x0a}, h)
}

func TestParseHandle_Empty(t *testing.T) {
	_, err := ParseHandle(nil, 64)
	assert.Error(t, err)
}

func TestParseHandle_TooLong(t *testing.T) {
	toks := make([]string, 65)
	for i := range toks {
		toks[i] = "00"
	}
	_, err := ParseHandle(toks, 64)
	assert.Error(t, err)
}

func TestParseHandle_InvalidHex(t *testing.T) {
	_, err := ParseHandle([]string{"zz"}, 64)
	assert.Error(t, err)
}
