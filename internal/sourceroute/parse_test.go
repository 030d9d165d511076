package sourceroute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_BareDestination(t *testing.T) {
	r, err := Parse("fileserver")
	require.NoError(t, err)
	assert.Equal(t, "", r.SrcAddr)
	assert.Empty(t, r.Hops)
	assert.Equal(t, "fileserver", r.Destination)
}

func TestParse_SrcAndDestination_NoHops(t *testing.T) {
	r, err := Parse("10.0.0.1:fileserver")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", r.SrcAddr)
	assert.Empty(t, r.Hops)
	assert.Equal(t, "fileserver", r.Destination)
}

func TestParse_SrcHopsAndDestination(t *testing.T) {
	r, err := Parse("10.0.0.1@gw1:gw2:fileserver")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", r.SrcAddr)
	assert.Equal(t, []string{"gw1", "gw2"}, r.Hops)
	assert.Equal(t, "fileserver", r.Destination)
}

func TestParse_AtWithNoHops(t *testing.T) {
	r, err := Parse("10.0.0.1@fileserver")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", r.SrcAddr)
	assert.Empty(t, r.Hops)
	assert.Equal(t, "fileserver", r.Destination)
}

func TestParse_EmptyExpression(t *testing.T) {
	_, err := Parse("")
	assert.Error(t, err)
}

func TestParse_EmptyAfterAt(t *testing.T) {
	_, err := Parse("10.0.0.1@")
	assert.Error(t, err)
}

func TestParse_TrailingColonInHopList(t *testing.T) {
	_, err := Parse("10.0.0.1@gw1:")
	assert.Error(t, err)
}

func TestBuildOption_NoHops(t *testing.T) {
	opt, err := BuildOption(nil)
	require.NoError(t, err)
	assert.Nil(t, opt)
}

func TestBuildOption_SingleHop(t *testing.T) {
	opt, err := BuildOption([]string{"10.0.0.1"})
	require.NoError(t, err)
	require.Len(t, opt, 8) // 3 header bytes + 4 addr bytes, padded to 4
	assert.Equal(t, byte(IPOPTLSRR), opt[0])
	assert.Equal(t, byte(7), opt[1]) // 3 + 4*1
	assert.Equal(t, byte(4), opt[2])
	assert.Equal(t, []byte{10, 0, 0, 1}, opt[3:7])
}

func TestBuildOption_MultipleHops(t *testing.T) {
	opt, err := BuildOption([]string{"10.0.0.1", "10.0.0.2"})
	require.NoError(t, err)
	assert.Equal(t, byte(11), opt[1]) // 3 + 4*2
	assert.Equal(t, []byte{10, 0, 0, 1}, opt[3:7])
	assert.Equal(t, []byte{10, 0, 0, 2}, opt[7:11])
}

func TestBuildOption_UnresolvableHop(t *testing.T) {
	_, err := BuildOption([]string{"this.hop.does.not.resolve.invalid"})
	assert.Error(t, err)
}
