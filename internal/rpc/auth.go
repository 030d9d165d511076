package rpc

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/marmos91/nfsshell/internal/protocol/xdr"
)

// maxMachineNameLen is NFS3_MAXNAMLEN's cousin for the AUTH_UNIX credential:
// RFC 5531 Appendix A caps the machine name at 255 bytes.
const maxMachineNameLen = 255

// Credentials holds the uid/gid pair a session authenticates RPC calls
// with. Changing either field and calling Channel.SetCredentials rebuilds
// the AUTH_UNIX body without touching the socket.
type Credentials struct {
	UID uint32
	GID uint32
}

// BuildAuthUnix constructs an AUTH_UNIX (RFC 5531 Appendix A) credential:
// stamp, truncated local hostname, uid, gid, and a single-element
// auxiliary-gid list containing gid.
func BuildAuthUnix(creds Credentials) (OpaqueAuth, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	if len(hostname) > maxMachineNameLen {
		hostname = hostname[:maxMachineNameLen]
	}

	var buf bytes.Buffer
	stamp := uint32(time.Now().Unix())

	if err := xdr.WriteUint32(&buf, stamp); err != nil {
		return OpaqueAuth{}, err
	}
	if err := xdr.WriteXDRString(&buf, hostname); err != nil {
		return OpaqueAuth{}, fmt.Errorf("encode machine name: %w", err)
	}
	if err := xdr.WriteUint32(&buf, creds.UID); err != nil {
		return OpaqueAuth{}, err
	}
	if err := xdr.WriteUint32(&buf, creds.GID); err != nil {
		return OpaqueAuth{}, err
	}
	// aux gid list: length-prefixed array, one element equal to gid.
	if err := xdr.WriteUint32(&buf, 1); err != nil {
		return OpaqueAuth{}, err
	}
	if err := xdr.WriteUint32(&buf, creds.GID); err != nil {
		return OpaqueAuth{}, err
	}

	return OpaqueAuth{Flavor: AuthUnix, Body: buf.Bytes()}, nil
}

// AuthNullAuth is the AUTH_NONE credential/verifier used by the portmap
// client and by MOUNT/NFS NULL pings, where no identity is required.
func AuthNullAuth() OpaqueAuth {
	return OpaqueAuth{Flavor: AuthNone}
}
