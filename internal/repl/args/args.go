// Package args validates and parses the handful of REPL argument shapes
// that aren't plain strings: octal file modes, device major/minor
// numbers, uid[.gid] pairs, and hex-byte handle literals.
package args

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Mode is a parsed chmod argument.
type Mode struct {
	Octal string `validate:"required,numeric,max=4"`
	Bits  uint32 `validate:"-"`
}

// ParseMode parses a chmod octal mode string.
func ParseMode(s string) (uint32, error) {
	m := Mode{Octal: s}
	if err := validate.Struct(m); err != nil {
		return 0, fmt.Errorf("chmod: mode must be 1-4 octal digits, got %q", s)
	}
	bits, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("chmod: invalid octal mode %q: %w", s, err)
	}
	return uint32(bits), nil
}

// Owner is a parsed chown argument ("uid" or "uid.gid").
type Owner struct {
	UID     uint32
	GID     uint32
	HasGID  bool
}

// ParseOwner parses the "chown uid[.gid] file" syntax.
func ParseOwner(s string) (Owner, error) {
	parts := strings.SplitN(s, ".", 2)
	uid, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return Owner{}, fmt.Errorf("chown: invalid uid %q", parts[0])
	}
	o := Owner{UID: uint32(uid)}
	if len(parts) == 2 {
		gid, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil {
			return Owner{}, fmt.Errorf("chown: invalid gid %q", parts[1])
		}
		o.GID = uint32(gid)
		o.HasGID = true
	}
	return o, nil
}

// DeviceNumbers is a validated major/minor pair for mknod b/c nodes.
// The bounds match Linux's dev_t split: a 12-bit major and a 20-bit
// minor (include/linux/kdev_t.h).
type DeviceNumbers struct {
	Major uint32 `validate:"lte=4095"`
	Minor uint32 `validate:"lte=1048575"`
}

// ParseDeviceNumbers parses the "maj min" arguments of "mknod name b maj
// min" / "mknod name c maj min".
func ParseDeviceNumbers(majorStr, minorStr string) (DeviceNumbers, error) {
	major, err := strconv.ParseUint(majorStr, 10, 32)
	if err != nil {
		return DeviceNumbers{}, fmt.Errorf("mknod: invalid major %q", majorStr)
	}
	minor, err := strconv.ParseUint(minorStr, 10, 32)
	if err != nil {
		return DeviceNumbers{}, fmt.Errorf("mknod: invalid minor %q", minorStr)
	}
	d := DeviceNumbers{Major: uint32(major), Minor: uint32(minor)}
	if err := validate.Struct(d); err != nil {
		return DeviceNumbers{}, fmt.Errorf("mknod: %w", err)
	}
	return d, nil
}

// ParseHandle parses the hex-byte arguments of the "handle
// <hex-byte ...>" command. Any length up to NFSv3's 64-byte maximum is
// accepted, not a fixed count.
func ParseHandle(hexBytes []string, maxLen int) ([]byte, error) {
	if len(hexBytes) == 0 {
		return nil, fmt.Errorf("handle: at least one byte required")
	}
	if len(hexBytes) > maxLen {
		return nil, fmt.Errorf("handle: %d bytes exceeds the %d-byte maximum", len(hexBytes), maxLen)
	}
	out := make([]byte, len(hexBytes))
	for i, tok := range hexBytes {
		v, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("handle: invalid hex byte %q", tok)
		}
		out[i] = byte(v)
	}
	return out, nil
}
