// Package sourceroute parses and applies IP loose source routing (LSRR,
// RFC 791): a route expression "[srcaddr]@[hop1:hop2:...]destination"
// names a source address, an optional list of intermediate hops, and a
// destination. The parsing half is platform-independent and fully
// testable; the socket-option installation half (dial_unix.go) is not.
package sourceroute

import (
	"fmt"
	"net"
	"strings"
)

// IPOPTLSRR is the IP option kind for loose source and record route
// (RFC 791 Section 3.1).
const IPOPTLSRR = 0x83

// Route is a parsed route expression.
type Route struct {
	SrcAddr     string // textual source address/hostname, "" if unspecified
	Hops        []string
	Destination string
}

// Parse splits a route expression into its components. Two forms are
// accepted:
//
//	srcaddr@hop1:hop2:...:destination
//	srcaddr:destination                (no hops requested)
//
// When no "@" is present, the first ":"-separated component is srcaddr
// and everything else is the destination with no hops.
func Parse(expr string) (*Route, error) {
	if expr == "" {
		return nil, fmt.Errorf("sourceroute: empty route expression")
	}

	if at := strings.Index(expr, "@"); at >= 0 {
		src := expr[:at]
		rest := expr[at+1:]
		if rest == "" {
			return nil, fmt.Errorf("sourceroute: missing hop/destination list after %q@", src)
		}
		parts := strings.Split(rest, ":")
		if len(parts) == 0 || parts[len(parts)-1] == "" {
			return nil, fmt.Errorf("sourceroute: missing destination in %q", expr)
		}
		dest := parts[len(parts)-1]
		hops := parts[:len(parts)-1]
		return &Route{SrcAddr: src, Hops: hops, Destination: dest}, nil
	}

	parts := strings.SplitN(expr, ":", 2)
	if len(parts) != 2 {
		// Bare destination, no source address requested either.
		return &Route{Destination: expr}, nil
	}
	return &Route{SrcAddr: parts[0], Destination: parts[1]}, nil
}

// BuildOption resolves each intermediate hop to an IPv4 address, in
// order, and packs them into the LSRR option payload:
//
//	[0x83][total length][pointer=4][hop4bytes]...[padding]
//
// The destination is NOT included in the option payload — the final
// connect() target carries it. Only the intermediate hops are encoded.
func BuildOption(hops []string) ([]byte, error) {
	if len(hops) == 0 {
		return nil, nil
	}

	addrs := make([]net.IP, 0, len(hops))
	for _, h := range hops {
		ip, err := resolveIPv4(h)
		if err != nil {
			return nil, fmt.Errorf("sourceroute: resolve hop %q: %w", h, err)
		}
		addrs = append(addrs, ip)
	}

	payload := 3 + 4*len(addrs) // kind+len+pointer header, then 4 bytes/hop
	padded := (payload + 3) &^ 3

	opt := make([]byte, padded)
	opt[0] = IPOPTLSRR
	opt[1] = byte(payload)
	opt[2] = 4 // pointer: index (1-based) of the first route entry

	for i, ip := range addrs {
		copy(opt[3+4*i:3+4*i+4], ip.To4())
	}
	return opt, nil
}

func resolveIPv4(host string) (net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		if v4 := ip.To4(); v4 != nil {
			return v4, nil
		}
		return nil, fmt.Errorf("not an IPv4 address: %s", host)
	}
	ips, err := net.LookupIP(host)
	if err != nil {
		return nil, err
	}
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return v4, nil
		}
	}
	return nil, fmt.Errorf("no IPv4 address found for %s", host)
}
