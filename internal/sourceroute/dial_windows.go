//go:build windows

package sourceroute

import (
	"fmt"
	"net"
)

// Dial is unsupported on Windows: installing IP_OPTIONS/LSRR requires raw
// socket-option control this client only implements via golang.org/x/sys/
// unix (see dial_unix.go). Reported explicitly rather than silently
// connecting without the requested route.
func Dial(network string, route *Route, destPort int, privileged bool) (net.Conn, error) {
	return nil, fmt.Errorf("sourceroute: loose source routing is not supported on windows")
}
