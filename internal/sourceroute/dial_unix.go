//go:build !windows

package sourceroute

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// Dial resolves route.SrcAddr and route.Destination, binds a fresh socket
// to the source address (privileged when possible), installs the LSRR
// option built from route.Hops, and connects to destPort on the
// destination.
func Dial(network string, route *Route, destPort int, privileged bool) (net.Conn, error) {
	if network != "tcp" && network != "udp" {
		return nil, fmt.Errorf("sourceroute: unsupported network %q", network)
	}

	opt, err := BuildOption(route.Hops)
	if err != nil {
		return nil, err
	}

	typ := unix.SOCK_STREAM
	if network == "udp" {
		typ = unix.SOCK_DGRAM
	}

	fd, err := unix.Socket(unix.AF_INET, typ, 0)
	if err != nil {
		return nil, fmt.Errorf("sourceroute: socket: %w", err)
	}

	if len(opt) > 0 {
		if err := unix.SetsockoptString(fd, unix.IPPROTO_IP, unix.IP_OPTIONS, string(opt)); err != nil {
			unix.Close(fd)
			return nil, fmt.Errorf("sourceroute: setsockopt IP_OPTIONS: %w", err)
		}
	}

	if route.SrcAddr != "" {
		srcIP, err := resolveIPv4(route.SrcAddr)
		if err != nil {
			unix.Close(fd)
			return nil, fmt.Errorf("sourceroute: resolve source %q: %w", route.SrcAddr, err)
		}
		if err := bindPrivileged(fd, srcIP, privileged); err != nil {
			unix.Close(fd)
			return nil, err
		}
	}

	destIP, err := resolveIPv4(route.Destination)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("sourceroute: resolve destination %q: %w", route.Destination, err)
	}

	var a [4]byte
	copy(a[:], destIP.To4())
	if err := unix.Connect(fd, &unix.SockaddrInet4{Port: destPort, Addr: a}); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("sourceroute: connect: %w", err)
	}

	f := os.NewFile(uintptr(fd), network)
	defer f.Close()
	conn, err := net.FileConn(f)
	if err != nil {
		return nil, fmt.Errorf("sourceroute: FileConn: %w", err)
	}
	return conn, nil
}

// bindPrivileged binds fd to srcIP, trying ports 1023 down to 512 when
// privileged is requested, or an ephemeral port otherwise.
func bindPrivileged(fd int, srcIP net.IP, privileged bool) error {
	var a [4]byte
	copy(a[:], srcIP.To4())

	if !privileged {
		return unix.Bind(fd, &unix.SockaddrInet4{Addr: a, Port: 0})
	}

	for p := 1023; p >= 512; p-- {
		err := unix.Bind(fd, &unix.SockaddrInet4{Addr: a, Port: p})
		if err == nil {
			return nil
		}
		if err == unix.EADDRINUSE || err == unix.EADDRNOTAVAIL {
			continue
		}
		return fmt.Errorf("sourceroute: bind: %w", err)
	}
	return fmt.Errorf("sourceroute: all ports in use")
}
