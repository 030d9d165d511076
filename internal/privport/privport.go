//go:build !windows

// Package privport acquires a local socket bound to a privileged port
// (below 1024) by descending probe from 1023: many NFS servers refuse
// requests whose source port is not reserved.
package privport

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// lowestPort is the midpoint of the reserved range (512) and the last
// port the probe tries before giving up.
const lowestPort = 512

// highestPort is the first candidate the probe tries.
const highestPort = 1023

// sockType selects SOCK_STREAM or SOCK_DGRAM for the raw socket(2) call.
type sockType int

const (
	Stream sockType = unix.SOCK_STREAM
	Datagram sockType = unix.SOCK_DGRAM
)

// Dial opens a socket of the given type, binds it to a privileged local
// port (when privileged is true) or an ephemeral one (when false), and
// connects it to addr. The returned net.Conn is fully connected and ready
// for RPC framing.
func Dial(network string, addr *net.TCPAddr, udpAddr *net.UDPAddr, privileged bool) (net.Conn, error) {
	if network != "tcp" && network != "udp" {
		return nil, fmt.Errorf("privport: unsupported network %q", network)
	}

	typ := Stream
	if network == "udp" {
		typ = Datagram
	}

	fd, _, err := acquire(typ, privileged)
	if err != nil {
		return nil, err
	}

	var sa unix.Sockaddr
	var destIP net.IP
	var destPort int
	if network == "tcp" {
		destIP, destPort = addr.IP, addr.Port
	} else {
		destIP, destPort = udpAddr.IP, udpAddr.Port
	}

	if ip4 := destIP.To4(); ip4 != nil {
		var a [4]byte
		copy(a[:], ip4)
		sa = &unix.SockaddrInet4{Port: destPort, Addr: a}
	} else {
		unix.Close(fd)
		return nil, fmt.Errorf("privport: only IPv4 destinations are supported")
	}

	if err := unix.Connect(fd, sa); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("privport: connect: %w", err)
	}

	return fdToConn(fd, network)
}

// acquire creates a raw socket of the given type and binds it to the first
// free port in [lowestPort, highestPort], descending from highestPort. When
// privileged is false it binds to port 0 (ephemeral) directly.
func acquire(typ sockType, privileged bool) (fd int, port int, err error) {
	fd, err = unix.Socket(unix.AF_INET, int(typ), 0)
	if err != nil {
		return -1, 0, fmt.Errorf("privport: socket: %w", err)
	}

	if !privileged {
		if err := unix.Bind(fd, &unix.SockaddrInet4{Port: 0}); err != nil {
			unix.Close(fd)
			return -1, 0, fmt.Errorf("privport: bind ephemeral: %w", err)
		}
		return fd, 0, nil
	}

	for p := highestPort; p >= lowestPort; p-- {
		err = unix.Bind(fd, &unix.SockaddrInet4{Port: p})
		if err == nil {
			return fd, p, nil
		}
		if err == unix.EADDRINUSE || err == unix.EADDRNOTAVAIL {
			continue
		}
		unix.Close(fd)
		return -1, 0, fmt.Errorf("privport: bind: %w", err)
	}

	unix.Close(fd)
	return -1, 0, fmt.Errorf("privport: all ports in use")
}

// fdToConn wraps a connected raw file descriptor as a net.Conn. os.NewFile
// followed by net.FileConn dup()s the descriptor, so the original fd is
// closed afterwards; the returned Conn owns the dup.
func fdToConn(fd int, network string) (net.Conn, error) {
	f := os.NewFile(uintptr(fd), network)
	defer f.Close()

	conn, err := net.FileConn(f)
	if err != nil {
		return nil, fmt.Errorf("privport: FileConn: %w", err)
	}
	return conn, nil
}
