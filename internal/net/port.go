package net

import (
	"fmt"
	"net"
)

// GetEphemeralTCPPort asks the OS for a free loopback TCP port, for hosts
// that don't want the documented 8000 default. The port is released before
// returning, so there is a small window in which another process could
// grab it.
func GetEphemeralTCPPort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("resolving 127.0.0.1:0: %w", err)
	}
	listener, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, fmt.Errorf("listening to acquire port: %w", err)
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}
