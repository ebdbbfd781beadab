package net

import (
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetEphemeralTCPPort(t *testing.T) {
	port, err := GetEphemeralTCPPort()
	require.NoError(t, err)
	require.Greater(t, port, 0)

	// The port is released, so we can bind it ourselves.
	l, err := net.Listen("tcp", "127.0.0.1:"+strconv.Itoa(port))
	require.NoError(t, err)
	require.NoError(t, l.Close())
}
