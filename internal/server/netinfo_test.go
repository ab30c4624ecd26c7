package server

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanIP(t *testing.T) {
	ip := LanIP()
	if ip == "" {
		t.Skip("no route from this machine")
	}

	parsed := net.ParseIP(ip)
	require.NotNil(t, parsed, "LanIP should return a parseable address")
	assert.False(t, parsed.IsLoopback())
}
