package redis

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupFailsWhenUnreachable(t *testing.T) {
	// reserve a port and release it so nothing is listening there
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	client, err := Setup(context.Background(), &Config{
		Host:        "127.0.0.1",
		Port:        port,
		PoolSize:    1,
		DialTimeout: 200 * time.Millisecond,
	})
	assert.Nil(t, client)
	assert.ErrorContains(t, err, "failed to connect to redis")
}
