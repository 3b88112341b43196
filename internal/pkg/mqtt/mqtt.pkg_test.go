package mqtt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewClientOptions(t *testing.T) {
	opts := NewClientOptions(&Config{
		URL:      "tcp://broker.local:1883",
		ClientID: "idea-inbox",
		Username: "ann",
		Password: "secret",
	})

	assert.Equal(t, "idea-inbox", opts.ClientID)
	assert.Equal(t, "ann", opts.Username)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 10*time.Second, opts.ConnectTimeout)
	assert.True(t, opts.AutoReconnect)
	if assert.Len(t, opts.Servers, 1) {
		assert.Equal(t, "broker.local:1883", opts.Servers[0].Host)
	}
}
