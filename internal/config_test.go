package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
lnbits:
  endpoint: wss://node.example.com/api/v1/ws/abc123
`)
	configuration, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "wss://node.example.com/api/v1/ws/abc123", configuration.Lnbits.Endpoint)
	assert.Equal(t, int64(4), configuration.Nostr.ProfileTimeout)
	assert.Equal(t, 6, configuration.Wall.MaxComments)
	assert.Equal(t, defaultRelays, configuration.Nostr.Relays)
	assert.False(t, configuration.Lnbits.DisableReconnect)
}

func TestLoadConfigRelayCleanup(t *testing.T) {
	path := writeConfig(t, `
lnbits:
  endpoint: wss://node.example.com/api/v1/ws/abc123
nostr:
  relays:
    - wss://relay.damus.io/
    - wss://relay.damus.io
    - wss://nos.lol
`)
	configuration, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"wss://relay.damus.io", "wss://nos.lol"}, configuration.Nostr.Relays)
}

func TestLoadConfigMissingEndpoint(t *testing.T) {
	path := writeConfig(t, `
wall:
  max_comments: 3
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint")
}

func TestLoadConfigBadScheme(t *testing.T) {
	path := writeConfig(t, `
lnbits:
  endpoint: ftp://node.example.com/feed
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheme")
}
