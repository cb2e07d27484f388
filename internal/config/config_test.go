package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPartialConfigKeepsDefaults(t *testing.T) {
	raw := `
data_dir: /tmp/plando-test
key_mappings:
  quit: Q
theme:
  accent: "#FF0000"
`
	cfg := &Config{}
	require.NoError(t, yaml.Unmarshal([]byte(raw), cfg))
	cfg.applyDefaults()

	assert.Equal(t, "/tmp/plando-test", cfg.DataDir)
	assert.Equal(t, "Q", cfg.KeyMappings.Quit)
	assert.Equal(t, "#FF0000", cfg.Theme.Accent)

	// Everything the file omitted falls back to the defaults
	defaults := DefaultKeyMappings()
	assert.Equal(t, defaults.Up, cfg.KeyMappings.Up)
	assert.Equal(t, defaults.NewTask, cfg.KeyMappings.NewTask)
	assert.Equal(t, DefaultTheme().Muted, cfg.Theme.Muted)
}

func TestEmptyConfigGetsAllDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, DefaultKeyMappings(), cfg.KeyMappings)
	assert.Equal(t, DefaultTheme(), cfg.Theme)
}

func TestSocketPath(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/plando-test"}
	assert.Equal(t, filepath.Join("/tmp/plando-test", "plando.sock"), cfg.SocketPath())
}

func TestConfigRoundTrip(t *testing.T) {
	cfg := &Config{
		DataDir:     "/data",
		KeyMappings: DefaultKeyMappings(),
		Theme:       DefaultTheme(),
	}

	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	loaded := &Config{}
	require.NoError(t, yaml.Unmarshal(data, loaded))
	assert.Equal(t, cfg, loaded)
}
