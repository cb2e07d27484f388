// Package config loads the application configuration from the user's config
// directory, falling back to defaults when no file exists.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// DataDir holds the SQLite database, logs, and daemon socket.
	// Defaults to ~/.plando
	DataDir string `yaml:"data_dir"`

	KeyMappings KeyMappings `yaml:"key_mappings"`
	Theme       Theme       `yaml:"theme"`
}

// Theme holds the UI colors.
type Theme struct {
	Accent    string `yaml:"accent"`
	Muted     string `yaml:"muted"`
	Danger    string `yaml:"danger"`
	Completed string `yaml:"completed"`
}

// DefaultTheme returns the built-in color scheme.
func DefaultTheme() Theme {
	return Theme{
		Accent:    "#7D56F4",
		Muted:     "#6C6C6C",
		Danger:    "#E06C75",
		Completed: "#98C379",
	}
}

// SocketPath returns the daemon socket location under the data directory.
func (c *Config) SocketPath() string {
	return filepath.Join(c.DataDir, "plando.sock")
}

// Load loads config from the user's config directory.
// Returns the default config if the file doesn't exist.
func Load() (*Config, error) {
	defaults, err := defaultConfig()
	if err != nil {
		return nil, err
	}

	configPath, err := getConfigPath()
	if err != nil {
		return defaults, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return defaults, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	config := defaults
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	config.applyDefaults()

	return config, nil
}

// Save writes the config to the user's config directory.
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0o644)
}

func defaultConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Config{
		DataDir:     filepath.Join(home, ".plando"),
		KeyMappings: DefaultKeyMappings(),
		Theme:       DefaultTheme(),
	}, nil
}

// applyDefaults fills in any values the config file left empty.
func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.DataDir = filepath.Join(home, ".plando")
		}
	}
	c.KeyMappings.applyDefaults()
	if c.Theme.Accent == "" {
		c.Theme.Accent = DefaultTheme().Accent
	}
	if c.Theme.Muted == "" {
		c.Theme.Muted = DefaultTheme().Muted
	}
	if c.Theme.Danger == "" {
		c.Theme.Danger = DefaultTheme().Danger
	}
	if c.Theme.Completed == "" {
		c.Theme.Completed = DefaultTheme().Completed
	}
}

func getConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "plando", "config.yaml"), nil
}
