package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the file name used inside ConfigDir.
const ConfigFile = "config.yaml"

// DefaultPath returns the config file location inside ConfigDir.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), ConfigFile)
}

// Save writes the config to DefaultPath and returns the path written.
func (c *Config) Save() (string, error) {
	path := DefaultPath()
	return path, c.SaveTo(path)
}

// SaveTo validates the config and writes it as YAML to path, creating
// parent directories as needed.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("refusing to save config: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
