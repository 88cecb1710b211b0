package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./" + ConfigFile,
		DefaultPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "SeriousEngine")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "SeriousEngine")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "serious-engine")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "serious-engine")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Graphics.Width <= 0 || c.Graphics.Height <= 0:
		return fmt.Errorf("invalid window size %dx%d", c.Graphics.Width, c.Graphics.Height)
	case c.Graphics.TargetUPS <= 0:
		return fmt.Errorf("target_ups must be positive, got %d", c.Graphics.TargetUPS)
	case c.Render.ZNear <= 0 || c.Render.ZFar <= c.Render.ZNear:
		return fmt.Errorf("invalid depth range [%g, %g]", c.Render.ZNear, c.Render.ZFar)
	case c.Render.ShadowResolution < 0:
		return fmt.Errorf("shadow_resolution must not be negative, got %d", c.Render.ShadowResolution)
	}
	return nil
}
