package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath returns the standard config file location.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "winctl", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing file is
// not an error; the defaults are returned as-is.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the configuration from an explicit path, merging it over
// the built-in defaults and validating the result.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// Unmarshal over the defaults; absent keys keep their default values.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for values the rest of the system
// cannot operate with.
func (c *Config) Validate() error {
	if c.DefaultBrowser == "" {
		return fmt.Errorf("default_browser must not be empty")
	}
	if _, ok := c.Browsers[c.DefaultBrowser]; !ok {
		return fmt.Errorf("default_browser %q has no entry in browsers", c.DefaultBrowser)
	}
	for name, b := range c.Browsers {
		if b.Path == "" {
			return fmt.Errorf("browser %q has an empty path", name)
		}
	}
	if c.Window.MinSize.Width <= 0 || c.Window.MinSize.Height <= 0 {
		return fmt.Errorf("window min_size must be positive, got %dx%d",
			c.Window.MinSize.Width, c.Window.MinSize.Height)
	}
	if c.Window.MaxSize.Width < c.Window.MinSize.Width ||
		c.Window.MaxSize.Height < c.Window.MinSize.Height {
		return fmt.Errorf("window max_size %dx%d is smaller than min_size %dx%d",
			c.Window.MaxSize.Width, c.Window.MaxSize.Height,
			c.Window.MinSize.Width, c.Window.MinSize.Height)
	}
	if c.Layout.Margin < 0 {
		return fmt.Errorf("layout margin must not be negative, got %d", c.Layout.Margin)
	}
	if c.Layout.GridSize <= 0 {
		return fmt.Errorf("layout grid_size must be positive, got %d", c.Layout.GridSize)
	}
	if c.Layout.CascadeOffset <= 0 {
		return fmt.Errorf("layout cascade_offset must be positive, got %d", c.Layout.CascadeOffset)
	}
	if c.Process.TerminateTimeoutSeconds <= 0 {
		return fmt.Errorf("process terminate_timeout_seconds must be positive, got %d",
			c.Process.TerminateTimeoutSeconds)
	}
	if c.Process.SettleDelaySeconds < 0 {
		return fmt.Errorf("process settle_delay_seconds must not be negative, got %d",
			c.Process.SettleDelaySeconds)
	}
	return nil
}
