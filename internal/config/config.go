package config

import "time"

// Browser describes a launchable browser: its executable path and the
// flags always passed before the URL.
type Browser struct {
	Path string   `yaml:"path"`
	Args []string `yaml:"args,omitempty"`
}

// Coordinates is an x/y pair in screen pixels.
type Coordinates struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Dimensions is a width/height pair in screen pixels.
type Dimensions struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// WindowDefaults controls geometry applied when a caller does not specify one.
type WindowDefaults struct {
	Position Coordinates `yaml:"position"`
	Size     Dimensions  `yaml:"size"`
	MinSize  Dimensions  `yaml:"min_size"`
	MaxSize  Dimensions  `yaml:"max_size"`
}

// LayoutSettings tunes the layout engine.
type LayoutSettings struct {
	Margin        int  `yaml:"margin"`
	GridSize      int  `yaml:"grid_size"`
	SnapToGrid    bool `yaml:"snap_to_grid"`
	CascadeOffset int  `yaml:"cascade_offset"`
}

// ProcessSettings tunes the process supervisor.
type ProcessSettings struct {
	// TerminateTimeoutSeconds is the grace period between SIGTERM and SIGKILL.
	TerminateTimeoutSeconds int `yaml:"terminate_timeout_seconds"`
	// SettleDelaySeconds is the pause after spawn before geometry is applied,
	// giving the external process time to map its window.
	SettleDelaySeconds int `yaml:"settle_delay_seconds"`
}

// Config is the effective winctl configuration. It is immutable after Load;
// components receive it at construction and never write back.
type Config struct {
	DefaultBrowser string             `yaml:"default_browser"`
	Browsers       map[string]Browser `yaml:"browsers"`
	Window         WindowDefaults     `yaml:"window"`
	Layout         LayoutSettings     `yaml:"layout"`
	Process        ProcessSettings    `yaml:"process"`
}

// Default returns the built-in configuration, matching a stock Ubuntu
// install. A config file overrides individual fields.
func Default() *Config {
	return &Config{
		DefaultBrowser: "firefox",
		Browsers: map[string]Browser{
			"firefox": {
				Path: "/usr/bin/firefox",
				Args: []string{"--new-window", "--kiosk"},
			},
			"chromium": {
				Path: "/usr/bin/chromium-browser",
				Args: []string{"--new-window", "--kiosk"},
			},
			"google-chrome": {
				Path: "/usr/bin/google-chrome-stable",
				Args: []string{"--new-window", "--kiosk"},
			},
		},
		Window: WindowDefaults{
			Position: Coordinates{X: 0, Y: 0},
			Size:     Dimensions{Width: 800, Height: 600},
			MinSize:  Dimensions{Width: 200, Height: 150},
			MaxSize:  Dimensions{Width: 3840, Height: 2160},
		},
		Layout: LayoutSettings{
			Margin:        10,
			GridSize:      50,
			SnapToGrid:    true,
			CascadeOffset: 50,
		},
		Process: ProcessSettings{
			TerminateTimeoutSeconds: 5,
			SettleDelaySeconds:      2,
		},
	}
}

// TerminateTimeout returns the SIGTERM grace period as a duration.
func (c *Config) TerminateTimeout() time.Duration {
	return time.Duration(c.Process.TerminateTimeoutSeconds) * time.Second
}

// SettleDelay returns the post-spawn settle pause as a duration.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Process.SettleDelaySeconds) * time.Second
}
