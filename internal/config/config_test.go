package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.DefaultBrowser != "firefox" {
		t.Fatalf("default browser = %q", cfg.DefaultBrowser)
	}
	if _, ok := cfg.Browsers[cfg.DefaultBrowser]; !ok {
		t.Fatal("default browser has no table entry")
	}
	if cfg.TerminateTimeout() != 5*time.Second {
		t.Fatalf("terminate timeout = %v", cfg.TerminateTimeout())
	}
	if cfg.SettleDelay() != 2*time.Second {
		t.Fatalf("settle delay = %v", cfg.SettleDelay())
	}
}

func TestLoadFromPath_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if cfg.DefaultBrowser != Default().DefaultBrowser {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadFromPath_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
default_browser: chromium
browsers:
  chromium:
    path: /usr/bin/chromium
    args: ["--new-window"]
layout:
  margin: 24
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.DefaultBrowser != "chromium" {
		t.Fatalf("default browser = %q", cfg.DefaultBrowser)
	}
	if cfg.Layout.Margin != 24 {
		t.Fatalf("margin = %d", cfg.Layout.Margin)
	}
	// Untouched sections keep their defaults.
	if cfg.Window.Size.Width != Default().Window.Size.Width {
		t.Fatalf("window size = %+v, want default", cfg.Window.Size)
	}
	if cfg.Process.TerminateTimeoutSeconds != Default().Process.TerminateTimeoutSeconds {
		t.Fatalf("terminate timeout = %d, want default", cfg.Process.TerminateTimeoutSeconds)
	}
}

func TestLoadFromPath_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("default_browser: [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty default browser", func(c *Config) { c.DefaultBrowser = "" }},
		{"default browser without entry", func(c *Config) { c.DefaultBrowser = "netscape" }},
		{"browser with empty path", func(c *Config) {
			c.Browsers["broken"] = Browser{Path: ""}
		}},
		{"non-positive min size", func(c *Config) { c.Window.MinSize.Width = 0 }},
		{"max smaller than min", func(c *Config) {
			c.Window.MaxSize = Dimensions{Width: 100, Height: 100}
		}},
		{"negative margin", func(c *Config) { c.Layout.Margin = -1 }},
		{"zero grid size", func(c *Config) { c.Layout.GridSize = 0 }},
		{"zero cascade offset", func(c *Config) { c.Layout.CascadeOffset = 0 }},
		{"zero terminate timeout", func(c *Config) { c.Process.TerminateTimeoutSeconds = 0 }},
		{"negative settle delay", func(c *Config) { c.Process.SettleDelaySeconds = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
		})
	}
}
