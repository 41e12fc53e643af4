// Package profile persists window layouts as named YAML snapshots so a
// board arrangement can be restored after a restart.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Entry is one saved window. Ids and timestamps are runtime artifacts and
// are deliberately not stored; a loaded profile creates fresh windows.
type Entry struct {
	Title       string         `yaml:"title"`
	Application string         `yaml:"application"`
	X           int            `yaml:"x"`
	Y           int            `yaml:"y"`
	Width       int            `yaml:"width"`
	Height      int            `yaml:"height"`
	State       string         `yaml:"state"`
	Display     string         `yaml:"display,omitempty"`
	Metadata    map[string]any `yaml:"metadata,omitempty"`
}

// Profile is a named collection of window entries.
type Profile struct {
	Name    string    `yaml:"name"`
	SavedAt time.Time `yaml:"saved_at"`
	Windows []Entry   `yaml:"windows"`
}

// DefaultDir returns the directory profiles are stored in,
// ~/.config/winctl/profiles.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "winctl", "profiles"), nil
}

// Save writes the profile to dir as <name>.yaml, creating dir if needed.
func Save(dir string, p Profile) error {
	if p.Name == "" {
		return fmt.Errorf("profile name is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}

	p.SavedAt = time.Now()
	data, err := yaml.Marshal(&p)
	if err != nil {
		return fmt.Errorf("failed to encode profile %q: %w", p.Name, err)
	}

	path := filepath.Join(dir, p.Name+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write profile %q: %w", p.Name, err)
	}
	return nil
}

// Load reads the profile named name from dir.
func Load(dir, name string) (Profile, error) {
	path := filepath.Join(dir, name+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile %q: %w", name, err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile %q: %w", name, err)
	}
	if p.Name == "" {
		p.Name = name
	}
	return p, nil
}

// List returns the names of all saved profiles in dir, without extensions.
// A missing directory yields an empty list.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name()[:len(e.Name())-len(ext)])
		}
	}
	return names, nil
}
