package profile

import (
	"path/filepath"
	"testing"
)

func sampleProfile() Profile {
	return Profile{
		Name: "morning-board",
		Windows: []Entry{
			{
				Title:       "Browser - https://dash.example",
				Application: "firefox",
				X:           10, Y: 10,
				Width: 945, Height: 525,
				State:   "normal",
				Display: "HDMI-1",
				Metadata: map[string]any{
					"url":     "https://dash.example",
					"browser": "firefox",
				},
			},
			{
				Title:       "Application - xterm",
				Application: "xterm",
				X:           965, Y: 10,
				Width: 945, Height: 525,
				State: "minimized",
			},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	if err := Save(dir, sampleProfile()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(dir, "morning-board")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got.Name != "morning-board" {
		t.Fatalf("name = %q", got.Name)
	}
	if got.SavedAt.IsZero() {
		t.Fatal("saved_at not recorded")
	}
	if len(got.Windows) != 2 {
		t.Fatalf("windows = %d, want 2", len(got.Windows))
	}

	first := got.Windows[0]
	if first.X != 10 || first.Width != 945 || first.State != "normal" {
		t.Fatalf("first entry = %+v", first)
	}
	if url, _ := first.Metadata["url"].(string); url != "https://dash.example" {
		t.Fatalf("metadata url = %v", first.Metadata["url"])
	}
	if got.Windows[1].State != "minimized" {
		t.Fatalf("second entry state = %q", got.Windows[1].State)
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "profiles")

	if err := Save(dir, sampleProfile()); err != nil {
		t.Fatalf("Save into missing dir: %v", err)
	}
	if _, err := Load(dir, "morning-board"); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestSave_RejectsEmptyName(t *testing.T) {
	if err := Save(t.TempDir(), Profile{}); err == nil {
		t.Fatal("expected error for empty profile name")
	}
}

func TestLoad_MissingProfile(t *testing.T) {
	if _, err := Load(t.TempDir(), "ghost"); err == nil {
		t.Fatal("expected error for missing profile")
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()

	names, err := List(filepath.Join(dir, "missing"))
	if err != nil {
		t.Fatalf("List on missing dir: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("names = %v, want empty", names)
	}

	for _, name := range []string{"alpha", "beta"} {
		p := sampleProfile()
		p.Name = name
		if err := Save(dir, p); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
	}

	names, err = List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("names = %v, want 2 entries", names)
	}
}
