package display

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

type fakeQuerier struct {
	displays []Display
	err      error
}

func (f *fakeQuerier) Query() ([]Display, error) { return f.displays, f.err }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRefresh_NilQuerierUsesFallback(t *testing.T) {
	m := NewManager(nil, testLogger())
	m.Refresh()

	info := m.Info()
	if len(info.Displays) != 1 {
		t.Fatalf("expected 1 fallback display, got %d", len(info.Displays))
	}
	d := info.Displays[0]
	if d.Name != FallbackName || d.Width != FallbackWidth || d.Height != FallbackHeight {
		t.Fatalf("fallback display = %+v", d)
	}
	if !d.IsPrimary || !d.IsActive {
		t.Fatalf("fallback display must be primary and active: %+v", d)
	}
	if info.Primary != FallbackName {
		t.Fatalf("primary = %q", info.Primary)
	}
}

func TestRefresh_QueryErrorFallsBack(t *testing.T) {
	q := &fakeQuerier{err: errors.New("no X server")}
	m := NewManager(q, testLogger())
	m.Refresh()

	info := m.Info()
	if len(info.Displays) != 1 || info.Displays[0].Name != FallbackName {
		t.Fatalf("expected fallback after query error, got %+v", info.Displays)
	}
}

func TestRefresh_ReplacesCollectionAtomically(t *testing.T) {
	q := &fakeQuerier{displays: []Display{
		{Name: "HDMI-1", Width: 1920, Height: 1080, IsPrimary: true, IsActive: true},
		{Name: "DP-1", Width: 2560, Height: 1440, IsActive: true},
	}}
	m := NewManager(q, testLogger())
	m.Refresh()

	if len(m.Info().Displays) != 2 {
		t.Fatalf("expected 2 displays, got %d", len(m.Info().Displays))
	}

	// A later refresh with one display drops the unplugged one.
	q.displays = q.displays[:1]
	m.Refresh()

	info := m.Info()
	if len(info.Displays) != 1 || info.Displays[0].Name != "HDMI-1" {
		t.Fatalf("stale display survived refresh: %+v", info.Displays)
	}
}

func TestInfo_PrimaryFirstAndCombinedResolution(t *testing.T) {
	q := &fakeQuerier{displays: []Display{
		{Name: "DP-1", Width: 2560, Height: 1440, IsActive: true},
		{Name: "HDMI-1", Width: 1920, Height: 1080, IsPrimary: true, IsActive: true},
	}}
	m := NewManager(q, testLogger())
	m.Refresh()

	info := m.Info()
	if info.Displays[0].Name != "HDMI-1" {
		t.Fatalf("primary not first: %+v", info.Displays)
	}
	if info.TotalWidth != 1920 || info.TotalHeight != 1080 {
		t.Fatalf("combined resolution = %dx%d, want primary 1920x1080", info.TotalWidth, info.TotalHeight)
	}
}

func TestRefresh_NoPrimaryFlagPicksFirst(t *testing.T) {
	q := &fakeQuerier{displays: []Display{
		{Name: "DP-1", Width: 2560, Height: 1440, IsActive: true},
		{Name: "DP-2", Width: 1920, Height: 1080, IsActive: true},
	}}
	m := NewManager(q, testLogger())
	m.Refresh()

	if got := m.Info().Primary; got != "DP-1" {
		t.Fatalf("primary = %q, want first discovered DP-1", got)
	}
}

func TestSetResolution_SuccessUpdatesState(t *testing.T) {
	m := NewManager(nil, testLogger())
	m.Refresh()

	var gotArgs []string
	m.run = func(args ...string) error {
		gotArgs = args
		return nil
	}

	if err := m.SetResolution(FallbackName, 1280, 720); err != nil {
		t.Fatalf("SetResolution: %v", err)
	}
	if strings.Join(gotArgs, " ") != "--output default --mode 1280x720" {
		t.Fatalf("xrandr args = %v", gotArgs)
	}

	d, _ := m.Get(FallbackName)
	if d.Width != 1280 || d.Height != 720 {
		t.Fatalf("display = %+v after resolution change", d)
	}
}

func TestSetResolution_CommandFailureKeepsState(t *testing.T) {
	m := NewManager(nil, testLogger())
	m.Refresh()
	m.run = func(...string) error { return errors.New("xrandr failed") }

	if err := m.SetResolution(FallbackName, 1280, 720); err == nil {
		t.Fatal("expected error from failing command")
	}

	d, _ := m.Get(FallbackName)
	if d.Width != FallbackWidth || d.Height != FallbackHeight {
		t.Fatalf("state changed despite command failure: %+v", d)
	}
}

func TestSetResolution_Validation(t *testing.T) {
	m := NewManager(nil, testLogger())
	m.Refresh()
	m.run = func(...string) error { t.Fatal("command must not run"); return nil }

	if err := m.SetResolution("ghost", 1920, 1080); err == nil {
		t.Fatal("expected error for unknown display")
	}
	if err := m.SetResolution(FallbackName, 640, 480); err == nil {
		t.Fatal("expected error for sub-minimum resolution")
	}
}

func TestEnableDisable(t *testing.T) {
	m := NewManager(nil, testLogger())
	m.Refresh()

	var gotArgs []string
	m.run = func(args ...string) error {
		gotArgs = args
		return nil
	}

	if err := m.Disable(FallbackName); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	if strings.Join(gotArgs, " ") != "--output default --off" {
		t.Fatalf("disable args = %v", gotArgs)
	}
	if d, _ := m.Get(FallbackName); d.IsActive {
		t.Fatal("display still active after disable")
	}

	if err := m.Enable(FallbackName); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if strings.Join(gotArgs, " ") != "--output default --auto" {
		t.Fatalf("enable args = %v", gotArgs)
	}
	if d, _ := m.Get(FallbackName); !d.IsActive {
		t.Fatal("display inactive after enable")
	}
}

func TestOptimalLayoutArea(t *testing.T) {
	q := &fakeQuerier{displays: []Display{
		{Name: "HDMI-1", Width: 2560, Height: 1440, IsPrimary: true, IsActive: true},
	}}
	m := NewManager(q, testLogger())
	m.Refresh()

	area := m.OptimalLayoutArea()
	if area.Width != 2560 || area.Height != 1440 || area.X != 0 || area.Y != 0 {
		t.Fatalf("area = %+v", area)
	}
}

func TestPortHint(t *testing.T) {
	cases := map[string]string{
		"HDMI-1":  "hdmi",
		"hdmi-a":  "hdmi",
		"DP-3":    "displayport",
		"eDP-1":   "internal",
		"LVDS-1":  "internal",
		"VGA-0":   "vga",
		"Unknown": "",
	}
	for name, want := range cases {
		if got := PortHint(name); got != want {
			t.Fatalf("PortHint(%q) = %q, want %q", name, got, want)
		}
	}
}
