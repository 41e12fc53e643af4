// Package display tracks connected displays and supplies the layout engine
// with a usable screen area. Discovery goes through a Querier so the rest of
// the system works unchanged on machines with no display server: a failed
// query falls back to one synthetic primary display.
package display

import (
	"fmt"
	"log/slog"
	"os/exec"
	"sort"
	"strings"
	"sync"

	"github.com/screenmachine/winctl/internal/layout"
)

// Fallback geometry used when no display can be discovered.
const (
	FallbackName   = "default"
	FallbackWidth  = 1920
	FallbackHeight = 1080
)

// Display describes one connected display.
type Display struct {
	Name        string
	ID          string
	Width       int
	Height      int
	RefreshRate float64
	IsPrimary   bool
	IsActive    bool
	Port        string
}

// Info is the summary returned by Manager.Info.
type Info struct {
	Displays    []Display
	Primary     string
	TotalWidth  int
	TotalHeight int
}

// Querier discovers connected displays from the OS.
type Querier interface {
	Query() ([]Display, error)
}

// CommandRunner executes a display-control command (xrandr arguments).
// Swappable for tests.
type CommandRunner func(args ...string) error

func runXrandr(args ...string) error {
	out, err := exec.Command("xrandr", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("xrandr %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Manager owns the display collection. All exported methods are safe for
// concurrent use.
type Manager struct {
	logger  *slog.Logger
	querier Querier
	run     CommandRunner

	mu       sync.Mutex
	displays map[string]Display
	order    []string
	primary  string
}

// NewManager creates a display manager. querier may be nil, in which case
// every refresh uses the synthetic fallback display.
func NewManager(querier Querier, logger *slog.Logger) *Manager {
	return &Manager{
		logger:   logger,
		querier:  querier,
		run:      runXrandr,
		displays: make(map[string]Display),
	}
}

// Refresh queries the OS for connected displays and replaces the collection
// atomically. Fails soft: if the query mechanism is unavailable or returns
// nothing, a single synthetic primary display stands in so the rest of the
// system always has something to lay out against.
func (m *Manager) Refresh() {
	var discovered []Display
	if m.querier != nil {
		var err error
		discovered, err = m.querier.Query()
		if err != nil {
			m.logger.Warn("display query failed, using fallback", "error", err)
			discovered = nil
		}
	}

	if len(discovered) == 0 {
		discovered = []Display{fallbackDisplay()}
	}

	displays := make(map[string]Display, len(discovered))
	order := make([]string, 0, len(discovered))
	primary := ""
	for _, d := range discovered {
		displays[d.Name] = d
		order = append(order, d.Name)
		if d.IsPrimary {
			primary = d.Name
		}
	}
	if primary == "" {
		primary = order[0]
	}

	m.mu.Lock()
	m.displays = displays
	m.order = order
	m.primary = primary
	m.mu.Unlock()

	m.logger.Debug("refreshed displays", "count", len(displays), "primary", primary)
}

func fallbackDisplay() Display {
	return Display{
		Name:        FallbackName,
		ID:          FallbackName,
		Width:       FallbackWidth,
		Height:      FallbackHeight,
		RefreshRate: 60.0,
		IsPrimary:   true,
		IsActive:    true,
	}
}

// Info returns all displays, the primary display name and the combined
// usable resolution. The combined resolution is the primary display's
// resolution; spanning a multi-monitor bounding box is out of scope.
func (m *Manager) Info() Info {
	m.mu.Lock()
	defer m.mu.Unlock()

	info := Info{
		Displays: make([]Display, 0, len(m.displays)),
		Primary:  m.primary,
	}
	for _, name := range m.order {
		info.Displays = append(info.Displays, m.displays[name])
	}
	sort.SliceStable(info.Displays, func(i, j int) bool {
		if info.Displays[i].IsPrimary != info.Displays[j].IsPrimary {
			return info.Displays[i].IsPrimary
		}
		return info.Displays[i].Name < info.Displays[j].Name
	})

	if d, ok := m.displays[m.primary]; ok {
		info.TotalWidth = d.Width
		info.TotalHeight = d.Height
	} else {
		info.TotalWidth = FallbackWidth
		info.TotalHeight = FallbackHeight
	}
	return info
}

// Get returns a display by name.
func (m *Manager) Get(name string) (Display, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.displays[name]
	return d, ok
}

// Primary returns the primary display.
func (m *Manager) Primary() (Display, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.displays[m.primary]
	return d, ok
}

// SetResolution changes a display's mode via the OS display command. Local
// state is updated only when the command succeeds.
func (m *Manager) SetResolution(name string, width, height int) error {
	m.mu.Lock()
	_, ok := m.displays[name]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("display %q not found", name)
	}
	if width < 800 || height < 600 {
		return fmt.Errorf("resolution %dx%d below supported minimum 800x600", width, height)
	}

	if err := m.run("--output", name, "--mode", fmt.Sprintf("%dx%d", width, height)); err != nil {
		m.logger.Error("failed to set resolution", "display", name, "error", err)
		return err
	}

	m.mu.Lock()
	d := m.displays[name]
	d.Width = width
	d.Height = height
	m.displays[name] = d
	m.mu.Unlock()

	m.logger.Info("set display resolution", "display", name, "width", width, "height", height)
	return nil
}

// Enable activates a display via the OS display command.
func (m *Manager) Enable(name string) error {
	return m.setActive(name, true)
}

// Disable deactivates a display via the OS display command.
func (m *Manager) Disable(name string) error {
	return m.setActive(name, false)
}

func (m *Manager) setActive(name string, active bool) error {
	m.mu.Lock()
	_, ok := m.displays[name]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("display %q not found", name)
	}

	arg := "--off"
	if active {
		arg = "--auto"
	}
	if err := m.run("--output", name, arg); err != nil {
		m.logger.Error("failed to change display state", "display", name, "active", active, "error", err)
		return err
	}

	m.mu.Lock()
	d := m.displays[name]
	d.IsActive = active
	m.displays[name] = d
	m.mu.Unlock()

	m.logger.Info("changed display state", "display", name, "active", active)
	return nil
}

// OptimalLayoutArea returns the area windows should be laid out in: the
// primary display, or the fallback geometry when nothing is known.
func (m *Manager) OptimalLayoutArea() layout.Rect {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d, ok := m.displays[m.primary]; ok {
		return layout.Rect{X: 0, Y: 0, Width: d.Width, Height: d.Height}
	}
	return layout.Rect{X: 0, Y: 0, Width: FallbackWidth, Height: FallbackHeight}
}

// PortHint guesses the physical connector family from an output name.
func PortHint(name string) string {
	upper := strings.ToUpper(name)
	switch {
	case strings.HasPrefix(upper, "HDMI"):
		return "hdmi"
	case strings.HasPrefix(upper, "DP") || strings.HasPrefix(upper, "DISPLAYPORT"):
		return "displayport"
	case strings.HasPrefix(upper, "EDP") || strings.HasPrefix(upper, "LVDS"):
		return "internal"
	case strings.HasPrefix(upper, "VGA"):
		return "vga"
	default:
		return ""
	}
}
