// Package winman is the window registry: it owns the set of logical
// windows and coordinates the process supervisor, display registry and
// layout engine behind one serialized control surface.
package winman

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/screenmachine/winctl/internal/backend"
	"github.com/screenmachine/winctl/internal/config"
	"github.com/screenmachine/winctl/internal/display"
	"github.com/screenmachine/winctl/internal/layout"
	"github.com/screenmachine/winctl/internal/proc"
)

// ErrNotFound is returned for unknown window ids.
var ErrNotFound = errors.New("window not found")

// Supervisor launches and reaps the processes behind windows. Satisfied by
// proc.Supervisor.
type Supervisor interface {
	LaunchBrowser(kind, url string, extraArgs []string) (*proc.Info, error)
	LaunchApplication(command string, args []string) (*proc.Info, error)
	Terminate(pid int) error
}

// Manager orchestrates windows. Every public operation takes the manager
// mutex: layout computation plus the following multi-field writes are not
// atomic otherwise.
type Manager struct {
	cfg      *config.Config
	displays *display.Manager
	procs    Supervisor
	engine   *layout.Engine
	backend  backend.Backend
	logger   *slog.Logger

	// settle pauses between spawn and geometry application so the external
	// process has a chance to map its window. Injectable for tests.
	settle func()

	mu      sync.Mutex
	windows map[int]*Window
	nextID  int
}

// NewManager wires the registry to its collaborators.
func NewManager(cfg *config.Config, displays *display.Manager, procs Supervisor, be backend.Backend, logger *slog.Logger) *Manager {
	engine := layout.NewEngine(layout.Params{
		Margin:        cfg.Layout.Margin,
		MinWidth:      cfg.Window.MinSize.Width,
		MinHeight:     cfg.Window.MinSize.Height,
		GridSize:      cfg.Layout.GridSize,
		SnapToGrid:    cfg.Layout.SnapToGrid,
		CascadeOffset: cfg.Layout.CascadeOffset,
	})

	settleDelay := cfg.SettleDelay()
	return &Manager{
		cfg:      cfg,
		displays: displays,
		procs:    procs,
		engine:   engine,
		backend:  be,
		logger:   logger,
		settle:   func() { time.Sleep(settleDelay) },
		windows:  make(map[int]*Window),
	}
}

// SetSettleFunc replaces the post-spawn settle pause. Tests use this to
// avoid real sleeps.
func (m *Manager) SetSettleFunc(f func()) {
	m.settle = f
}

// CreateBrowserWindow launches a browser pointed at url and registers a
// window for it. Nil position/size and an empty browserKind fall back to the
// configured defaults. A spawn failure leaves no partial record behind.
func (m *Manager) CreateBrowserWindow(url string, pos *layout.Position, size *layout.Size, browserKind string) (Window, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if browserKind == "" {
		browserKind = m.cfg.DefaultBrowser
	}

	info, err := m.procs.LaunchBrowser(browserKind, url, nil)
	if err != nil {
		return Window{}, err
	}

	win := m.registerWindow(
		fmt.Sprintf("Browser - %s", url),
		browserKind,
		pos, size,
		map[string]any{MetaPID: info.PID, MetaURL: url, MetaBrowser: browserKind},
	)
	m.logger.Info("created browser window", "id", win.ID, "browser", browserKind, "url", url, "pid", info.PID)
	return win, nil
}

// CreateApplicationWindow launches an arbitrary command and registers a
// window for it.
func (m *Manager) CreateApplicationWindow(command string, pos *layout.Position, size *layout.Size, args []string) (Window, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	info, err := m.procs.LaunchApplication(command, args)
	if err != nil {
		return Window{}, err
	}

	win := m.registerWindow(
		fmt.Sprintf("Application - %s", command),
		command,
		pos, size,
		map[string]any{MetaPID: info.PID, MetaCommand: command, MetaArgs: args},
	)
	m.logger.Info("created application window", "id", win.ID, "command", command, "pid", info.PID)
	return win, nil
}

// registerWindow fills defaults, assigns the next id, stores the record and
// pushes the initial geometry to the backend. Caller holds the mutex.
func (m *Manager) registerWindow(title, application string, pos *layout.Position, size *layout.Size, metadata map[string]any) Window {
	position := layout.Position{X: m.cfg.Window.Position.X, Y: m.cfg.Window.Position.Y}
	if pos != nil {
		position = *pos
	}
	dimensions := layout.Size{Width: m.cfg.Window.Size.Width, Height: m.cfg.Window.Size.Height}
	if size != nil {
		dimensions = *size
	}
	dimensions = m.clampSize(dimensions)

	now := time.Now()
	win := &Window{
		ID:          m.nextID,
		Title:       title,
		Application: application,
		Position:    position,
		Size:        dimensions,
		State:       backend.StateNormal,
		Display:     m.displays.Info().Primary,
		CreatedAt:   now,
		LastUpdated: now,
		Metadata:    metadata,
	}
	m.windows[win.ID] = win
	m.nextID++

	// Give the spawned process time to map its window, then push geometry.
	// The backend tolerates a window that has not appeared yet.
	m.settle()
	if title, ok := m.backend.QueryTitle(win.PID()); ok {
		win.Title = title
	}
	m.pushGeometry(win)

	return win.clone()
}

// SetPosition moves a window. The logical record is updated even when the
// backend call fails; internal consistency wins over backend truth.
func (m *Manager) SetPosition(id int, pos layout.Position) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setPositionLocked(id, pos)
}

func (m *Manager) setPositionLocked(id int, pos layout.Position) error {
	win, ok := m.windows[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	win.Position = pos
	win.LastUpdated = time.Now()
	m.pushGeometry(win)
	m.logger.Debug("moved window", "id", id, "x", pos.X, "y", pos.Y)
	return nil
}

// SetSize resizes a window, clamping to the configured bounds with a logged
// warning when the requested size is out of range.
func (m *Manager) SetSize(id int, size layout.Size) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setSizeLocked(id, size)
}

func (m *Manager) setSizeLocked(id int, size layout.Size) error {
	win, ok := m.windows[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	clamped := m.clampSize(size)
	if clamped != size {
		m.logger.Warn("window size out of bounds, clamping",
			"id", id,
			"requested_width", size.Width, "requested_height", size.Height,
			"width", clamped.Width, "height", clamped.Height)
	}

	win.Size = clamped
	win.LastUpdated = time.Now()
	m.pushGeometry(win)
	m.logger.Debug("resized window", "id", id, "width", clamped.Width, "height", clamped.Height)
	return nil
}

// clampSize bounds each dimension independently: a request of (1, 5000)
// yields (min width, max height), never a wholesale reset of both.
func (m *Manager) clampSize(size layout.Size) layout.Size {
	minSize := m.cfg.Window.MinSize
	maxSize := m.cfg.Window.MaxSize
	size.Width = max(minSize.Width, min(size.Width, maxSize.Width))
	size.Height = max(minSize.Height, min(size.Height, maxSize.Height))
	return size
}

// Minimize sets a window to the minimized state.
func (m *Manager) Minimize(id int) error { return m.SetState(id, backend.StateMinimized) }

// Maximize sets a window to the maximized state.
func (m *Manager) Maximize(id int) error { return m.SetState(id, backend.StateMaximized) }

// Restore returns a window to the normal state.
func (m *Manager) Restore(id int) error { return m.SetState(id, backend.StateNormal) }

// SetState applies an arbitrary window state. Fullscreen and hidden are
// reachable only through here; no dedicated operation exists for them yet.
func (m *Manager) SetState(id int, state backend.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	win, ok := m.windows[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	win.State = state
	win.LastUpdated = time.Now()
	if err := m.backend.ApplyState(backend.Window{ID: win.ID, PID: win.PID()}, state); err != nil {
		m.logger.Warn("backend state change failed", "id", id, "state", state, "error", err)
	}
	m.logger.Debug("set window state", "id", id, "state", state)
	return nil
}

// ArrangeWindows lays out every managed window using the named algorithm.
// Zero windows is a no-op success. An unknown algorithm degrades to grid
// with a logged warning.
func (m *Manager) ArrangeWindows(algorithm string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.windows) == 0 {
		m.logger.Info("no windows to arrange")
		return nil
	}

	alg, known := layout.ParseAlgorithm(algorithm)
	if !known {
		m.logger.Warn("unknown layout algorithm, using grid", "algorithm", algorithm)
	}

	m.displays.Refresh()
	area := m.displays.OptimalLayoutArea()

	// Snapshot before mutating: the engine input must not alias the map
	// that the per-window writes below iterate over.
	snapshot := make([]layout.Window, 0, len(m.windows))
	for _, win := range m.sortedLocked() {
		snapshot = append(snapshot, win.layoutWindow())
	}

	placements := m.engine.Compute(snapshot, area, alg)
	for _, lw := range snapshot {
		p, ok := placements[lw.ID]
		if !ok {
			continue
		}
		if err := m.setPositionLocked(lw.ID, p.Position); err != nil {
			continue
		}
		_ = m.setSizeLocked(lw.ID, p.Size)
	}

	m.logger.Info("arranged windows", "count", len(snapshot), "algorithm", string(alg))
	return nil
}

// CloseWindow terminates the window's process (when it has one) and removes
// the window from the registry. A process that is already gone does not fail
// the close.
func (m *Manager) CloseWindow(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeLocked(id)
}

func (m *Manager) closeLocked(id int) error {
	win, ok := m.windows[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	if pid := win.PID(); pid > 0 {
		if err := m.procs.Terminate(pid); err != nil && !errors.Is(err, proc.ErrNotTracked) {
			m.logger.Warn("failed to terminate window process", "id", id, "pid", pid, "error", err)
		}
	}

	delete(m.windows, id)
	m.logger.Info("closed window", "id", id, "title", win.Title)
	return nil
}

// Info returns a copy of the window record for id.
func (m *Manager) Info(id int) (Window, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	win, ok := m.windows[id]
	if !ok {
		return Window{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return win.clone(), nil
}

// List returns copies of all windows ordered by id (creation order).
func (m *Manager) List() []Window {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Window, 0, len(m.windows))
	for _, win := range m.sortedLocked() {
		out = append(out, win.clone())
	}
	return out
}

// Count returns the number of managed windows.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows)
}

// Cleanup closes every managed window. Deferred by the daemon so every exit
// path releases the registry.
func (m *Manager) Cleanup() {
	m.mu.Lock()
	ids := make([]int, 0, len(m.windows))
	for id := range m.windows {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		if err := m.CloseWindow(id); err != nil && !errors.Is(err, ErrNotFound) {
			m.logger.Warn("cleanup: failed to close window", "id", id, "error", err)
		}
	}
	m.logger.Info("window registry cleanup completed")
}

// pushGeometry forwards a window's logical geometry to the backend. Failures
// are logged only; the logical state has already been committed.
func (m *Manager) pushGeometry(win *Window) {
	err := m.backend.ApplyGeometry(
		backend.Window{ID: win.ID, PID: win.PID()},
		win.Position,
		win.Size,
	)
	if err != nil {
		m.logger.Warn("backend geometry change failed", "id", win.ID, "error", err)
	}
}

// sortedLocked returns windows ordered by id. Caller holds the mutex.
func (m *Manager) sortedLocked() []*Window {
	out := make([]*Window, 0, len(m.windows))
	for _, win := range m.windows {
		out = append(out, win)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
