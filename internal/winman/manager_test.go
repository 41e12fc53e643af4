package winman

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/screenmachine/winctl/internal/backend"
	"github.com/screenmachine/winctl/internal/config"
	"github.com/screenmachine/winctl/internal/display"
	"github.com/screenmachine/winctl/internal/layout"
	"github.com/screenmachine/winctl/internal/proc"
)

type fakeSupervisor struct {
	nextPID    int
	terminated []int
	spawnErr   error
}

func (f *fakeSupervisor) LaunchBrowser(kind, url string, _ []string) (*proc.Info, error) {
	if f.spawnErr != nil {
		return nil, f.spawnErr
	}
	f.nextPID++
	return &proc.Info{PID: f.nextPID, Name: kind, Kind: proc.KindBrowser}, nil
}

func (f *fakeSupervisor) LaunchApplication(command string, _ []string) (*proc.Info, error) {
	if f.spawnErr != nil {
		return nil, f.spawnErr
	}
	f.nextPID++
	return &proc.Info{PID: f.nextPID, Name: command, Kind: proc.KindApplication}, nil
}

func (f *fakeSupervisor) Terminate(pid int) error {
	f.terminated = append(f.terminated, pid)
	return nil
}

type backendCall struct {
	op    string
	pid   int
	pos   layout.Position
	size  layout.Size
	state backend.State
}

type fakeBackend struct {
	calls  []backendCall
	geoErr error
	titles map[int]string
}

func (f *fakeBackend) ApplyGeometry(win backend.Window, pos layout.Position, size layout.Size) error {
	f.calls = append(f.calls, backendCall{op: "geometry", pid: win.PID, pos: pos, size: size})
	return f.geoErr
}

func (f *fakeBackend) ApplyState(win backend.Window, state backend.State) error {
	f.calls = append(f.calls, backendCall{op: "state", pid: win.PID, state: state})
	return nil
}

func (f *fakeBackend) QueryTitle(pid int) (string, bool) {
	title, ok := f.titles[pid]
	return title, ok
}

func testManager(t *testing.T) (*Manager, *fakeSupervisor, *fakeBackend) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	displays := display.NewManager(nil, logger)
	displays.Refresh()

	sup := &fakeSupervisor{nextPID: 100}
	be := &fakeBackend{}

	m := NewManager(config.Default(), displays, sup, be, logger)
	m.SetSettleFunc(func() {})
	return m, sup, be
}

func TestCreateBrowserWindow_Defaults(t *testing.T) {
	m, _, _ := testManager(t)

	win, err := m.CreateBrowserWindow("https://example.com", nil, nil, "")
	if err != nil {
		t.Fatalf("CreateBrowserWindow: %v", err)
	}

	cfg := config.Default()
	if win.Position.X != cfg.Window.Position.X || win.Position.Y != cfg.Window.Position.Y {
		t.Fatalf("position = %+v, want config default", win.Position)
	}
	if win.Size.Width != cfg.Window.Size.Width || win.Size.Height != cfg.Window.Size.Height {
		t.Fatalf("size = %+v, want config default", win.Size)
	}
	if win.State != backend.StateNormal {
		t.Fatalf("state = %q, want normal", win.State)
	}
	if win.Title != "Browser - https://example.com" {
		t.Fatalf("title = %q", win.Title)
	}
	if win.Metadata[MetaURL] != "https://example.com" {
		t.Fatalf("metadata = %+v", win.Metadata)
	}
	if win.Display == "" {
		t.Fatal("window not assigned to a display")
	}
}

func TestCreateBrowserWindow_BackendTitleWins(t *testing.T) {
	m, _, be := testManager(t)
	be.titles = map[int]string{101: "Example Domain - Mozilla Firefox"}

	win, err := m.CreateBrowserWindow("https://example.com", nil, nil, "")
	if err != nil {
		t.Fatalf("CreateBrowserWindow: %v", err)
	}
	if win.Title != "Example Domain - Mozilla Firefox" {
		t.Fatalf("title = %q, want backend title", win.Title)
	}
}

func TestCreateWindow_SpawnFailureLeavesNoRecord(t *testing.T) {
	m, sup, _ := testManager(t)
	sup.spawnErr = errors.New("boom")

	if _, err := m.CreateBrowserWindow("https://example.com", nil, nil, ""); err == nil {
		t.Fatal("expected spawn error")
	}
	if m.Count() != 0 {
		t.Fatalf("failed create left %d windows behind", m.Count())
	}
}

func TestWindowIDsAreMonotonic(t *testing.T) {
	m, _, _ := testManager(t)

	a, _ := m.CreateApplicationWindow("xterm", nil, nil, nil)
	b, _ := m.CreateApplicationWindow("xterm", nil, nil, nil)
	if err := m.CloseWindow(a.ID); err != nil {
		t.Fatalf("CloseWindow: %v", err)
	}
	c, _ := m.CreateApplicationWindow("xterm", nil, nil, nil)

	if !(a.ID < b.ID && b.ID < c.ID) {
		t.Fatalf("ids not monotonic: %d %d %d", a.ID, b.ID, c.ID)
	}
}

func TestSetSize_ClampsToBounds(t *testing.T) {
	m, _, _ := testManager(t)
	cfg := config.Default()

	win, _ := m.CreateApplicationWindow("xterm", nil, nil, nil)

	if err := m.SetSize(win.ID, layout.Size{Width: 1, Height: 1}); err != nil {
		t.Fatalf("SetSize: %v", err)
	}
	got, _ := m.Info(win.ID)
	if got.Size.Width != cfg.Window.MinSize.Width || got.Size.Height != cfg.Window.MinSize.Height {
		t.Fatalf("undersized request = %+v, want clamp to min", got.Size)
	}

	if err := m.SetSize(win.ID, layout.Size{Width: 999999, Height: 999999}); err != nil {
		t.Fatalf("SetSize: %v", err)
	}
	got, _ = m.Info(win.ID)
	if got.Size.Width != cfg.Window.MaxSize.Width || got.Size.Height != cfg.Window.MaxSize.Height {
		t.Fatalf("oversized request = %+v, want clamp to max", got.Size)
	}

	// Dimensions clamp independently: (1, 5000) keeps the valid direction of
	// each, giving (min width 200, max height 2160).
	if err := m.SetSize(win.ID, layout.Size{Width: 1, Height: 5000}); err != nil {
		t.Fatalf("SetSize: %v", err)
	}
	got, _ = m.Info(win.ID)
	if got.Size.Width != cfg.Window.MinSize.Width || got.Size.Height != cfg.Window.MaxSize.Height {
		t.Fatalf("mixed request = %+v, want (min width, max height)", got.Size)
	}
}

func TestSetPosition_UpdatesRecordEvenWhenBackendFails(t *testing.T) {
	m, _, be := testManager(t)
	be.geoErr = errors.New("window gone")

	win, _ := m.CreateApplicationWindow("xterm", nil, nil, nil)
	if err := m.SetPosition(win.ID, layout.Position{X: 42, Y: 24}); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}

	got, _ := m.Info(win.ID)
	if got.Position != (layout.Position{X: 42, Y: 24}) {
		t.Fatalf("position = %+v, logical record must win", got.Position)
	}
}

func TestStateTransitions(t *testing.T) {
	m, _, be := testManager(t)

	win, _ := m.CreateApplicationWindow("xterm", nil, nil, nil)

	if err := m.Minimize(win.ID); err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	got, _ := m.Info(win.ID)
	if got.State != backend.StateMinimized {
		t.Fatalf("state = %q, want minimized", got.State)
	}

	if err := m.Maximize(win.ID); err != nil {
		t.Fatalf("Maximize: %v", err)
	}
	if err := m.Restore(win.ID); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	got, _ = m.Info(win.ID)
	if got.State != backend.StateNormal {
		t.Fatalf("state = %q, want normal", got.State)
	}

	var states []backend.State
	for _, c := range be.calls {
		if c.op == "state" {
			states = append(states, c.state)
		}
	}
	want := []backend.State{backend.StateMinimized, backend.StateMaximized, backend.StateNormal}
	if len(states) != len(want) {
		t.Fatalf("backend state calls = %v, want %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("backend state calls = %v, want %v", states, want)
		}
	}
}

func TestOperationsOnUnknownWindow(t *testing.T) {
	m, _, _ := testManager(t)

	if err := m.SetPosition(7, layout.Position{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("SetPosition: %v", err)
	}
	if err := m.SetSize(7, layout.Size{Width: 300, Height: 300}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("SetSize: %v", err)
	}
	if err := m.CloseWindow(7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("CloseWindow: %v", err)
	}
	if _, err := m.Info(7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Info: %v", err)
	}
}

func TestCloseWindow_TerminatesProcess(t *testing.T) {
	m, sup, _ := testManager(t)

	win, _ := m.CreateApplicationWindow("xterm", nil, nil, nil)
	if err := m.CloseWindow(win.ID); err != nil {
		t.Fatalf("CloseWindow: %v", err)
	}

	if m.Count() != 0 {
		t.Fatalf("count = %d after close", m.Count())
	}
	if len(sup.terminated) != 1 || sup.terminated[0] != win.PID() {
		t.Fatalf("terminated = %v, want [%d]", sup.terminated, win.PID())
	}
}

func TestArrangeWindows_EmptyIsNoOpSuccess(t *testing.T) {
	m, _, be := testManager(t)

	if err := m.ArrangeWindows("grid"); err != nil {
		t.Fatalf("ArrangeWindows on empty registry: %v", err)
	}
	if len(be.calls) != 0 {
		t.Fatalf("backend touched for empty arrange: %v", be.calls)
	}
}

func TestArrangeWindows_GridPlacesEveryWindow(t *testing.T) {
	m, _, _ := testManager(t)

	for i := 0; i < 3; i++ {
		if _, err := m.CreateApplicationWindow(fmt.Sprintf("app%d", i), nil, nil, nil); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	if err := m.ArrangeWindows("grid"); err != nil {
		t.Fatalf("ArrangeWindows: %v", err)
	}

	// Fallback display is 1920x1080; 3 windows make a 2x2 grid with
	// 945x525 cells (margin 10). Max size clamp does not bite.
	seen := map[layout.Position]bool{}
	for _, w := range m.List() {
		if w.Size.Width != 945 || w.Size.Height != 525 {
			t.Fatalf("window %d size = %+v, want 945x525", w.ID, w.Size)
		}
		if seen[w.Position] {
			t.Fatalf("two windows share position %+v", w.Position)
		}
		seen[w.Position] = true
	}
}

func TestArrangeWindows_UnknownAlgorithmBehavesLikeGrid(t *testing.T) {
	ma, _, _ := testManager(t)
	mb, _, _ := testManager(t)

	for i := 0; i < 3; i++ {
		ma.CreateApplicationWindow("xterm", nil, nil, nil)
		mb.CreateApplicationWindow("xterm", nil, nil, nil)
	}

	if err := ma.ArrangeWindows("spiral"); err != nil {
		t.Fatalf("unknown algorithm must not fail: %v", err)
	}
	if err := mb.ArrangeWindows("grid"); err != nil {
		t.Fatalf("ArrangeWindows: %v", err)
	}

	wa, wb := ma.List(), mb.List()
	for i := range wa {
		if wa[i].Position != wb[i].Position || wa[i].Size != wb[i].Size {
			t.Fatalf("window %d: spiral %+v/%+v, grid %+v/%+v",
				wa[i].ID, wa[i].Position, wa[i].Size, wb[i].Position, wb[i].Size)
		}
	}
}

func TestListReturnsIndependentCopies(t *testing.T) {
	m, _, _ := testManager(t)

	m.CreateBrowserWindow("https://example.com", nil, nil, "")
	list := m.List()
	list[0].Metadata[MetaURL] = "mutated"
	list[0].Position.X = -999

	got, _ := m.Info(list[0].ID)
	if got.Metadata[MetaURL] != "https://example.com" || got.Position.X == -999 {
		t.Fatalf("List leaked internal state: %+v", got)
	}
}

func TestCleanupClosesEverything(t *testing.T) {
	m, sup, _ := testManager(t)

	m.CreateApplicationWindow("xterm", nil, nil, nil)
	m.CreateApplicationWindow("xclock", nil, nil, nil)

	m.Cleanup()
	if m.Count() != 0 {
		t.Fatalf("count = %d after cleanup", m.Count())
	}
	if len(sup.terminated) != 2 {
		t.Fatalf("terminated %d processes, want 2", len(sup.terminated))
	}
}
