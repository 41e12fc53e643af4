// Package backend is the boundary through which logical window state is
// applied to the real display system. The core never depends on a backend
// doing more than acknowledging: a missing OS window is a successful no-op.
package backend

import "github.com/screenmachine/winctl/internal/layout"

// State is an on-screen window state.
type State string

const (
	StateNormal     State = "normal"
	StateMinimized  State = "minimized"
	StateMaximized  State = "maximized"
	StateFullscreen State = "fullscreen"
	StateHidden     State = "hidden"
)

// ParseState maps a name to a State.
func ParseState(name string) (State, bool) {
	switch State(name) {
	case StateNormal, StateMinimized, StateMaximized, StateFullscreen, StateHidden:
		return State(name), true
	default:
		return "", false
	}
}

// Window identifies a logical window to the backend: the registry id plus
// the pid of the owning process (0 when the window has no process).
type Window struct {
	ID  int
	PID int
}

// Backend abstracts window-system operations.
type Backend interface {
	// ApplyGeometry moves and resizes the OS window backing win. A window
	// that does not exist yet is a no-op success.
	ApplyGeometry(win Window, pos layout.Position, size layout.Size) error
	// ApplyState transitions the OS window backing win to state. Same
	// no-op rule as ApplyGeometry.
	ApplyState(win Window, state State) error
	// QueryTitle returns the title of the OS window owned by pid, and
	// whether one was found.
	QueryTitle(pid int) (string, bool)
}

// Noop acknowledges every request without touching any window system. Used
// on machines with no display server and throughout the tests.
type Noop struct{}

var _ Backend = (*Noop)(nil)

func (Noop) ApplyGeometry(Window, layout.Position, layout.Size) error { return nil }
func (Noop) ApplyState(Window, State) error                          { return nil }
func (Noop) QueryTitle(int) (string, bool)                           { return "", false }
