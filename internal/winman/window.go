package winman

import (
	"time"

	"github.com/screenmachine/winctl/internal/backend"
	"github.com/screenmachine/winctl/internal/layout"
)

// Metadata keys the registry reads back out of Window.Metadata.
const (
	MetaPID            = "pid"
	MetaURL            = "url"
	MetaBrowser        = "browser"
	MetaCommand        = "command"
	MetaArgs           = "args"
	MetaCustomPosition = "custom_position"
	MetaCustomSize     = "custom_size"
)

// Window is the registry's record of a managed window. It is a logical
// footprint, distinct from the real OS window the backend manipulates.
type Window struct {
	ID          int
	Title       string
	Application string
	Position    layout.Position
	Size        layout.Size
	State       backend.State
	Display     string
	CreatedAt   time.Time
	LastUpdated time.Time
	Metadata    map[string]any
}

// PID returns the tracked process id from the window's metadata, or 0 when
// the window was created without one.
func (w *Window) PID() int {
	if pid, ok := w.Metadata[MetaPID].(int); ok {
		return pid
	}
	return 0
}

// clone returns a deep copy so callers never share the registry's record.
func (w *Window) clone() Window {
	dup := *w
	dup.Metadata = make(map[string]any, len(w.Metadata))
	for k, v := range w.Metadata {
		dup.Metadata[k] = v
	}
	return dup
}

// layoutWindow converts the record into the layout engine's input, lifting
// any custom geometry hints out of the metadata.
func (w *Window) layoutWindow() layout.Window {
	lw := layout.Window{ID: w.ID}
	if pos, ok := w.Metadata[MetaCustomPosition].(layout.Position); ok {
		lw.CustomPosition = &pos
	}
	if size, ok := w.Metadata[MetaCustomSize].(layout.Size); ok {
		lw.CustomSize = &size
	}
	return lw
}
