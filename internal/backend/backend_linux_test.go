//go:build linux

package backend

import (
	"testing"

	"github.com/screenmachine/winctl/internal/layout"
)

// A window whose process has not mapped an OS window yet (pid 0) must be a
// no-op success for every operation, including the hidden and normal
// transitions. pid 0 short-circuits before the connection is touched, so a
// nil connection is safe here.
func TestX11Backend_NoWindowIsNoopSuccess(t *testing.T) {
	b := NewX11Backend(nil)
	win := Window{ID: 1, PID: 0}

	if err := b.ApplyGeometry(win, layout.Position{X: 10, Y: 10}, layout.Size{Width: 800, Height: 600}); err != nil {
		t.Fatalf("ApplyGeometry for an absent window errored: %v", err)
	}

	for _, state := range []State{StateNormal, StateMinimized, StateMaximized, StateFullscreen, StateHidden} {
		if err := b.ApplyState(win, state); err != nil {
			t.Fatalf("ApplyState(%s) for an absent window errored: %v", state, err)
		}
	}

	if _, ok := b.QueryTitle(0); ok {
		t.Fatalf("QueryTitle reported a title for pid 0")
	}
}
