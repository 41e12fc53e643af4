//go:build linux

package backend

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/screenmachine/winctl/internal/layout"
	"github.com/screenmachine/winctl/internal/x11"
)

// X11Backend applies window geometry and state through an X11 connection.
// OS windows are located by the owning pid via the EWMH client list, since
// externally spawned applications create their windows asynchronously.
type X11Backend struct {
	conn *x11.Connection
}

var _ Backend = (*X11Backend)(nil)

// NewX11Backend wraps an existing X11 connection.
func NewX11Backend(conn *x11.Connection) *X11Backend {
	return &X11Backend{conn: conn}
}

// ApplyGeometry moves and resizes the OS window owned by win's pid. When no
// such window exists yet this is a no-op success; the registry's logical
// geometry still advances.
func (b *X11Backend) ApplyGeometry(win Window, pos layout.Position, size layout.Size) error {
	windowID, ok := b.windowForPid(win.PID)
	if !ok {
		return nil
	}

	// EWMH moveresize first for WM cooperation, direct configure as fallback.
	if err := ewmh.MoveresizeWindow(b.conn.XUtil, windowID, pos.X, pos.Y, size.Width, size.Height); err != nil {
		xwindow.New(b.conn.XUtil, windowID).MoveResize(pos.X, pos.Y, size.Width, size.Height)
	}
	return nil
}

// ApplyState transitions the OS window owned by win's pid.
func (b *X11Backend) ApplyState(win Window, state State) error {
	windowID, ok := b.windowForPid(win.PID)
	if !ok {
		return nil
	}

	switch state {
	case StateMinimized:
		return b.iconify(windowID)
	case StateMaximized:
		if err := ewmh.WmStateReq(b.conn.XUtil, windowID, ewmh.StateAdd, "_NET_WM_STATE_MAXIMIZED_VERT"); err != nil {
			return err
		}
		return ewmh.WmStateReq(b.conn.XUtil, windowID, ewmh.StateAdd, "_NET_WM_STATE_MAXIMIZED_HORZ")
	case StateFullscreen:
		return ewmh.WmStateReq(b.conn.XUtil, windowID, ewmh.StateAdd, "_NET_WM_STATE_FULLSCREEN")
	case StateHidden:
		xwindow.New(b.conn.XUtil, windowID).Unmap()
		return nil
	case StateNormal:
		return b.restore(windowID)
	default:
		return fmt.Errorf("unknown window state: %q", state)
	}
}

// QueryTitle returns the EWMH title of the window owned by pid, falling back
// to the ICCCM name.
func (b *X11Backend) QueryTitle(pid int) (string, bool) {
	windowID, ok := b.windowForPid(pid)
	if !ok {
		return "", false
	}

	if title, err := ewmh.WmNameGet(b.conn.XUtil, windowID); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title, true
		}
	}
	if title, err := icccm.WmNameGet(b.conn.XUtil, windowID); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title, true
		}
	}
	return "", false
}

// windowForPid scans the EWMH client list for a window whose _NET_WM_PID
// matches pid.
func (b *X11Backend) windowForPid(pid int) (xproto.Window, bool) {
	if pid <= 0 {
		return 0, false
	}

	clients, err := ewmh.ClientListGet(b.conn.XUtil)
	if err != nil {
		return 0, false
	}

	for _, windowID := range clients {
		winPid, err := ewmh.WmPidGet(b.conn.XUtil, windowID)
		if err != nil {
			continue
		}
		if int(winPid) == pid {
			return windowID, true
		}
	}
	return 0, false
}

// iconify minimizes a window via WM_CHANGE_STATE.
func (b *X11Backend) iconify(windowID xproto.Window) error {
	reply, err := xproto.InternAtom(b.conn.XUtil.Conn(), false,
		uint16(len("WM_CHANGE_STATE")), "WM_CHANGE_STATE").Reply()
	if err != nil {
		return err
	}

	const iconicState = 3
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   reply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{iconicState, 0, 0, 0, 0}),
	}

	return xproto.SendEvent(
		b.conn.XUtil.Conn(),
		false,
		b.conn.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// restore clears the maximized/fullscreen states and remaps the window.
func (b *X11Backend) restore(windowID xproto.Window) error {
	for _, state := range []string{
		"_NET_WM_STATE_MAXIMIZED_VERT",
		"_NET_WM_STATE_MAXIMIZED_HORZ",
		"_NET_WM_STATE_FULLSCREEN",
		"_NET_WM_STATE_HIDDEN",
	} {
		// Best effort; absent states are fine.
		_ = ewmh.WmStateReq(b.conn.XUtil, windowID, ewmh.StateRemove, state)
	}
	xwindow.New(b.conn.XUtil, windowID).Map()
	return nil
}
