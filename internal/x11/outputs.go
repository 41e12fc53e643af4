package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/randr"
)

// Output describes a connected display output as reported by XRandR.
type Output struct {
	Name      string
	X         int
	Y         int
	Width     int
	Height    int
	RefreshHz float64
	Primary   bool
}

// Outputs retrieves all connected, active outputs using XRandR, including
// refresh rate (derived from the active mode) and the primary flag.
func (c *Connection) Outputs() ([]Output, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		primary = reply.Output
	}

	modes := make(map[uint32]randr.ModeInfo, len(resources.Modes))
	for _, m := range resources.Modes {
		modes[m.Id] = m
	}

	var outputs []Output
	for _, out := range resources.Outputs {
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), out, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if outputInfo.Connection != randr.ConnectionConnected || outputInfo.Crtc == 0 {
			continue
		}

		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), outputInfo.Crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 {
			continue
		}

		refresh := 0.0
		if mode, ok := modes[uint32(crtcInfo.Mode)]; ok && mode.Htotal > 0 && mode.Vtotal > 0 {
			refresh = float64(mode.DotClock) / (float64(mode.Htotal) * float64(mode.Vtotal))
		}

		outputs = append(outputs, Output{
			Name:      strings.TrimSpace(string(outputInfo.Name)),
			X:         int(crtcInfo.X),
			Y:         int(crtcInfo.Y),
			Width:     int(crtcInfo.Width),
			Height:    int(crtcInfo.Height),
			RefreshHz: refresh,
			Primary:   out == primary,
		})
	}

	return outputs, nil
}
