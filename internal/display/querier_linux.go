//go:build linux

package display

import (
	"github.com/screenmachine/winctl/internal/x11"
)

// XRandRQuerier discovers displays through an X11 connection.
type XRandRQuerier struct {
	conn *x11.Connection
}

var _ Querier = (*XRandRQuerier)(nil)

// NewXRandRQuerier wraps an existing X11 connection.
func NewXRandRQuerier(conn *x11.Connection) *XRandRQuerier {
	return &XRandRQuerier{conn: conn}
}

// Query lists connected outputs via XRandR.
func (q *XRandRQuerier) Query() ([]Display, error) {
	outputs, err := q.conn.Outputs()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(outputs))
	for _, out := range outputs {
		displays = append(displays, Display{
			Name:        out.Name,
			ID:          out.Name,
			Width:       out.Width,
			Height:      out.Height,
			RefreshRate: out.RefreshHz,
			IsPrimary:   out.Primary,
			IsActive:    true,
			Port:        PortHint(out.Name),
		})
	}
	return displays, nil
}
