// Package layout computes window arrangements. All functions are pure:
// given the windows to place and the display area to place them in, they
// return a geometry assignment and never touch shared state.
package layout

import "math"

// Position is a window origin in screen coordinates.
type Position struct {
	X int
	Y int
}

// Size is a window extent in pixels.
type Size struct {
	Width  int
	Height int
}

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Placement is the computed geometry for a single window.
type Placement struct {
	Position Position
	Size     Size
}

// Window is the engine's view of a logical window: its id plus any custom
// geometry hints carried in the window's metadata.
type Window struct {
	ID             int
	CustomPosition *Position
	CustomSize     *Size
}

// Algorithm selects an arrangement strategy.
type Algorithm string

const (
	AlgorithmGrid     Algorithm = "grid"
	AlgorithmTile     Algorithm = "tile"
	AlgorithmCascade  Algorithm = "cascade"
	AlgorithmCustom   Algorithm = "custom"
	AlgorithmOptimize Algorithm = "optimize"
)

// ParseAlgorithm maps a name to an Algorithm. Unknown names report ok=false
// and return AlgorithmGrid so callers can warn and degrade.
func ParseAlgorithm(name string) (Algorithm, bool) {
	switch Algorithm(name) {
	case AlgorithmGrid, AlgorithmTile, AlgorithmCascade, AlgorithmCustom, AlgorithmOptimize:
		return Algorithm(name), true
	default:
		return AlgorithmGrid, false
	}
}

// Engine holds the layout tuning parameters. The zero value is unusable;
// construct via NewEngine.
type Engine struct {
	margin        int
	minWidth      int
	minHeight     int
	gridSize      int
	snapToGrid    bool
	cascadeOffset int
}

// Params configures an Engine.
type Params struct {
	Margin        int
	MinWidth      int
	MinHeight     int
	GridSize      int
	SnapToGrid    bool
	CascadeOffset int
}

// NewEngine creates a layout engine with the given parameters.
func NewEngine(p Params) *Engine {
	return &Engine{
		margin:        p.Margin,
		minWidth:      p.MinWidth,
		minHeight:     p.MinHeight,
		gridSize:      p.GridSize,
		snapToGrid:    p.SnapToGrid,
		cascadeOffset: p.CascadeOffset,
	}
}

// Compute arranges windows inside area using the chosen algorithm and
// returns a placement per window id. Optimize treats each window's custom
// geometry hints as preferred placements.
func (e *Engine) Compute(windows []Window, area Rect, algorithm Algorithm) map[int]Placement {
	switch algorithm {
	case AlgorithmTile:
		return e.tile(windows, area)
	case AlgorithmCascade:
		return e.cascade(windows, area)
	case AlgorithmCustom:
		return e.custom(windows, area)
	case AlgorithmOptimize:
		return e.Optimize(windows, area, constraintsFromHints(windows))
	default:
		return e.grid(windows, area)
	}
}

// GridDimensions returns the column and row counts the grid algorithm uses
// for n windows: columns = ceil(sqrt(n)), rows = ceil(n/columns).
func GridDimensions(n int) (cols, rows int) {
	if n <= 0 {
		return 0, 0
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = int(math.Ceil(float64(n) / float64(cols)))
	return cols, rows
}

// grid arranges windows row-major in a near-square grid with margin-sized
// gaps. Cells are clamped to the minimum window size, then positions are
// clamped into the display so the final geometry never escapes it.
func (e *Engine) grid(windows []Window, area Rect) map[int]Placement {
	if len(windows) == 0 {
		return map[int]Placement{}
	}

	cols, rows := GridDimensions(len(windows))

	cellWidth := (area.Width - (cols+1)*e.margin) / cols
	cellHeight := (area.Height - (rows+1)*e.margin) / rows
	cellWidth = max(cellWidth, e.minWidth)
	cellHeight = max(cellHeight, e.minHeight)

	result := make(map[int]Placement, len(windows))
	for i, w := range windows {
		row := i / cols
		col := i % cols

		x := e.margin + col*(cellWidth+e.margin)
		y := e.margin + row*(cellHeight+e.margin)
		x = clampOrigin(x, area.Width-cellWidth)
		y = clampOrigin(y, area.Height-cellHeight)

		result[w.ID] = Placement{
			Position: Position{X: x, Y: y},
			Size:     Size{Width: cellWidth, Height: cellHeight},
		}
	}
	return result
}

// tile special-cases one, two and three windows; anything more falls back
// to the grid.
func (e *Engine) tile(windows []Window, area Rect) map[int]Placement {
	switch len(windows) {
	case 0:
		return map[int]Placement{}
	case 1:
		return map[int]Placement{
			windows[0].ID: {
				Position: Position{X: 0, Y: 0},
				Size:     Size{Width: area.Width, Height: area.Height},
			},
		}
	case 2:
		halfWidth := (area.Width - e.margin) / 2
		return map[int]Placement{
			windows[0].ID: {
				Position: Position{X: 0, Y: 0},
				Size:     Size{Width: halfWidth, Height: area.Height},
			},
			windows[1].ID: {
				Position: Position{X: halfWidth + e.margin, Y: 0},
				Size:     Size{Width: halfWidth, Height: area.Height},
			},
		}
	case 3:
		topHeight := area.Height / 2
		bottomHeight := area.Height - topHeight - e.margin
		halfWidth := (area.Width - e.margin) / 2
		return map[int]Placement{
			windows[0].ID: {
				Position: Position{X: 0, Y: 0},
				Size:     Size{Width: area.Width, Height: topHeight},
			},
			windows[1].ID: {
				Position: Position{X: 0, Y: topHeight + e.margin},
				Size:     Size{Width: halfWidth, Height: bottomHeight},
			},
			windows[2].ID: {
				Position: Position{X: halfWidth + e.margin, Y: topHeight + e.margin},
				Size:     Size{Width: halfWidth, Height: bottomHeight},
			},
		}
	default:
		return e.grid(windows, area)
	}
}

// cascade stacks fixed-size windows diagonally, each offset from the last,
// clamped so no window extends past the display edge.
func (e *Engine) cascade(windows []Window, area Rect) map[int]Placement {
	if len(windows) == 0 {
		return map[int]Placement{}
	}

	width := min(800, area.Width/2)
	height := min(600, area.Height/2)
	width = max(width, e.minWidth)
	height = max(height, e.minHeight)

	result := make(map[int]Placement, len(windows))
	for i, w := range windows {
		x := clampOrigin(e.cascadeOffset*i, area.Width-width)
		y := clampOrigin(e.cascadeOffset*i, area.Height-height)
		result[w.ID] = Placement{
			Position: Position{X: x, Y: y},
			Size:     Size{Width: width, Height: height},
		}
	}
	return result
}

// custom honors per-window geometry hints and falls back to a diagonal
// default for windows without them. Positions are clamped first, then sizes
// are re-clamped against the remaining space; last write wins.
func (e *Engine) custom(windows []Window, area Rect) map[int]Placement {
	if len(windows) == 0 {
		return map[int]Placement{}
	}

	result := make(map[int]Placement, len(windows))
	for i, w := range windows {
		var x, y, width, height int
		if w.CustomPosition != nil && w.CustomSize != nil {
			x, y = w.CustomPosition.X, w.CustomPosition.Y
			width, height = w.CustomSize.Width, w.CustomSize.Height
		} else {
			x = 100 + i*50
			y = 100 + i*50
			width, height = 800, 600
		}

		x = clampOrigin(x, area.Width-width)
		y = clampOrigin(y, area.Height-height)
		width = max(e.minWidth, min(width, area.Width-x))
		height = max(e.minHeight, min(height, area.Height-y))

		result[w.ID] = Placement{
			Position: Position{X: x, Y: y},
			Size:     Size{Width: width, Height: height},
		}
	}
	return result
}

// clampOrigin limits an origin coordinate to [0, limit]. A negative limit
// (window larger than the display) collapses to 0.
func clampOrigin(v, limit int) int {
	if v > limit {
		v = limit
	}
	if v < 0 {
		v = 0
	}
	return v
}
