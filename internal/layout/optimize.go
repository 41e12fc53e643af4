package layout

import "math"

// Constraints carries caller preferences for Optimize. Preferred geometry is
// accepted only when it validates against the display bounds and the minimum
// window size.
type Constraints struct {
	Preferred map[int]Placement
}

// constraintsFromHints builds Constraints from the windows' own custom
// geometry hints. Windows without both hints carry no preference.
func constraintsFromHints(windows []Window) *Constraints {
	preferred := make(map[int]Placement)
	for _, w := range windows {
		if w.CustomPosition != nil && w.CustomSize != nil {
			preferred[w.ID] = Placement{Position: *w.CustomPosition, Size: *w.CustomSize}
		}
	}
	if len(preferred) == 0 {
		return nil
	}
	return &Constraints{Preferred: preferred}
}

// Optimize starts from a grid arrangement, applies any valid preferred
// geometry from constraints, and snaps positions to the configured grid when
// snapping is enabled.
func (e *Engine) Optimize(windows []Window, area Rect, constraints *Constraints) map[int]Placement {
	result := e.grid(windows, area)

	if constraints != nil {
		for id, preferred := range constraints.Preferred {
			if _, ok := result[id]; !ok {
				continue
			}
			if e.validPlacement(preferred, area) {
				result[id] = preferred
			}
		}
	}

	if e.snapToGrid {
		for id, p := range result {
			p.Position.X = snap(p.Position.X, e.gridSize)
			p.Position.Y = snap(p.Position.Y, e.gridSize)
			result[id] = p
		}
	}

	return result
}

// validPlacement reports whether a placement fits entirely inside the area
// and meets the minimum window size.
func (e *Engine) validPlacement(p Placement, area Rect) bool {
	if p.Position.X < 0 || p.Position.Y < 0 {
		return false
	}
	if p.Position.X+p.Size.Width > area.Width {
		return false
	}
	if p.Position.Y+p.Size.Height > area.Height {
		return false
	}
	if p.Size.Width < e.minWidth || p.Size.Height < e.minHeight {
		return false
	}
	return true
}

// snap rounds v to the nearest multiple of step, half away from zero.
func snap(v, step int) int {
	return int(math.Round(float64(v)/float64(step))) * step
}

// Statistics summarizes a computed layout.
type Statistics struct {
	WindowCount  int
	TotalArea    int
	BoundingBox  Rect
	OverlapCount int
	AverageArea  float64
}

// ComputeStatistics reports window count, summed area, the bounding box of
// all windows, the number of overlapping pairs and the average window area.
// Two windows overlap only when their projections intersect on both axes;
// touching edges do not count.
func ComputeStatistics(placements map[int]Placement) Statistics {
	if len(placements) == 0 {
		return Statistics{}
	}

	var stats Statistics
	stats.WindowCount = len(placements)

	minX, minY := math.MaxInt, math.MaxInt
	maxX, maxY := math.MinInt, math.MinInt

	all := make([]Placement, 0, len(placements))
	for _, p := range placements {
		all = append(all, p)
		stats.TotalArea += p.Size.Width * p.Size.Height
		minX = min(minX, p.Position.X)
		minY = min(minY, p.Position.Y)
		maxX = max(maxX, p.Position.X+p.Size.Width)
		maxY = max(maxY, p.Position.Y+p.Size.Height)
	}

	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if overlaps(all[i], all[j]) {
				stats.OverlapCount++
			}
		}
	}

	stats.BoundingBox = Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
	stats.AverageArea = float64(stats.TotalArea) / float64(stats.WindowCount)
	return stats
}

func overlaps(a, b Placement) bool {
	if a.Position.X+a.Size.Width <= b.Position.X || b.Position.X+b.Size.Width <= a.Position.X {
		return false
	}
	if a.Position.Y+a.Size.Height <= b.Position.Y || b.Position.Y+b.Size.Height <= a.Position.Y {
		return false
	}
	return true
}
