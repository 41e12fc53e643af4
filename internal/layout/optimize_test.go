package layout

import "testing"

func TestOptimize_PreferredPlacementAccepted(t *testing.T) {
	e := testEngine()
	area := Rect{Width: 1920, Height: 1080}

	preferred := Placement{Position: Position{X: 300, Y: 200}, Size: Size{Width: 640, Height: 480}}
	got := e.Optimize(windowsN(2), area, &Constraints{
		Preferred: map[int]Placement{1: preferred},
	})

	if got[1] != preferred {
		t.Fatalf("window 1 = %+v, want preferred %+v", got[1], preferred)
	}
}

func TestOptimize_InvalidPreferredIgnored(t *testing.T) {
	e := testEngine()
	area := Rect{Width: 1920, Height: 1080}

	grid := e.Compute(windowsN(2), area, AlgorithmGrid)
	got := e.Optimize(windowsN(2), area, &Constraints{
		Preferred: map[int]Placement{
			// Escapes the display.
			1: {Position: Position{X: 1800, Y: 0}, Size: Size{Width: 640, Height: 480}},
			// Below the minimum size.
			2: {Position: Position{X: 0, Y: 0}, Size: Size{Width: 50, Height: 50}},
		},
	})

	if got[1] != grid[1] || got[2] != grid[2] {
		t.Fatalf("invalid preferences should keep grid placements: got %+v, grid %+v", got, grid)
	}
}

func TestOptimize_UnknownPreferredIDIgnored(t *testing.T) {
	e := testEngine()
	area := Rect{Width: 1920, Height: 1080}

	got := e.Optimize(windowsN(1), area, &Constraints{
		Preferred: map[int]Placement{
			99: {Position: Position{X: 0, Y: 0}, Size: Size{Width: 640, Height: 480}},
		},
	})

	if len(got) != 1 {
		t.Fatalf("expected 1 placement, got %d", len(got))
	}
	if _, ok := got[99]; ok {
		t.Fatal("preference for unmanaged window must not create a placement")
	}
}

func TestOptimize_SnapsToGrid(t *testing.T) {
	e := NewEngine(Params{
		Margin:     10,
		MinWidth:   200,
		MinHeight:  150,
		GridSize:   50,
		SnapToGrid: true,
	})
	area := Rect{Width: 1920, Height: 1080}

	preferred := Placement{Position: Position{X: 333, Y: 287}, Size: Size{Width: 640, Height: 480}}
	got := e.Optimize(windowsN(1), area, &Constraints{
		Preferred: map[int]Placement{1: preferred},
	})

	// 333 -> 350 (nearest multiple of 50), 287 -> 300.
	if got[1].Position != (Position{X: 350, Y: 300}) {
		t.Fatalf("snapped position = %+v, want 350,300", got[1].Position)
	}
	if got[1].Size != preferred.Size {
		t.Fatalf("snapping must not change size: %+v", got[1].Size)
	}
}

func TestCompute_OptimizeUsesCustomHints(t *testing.T) {
	e := testEngine()
	area := Rect{Width: 1920, Height: 1080}

	wins := []Window{
		{ID: 1, CustomPosition: &Position{X: 300, Y: 200}, CustomSize: &Size{Width: 640, Height: 480}},
		{ID: 2},
	}

	got := e.Compute(wins, area, AlgorithmOptimize)
	if got[1] != (Placement{Position: Position{X: 300, Y: 200}, Size: Size{Width: 640, Height: 480}}) {
		t.Fatalf("hinted window = %+v", got[1])
	}

	// Unhinted window keeps the grid placement.
	grid := e.Compute(wins, area, AlgorithmGrid)
	if got[2] != grid[2] {
		t.Fatalf("unhinted window = %+v, grid = %+v", got[2], grid[2])
	}
}

func TestComputeStatistics_GridHasNoOverlaps(t *testing.T) {
	e := testEngine()
	area := Rect{Width: 1920, Height: 1080}

	placements := e.Compute(windowsN(4), area, AlgorithmGrid)
	stats := ComputeStatistics(placements)

	if stats.WindowCount != 4 {
		t.Fatalf("window count = %d", stats.WindowCount)
	}
	if stats.OverlapCount != 0 {
		t.Fatalf("grid layout reported %d overlaps", stats.OverlapCount)
	}
	if stats.AverageArea*float64(stats.WindowCount) != float64(stats.TotalArea) {
		t.Fatalf("average %f inconsistent with total %d", stats.AverageArea, stats.TotalArea)
	}
}

func TestComputeStatistics_CascadeOverlapsAndBoundingBox(t *testing.T) {
	placements := map[int]Placement{
		1: {Position: Position{X: 0, Y: 0}, Size: Size{Width: 800, Height: 600}},
		2: {Position: Position{X: 50, Y: 50}, Size: Size{Width: 800, Height: 600}},
		3: {Position: Position{X: 100, Y: 100}, Size: Size{Width: 800, Height: 600}},
	}
	stats := ComputeStatistics(placements)

	// All three pairwise overlaps.
	if stats.OverlapCount != 3 {
		t.Fatalf("overlap count = %d, want 3", stats.OverlapCount)
	}
	want := Rect{X: 0, Y: 0, Width: 900, Height: 700}
	if stats.BoundingBox != want {
		t.Fatalf("bounding box = %+v, want %+v", stats.BoundingBox, want)
	}
}

func TestComputeStatistics_TouchingEdgesDoNotOverlap(t *testing.T) {
	placements := map[int]Placement{
		1: {Position: Position{X: 0, Y: 0}, Size: Size{Width: 100, Height: 100}},
		2: {Position: Position{X: 100, Y: 0}, Size: Size{Width: 100, Height: 100}},
	}
	stats := ComputeStatistics(placements)
	if stats.OverlapCount != 0 {
		t.Fatalf("touching windows reported %d overlaps", stats.OverlapCount)
	}
}

func TestComputeStatistics_Empty(t *testing.T) {
	stats := ComputeStatistics(nil)
	if stats != (Statistics{}) {
		t.Fatalf("empty layout stats = %+v", stats)
	}
}
