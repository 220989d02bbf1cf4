package grid

import (
	"math"
	"testing"
)

func TestCellWorldRoundTrip(t *testing.T) {
	w := NewWorld(40, BoundsAround(At(0, 0), 21, 21))

	tests := []struct {
		name string
		cell Cell
		want Point
	}{
		{"origin", At(0, 0), Point{X: 20, Y: 20}},
		{"positive", At(3, 2), Point{X: 140, Y: 100}},
		{"negative", At(-1, -4), Point{X: -20, Y: -140}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := w.CellToWorld(tc.cell)
			if got != tc.want {
				t.Errorf("CellToWorld(%v) = %v, expected %v", tc.cell, got, tc.want)
			}
			back := w.WorldToCell(got)
			if back != tc.cell {
				t.Errorf("WorldToCell(%v) = %v, expected %v", got, back, tc.cell)
			}
		})
	}
}

func TestWorldToCellFloors(t *testing.T) {
	w := NewWorld(40, Bounds{})

	if got := w.WorldToCell(Point{X: 39.9, Y: 0}); got != At(0, 0) {
		t.Errorf("WorldToCell(39.9, 0) = %v, expected (0,0)", got)
	}
	if got := w.WorldToCell(Point{X: -0.1, Y: 40}); got != At(-1, 1) {
		t.Errorf("WorldToCell(-0.1, 40) = %v, expected (-1,1)", got)
	}
}

func TestGrowNeverShrinks(t *testing.T) {
	w := NewWorld(40, BoundsAround(At(0, 0), 10, 10))
	start := w.Bounds()

	if w.Grow(BoundsAround(At(0, 0), 4, 4)) {
		t.Error("Grow with a smaller region should not change bounds")
	}
	if w.Bounds() != start {
		t.Errorf("Bounds changed to %+v, expected %+v", w.Bounds(), start)
	}

	if !w.Grow(BoxAround(At(0, 0), 12, 2)) {
		t.Fatal("Grow with a larger region should change bounds")
	}
	b := w.Bounds()
	if !b.Covers(start) {
		t.Errorf("grown bounds %+v should cover original %+v", b, start)
	}
	if b.Cols() != 29 || b.Rows() != 29 {
		t.Errorf("grown size = %dx%d, expected 29x29", b.Cols(), b.Rows())
	}
	if !w.InBounds(At(-14, 14)) {
		t.Error("(-14,14) should be in bounds after growth")
	}
}

func TestBoxOf(t *testing.T) {
	if _, ok := BoxOf(nil, 1); ok {
		t.Error("BoxOf(nil) should report false")
	}
	b, ok := BoxOf([]Cell{At(2, 3), At(-1, 5)}, 1)
	if !ok {
		t.Fatal("BoxOf should report true")
	}
	want := Bounds{MinC: -2, MinR: 2, MaxC: 4, MaxR: 7}
	if b != want {
		t.Errorf("BoxOf() = %+v, expected %+v", b, want)
	}
}

func TestDirBetween(t *testing.T) {
	c := At(5, 5)
	for _, d := range Dirs {
		if got := DirBetween(c, c.Step(d)); got != d {
			t.Errorf("DirBetween(%v, step %v) = %v", c, d, got)
		}
	}
	if got := DirBetween(c, At(6, 6)); got != DirNone {
		t.Errorf("diagonal DirBetween = %v, expected None", got)
	}
}

func TestAngle(t *testing.T) {
	center := At(0, 0)
	tests := []struct {
		cell Cell
		want float64
	}{
		{At(1, 0), 0},
		{At(0, 1), math.Pi / 2},
		{At(-1, 0), math.Pi},
		{At(0, -1), 3 * math.Pi / 2},
	}
	for _, tc := range tests {
		if got := tc.cell.Angle(center); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Angle(%v) = %f, expected %f", tc.cell, got, tc.want)
		}
	}
}
