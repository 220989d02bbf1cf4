// Package grid provides the integer cell lattice the rift engine works on,
// conversion between cells and world coordinates, and grow-only world bounds.
package grid

import (
	"fmt"
	"math"
)

// Cell is an integer grid coordinate. C grows to the right, R grows downward.
type Cell struct {
	C int
	R int
}

// At is a convenience constructor for Cell.
func At(c, r int) Cell {
	return Cell{C: c, R: r}
}

// String returns a string representation of the cell.
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.C, c.R)
}

// Add returns the cell offset by (dc, dr).
func (c Cell) Add(dc, dr int) Cell {
	return Cell{C: c.C + dc, R: c.R + dr}
}

// Step returns the neighbor one step in the given direction.
func (c Cell) Step(d Dir) Cell {
	dc, dr := d.Delta()
	return c.Add(dc, dr)
}

// Manhattan returns the Manhattan distance to another cell.
func (c Cell) Manhattan(o Cell) int {
	dc := c.C - o.C
	dr := c.R - o.R
	if dc < 0 {
		dc = -dc
	}
	if dr < 0 {
		dr = -dr
	}
	return dc + dr
}

// Dist returns the Euclidean distance to another cell, in cells.
func (c Cell) Dist(o Cell) float64 {
	return math.Hypot(float64(c.C-o.C), float64(c.R-o.R))
}

// Angle returns the angle of c seen from center, normalized to [0, 2π).
func (c Cell) Angle(center Cell) float64 {
	return NormalizeAngle(math.Atan2(float64(c.R-center.R), float64(c.C-center.C)))
}

// Adjacent reports whether two cells share an edge.
func (c Cell) Adjacent(o Cell) bool {
	return c.Manhattan(o) == 1
}

// Neighbors returns the four edge-adjacent cells in Dir order.
func (c Cell) Neighbors() [4]Cell {
	return [4]Cell{c.Step(DirUp), c.Step(DirRight), c.Step(DirDown), c.Step(DirLeft)}
}

// NormalizeAngle maps any angle in radians into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// Dir is one of the four grid move directions.
type Dir uint8

const (
	DirNone Dir = iota
	DirUp
	DirRight
	DirDown
	DirLeft
)

// String returns the string representation of a direction.
func (d Dir) String() string {
	switch d {
	case DirUp:
		return "Up"
	case DirRight:
		return "Right"
	case DirDown:
		return "Down"
	case DirLeft:
		return "Left"
	default:
		return "None"
	}
}

// Delta returns the (dc, dr) offset for one step in this direction.
// Up decreases R, Down increases R (screen coordinates).
func (d Dir) Delta() (dc, dr int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirRight:
		return 1, 0
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	default:
		return 0, 0
	}
}

// Dirs lists the move directions in neighbor order.
var Dirs = [4]Dir{DirUp, DirRight, DirDown, DirLeft}

// DirBetween returns the direction of a single step from a to b,
// or DirNone when the cells are not adjacent.
func DirBetween(a, b Cell) Dir {
	switch {
	case b.C == a.C && b.R == a.R-1:
		return DirUp
	case b.C == a.C+1 && b.R == a.R:
		return DirRight
	case b.C == a.C && b.R == a.R+1:
		return DirDown
	case b.C == a.C-1 && b.R == a.R:
		return DirLeft
	default:
		return DirNone
	}
}

// CellSet is a set of cells.
type CellSet map[Cell]struct{}

// NewCellSet builds a set from the given cells.
func NewCellSet(cells ...Cell) CellSet {
	s := make(CellSet, len(cells))
	for _, c := range cells {
		s[c] = struct{}{}
	}
	return s
}

// Add inserts a cell.
func (s CellSet) Add(c Cell) {
	s[c] = struct{}{}
}

// Has reports whether the set contains c. A nil set contains nothing.
func (s CellSet) Has(c Cell) bool {
	if s == nil {
		return false
	}
	_, ok := s[c]
	return ok
}

// Clone returns a copy of the set.
func (s CellSet) Clone() CellSet {
	out := make(CellSet, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}
