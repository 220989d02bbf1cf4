package grid

import "math"

// Point is a world-space coordinate. Cell centers sit at
// c*cellSize + cellSize/2.
type Point struct {
	X float64
	Y float64
}

// Bounds is the addressable cell rectangle [MinC, MaxC) x [MinR, MaxR).
type Bounds struct {
	MinC, MinR int
	MaxC, MaxR int
}

// BoundsAround returns bounds of the given size centered on a cell.
func BoundsAround(center Cell, cols, rows int) Bounds {
	minC := center.C - cols/2
	minR := center.R - rows/2
	return Bounds{MinC: minC, MinR: minR, MaxC: minC + cols, MaxR: minR + rows}
}

// Cols returns the width of the bounds in cells.
func (b Bounds) Cols() int {
	return b.MaxC - b.MinC
}

// Rows returns the height of the bounds in cells.
func (b Bounds) Rows() int {
	return b.MaxR - b.MinR
}

// Contains reports whether the cell lies inside the bounds.
func (b Bounds) Contains(c Cell) bool {
	return c.C >= b.MinC && c.C < b.MaxC && c.R >= b.MinR && c.R < b.MaxR
}

// Union returns the smallest bounds covering both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		MinC: min(b.MinC, o.MinC),
		MinR: min(b.MinR, o.MinR),
		MaxC: max(b.MaxC, o.MaxC),
		MaxR: max(b.MaxR, o.MaxR),
	}
}

// Covers reports whether o lies entirely inside b.
func (b Bounds) Covers(o Bounds) bool {
	return o.MinC >= b.MinC && o.MinR >= b.MinR && o.MaxC <= b.MaxC && o.MaxR <= b.MaxR
}

// BoxAround returns the bounds covering every cell within radius of center,
// padded by margin.
func BoxAround(center Cell, radius, margin int) Bounds {
	ext := radius + margin
	return Bounds{
		MinC: center.C - ext,
		MinR: center.R - ext,
		MaxC: center.C + ext + 1,
		MaxR: center.R + ext + 1,
	}
}

// BoxOf returns the bounds covering all cells, padded by margin.
// The second result is false when cells is empty.
func BoxOf(cells []Cell, margin int) (Bounds, bool) {
	if len(cells) == 0 {
		return Bounds{}, false
	}
	b := Bounds{MinC: cells[0].C, MinR: cells[0].R, MaxC: cells[0].C + 1, MaxR: cells[0].R + 1}
	for _, c := range cells[1:] {
		b.MinC = min(b.MinC, c.C)
		b.MinR = min(b.MinR, c.R)
		b.MaxC = max(b.MaxC, c.C+1)
		b.MaxR = max(b.MaxR, c.R+1)
	}
	b.MinC -= margin
	b.MinR -= margin
	b.MaxC += margin
	b.MaxR += margin
	return b, true
}

// World converts between cells and world coordinates and tracks bounds
// that only ever grow, so anything placed earlier stays addressable.
type World struct {
	cellSize float64
	bounds   Bounds
}

// NewWorld creates a world with the given cell edge length and initial bounds.
func NewWorld(cellSize float64, initial Bounds) *World {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &World{cellSize: cellSize, bounds: initial}
}

// CellSize returns the cell edge length in world units.
func (w *World) CellSize() float64 {
	return w.cellSize
}

// Bounds returns the current bounds.
func (w *World) Bounds() Bounds {
	return w.bounds
}

// InBounds reports whether the cell is addressable.
func (w *World) InBounds(c Cell) bool {
	return w.bounds.Contains(c)
}

// CellToWorld returns the world position of the cell center.
func (w *World) CellToWorld(c Cell) Point {
	return Point{
		X: float64(c.C)*w.cellSize + w.cellSize/2,
		Y: float64(c.R)*w.cellSize + w.cellSize/2,
	}
}

// WorldToCell returns the cell containing the world position (floor division).
func (w *World) WorldToCell(p Point) Cell {
	return Cell{
		C: int(math.Floor(p.X / w.cellSize)),
		R: int(math.Floor(p.Y / w.cellSize)),
	}
}

// Grow extends the bounds to cover every region given. It never shrinks.
// Returns true if the bounds changed.
func (w *World) Grow(regions ...Bounds) bool {
	next := w.bounds
	for _, r := range regions {
		next = next.Union(r)
	}
	if next == w.bounds {
		return false
	}
	w.bounds = next
	return true
}
