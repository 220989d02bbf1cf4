// Package rift defines the corridor model enemies walk along and the
// geometric checks every committed corridor must pass.
package rift

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/riftlane/internal/grid"
)

// Mutation is an optional behavior profile carried by a corridor.
type Mutation struct {
	Name        string
	SpeedScale  float64
	HealthScale float64
}

// Path is one corridor. Points run from the spawn (first) to the core (last).
type Path struct {
	Points   []grid.Point
	Cells    []grid.Cell
	Tier     int
	Zone     int
	Mutation *Mutation
	// Junction is the index in Cells where this corridor joined an earlier
	// one, or -1 for corridors routed straight to the core.
	Junction int
}

// NewPath builds a corridor from its cells.
func NewPath(w *grid.World, cells []grid.Cell, zone int) *Path {
	pts := make([]grid.Point, len(cells))
	for i, c := range cells {
		pts[i] = w.CellToWorld(c)
	}
	return &Path{
		Points:   pts,
		Cells:    cells,
		Tier:     1,
		Zone:     zone,
		Junction: -1,
	}
}

// Spawn returns the first cell.
func (p *Path) Spawn() grid.Cell {
	return p.Cells[0]
}

// IndexOf returns the index of c in the corridor, or -1.
func (p *Path) IndexOf(c grid.Cell) int {
	for i, pc := range p.Cells {
		if pc == c {
			return i
		}
	}
	return -1
}

// Validation errors.
var (
	ErrEmpty         = errors.New("corridor is empty")
	ErrNotAdjacent   = errors.New("consecutive cells are not adjacent")
	ErrRepeatedCell  = errors.New("corridor repeats a cell")
	ErrOnHardpoint   = errors.New("corridor crosses a hardpoint")
	ErrLeftProtected = errors.New("corridor leaves the protected radius after entering")
	ErrWrongEndpoint = errors.New("corridor does not end on the core")
	ErrPointMismatch = errors.New("points do not match cells")
)

// Rules are the geometric constraints a corridor must satisfy.
type Rules struct {
	Core            grid.Cell
	ProtectedRadius float64
	Hardpoints      grid.CellSet
}

// Validate checks adjacency, uniqueness, hardpoint exclusion, zone
// commitment and that the corridor ends on the core.
func Validate(cells []grid.Cell, r Rules) error {
	if len(cells) == 0 {
		return ErrEmpty
	}
	seen := make(grid.CellSet, len(cells))
	entered := false
	for i, c := range cells {
		if seen.Has(c) {
			return fmt.Errorf("%w: %v at index %d", ErrRepeatedCell, c, i)
		}
		seen.Add(c)
		if r.Hardpoints.Has(c) {
			return fmt.Errorf("%w: %v", ErrOnHardpoint, c)
		}
		if i > 0 && !cells[i-1].Adjacent(c) {
			return fmt.Errorf("%w: %v -> %v", ErrNotAdjacent, cells[i-1], c)
		}
		in := c.Dist(r.Core) < r.ProtectedRadius
		if entered && !in {
			return fmt.Errorf("%w: %v", ErrLeftProtected, c)
		}
		entered = entered || in
	}
	if cells[len(cells)-1] != r.Core {
		return ErrWrongEndpoint
	}
	return nil
}

// ValidatePath runs Validate and checks that points are the cell centers.
func ValidatePath(w *grid.World, p *Path, r Rules) error {
	if len(p.Points) != len(p.Cells) {
		return ErrPointMismatch
	}
	for i, pt := range p.Points {
		if w.WorldToCell(pt) != p.Cells[i] {
			return fmt.Errorf("%w at index %d", ErrPointMismatch, i)
		}
	}
	return Validate(p.Cells, r)
}

// Occupied returns the union of all corridor cells.
func Occupied(paths []*Path) grid.CellSet {
	s := make(grid.CellSet)
	for _, p := range paths {
		for _, c := range p.Cells {
			s.Add(c)
		}
	}
	return s
}
