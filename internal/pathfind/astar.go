// Package pathfind implements the corridor A* search over the 4-connected
// grid: turn penalties, a core repulsion field, and an optional zone lock
// that forbids a branch from leaving the protected core radius once inside.
package pathfind

import (
	"container/heap"
	"math"

	"github.com/vovakirdan/riftlane/internal/config"
	"github.com/vovakirdan/riftlane/internal/grid"
)

// Costs is the cost model. Every term is non-negative, so the minimum step
// cost is 1 and the Manhattan heuristic stays admissible and consistent.
type Costs struct {
	TurnPenalty       float64
	TurnBoostMax      float64
	TurnBoostRadius   float64
	RepulsionRadius   float64
	RepulsionStrength float64
}

// CostsFrom converts the pathfinder config section.
func CostsFrom(cfg config.PathfinderConfig) Costs {
	return Costs{
		TurnPenalty:       math.Max(0, cfg.TurnPenalty),
		TurnBoostMax:      math.Max(0, cfg.TurnBoostMax),
		TurnBoostRadius:   cfg.TurnBoostRadius,
		RepulsionRadius:   cfg.RepulsionRadius,
		RepulsionStrength: math.Max(0, cfg.RepulsionStrength),
	}
}

// Options tune a single search.
type Options struct {
	// Core enables the core-relative cost terms when HasCore is set.
	Core    grid.Cell
	HasCore bool

	// LockAfterEntry forbids moving from inside ProtectedRadius of Core to
	// outside it once the branch has been inside. Requires HasCore.
	LockAfterEntry  bool
	ProtectedRadius float64

	// MaxExpansions bounds the number of states expanded; 0 means unbounded.
	MaxExpansions int
}

// Finder runs searches against the current world bounds.
type Finder struct {
	costs Costs
	world *grid.World
}

// New creates a finder.
func New(costs Costs, w *grid.World) *Finder {
	return &Finder{costs: costs, world: w}
}

// FindPath returns the corridor from start to goal as world points, or nil
// when no legal route exists.
func (f *Finder) FindPath(start, goal grid.Cell, obstacles, exceptions grid.CellSet, opts Options) []grid.Point {
	cells := f.FindCells(start, goal, obstacles, exceptions, opts)
	if cells == nil {
		return nil
	}
	pts := make([]grid.Point, len(cells))
	for i, c := range cells {
		pts[i] = f.world.CellToWorld(c)
	}
	return pts
}

// FindCells is FindPath in cell space.
//
// A move onto an obstacle is legal only when the cell is the goal and is
// listed in exceptions, so a search may end on an existing corridor but
// never pass through one. A move back onto any cell of the current branch
// is illegal. Exhausting the open set returns nil.
func (f *Finder) FindCells(start, goal grid.Cell, obstacles, exceptions grid.CellSet, opts Options) []grid.Cell {
	bounds := f.world.Bounds()
	if !bounds.Contains(start) || !bounds.Contains(goal) {
		return nil
	}
	if obstacles.Has(goal) && !exceptions.Has(goal) {
		return nil
	}
	lock := opts.LockAfterEntry && opts.HasCore
	inside := func(c grid.Cell) bool {
		return c.Dist(opts.Core) < opts.ProtectedRadius
	}

	var pool nodePool
	open := &openQueue{}
	heap.Init(open)

	root := pool.get()
	*root = node{cell: start, dir: grid.DirNone, entered: lock && inside(start)}
	root.h = float64(start.Manhattan(goal))
	root.f = root.h
	heap.Push(open, root)

	gScore := map[stateKey]float64{root.key(): 0}
	closed := make(map[stateKey]struct{})
	expanded := 0

	for open.Len() > 0 {
		cur := heap.Pop(open).(*node)
		k := cur.key()
		if _, seen := closed[k]; seen {
			continue
		}
		closed[k] = struct{}{}

		if cur.cell == goal {
			return reconstruct(cur)
		}

		expanded++
		if opts.MaxExpansions > 0 && expanded > opts.MaxExpansions {
			return nil
		}

		for _, d := range grid.Dirs {
			next := cur.cell.Step(d)
			if !bounds.Contains(next) {
				continue
			}
			if obstacles.Has(next) && (next != goal || !exceptions.Has(next)) {
				continue
			}
			if onBranch(cur, next) {
				continue
			}

			entered := cur.entered
			if lock {
				in := inside(next)
				if entered && !in {
					continue
				}
				entered = entered || in
			}

			g := cur.g + f.stepCost(cur.dir, d, next, goal, opts)
			nk := stateKey{cell: next, dir: d, entered: entered}
			if _, seen := closed[nk]; seen {
				continue
			}
			if prev, ok := gScore[nk]; ok && g >= prev {
				continue
			}
			gScore[nk] = g

			n := pool.get()
			*n = node{
				cell:    next,
				g:       g,
				h:       float64(next.Manhattan(goal)),
				parent:  cur,
				dir:     d,
				entered: entered,
				depth:   cur.depth + 1,
			}
			n.f = n.g + n.h
			heap.Push(open, n)
		}
	}
	return nil
}

// stepCost prices one move in direction d from a cell last entered moving
// in prev, landing on next.
func (f *Finder) stepCost(prev, d grid.Dir, next, goal grid.Cell, opts Options) float64 {
	cost := 1.0
	if prev != grid.DirNone && d != prev {
		cost += f.costs.TurnPenalty
		if opts.HasCore && f.costs.TurnBoostRadius > 0 {
			falloff := 1 - next.Dist(opts.Core)/f.costs.TurnBoostRadius
			if falloff > 0 {
				cost += f.costs.TurnBoostMax * falloff
			}
		}
	}
	if opts.HasCore && next != goal && f.costs.RepulsionRadius > 0 {
		dist := next.Dist(opts.Core)
		if dist < f.costs.RepulsionRadius {
			p := 1 - dist/f.costs.RepulsionRadius
			cost += f.costs.RepulsionStrength * p * p
		}
	}
	return cost
}

// Cost returns the total cost the search assigns to a cell sequence whose
// last cell is the goal. Sequences with non-adjacent steps cost +Inf.
func (f *Finder) Cost(cells []grid.Cell, opts Options) float64 {
	if len(cells) == 0 {
		return math.Inf(1)
	}
	goal := cells[len(cells)-1]
	total := 0.0
	prev := grid.DirNone
	for i := 1; i < len(cells); i++ {
		d := grid.DirBetween(cells[i-1], cells[i])
		if d == grid.DirNone {
			return math.Inf(1)
		}
		total += f.stepCost(prev, d, cells[i], goal, opts)
		prev = d
	}
	return total
}

// onBranch reports whether c already lies on the chain ending at n.
func onBranch(n *node, c grid.Cell) bool {
	for p := n; p != nil; p = p.parent {
		if p.cell == c {
			return true
		}
	}
	return false
}

// reconstruct walks parent links back to the start. A repeated cell means
// the branch check failed somewhere; refuse the path rather than return it.
func reconstruct(end *node) []grid.Cell {
	path := make([]grid.Cell, end.depth+1)
	seen := make(grid.CellSet, end.depth+1)
	i := end.depth
	for n := end; n != nil; n = n.parent {
		if seen.Has(n.cell) || i < 0 {
			return nil
		}
		seen.Add(n.cell)
		path[i] = n.cell
		i--
	}
	if i != -1 {
		return nil
	}
	return path
}
