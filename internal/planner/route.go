package planner

import (
	"fmt"
	"math"
	"sort"

	"github.com/vovakirdan/riftlane/internal/grid"
	"github.com/vovakirdan/riftlane/internal/hardpoint"
	"github.com/vovakirdan/riftlane/internal/rift"
	"github.com/vovakirdan/riftlane/internal/sector"
)

// sectorJitter breaks ties between equally aligned free gaps.
const sectorJitter = 0.25

// route connects a start cell to the network. A start in a gap that already
// has a trunk must merge; otherwise a weighted roll picks direct or merge
// first and the other serves as fallback.
func (p *Planner) route(sc *scene, start grid.Cell, z, relax int, aggressive bool) ([]grid.Cell, int, error) {
	gap, hasGap := sc.sectors.ClassifyCell(start)
	if hasGap && sc.gapUse[gap] > 0 {
		cells, junction, err := p.merge(sc, start, gap, relax, aggressive)
		if err != nil {
			return nil, -1, fmt.Errorf("%w: %w", ErrGapBlocked, err)
		}
		return cells, junction, nil
	}
	if len(sc.st.Paths) == 0 {
		cells, err := p.direct(sc, start)
		return cells, -1, err
	}

	if p.rng.Float64() < p.DirectChance(z, sc.sectors, sc.gapUse) {
		if cells, err := p.direct(sc, start); err == nil {
			return cells, -1, nil
		}
		return p.merge(sc, start, gap, relax, aggressive)
	}
	if cells, junction, err := p.merge(sc, start, gap, relax, aggressive); err == nil {
		return cells, junction, nil
	}
	cells, err := p.direct(sc, start)
	return cells, -1, err
}

// DirectChance is the probability a corridor from zone z routes straight to
// the core: high near the core, raised while gaps are still unused.
func (p *Planner) DirectChance(z int, sectors *sector.Set, gapUse map[int]int) float64 {
	pc := p.cfg.Planner
	chance := pc.DirectBase / float64(z*z)
	if sectors.Active() {
		unused := 0
		for _, sec := range sectors.Sectors() {
			if gapUse[sec.Index] == 0 {
				unused++
			}
		}
		chance += pc.GapCoverageBonus * float64(unused) / float64(sectors.Len())
	}
	return math.Min(pc.DirectMax, chance)
}

type mergeCandidate struct {
	cell  grid.Cell
	path  *rift.Path
	index int
	score float64
}

// merge joins the start onto an existing corridor. Every corridor through a
// cell shares the same remainder from it, so candidates are unique by cell.
func (p *Planner) merge(sc *scene, start grid.Cell, startGap, relax int, aggressive bool) ([]grid.Cell, int, error) {
	pc := p.cfg.Planner
	core := sc.st.Core
	bounds := sc.st.World.Bounds()
	buffer := p.hardpointBuffer(aggressive)
	minStart := pc.MergeMinStartDist
	if aggressive {
		minStart *= pc.AggressiveScale
	}
	minCore := math.Max(pc.MergeMinCoreDist, sc.protected)

	open := func(c grid.Cell) bool {
		for _, n := range c.Neighbors() {
			if bounds.Contains(n) && !sc.obstacles.Has(n) {
				return true
			}
		}
		return false
	}

	var cands []mergeCandidate
	seen := make(grid.CellSet)
	for _, path := range sc.st.Paths {
		for i, c := range path.Cells {
			if seen.Has(c) {
				continue
			}
			seen.Add(c)
			d := c.Dist(start)
			if d < minStart || c.Dist(core) < minCore {
				continue
			}
			if hardpoint.MinDist(sc.st.Hardpoints, c) < buffer || !open(c) {
				continue
			}
			score := -d / 10
			if g, ok := sc.sectors.ClassifyCell(c); ok && g == startGap {
				score += pc.MergeGapBonus
			}
			score += p.rng.Float64() * pc.MergeJitter
			cands = append(cands, mergeCandidate{cell: c, path: path, index: i, score: score})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].score > cands[j].score
	})

	limit := pc.MergeAttempts * (1 + relax)
	if aggressive {
		limit *= 2
	}
	opts := sc.searchOptions()
	for i, cand := range cands {
		if i >= limit {
			break
		}
		leg := sc.finder.FindCells(start, cand.cell, sc.obstacles, grid.NewCellSet(cand.cell), opts)
		if leg == nil {
			continue
		}
		tail := cand.path.Cells[cand.index+1:]
		cells := make([]grid.Cell, 0, len(leg)+len(tail))
		cells = append(cells, leg...)
		cells = append(cells, tail...)
		return cells, len(leg) - 1, nil
	}
	return nil, -1, fmt.Errorf("%w: no reachable junction among %d candidates", ErrNoRoute, len(cands))
}

// direct routes a new trunk to the core through a free gap: first to an
// approach cell just outside the protected radius, then in.
func (p *Planner) direct(sc *scene, start grid.Cell) ([]grid.Cell, error) {
	core := sc.st.Core
	opts := sc.searchOptions()

	for _, a := range p.approachAngles(sc, start) {
		approach, ok := p.findApproach(sc, a.angle, a.sector)
		if !ok {
			continue
		}
		leg1 := sc.finder.FindCells(start, approach, sc.obstacles, nil, opts)
		if leg1 == nil {
			continue
		}
		blocked := sc.obstacles.Clone()
		for _, c := range leg1[:len(leg1)-1] {
			blocked.Add(c)
		}
		leg2 := sc.finder.FindCells(approach, core, blocked, grid.NewCellSet(core), opts)
		if leg2 == nil {
			continue
		}
		cells := make([]grid.Cell, 0, len(leg1)+len(leg2)-1)
		cells = append(cells, leg1...)
		cells = append(cells, leg2[1:]...)
		return cells, nil
	}
	return nil, fmt.Errorf("%w: no direct route from %v", ErrNoRoute, start)
}

type approachAngle struct {
	angle  float64
	sector int
}

// approachAngles lists free gap centers, best aligned with the start first.
// Without sectors the start's own bearing is the only option.
func (p *Planner) approachAngles(sc *scene, start grid.Cell) []approachAngle {
	bearing := start.Angle(sc.st.Core)
	if !sc.sectors.Active() {
		return []approachAngle{{angle: bearing, sector: -1}}
	}

	type scored struct {
		approachAngle
		score float64
	}
	var list []scored
	for _, sec := range sc.sectors.Sectors() {
		if sc.gapUse[sec.Index] > 0 {
			continue
		}
		s := -sector.AngularDistance(sec.Center, bearing) + p.rng.Float64()*sectorJitter
		list = append(list, scored{approachAngle{angle: sec.Center, sector: sec.Index}, s})
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].score > list[j].score
	})
	out := make([]approachAngle, len(list))
	for i, s := range list {
		out[i] = s.approachAngle
	}
	return out
}

// findApproach returns the open cell nearest the point one cell outside the
// protected radius at the given bearing, searching ApproachSearch cells
// around it. With sec >= 0 the cell must lie in that sector.
func (p *Planner) findApproach(sc *scene, angle float64, sec int) (grid.Cell, bool) {
	core := sc.st.Core
	r := sc.protected + 1
	base := grid.At(
		core.C+int(math.Round(r*math.Cos(angle))),
		core.R+int(math.Round(r*math.Sin(angle))),
	)
	bounds := sc.st.World.Bounds()
	n := max(0, p.cfg.Planner.ApproachSearch)

	best := grid.Cell{}
	bestDist := math.Inf(1)
	for dr := -n; dr <= n; dr++ {
		for dc := -n; dc <= n; dc++ {
			c := base.Add(dc, dr)
			if !bounds.Contains(c) || sc.obstacles.Has(c) || c.Dist(core) < sc.protected {
				continue
			}
			if sec >= 0 {
				if g, ok := sc.sectors.ClassifyCell(c); !ok || g != sec {
					continue
				}
			}
			if d := c.Dist(base); d < bestDist {
				best, bestDist = c, d
			}
		}
	}
	return best, !math.IsInf(bestDist, 1)
}
