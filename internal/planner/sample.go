package planner

import (
	"math"
	"sort"

	"github.com/vovakirdan/riftlane/internal/grid"
	"github.com/vovakirdan/riftlane/internal/hardpoint"
)

type startCandidate struct {
	cell grid.Cell
	dist float64 // distance to the closest corridor cell
}

// Spacing returns the minimum distance a new spawn keeps from every
// existing corridor cell.
func (p *Planner) Spacing(wave, relax int, aggressive bool) float64 {
	pc := p.cfg.Planner
	s := math.Max(pc.MinSpacing, pc.BaseSpacing-float64(wave)*pc.SpacingPerWave-float64(relax)*pc.SpacingPerRelax)
	if aggressive {
		s *= pc.AggressiveScale
	}
	return s
}

func (p *Planner) hardpointBuffer(aggressive bool) float64 {
	b := p.cfg.Hardpoints.Buffer
	if aggressive {
		b = math.Max(1, b*p.cfg.Planner.AggressiveScale)
	}
	return b
}

// sampleStart draws random cells in the zone band and keeps the legal ones.
// The best SampleKeep by clearance are ranked, and the pick is biased toward
// the most isolated with PickPower.
func (p *Planner) sampleStart(sc *scene, z, relax int, aggressive bool) (grid.Cell, bool) {
	pc := p.cfg.Planner
	inner, outer := p.ZoneInner(z), p.ZoneOuter(z)
	spacing := p.Spacing(sc.st.Wave, relax, aggressive)
	buffer := p.hardpointBuffer(aggressive)
	bounds := sc.st.World.Bounds()
	core := sc.st.Core

	attempts := pc.SampleAttempts * (1 + relax)
	if aggressive {
		attempts *= 2
	}

	var cands []startCandidate
	tried := make(grid.CellSet)
	for i := 0; i < attempts; i++ {
		a := p.rng.Float64() * 2 * math.Pi
		r := inner + p.rng.Float64()*(outer-inner)
		cell := grid.At(
			core.C+int(math.Round(r*math.Cos(a))),
			core.R+int(math.Round(r*math.Sin(a))),
		)
		if tried.Has(cell) {
			continue
		}
		tried.Add(cell)

		if d := cell.Dist(core); d < inner || d >= outer {
			continue
		}
		if !bounds.Contains(cell) || sc.obstacles.Has(cell) {
			continue
		}
		if hardpoint.MinDist(sc.st.Hardpoints, cell) < buffer {
			continue
		}
		room := nearestCorridor(sc.occupied, cell)
		if room < spacing {
			continue
		}
		cands = append(cands, startCandidate{cell: cell, dist: room})
	}
	if len(cands) == 0 {
		return grid.Cell{}, false
	}

	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].dist > cands[j].dist
	})
	if keep := max(1, pc.SampleKeep); len(cands) > keep {
		cands = cands[:keep]
	}
	idx := int(float64(len(cands)) * math.Pow(p.rng.Float64(), pc.PickPower))
	return cands[min(idx, len(cands)-1)].cell, true
}

// nearestCorridor returns the distance from c to the closest occupied cell,
// or +Inf on an empty map.
func nearestCorridor(occupied grid.CellSet, c grid.Cell) float64 {
	best := math.Inf(1)
	for o := range occupied {
		best = math.Min(best, o.Dist(c))
	}
	return best
}
