// Package hardpoint generates the fixed anchor slots around the core. Hardpoints
// are permanent corridor obstacles and tower-placement bonus sites.
package hardpoint

import (
	"fmt"
	"math"

	"github.com/vovakirdan/riftlane/internal/config"
	"github.com/vovakirdan/riftlane/internal/grid"
)

// Kind is the closed set of hardpoint kinds.
type Kind uint8

const (
	KindCore Kind = iota
	KindMicro
)

// String returns the string representation of a kind.
func (k Kind) String() string {
	switch k {
	case KindCore:
		return "core"
	case KindMicro:
		return "micro"
	default:
		return "unknown"
	}
}

// Rules are the multipliers a tower anchored to a hardpoint receives.
type Rules struct {
	Damage   float64
	Range    float64
	Cooldown float64
}

// Hardpoint is an immutable anchor slot.
type Hardpoint struct {
	ID    string
	Kind  Kind
	Cell  grid.Cell
	Pos   grid.Point
	Rules Rules
}

// Layout holds the ring definitions and per-kind rules, resolved once from config.
type Layout struct {
	Core  config.RingConfig
	Micro []config.RingConfig
	rules map[Kind]Rules
}

// NewLayout resolves a layout from the hardpoint config.
func NewLayout(cfg config.HardpointConfig) Layout {
	return Layout{
		Core:  cfg.Core,
		Micro: cfg.Micro,
		rules: map[Kind]Rules{
			KindCore:  rulesFrom(cfg.Rules.Core),
			KindMicro: rulesFrom(cfg.Rules.Micro),
		},
	}
}

func rulesFrom(r config.HardpointRules) Rules {
	return Rules{Damage: r.Damage, Range: r.Range, Cooldown: r.Cooldown}
}

// RulesFor returns the rule table of a kind.
func (l Layout) RulesFor(k Kind) Rules {
	return l.rules[k]
}

// Build places the core ring and every micro ring around the core cell.
// Angles that round onto an already used cell are dropped, as are cells
// outside bounds or in the skip set, so ring counts are upper bounds.
// Ids derive from ring and slot index and stay stable across rebuilds.
func Build(core grid.Cell, bounds grid.Bounds, w *grid.World, l Layout, skip grid.CellSet) []Hardpoint {
	seen := grid.NewCellSet(core)
	var out []Hardpoint

	place := func(kind Kind, prefix string, ring config.RingConfig) {
		if ring.Count <= 0 {
			return
		}
		step := 2 * math.Pi / float64(ring.Count)
		offset := ring.AngleOffset * math.Pi / 180
		for i := 0; i < ring.Count; i++ {
			a := offset + float64(i)*step
			cell := grid.At(
				core.C+int(math.Round(ring.Radius*math.Cos(a))),
				core.R+int(math.Round(ring.Radius*math.Sin(a))),
			)
			if seen.Has(cell) || !bounds.Contains(cell) || skip.Has(cell) {
				continue
			}
			seen.Add(cell)
			out = append(out, Hardpoint{
				ID:    fmt.Sprintf("%s-%d", prefix, i),
				Kind:  kind,
				Cell:  cell,
				Pos:   w.CellToWorld(cell),
				Rules: l.RulesFor(kind),
			})
		}
	}

	place(KindCore, "core", l.Core)
	for ri, ring := range l.Micro {
		place(KindMicro, fmt.Sprintf("micro%d", ri+1), ring)
	}
	return out
}

// OfKind filters hardpoints by kind.
func OfKind(hps []Hardpoint, k Kind) []Hardpoint {
	var out []Hardpoint
	for _, hp := range hps {
		if hp.Kind == k {
			out = append(out, hp)
		}
	}
	return out
}

// Cells returns the set of hardpoint cells.
func Cells(hps []Hardpoint) grid.CellSet {
	s := make(grid.CellSet, len(hps))
	for _, hp := range hps {
		s.Add(hp.Cell)
	}
	return s
}

// Nearest returns the hardpoint closest to c within radius cells.
func Nearest(hps []Hardpoint, c grid.Cell, radius float64) (Hardpoint, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i, hp := range hps {
		d := hp.Cell.Dist(c)
		if d <= radius && d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Hardpoint{}, false
	}
	return hps[best], true
}

// MinDist returns the distance from c to the closest hardpoint, or +Inf.
func MinDist(hps []Hardpoint, c grid.Cell) float64 {
	d := math.Inf(1)
	for _, hp := range hps {
		d = math.Min(d, hp.Cell.Dist(c))
	}
	return d
}
