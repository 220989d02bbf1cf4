package sim

import (
	"errors"
	"math"

	"github.com/vovakirdan/riftlane/internal/grid"
	"github.com/vovakirdan/riftlane/internal/hardpoint"
	"github.com/vovakirdan/riftlane/internal/rift"
)

// Tower is a placed defense. Towers snapped onto a hardpoint carry its id
// and bonus rules and can never be cleared by a corridor.
type Tower struct {
	ID        int
	Cell      grid.Cell
	Cost      int
	Hardpoint string
	Rules     hardpoint.Rules
}

// Anchored reports whether the tower sits on a hardpoint.
func (t Tower) Anchored() bool {
	return t.Hardpoint != ""
}

// Tower placement errors.
var (
	ErrOutOfBounds  = errors.New("cell is outside the map")
	ErrOnCorridor   = errors.New("cell is on a corridor")
	ErrCellTaken    = errors.New("cell already holds a tower")
	ErrNoCredits    = errors.New("not enough credits")
	ErrNoSuchTower  = errors.New("no such tower")
	ErrInvalidPrice = errors.New("tower cost must be positive")
)

// PlaceTower builds a tower at cell, snapping it onto a hardpoint within
// the snap radius. A cost of 0 uses the configured default.
func (w *World) PlaceTower(cell grid.Cell, cost int) (Tower, error) {
	if cost == 0 {
		cost = w.cfg.Towers.Cost
	}
	if cost < 0 {
		return Tower{}, ErrInvalidPrice
	}

	t := Tower{Cell: cell, Cost: cost}
	if hp, ok := hardpoint.Nearest(w.hardpoints, cell, w.cfg.Hardpoints.SnapRadius); ok {
		t.Cell = hp.Cell
		t.Hardpoint = hp.ID
		t.Rules = hp.Rules
	}

	if !w.grid.InBounds(t.Cell) {
		return Tower{}, ErrOutOfBounds
	}
	if t.Cell == w.core || rift.Occupied(w.paths).Has(t.Cell) {
		return Tower{}, ErrOnCorridor
	}
	for _, other := range w.towers {
		if other.Cell == t.Cell {
			return Tower{}, ErrCellTaken
		}
	}
	if w.credits < cost {
		return Tower{}, ErrNoCredits
	}

	w.nextTower++
	t.ID = w.nextTower
	w.credits -= cost
	w.towers = append(w.towers, t)
	w.logger.Debug("tower placed", "id", t.ID, "cell", t.Cell, "anchored", t.Anchored(), "credits", w.credits)
	return t, nil
}

// SellTower removes a tower and refunds part of its cost.
func (w *World) SellTower(id int) (int, error) {
	for i, t := range w.towers {
		if t.ID != id {
			continue
		}
		refund := w.refund(t)
		w.credits += refund
		w.towers = append(w.towers[:i], w.towers[i+1:]...)
		return refund, nil
	}
	return 0, ErrNoSuchTower
}

func (w *World) refund(t Tower) int {
	return int(math.Round(float64(t.Cost) * w.cfg.Towers.RefundRatio))
}

// clearTowersOn removes unanchored towers standing on the corridor's cells
// and refunds them. It returns the total refund.
func (w *World) clearTowersOn(p *rift.Path) int {
	cells := grid.NewCellSet(p.Cells...)
	total := 0
	kept := w.towers[:0]
	for _, t := range w.towers {
		if t.Anchored() || !cells.Has(t.Cell) {
			kept = append(kept, t)
			continue
		}
		r := w.refund(t)
		total += r
		w.logger.Debug("tower cleared by corridor", "id", t.ID, "cell", t.Cell, "refund", r)
	}
	w.towers = kept
	w.credits += total
	return total
}
