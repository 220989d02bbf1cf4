package sim

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/riftlane/internal/rift"
)

// Errors returned by map operations.
var (
	ErrNoSuchPath = errors.New("no such corridor")
	ErrMaxTier    = errors.New("corridor is already at the highest tier")
)

// CalculatePath places the initial corridor when the map has none.
func (w *World) CalculatePath() error {
	if len(w.paths) > 0 {
		return nil
	}
	_, err := w.GenerateNewPath()
	return err
}

// GenerateNewPath plans and commits one corridor. On failure the map is
// unchanged and the failure streak grows, which eventually switches
// placement to aggressive mode.
func (w *World) GenerateNewPath() (*rift.Path, error) {
	return w.generate(w.Aggressive())
}

// ForceGenerate places a corridor regardless of the schedule, in aggressive
// mode from the start.
func (w *World) ForceGenerate() (*rift.Path, error) {
	return w.generate(true)
}

func (w *World) generate(aggressive bool) (*rift.Path, error) {
	w.ensureBounds()

	path, err := w.planner.Plan(w.state(), 0, aggressive)
	if err != nil {
		w.failures++
		w.lastErr = err
		w.logger.Warn("corridor placement failed",
			"wave", w.wave,
			"streak", w.failures,
			"aggressive", aggressive,
			"err", err,
		)
		return nil, err
	}

	refund := w.clearTowersOn(path)
	w.paths = append(w.paths, path)
	w.failures = 0
	w.lastErr = nil

	kv := []any{
		"wave", w.wave,
		"zone", path.Zone,
		"spawn", path.Spawn(),
		"length", len(path.Cells),
		"merged", path.Junction >= 0,
	}
	if path.Mutation != nil {
		kv = append(kv, "mutation", path.Mutation.Name)
	}
	if refund > 0 {
		kv = append(kv, "refund", refund)
	}
	w.logger.Info("corridor opened", kv...)
	return path, nil
}

// Tick advances to the given wave and places up to MaxPerTick of the
// corridors the schedule is missing. It returns how many were placed and
// the error that stopped placement early, if any.
func (w *World) Tick(wave int) (int, error) {
	w.wave = wave
	missing := w.Expected() - len(w.paths)
	limit := min(missing, max(1, w.cfg.Planner.MaxPerTick))

	added := 0
	for added < limit {
		if _, err := w.GenerateNewPath(); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// RebuildAll drops every corridor and regenerates the map for the wave.
// Towers stay; new corridors clear the unanchored ones they cross.
func (w *World) RebuildAll(wave int) error {
	w.wave = wave
	w.paths = nil
	w.failures = 0
	w.lastErr = nil
	w.rebuildHardpoints()
	w.logger.Info("rebuilding map", "wave", wave, "expected", w.Expected())

	for len(w.paths) < w.Expected() {
		if _, err := w.GenerateNewPath(); err != nil {
			return fmt.Errorf("rebuild stopped at %d of %d corridors: %w", len(w.paths), w.Expected(), err)
		}
	}
	return nil
}

// PromoteTier raises the tier of corridor i.
func (w *World) PromoteTier(i int) error {
	if i < 0 || i >= len(w.paths) {
		return fmt.Errorf("%w: %d", ErrNoSuchPath, i)
	}
	p := w.paths[i]
	if p.Tier >= w.cfg.Towers.MaxTier {
		return ErrMaxTier
	}
	p.Tier++
	w.logger.Info("corridor promoted", "index", i, "tier", p.Tier)
	return nil
}
