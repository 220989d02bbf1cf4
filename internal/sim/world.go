// Package sim owns the live rift map: corridors, hardpoints, towers and
// credits, and drives corridor generation as waves advance.
package sim

import (
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/riftlane/internal/config"
	"github.com/vovakirdan/riftlane/internal/grid"
	"github.com/vovakirdan/riftlane/internal/hardpoint"
	"github.com/vovakirdan/riftlane/internal/planner"
	"github.com/vovakirdan/riftlane/internal/rift"
)

// Options configure a new World.
type Options struct {
	Config config.RiftConfig
	Seed   int64 // 0 seeds from the clock
	Logger *log.Logger
}

// World is the corridor map around a single core. It is not safe for
// concurrent use; each viewer session owns its own World.
type World struct {
	cfg      config.RiftConfig
	seed     int64
	grid     *grid.World
	core     grid.Cell
	layout   hardpoint.Layout
	planner  *planner.Planner
	schedule *config.Schedule
	logger   *log.Logger

	hardpoints []hardpoint.Hardpoint
	paths      []*rift.Path
	towers     []Tower
	nextTower  int
	credits    int

	wave        int
	failures    int // Consecutive failed placements
	lastErr     error
	viewport    grid.Bounds
	hasViewport bool
}

// New creates a world with no corridors. Call CalculatePath to place the
// first one.
func New(opts Options) *World {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	cfg := opts.Config
	core := grid.At(0, 0)
	w := &World{
		cfg:      cfg,
		seed:     seed,
		grid:     grid.NewWorld(cfg.Grid.CellSize, grid.BoundsAround(core, cfg.Grid.InitialCols, cfg.Grid.InitialRows)),
		core:     core,
		layout:   hardpoint.NewLayout(cfg.Hardpoints),
		planner:  planner.New(cfg, rand.New(rand.NewSource(seed)), logger.WithPrefix("planner")),
		schedule: config.NewSchedule(cfg.Schedule),
		logger:   logger,
		credits:  cfg.Towers.StartCredits,
	}
	w.rebuildHardpoints()
	return w
}

// Seed returns the seed the world was created with.
func (w *World) Seed() int64 { return w.seed }

// Grid returns the cell lattice.
func (w *World) Grid() *grid.World { return w.grid }

// Core returns the core cell.
func (w *World) Core() grid.Cell { return w.core }

// Hardpoints returns the current hardpoints.
func (w *World) Hardpoints() []hardpoint.Hardpoint { return w.hardpoints }

// Paths returns the corridors in placement order.
func (w *World) Paths() []*rift.Path { return w.paths }

// Towers returns the placed towers.
func (w *World) Towers() []Tower { return w.towers }

// Credits returns the tower budget.
func (w *World) Credits() int { return w.credits }

// Wave returns the last wave passed to Tick or RebuildAll.
func (w *World) Wave() int { return w.wave }

// Failures returns the current streak of failed placements.
func (w *World) Failures() int { return w.failures }

// LastError returns the reason for the most recent failed placement, or nil
// once a placement succeeds.
func (w *World) LastError() error { return w.lastErr }

// Aggressive reports whether placement has escalated after repeated
// failures.
func (w *World) Aggressive() bool {
	return w.cfg.Planner.AggressiveAfter > 0 && w.failures >= w.cfg.Planner.AggressiveAfter
}

// Expected returns the corridor count the schedule wants at the current wave.
func (w *World) Expected() int {
	return w.schedule.ExpectedCorridors(w.wave)
}

// Rules returns the geometric rules every corridor obeys.
func (w *World) Rules() rift.Rules {
	return rift.Rules{
		Core:            w.core,
		ProtectedRadius: w.cfg.Zones.ProtectedRadius,
		Hardpoints:      hardpoint.Cells(w.hardpoints),
	}
}

// SetViewport records the visible cell region and grows the world so it is
// covered with margin to spare.
func (w *World) SetViewport(b grid.Bounds) {
	w.viewport = b
	w.hasViewport = true
	w.ensureBounds()
}

// ensureBounds grows the world to cover the viewport, all content and every
// zone the next placement may pick. Hardpoints are rebuilt when it grows.
func (w *World) ensureBounds() {
	margin := w.cfg.Grid.Margin
	var regions []grid.Bounds

	if w.hasViewport {
		v := w.viewport
		regions = append(regions, grid.Bounds{
			MinC: v.MinC - margin, MinR: v.MinR - margin,
			MaxC: v.MaxC + margin, MaxR: v.MaxR + margin,
		})
	}

	var content []grid.Cell
	for _, p := range w.paths {
		content = append(content, p.Cells...)
	}
	for _, t := range w.towers {
		content = append(content, t.Cell)
	}
	if box, ok := grid.BoxOf(content, margin); ok {
		regions = append(regions, box)
	}

	r := w.planner.OuterRadius(w.wave, len(w.paths))
	regions = append(regions, grid.BoxAround(w.core, int(math.Ceil(r)), margin))

	before := w.grid.Bounds()
	if w.grid.Grow(regions...) {
		after := w.grid.Bounds()
		w.logger.Debug("world grown",
			"from", [2]int{before.Cols(), before.Rows()},
			"to", [2]int{after.Cols(), after.Rows()},
		)
		w.rebuildHardpoints()
	}
}

// rebuildHardpoints lays the rings out over the current bounds, skipping any
// cell a corridor already occupies.
func (w *World) rebuildHardpoints() {
	w.hardpoints = hardpoint.Build(w.core, w.grid.Bounds(), w.grid, w.layout, rift.Occupied(w.paths))
}

func (w *World) state() *planner.State {
	return &planner.State{
		World:      w.grid,
		Core:       w.core,
		Hardpoints: w.hardpoints,
		Paths:      w.paths,
		Wave:       w.wave,
	}
}

// Summary is a point-in-time digest of the map.
type Summary struct {
	Wave      int
	Expected  int
	Corridors int
	Direct    int
	Merged    int
	Mutated   int
	Towers    int
	Credits   int
	Failures  int
	Cols      int
	Rows      int
}

// Summary returns counts describing the current map.
func (w *World) Summary() Summary {
	b := w.grid.Bounds()
	s := Summary{
		Wave:      w.wave,
		Expected:  w.Expected(),
		Corridors: len(w.paths),
		Towers:    len(w.towers),
		Credits:   w.credits,
		Failures:  w.failures,
		Cols:      b.Cols(),
		Rows:      b.Rows(),
	}
	for _, p := range w.paths {
		if p.Junction < 0 {
			s.Direct++
		} else {
			s.Merged++
		}
		if p.Mutation != nil {
			s.Mutated++
		}
	}
	return s
}
