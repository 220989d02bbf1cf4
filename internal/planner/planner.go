// Package planner decides where the next corridor spawns and how it reaches
// the core: zone targeting, start sampling, merge-versus-direct routing
// under gap discipline, and the relaxation ladder around all of it.
package planner

import (
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/riftlane/internal/config"
	"github.com/vovakirdan/riftlane/internal/grid"
	"github.com/vovakirdan/riftlane/internal/hardpoint"
	"github.com/vovakirdan/riftlane/internal/pathfind"
	"github.com/vovakirdan/riftlane/internal/rift"
	"github.com/vovakirdan/riftlane/internal/sector"
)

// MaxRelaxLevel is the last rung of the relaxation ladder. Level 0 uses the
// configured limits; every further level loosens spacing, capacity and
// attempt counts once more.
const MaxRelaxLevel = 2

// State is the read-only view of the world a placement is planned against.
type State struct {
	World      *grid.World
	Core       grid.Cell
	Hardpoints []hardpoint.Hardpoint
	Paths      []*rift.Path
	Wave       int
}

// Planner places new corridors. It is not safe for concurrent use: it owns
// the random source that makes placement reproducible.
type Planner struct {
	cfg      config.RiftConfig
	schedule *config.Schedule
	costs    pathfind.Costs
	rng      *rand.Rand
	logger   *log.Logger
}

// New creates a planner. A nil logger discards output.
func New(cfg config.RiftConfig, rng *rand.Rand, logger *log.Logger) *Planner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Planner{
		cfg:      cfg,
		schedule: config.NewSchedule(cfg.Schedule),
		costs:    pathfind.CostsFrom(cfg.Pathfinder),
		rng:      rng,
		logger:   logger,
	}
}

// OuterRadius returns the radius the world must cover so that every zone
// the next placement may pick is inside bounds.
func (p *Planner) OuterRadius(wave, existing int) float64 {
	tz := p.TargetZone(p.LoadTarget(wave, existing))
	return p.ZoneOuter(min(tz+1, p.cfg.Zones.MaxZones))
}

// Plan produces the next corridor. Failures at one relax level retry at the
// next until MaxRelaxLevel; past that a *Failure is returned and nothing
// about the state has changed.
func (p *Planner) Plan(st *State, relax int, aggressive bool) (*rift.Path, error) {
	path, err := p.attempt(st, relax, aggressive)
	if err == nil {
		return path, nil
	}
	if relax >= MaxRelaxLevel {
		return nil, &Failure{Reason: err, Relax: relax, Aggressive: aggressive}
	}
	p.logger.Debug("relaxing placement", "level", relax+1, "reason", err)
	return p.Plan(st, relax+1, aggressive)
}

// scene caches the derived sets one attempt works against.
type scene struct {
	st        *State
	finder    *pathfind.Finder
	sectors   *sector.Set
	occupied  grid.CellSet
	hpCells   grid.CellSet
	obstacles grid.CellSet
	gapUse    map[int]int
	occupancy map[int]int
	protected float64
	budget    int
}

func (p *Planner) newScene(st *State, relax int, aggressive bool) *scene {
	occupied := rift.Occupied(st.Paths)
	hpCells := hardpoint.Cells(st.Hardpoints)
	obstacles := occupied.Clone()
	for c := range hpCells {
		obstacles.Add(c)
	}

	var anchors []grid.Cell
	for _, hp := range hardpoint.OfKind(st.Hardpoints, hardpoint.KindCore) {
		anchors = append(anchors, hp.Cell)
	}
	sectors := sector.Compute(anchors, st.Core, p.cfg.Zones.ProtectedRadius)

	sc := &scene{
		st:        st,
		finder:    pathfind.New(p.costs, st.World),
		sectors:   sectors,
		occupied:  occupied,
		hpCells:   hpCells,
		obstacles: obstacles,
		gapUse:    make(map[int]int),
		occupancy: make(map[int]int),
		protected: p.cfg.Zones.ProtectedRadius,
	}
	for _, path := range st.Paths {
		sc.occupancy[path.Zone]++
		if g, ok := sectors.ClassifyEntry(path.Cells); ok {
			sc.gapUse[g]++
		}
	}

	b := st.World.Bounds()
	sc.budget = b.Cols() * b.Rows() * (2 + 2*relax)
	if aggressive {
		sc.budget *= 2
	}
	return sc
}

func (sc *scene) searchOptions() pathfind.Options {
	return pathfind.Options{
		Core:            sc.st.Core,
		HasCore:         true,
		LockAfterEntry:  true,
		ProtectedRadius: sc.protected,
		MaxExpansions:   sc.budget,
	}
}

func (sc *scene) rules() rift.Rules {
	return rift.Rules{
		Core:            sc.st.Core,
		ProtectedRadius: sc.protected,
		Hardpoints:      sc.hpCells,
	}
}

func (p *Planner) attempt(st *State, relax int, aggressive bool) (*rift.Path, error) {
	sc := p.newScene(st, relax, aggressive)

	target := p.LoadTarget(st.Wave, len(st.Paths))
	tz := p.TargetZone(target)
	order := p.OrderZones(tz, p.Desired(target, tz), sc.occupancy)

	tries := p.cfg.Planner.ZoneTries + relax
	if aggressive {
		tries *= 2
	}

	err := ErrNoStartCell
	for _, z := range order {
		if tries == 0 {
			break
		}
		if !p.hasRoom(z, sc.occupancy[z], relax, aggressive) {
			continue
		}
		tries--

		start, ok := p.sampleStart(sc, z, relax, aggressive)
		if !ok {
			err = ErrNoStartCell
			continue
		}
		cells, junction, rerr := p.route(sc, start, z, relax, aggressive)
		if rerr != nil {
			err = rerr
			continue
		}
		path, cerr := p.commit(sc, cells, junction, z)
		if cerr != nil {
			err = cerr
			continue
		}
		p.logger.Debug("corridor planned",
			"zone", z,
			"spawn", start,
			"length", len(cells),
			"merged", junction >= 0,
			"relax", relax,
		)
		return path, nil
	}
	return nil, err
}

// commit runs the final checks and builds the corridor.
func (p *Planner) commit(sc *scene, cells []grid.Cell, junction, zone int) (*rift.Path, error) {
	if err := rift.Validate(cells, sc.rules()); err != nil {
		if errors.Is(err, rift.ErrRepeatedCell) {
			return nil, fmt.Errorf("%w: %w", ErrSelfOverlap, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidCommit, err)
	}
	if junction < 0 {
		if g, ok := sc.sectors.ClassifyEntry(cells); ok && sc.gapUse[g] > 0 {
			return nil, fmt.Errorf("%w: gap %d", ErrGapBlocked, g)
		}
	}

	path := rift.NewPath(sc.st.World, cells, zone)
	path.Junction = junction
	path.Mutation = p.rollMutation(sc.st.Wave)
	return path, nil
}

// rollMutation gives each eligible profile one chance, in table order.
func (p *Planner) rollMutation(wave int) *rift.Mutation {
	for _, m := range config.Eligible(p.cfg.Mutations, wave) {
		if p.rng.Float64() < m.Chance {
			return &rift.Mutation{Name: m.Name, SpeedScale: m.SpeedScale, HealthScale: m.HealthScale}
		}
	}
	return nil
}
