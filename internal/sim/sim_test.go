package sim

import (
	"errors"
	"testing"

	"github.com/vovakirdan/riftlane/internal/config"
	"github.com/vovakirdan/riftlane/internal/grid"
	"github.com/vovakirdan/riftlane/internal/hardpoint"
	"github.com/vovakirdan/riftlane/internal/planner"
	"github.com/vovakirdan/riftlane/internal/rift"
	"github.com/vovakirdan/riftlane/internal/sector"
)

func newWorld(seed int64) *World {
	return New(Options{Config: config.DefaultRiftConfig(), Seed: seed})
}

func checkInvariants(t *testing.T, w *World) {
	t.Helper()
	rules := w.Rules()

	var anchors []grid.Cell
	for _, hp := range hardpoint.OfKind(w.Hardpoints(), hardpoint.KindCore) {
		anchors = append(anchors, hp.Cell)
	}
	sectors := sector.Compute(anchors, w.Core(), rules.ProtectedRadius)
	trunks := map[int]int{}

	for i, p := range w.Paths() {
		if err := rift.ValidatePath(w.Grid(), p, rules); err != nil {
			t.Errorf("corridor %d: %v", i, err)
		}
		if p.Junction < 0 {
			g, _ := sectors.ClassifyEntry(p.Cells)
			trunks[g]++
			if trunks[g] > 1 {
				t.Errorf("gap %d has more than one direct corridor", g)
			}
		}
	}
}

func TestCalculatePath(t *testing.T) {
	w := newWorld(1)
	if err := w.CalculatePath(); err != nil {
		t.Fatalf("CalculatePath() = %v", err)
	}
	if len(w.Paths()) != 1 {
		t.Fatalf("CalculatePath() placed %d corridors, expected 1", len(w.Paths()))
	}
	if err := w.CalculatePath(); err != nil || len(w.Paths()) != 1 {
		t.Errorf("second CalculatePath() = %v with %d corridors, expected a no-op", err, len(w.Paths()))
	}
	checkInvariants(t, w)
}

func TestTickFollowsSchedule(t *testing.T) {
	w := newWorld(7)
	prev := w.Grid().Bounds()

	for wave := 0; wave <= 60; wave++ {
		w.Tick(wave)
		b := w.Grid().Bounds()
		if !b.Covers(prev) {
			t.Fatalf("bounds shrank at wave %d: %+v -> %+v", wave, prev, b)
		}
		prev = b
		if len(w.Paths()) > w.Expected() {
			t.Fatalf("wave %d has %d corridors, schedule wants %d", wave, len(w.Paths()), w.Expected())
		}
	}
	if len(w.Paths()) < 3 {
		t.Errorf("placed %d corridors by wave 60, expected at least 3", len(w.Paths()))
	}
	checkInvariants(t, w)

	s := w.Summary()
	if s.Direct+s.Merged != s.Corridors || s.Wave != 60 {
		t.Errorf("Summary() = %+v is inconsistent", s)
	}
}

func TestTickPlacesAtMostMaxPerTick(t *testing.T) {
	w := newWorld(3)
	added, _ := w.Tick(50)
	if added > config.DefaultRiftConfig().Planner.MaxPerTick {
		t.Errorf("Tick(50) added %d corridors, expected at most %d", added, config.DefaultRiftConfig().Planner.MaxPerTick)
	}
}

func TestDeterministicWorlds(t *testing.T) {
	a, b := newWorld(21), newWorld(21)
	for wave := 0; wave <= 30; wave += 2 {
		a.Tick(wave)
		b.Tick(wave)
	}
	if len(a.Paths()) != len(b.Paths()) {
		t.Fatalf("same seed placed %d and %d corridors", len(a.Paths()), len(b.Paths()))
	}
	for i := range a.Paths() {
		pa, pb := a.Paths()[i].Cells, b.Paths()[i].Cells
		if len(pa) != len(pb) {
			t.Fatalf("corridor %d lengths differ: %d vs %d", i, len(pa), len(pb))
		}
		for j := range pa {
			if pa[j] != pb[j] {
				t.Fatalf("corridor %d differs at cell %d", i, j)
			}
		}
	}
}

func TestRebuildAll(t *testing.T) {
	w := newWorld(5)
	for wave := 0; wave <= 20; wave++ {
		w.Tick(wave)
	}
	if err := w.RebuildAll(20); err != nil {
		t.Fatalf("RebuildAll() = %v", err)
	}
	if len(w.Paths()) != w.Expected() {
		t.Errorf("RebuildAll() left %d corridors, expected %d", len(w.Paths()), w.Expected())
	}
	checkInvariants(t, w)
}

func TestAggressiveAfterFailures(t *testing.T) {
	cfg := config.DefaultRiftConfig()
	// No start cell can keep this far from every hardpoint
	cfg.Hardpoints.Buffer = 100
	w := New(Options{Config: cfg, Seed: 9})

	for i := 0; i < cfg.Planner.AggressiveAfter; i++ {
		if w.Aggressive() {
			t.Fatalf("aggressive after only %d failures", i)
		}
		_, err := w.GenerateNewPath()
		if !errors.Is(err, planner.ErrNoStartCell) {
			t.Fatalf("GenerateNewPath() = %v, expected ErrNoStartCell", err)
		}
	}
	if !w.Aggressive() {
		t.Error("Aggressive() = false after the failure streak")
	}
	if len(w.Paths()) != 0 || w.LastError() == nil {
		t.Errorf("failed placements changed the map: %d corridors, last error %v", len(w.Paths()), w.LastError())
	}
}

func TestPromoteTier(t *testing.T) {
	w := newWorld(2)
	if err := w.CalculatePath(); err != nil {
		t.Fatal(err)
	}
	if err := w.PromoteTier(3); !errors.Is(err, ErrNoSuchPath) {
		t.Errorf("PromoteTier(3) = %v, expected ErrNoSuchPath", err)
	}
	for tier := 2; tier <= 3; tier++ {
		if err := w.PromoteTier(0); err != nil {
			t.Fatalf("PromoteTier(0) = %v", err)
		}
		if w.Paths()[0].Tier != tier {
			t.Errorf("Tier = %d, expected %d", w.Paths()[0].Tier, tier)
		}
	}
	if err := w.PromoteTier(0); !errors.Is(err, ErrMaxTier) {
		t.Errorf("PromoteTier() past max = %v, expected ErrMaxTier", err)
	}
}

func TestPlaceTower(t *testing.T) {
	w := newWorld(4)
	if err := w.CalculatePath(); err != nil {
		t.Fatal(err)
	}
	onCorridor := w.Paths()[0].Cells[1]
	free := hardpoint.OfKind(w.Hardpoints(), hardpoint.KindCore)[0].Cell

	tests := []struct {
		name string
		cell grid.Cell
		cost int
		want error
	}{
		{"on corridor", onCorridor, 0, ErrOnCorridor},
		{"on core", w.Core(), 0, ErrOnCorridor},
		{"outside", grid.At(1000, 1000), 0, ErrOutOfBounds},
		{"too expensive", free, 10000, ErrNoCredits},
		{"negative cost", free, -5, ErrInvalidPrice},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := w.PlaceTower(tc.cell, tc.cost); !errors.Is(err, tc.want) {
				t.Errorf("PlaceTower(%v) = %v, expected %v", tc.cell, err, tc.want)
			}
		})
	}
	if w.Credits() != 500 {
		t.Errorf("rejected placements spent credits: %d left", w.Credits())
	}
}

func TestTowerSnapAndSell(t *testing.T) {
	w := newWorld(4)
	hp := hardpoint.OfKind(w.Hardpoints(), hardpoint.KindCore)[0]

	tower, err := w.PlaceTower(hp.Cell, 0)
	if err != nil {
		t.Fatalf("PlaceTower(hardpoint) = %v", err)
	}
	if !tower.Anchored() || tower.Hardpoint != hp.ID || tower.Rules != hp.Rules {
		t.Errorf("tower on %v not anchored to %s: %+v", hp.Cell, hp.ID, tower)
	}
	if _, err := w.PlaceTower(hp.Cell, 0); !errors.Is(err, ErrCellTaken) {
		t.Errorf("second PlaceTower(hardpoint) = %v, expected ErrCellTaken", err)
	}
	if w.Credits() != 400 {
		t.Errorf("Credits() = %d, expected 400", w.Credits())
	}

	refund, err := w.SellTower(tower.ID)
	if err != nil || refund != 50 {
		t.Errorf("SellTower() = %d, %v, expected 50", refund, err)
	}
	if w.Credits() != 450 || len(w.Towers()) != 0 {
		t.Errorf("after sale credits = %d, towers = %d", w.Credits(), len(w.Towers()))
	}
	if _, err := w.SellTower(tower.ID); !errors.Is(err, ErrNoSuchTower) {
		t.Errorf("SellTower(sold) = %v, expected ErrNoSuchTower", err)
	}
}

func TestCorridorClearsFreeTowers(t *testing.T) {
	w := newWorld(4)
	hp := hardpoint.OfKind(w.Hardpoints(), hardpoint.KindCore)[0]

	free, err := w.PlaceTower(grid.At(-15, 3), 0)
	if err != nil {
		t.Fatalf("PlaceTower(free) = %v", err)
	}
	anchored, err := w.PlaceTower(hp.Cell, 0)
	if err != nil {
		t.Fatalf("PlaceTower(anchored) = %v", err)
	}

	path := &rift.Path{Cells: []grid.Cell{free.Cell, anchored.Cell}}
	if refund := w.clearTowersOn(path); refund != 50 {
		t.Errorf("clearTowersOn() refund = %d, expected 50", refund)
	}
	if len(w.Towers()) != 1 || w.Towers()[0].ID != anchored.ID {
		t.Errorf("Towers() = %+v, expected only the anchored tower", w.Towers())
	}
	if w.Credits() != 350 {
		t.Errorf("Credits() = %d, expected 350", w.Credits())
	}
}

func TestViewportGrowsWorld(t *testing.T) {
	w := newWorld(1)
	view := grid.Bounds{MinC: -60, MinR: -40, MaxC: 60, MaxR: 40}
	w.SetViewport(view)

	b := w.Grid().Bounds()
	if !b.Covers(view) {
		t.Errorf("bounds %+v do not cover viewport %+v", b, view)
	}
	micro := hardpoint.OfKind(w.Hardpoints(), hardpoint.KindMicro)
	if len(micro) != 20 {
		t.Errorf("grown world has %d micro hardpoints, expected 20", len(micro))
	}
}
