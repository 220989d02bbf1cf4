package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/riftlane/internal/config"
	"github.com/vovakirdan/riftlane/internal/core"
	"github.com/vovakirdan/riftlane/internal/grid"
	"github.com/vovakirdan/riftlane/internal/sim"
)

func newWorld(t *testing.T) *sim.World {
	t.Helper()
	w := sim.New(sim.Options{Config: config.DefaultRiftConfig(), Seed: 7})
	if err := w.CalculatePath(); err != nil {
		t.Fatalf("CalculatePath() = %v", err)
	}
	return w
}

func TestCorridorGlyph(t *testing.T) {
	tests := []struct {
		tier     int
		expected string
	}{
		{0, "::"},
		{1, "::"},
		{2, "=="},
		{3, "##"},
		{9, "##"},
	}
	for _, tc := range tests {
		if got := corridorGlyph(tc.tier).text; got != tc.expected {
			t.Errorf("corridorGlyph(%d) = %q, expected %q", tc.tier, got, tc.expected)
		}
	}
}

func TestCameraVisibleBounds(t *testing.T) {
	cam := Camera{Center: grid.At(0, 0)}
	b := cam.VisibleBounds(core.NewRect(0, 0, 20, 10))
	expected := grid.Bounds{MinC: -5, MinR: -5, MaxC: 5, MaxR: 5}
	if b != expected {
		t.Errorf("VisibleBounds() = %+v, expected %+v", b, expected)
	}

	cam.Pan(3, -2)
	if cam.Center != grid.At(3, -2) {
		t.Errorf("Pan(3, -2) moved the camera to %v", cam.Center)
	}
}

func TestLayersPriority(t *testing.T) {
	w := newWorld(t)
	tower, err := w.PlaceTower(grid.At(2, 2), 0)
	if err != nil {
		t.Fatalf("PlaceTower() = %v", err)
	}

	top := layers(w)
	if top[w.Core()] != glyphCore {
		t.Errorf("core drawn as %+v", top[w.Core()])
	}
	if top[w.Paths()[0].Spawn()] != glyphSpawn {
		t.Errorf("spawn drawn as %+v", top[w.Paths()[0].Spawn()])
	}
	if top[tower.Cell] != glyphAnchored {
		t.Errorf("anchored tower drawn as %+v", top[tower.Cell])
	}
}

func TestPlainMap(t *testing.T) {
	w := newWorld(t)
	b := w.Grid().Bounds()

	lines := strings.Split(PlainMap(w), "\n")
	if len(lines) != b.Rows() {
		t.Fatalf("PlainMap() has %d lines, expected %d", len(lines), b.Rows())
	}
	for i, line := range lines {
		if len(line) != b.Cols()*cellWidth {
			t.Fatalf("line %d is %d wide, expected %d", i, len(line), b.Cols()*cellWidth)
		}
	}

	x := (w.Core().C - b.MinC) * cellWidth
	if got := lines[w.Core().R-b.MinR][x : x+cellWidth]; got != glyphCore.text {
		t.Errorf("core cell = %q, expected %q", got, glyphCore.text)
	}
	if !strings.Contains(PlainMap(w), glyphSpawn.text) {
		t.Error("PlainMap() is missing the spawn")
	}
}

func TestDrawMapStaysInArea(t *testing.T) {
	w := newWorld(t)
	s := core.NewScreen(30, 12)
	area := core.NewRect(2, 1, 21, 9)
	DrawMap(s, area, w, Camera{Center: w.Core()})

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if !area.Contains(x, y) && s.Get(x, y) != ' ' {
				t.Fatalf("DrawMap() wrote %q outside the area at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}
