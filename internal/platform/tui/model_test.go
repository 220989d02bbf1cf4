package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/riftlane/internal/config"
	"github.com/vovakirdan/riftlane/internal/core"
	"github.com/vovakirdan/riftlane/internal/grid"
	"github.com/vovakirdan/riftlane/internal/sim"
	"github.com/vovakirdan/riftlane/internal/storage"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, expected Model", next)
	}
	return nm, cmd
}

func TestModelPauseAndWave(t *testing.T) {
	m := NewModel(newWorld(t), nil, core.DefaultConfig(), config.PresetNormal)

	m, _ = press(t, m, runeKey('p'))
	if !m.paused {
		t.Error("p should pause the viewer")
	}
	m, _ = press(t, m, runeKey('n'))
	if m.world.Wave() != 1 {
		t.Errorf("Wave() = %d after next wave, expected 1", m.world.Wave())
	}

	// Paused ticks do not advance the clock
	for i := 0; i < 20; i++ {
		next, _ := m.Update(TickMsg{})
		m = next.(Model)
	}
	if m.world.Wave() != 1 {
		t.Errorf("Wave() = %d after paused ticks, expected 1", m.world.Wave())
	}
}

func TestModelTicksAdvanceWaves(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.WaveStep = 2
	m := NewModel(newWorld(t), nil, cfg, config.PresetNormal)

	for i := 0; i < 6; i++ {
		next, cmd := m.Update(TickMsg{})
		m = next.(Model)
		if cmd == nil {
			t.Fatal("tick should schedule the next tick")
		}
	}
	if m.world.Wave() != 3 {
		t.Errorf("Wave() = %d after 6 ticks, expected 3", m.world.Wave())
	}
}

func TestModelBack(t *testing.T) {
	m := NewModel(newWorld(t), nil, core.DefaultConfig(), config.PresetNormal)
	quit, cmd := press(t, m, runeKey('b'))
	if !quit.IsQuitting() || cmd == nil {
		t.Error("back outside a session should quit")
	}

	m.inSession = true
	back, _ := press(t, m, runeKey('b'))
	if !back.BackToMenu() || back.IsQuitting() {
		t.Error("back inside a session should return to the menu")
	}
}

func TestModelPlaceAndSell(t *testing.T) {
	m := NewModel(newWorld(t), nil, core.DefaultConfig(), config.PresetNormal)
	m.camera.Center = grid.At(2, 2)
	credits := m.world.Credits()

	m, _ = press(t, m, runeKey('a'))
	if len(m.world.Towers()) != 1 {
		t.Fatalf("Towers() = %d after place, expected 1 (status %q)", len(m.world.Towers()), m.status)
	}
	m, _ = press(t, m, runeKey('x'))
	if len(m.world.Towers()) != 0 {
		t.Errorf("Towers() = %d after sell, expected 0", len(m.world.Towers()))
	}
	if m.world.Credits() >= credits {
		t.Errorf("Credits() = %d, expected less than %d after a refund", m.world.Credits(), credits)
	}
}

func TestModelView(t *testing.T) {
	m := NewModel(newWorld(t), nil, core.DefaultConfig(), config.PresetDense)
	view := m.View()
	for _, want := range []string{"R I F T L A N E", "dense", "wave 0", glyphCore.text} {
		if !strings.Contains(view, want) {
			t.Errorf("View() is missing %q", want)
		}
	}
}

func TestTowerNear(t *testing.T) {
	towers := []sim.Tower{
		{ID: 1, Cell: grid.At(5, 5)},
		{ID: 2, Cell: grid.At(1, 0)},
	}
	if tw, ok := towerNear(towers, grid.At(0, 0)); !ok || tw.ID != 2 {
		t.Errorf("towerNear((0,0)) = %d, %v, expected tower 2", tw.ID, ok)
	}
	if _, ok := towerNear(towers, grid.At(-10, -10)); ok {
		t.Error("towerNear() should not match distant towers")
	}
}

func TestSessionFlow(t *testing.T) {
	factory := func(preset config.Preset) *sim.World {
		cfg := config.DefaultRiftConfig()
		config.ApplyPreset(&cfg, preset)
		return sim.New(sim.Options{Config: cfg, Seed: 3})
	}
	var m tea.Model = NewSessionModel(nil, core.DefaultConfig(), factory)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if s := m.(SessionModel); s.screen != screenViewer || len(s.viewer.world.Paths()) != 1 {
		t.Fatalf("enter should open the viewer with its first corridor")
	}

	m, _ = m.Update(runeKey('b'))
	if m.(SessionModel).screen != screenMenu {
		t.Fatal("back should return to the menu")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.(SessionModel).screen != screenRuns {
		t.Fatal("tab should open saved runs")
	}

	m, cmd := m.Update(runeKey('q'))
	if !m.(SessionModel).quitting || cmd == nil {
		t.Error("q should end the session")
	}
}

func TestRunRows(t *testing.T) {
	rows := RunRows([]storage.Run{{ID: 4, Preset: "sparse", Seed: 99, Wave: 12, Corridors: 5, Expected: 6, Direct: 2, Merged: 3}})
	if len(rows) != 1 {
		t.Fatalf("RunRows() = %d rows, expected 1", len(rows))
	}
	expected := []string{"#4", "sparse", "99", "12", "5/6", "2/3"}
	for i, want := range expected {
		if rows[0][i] != want {
			t.Errorf("column %d = %q, expected %q", i, rows[0][i], want)
		}
	}
}

func TestCorridorLine(t *testing.T) {
	c := storage.Corridor{Index: 2, Zone: 1, Tier: 2, Junction: 4, Mutation: "swift", Cells: make([]grid.Cell, 9)}
	if got := CorridorLine(c); got != " 2 z1 t2   9 merge@4 swift" {
		t.Errorf("CorridorLine() = %q", got)
	}
}
