package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpectedCorridors(t *testing.T) {
	s := NewSchedule(DefaultRiftConfig().Schedule)

	tests := []struct {
		wave     int
		expected int
	}{
		{0, 1},
		{9, 1},
		{10, 2},
		{49, 5},
		{50, 6},
		{54, 6},
		{55, 7},
		{60, 8},
		{100, 16},
		{-3, 1},
	}

	for _, tc := range tests {
		if got := s.ExpectedCorridors(tc.wave); got != tc.expected {
			t.Errorf("ExpectedCorridors(%d) = %d, expected %d", tc.wave, got, tc.expected)
		}
	}
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(GetDefaultYAML())
	if err != nil {
		t.Fatalf("Parse(embedded) failed: %v", err)
	}
	def := DefaultRiftConfig()

	if cfg.Grid != def.Grid {
		t.Errorf("grid = %+v, expected %+v", cfg.Grid, def.Grid)
	}
	if cfg.Zones != def.Zones {
		t.Errorf("zones = %+v, expected %+v", cfg.Zones, def.Zones)
	}
	if cfg.Pathfinder != def.Pathfinder {
		t.Errorf("pathfinder = %+v, expected %+v", cfg.Pathfinder, def.Pathfinder)
	}
	if cfg.Planner != def.Planner {
		t.Errorf("planner = %+v, expected %+v", cfg.Planner, def.Planner)
	}
	if cfg.Towers != def.Towers {
		t.Errorf("towers = %+v, expected %+v", cfg.Towers, def.Towers)
	}
	if len(cfg.Hardpoints.Micro) != len(def.Hardpoints.Micro) {
		t.Errorf("micro rings = %d, expected %d", len(cfg.Hardpoints.Micro), len(def.Hardpoints.Micro))
	}
	if len(cfg.Mutations) != len(def.Mutations) {
		t.Errorf("mutations = %d, expected %d", len(cfg.Mutations), len(def.Mutations))
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	data := []byte("zones:\n  protected_radius: 4\n  inner_radius: 6\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Zones.ProtectedRadius != 4 {
		t.Errorf("protected_radius = %v, expected 4", cfg.Zones.ProtectedRadius)
	}
	// Keys absent from the file keep their defaults
	if cfg.Zones.Width != DefaultRiftConfig().Zones.Width {
		t.Errorf("width = %v, expected default %v", cfg.Zones.Width, DefaultRiftConfig().Zones.Width)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing custom path should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("zones:\n  inner_radius: 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should reject inner_radius below protected_radius")
	}
}

func TestApplyPreset(t *testing.T) {
	base := DefaultRiftConfig()

	dense := DefaultRiftConfig()
	ApplyPreset(&dense, PresetDense)
	if dense.Zones.Density <= base.Zones.Density {
		t.Errorf("dense density = %v, expected more than %v", dense.Zones.Density, base.Zones.Density)
	}

	sparse := DefaultRiftConfig()
	ApplyPreset(&sparse, PresetSparse)
	if sparse.Planner.BaseSpacing <= base.Planner.BaseSpacing {
		t.Errorf("sparse spacing = %v, expected more than %v", sparse.Planner.BaseSpacing, base.Planner.BaseSpacing)
	}

	normal := DefaultRiftConfig()
	ApplyPreset(&normal, PresetNormal)
	if normal.Zones != base.Zones || normal.Planner != base.Planner {
		t.Error("normal preset should leave the config untouched")
	}
}

func TestEligible(t *testing.T) {
	muts := DefaultRiftConfig().Mutations
	if got := Eligible(muts, 10); len(got) != 0 {
		t.Errorf("Eligible(wave 10) = %d profiles, expected 0", len(got))
	}
	if got := Eligible(muts, 30); len(got) != 2 {
		t.Errorf("Eligible(wave 30) = %d profiles, expected 2", len(got))
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		name     string
		expected Preset
		wantErr  bool
	}{
		{"", PresetNormal, false},
		{"dense", PresetDense, false},
		{"frantic", PresetFrantic, false},
		{"Dense", "", true},
		{"hard", "", true},
	}
	for _, tc := range tests {
		got, err := ParsePreset(tc.name)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParsePreset(%q) error = %v, wantErr %v", tc.name, err, tc.wantErr)
			continue
		}
		if got != tc.expected {
			t.Errorf("ParsePreset(%q) = %q, expected %q", tc.name, got, tc.expected)
		}
	}
}
