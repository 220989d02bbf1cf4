// Package config provides YAML-based rule tables for the rift engine and
// the wave schedule that drives how many corridors the map should hold.
package config

import "fmt"

// RiftConfig contains every tunable rule table of the engine.
type RiftConfig struct {
	Grid       GridConfig       `yaml:"grid"`
	Hardpoints HardpointConfig  `yaml:"hardpoints"`
	Pathfinder PathfinderConfig `yaml:"pathfinder"`
	Zones      ZoneConfig       `yaml:"zones"`
	Planner    PlannerConfig    `yaml:"planner"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Towers     TowerConfig      `yaml:"towers"`
	Mutations  []MutationConfig `yaml:"mutations"`
}

// GridConfig defines the cell lattice and initial world size.
type GridConfig struct {
	CellSize    float64 `yaml:"cell_size"`    // World units per cell edge
	InitialCols int     `yaml:"initial_cols"` // Initial bounds, centered on the core
	InitialRows int     `yaml:"initial_rows"`
	Margin      int     `yaml:"margin"` // Cells kept free around viewport and content
}

// HardpointConfig defines the anchor rings around the core.
type HardpointConfig struct {
	Core  RingConfig   `yaml:"core"`
	Micro []RingConfig `yaml:"micro"`
	// Buffer is the minimum distance in cells between a spawn or merge
	// junction and any hardpoint.
	Buffer float64 `yaml:"buffer"`
	// SnapRadius is how far (in cells) a tower may be from a hardpoint and
	// still anchor to it.
	SnapRadius float64           `yaml:"snap_radius"`
	Rules      HardpointRuleSets `yaml:"rules"`
}

// RingConfig defines one ring of hardpoints.
type RingConfig struct {
	Count       int     `yaml:"count"`
	Radius      float64 `yaml:"radius"`       // Cells
	AngleOffset float64 `yaml:"angle_offset"` // Degrees
}

// HardpointRuleSets holds the tower bonus table per hardpoint kind.
type HardpointRuleSets struct {
	Core  HardpointRules `yaml:"core"`
	Micro HardpointRules `yaml:"micro"`
}

// HardpointRules are the multipliers an anchored tower receives.
type HardpointRules struct {
	Damage   float64 `yaml:"damage"`
	Range    float64 `yaml:"range"`
	Cooldown float64 `yaml:"cooldown"`
}

// PathfinderConfig defines the A* cost model.
type PathfinderConfig struct {
	TurnPenalty       float64 `yaml:"turn_penalty"`
	TurnBoostMax      float64 `yaml:"turn_boost_max"`    // Extra turn cost right next to the core
	TurnBoostRadius   float64 `yaml:"turn_boost_radius"` // Cells over which the boost falls off
	RepulsionRadius   float64 `yaml:"repulsion_radius"`  // Cells
	RepulsionStrength float64 `yaml:"repulsion_strength"`
}

// ZoneConfig defines the radial zone model.
type ZoneConfig struct {
	// ProtectedRadius is the core radius a corridor may never leave once entered.
	ProtectedRadius float64 `yaml:"protected_radius"`
	InnerRadius     float64 `yaml:"inner_radius"` // Inner edge of zone 1, cells
	Width           float64 `yaml:"width"`        // Band width per zone, cells
	Density         float64 `yaml:"density"`      // Capacity is round(2*z*z*density)
	MaxZones        int     `yaml:"max_zones"`
	// InnerFloorMin is the corridor target above which zones 1-3 are
	// guaranteed at least one corridor each.
	InnerFloorMin int `yaml:"inner_floor_min"`
}

// PlannerConfig defines sampling, merge and relaxation limits.
type PlannerConfig struct {
	ZoneTries       int     `yaml:"zone_tries"`
	SampleAttempts  int     `yaml:"sample_attempts"`
	SampleKeep      int     `yaml:"sample_keep"`
	PickPower       float64 `yaml:"pick_power"`
	BaseSpacing     float64 `yaml:"base_spacing"`
	MinSpacing      float64 `yaml:"min_spacing"`
	SpacingPerWave  float64 `yaml:"spacing_per_wave"`
	SpacingPerRelax float64 `yaml:"spacing_per_relax"`
	CapacityRelax   float64 `yaml:"capacity_relax"` // Extra capacity fraction per relax level

	DirectBase       float64 `yaml:"direct_base"`        // 0.5 / z^2 numerator
	DirectMax        float64 `yaml:"direct_max"`         // Cap on direct probability
	GapCoverageBonus float64 `yaml:"gap_coverage_bonus"` // Scaled by fraction of unused gaps

	MergeMinStartDist float64 `yaml:"merge_min_start_dist"`
	MergeMinCoreDist  float64 `yaml:"merge_min_core_dist"`
	MergeAttempts     int     `yaml:"merge_attempts"`
	MergeGapBonus     float64 `yaml:"merge_gap_bonus"`
	MergeJitter       float64 `yaml:"merge_jitter"`

	ApproachSearch int `yaml:"approach_search"` // Radius searched for an open approach cell

	ZoneDistWeight float64 `yaml:"zone_dist_weight"`
	DeficitBonus   float64 `yaml:"deficit_bonus"`
	InnerBias      float64 `yaml:"inner_bias"`
	ZoneJitter     float64 `yaml:"zone_jitter"`

	AggressiveScale float64 `yaml:"aggressive_scale"` // Multiplies spacing in aggressive mode
	AggressiveAfter int     `yaml:"aggressive_after"` // Failure streak that enables aggressive mode
	MaxPerTick      int     `yaml:"max_per_tick"`
}

// ScheduleConfig defines the expected corridor count per wave.
type ScheduleConfig struct {
	Initial    int `yaml:"initial"`
	EarlyEvery int `yaml:"early_every"` // One corridor per this many waves...
	EarlyUntil int `yaml:"early_until"` // ...up to this wave
	LateEvery  int `yaml:"late_every"`  // Then one per this many waves
}

// TowerConfig defines tower bookkeeping rules.
type TowerConfig struct {
	StartCredits int     `yaml:"start_credits"`
	Cost         int     `yaml:"cost"`         // Default placement cost
	RefundRatio  float64 `yaml:"refund_ratio"` // Share of cost returned when a corridor clears a tower
	MaxTier      int     `yaml:"max_tier"`     // Highest corridor tier reachable by promotion
}

// MutationConfig defines a mutation profile a new corridor may roll.
type MutationConfig struct {
	Name        string  `yaml:"name"`
	MinWave     int     `yaml:"min_wave"`
	Chance      float64 `yaml:"chance"`
	SpeedScale  float64 `yaml:"speed_scale"`
	HealthScale float64 `yaml:"health_scale"`
}

// Preset represents a named map density.
type Preset string

const (
	PresetSparse  Preset = "sparse"
	PresetNormal  Preset = "normal"
	PresetDense   Preset = "dense"
	PresetFrantic Preset = "frantic"
)

// ApplyPreset modifies the config based on a density preset.
// Unknown or empty presets leave the config untouched.
func ApplyPreset(cfg *RiftConfig, preset Preset) {
	switch preset {
	case PresetSparse:
		cfg.Zones.Density *= 0.7
		cfg.Planner.BaseSpacing += 1.5
	case PresetDense:
		cfg.Zones.Density *= 1.4
		cfg.Planner.BaseSpacing = max(cfg.Planner.MinSpacing, cfg.Planner.BaseSpacing-1)
	case PresetFrantic:
		cfg.Zones.Density *= 1.8
		cfg.Planner.BaseSpacing = cfg.Planner.MinSpacing
		cfg.Schedule.LateEvery = max(1, cfg.Schedule.LateEvery-2)
		cfg.Schedule.EarlyEvery = max(1, cfg.Schedule.EarlyEvery/2)
	}
}

// Presets lists the known presets in display order.
var Presets = []Preset{PresetNormal, PresetSparse, PresetDense, PresetFrantic}

// ParsePreset resolves a preset name. The empty string means normal.
func ParsePreset(name string) (Preset, error) {
	if name == "" {
		return PresetNormal, nil
	}
	for _, p := range Presets {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown preset %q (want sparse, normal, dense or frantic)", name)
}
