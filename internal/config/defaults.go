package config

import (
	_ "embed"
)

//go:embed defaults/rift.yaml
var defaultRiftYAML []byte

// DefaultRiftConfig returns the default rule tables.
func DefaultRiftConfig() RiftConfig {
	return RiftConfig{
		Grid: GridConfig{
			CellSize:    40,
			InitialCols: 41,
			InitialRows: 41,
			Margin:      4,
		},
		Hardpoints: HardpointConfig{
			Core: RingConfig{Count: 4, Radius: 3, AngleOffset: 45},
			Micro: []RingConfig{
				{Count: 8, Radius: 9, AngleOffset: 22.5},
				{Count: 12, Radius: 15, AngleOffset: 15},
			},
			Buffer:     1.5,
			SnapRadius: 0.75,
			Rules: HardpointRuleSets{
				Core:  HardpointRules{Damage: 1.5, Range: 1.25, Cooldown: 0.8},
				Micro: HardpointRules{Damage: 1.2, Range: 1.1, Cooldown: 0.9},
			},
		},
		Pathfinder: PathfinderConfig{
			TurnPenalty:       5,
			TurnBoostMax:      6,
			TurnBoostRadius:   5,
			RepulsionRadius:   5,
			RepulsionStrength: 4,
		},
		Zones: ZoneConfig{
			ProtectedRadius: 6,
			InnerRadius:     8,
			Width:           5,
			Density:         0.5,
			MaxZones:        12,
			InnerFloorMin:   4,
		},
		Planner: PlannerConfig{
			ZoneTries:         4,
			SampleAttempts:    80,
			SampleKeep:        8,
			PickPower:         2,
			BaseSpacing:       4,
			MinSpacing:        1.5,
			SpacingPerWave:    0.02,
			SpacingPerRelax:   1,
			CapacityRelax:     0.5,
			DirectBase:        0.5,
			DirectMax:         0.8,
			GapCoverageBonus:  0.6,
			MergeMinStartDist: 3,
			MergeMinCoreDist:  7,
			MergeAttempts:     6,
			MergeGapBonus:     2,
			MergeJitter:       0.9,
			ApproachSearch:    2,
			ZoneDistWeight:    1,
			DeficitBonus:      1.5,
			InnerBias:         0.5,
			ZoneJitter:        1.5,
			AggressiveScale:   0.6,
			AggressiveAfter:   3,
			MaxPerTick:        2,
		},
		Schedule: ScheduleConfig{
			Initial:    1,
			EarlyEvery: 10,
			EarlyUntil: 50,
			LateEvery:  5,
		},
		Towers: TowerConfig{
			StartCredits: 500,
			Cost:         100,
			RefundRatio:  0.5,
			MaxTier:      3,
		},
		Mutations: []MutationConfig{
			{Name: "swift", MinWave: 15, Chance: 0.15, SpeedScale: 1.3, HealthScale: 0.8},
			{Name: "armored", MinWave: 25, Chance: 0.12, SpeedScale: 0.85, HealthScale: 1.5},
			{Name: "swarm", MinWave: 40, Chance: 0.1, SpeedScale: 1.1, HealthScale: 0.6},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultRiftYAML
}
