package config

// Schedule calculates how many corridors the map should hold at a wave.
type Schedule struct {
	cfg ScheduleConfig
}

// NewSchedule creates a new wave schedule.
func NewSchedule(cfg ScheduleConfig) *Schedule {
	if cfg.EarlyEvery <= 0 {
		cfg.EarlyEvery = 1
	}
	if cfg.LateEvery <= 0 {
		cfg.LateEvery = 1
	}
	if cfg.Initial < 1 {
		cfg.Initial = 1
	}
	return &Schedule{cfg: cfg}
}

// ExpectedCorridors returns the corridor count wanted at the given wave:
// the initial corridor, one more every EarlyEvery waves up to EarlyUntil,
// then one every LateEvery waves.
func (s *Schedule) ExpectedCorridors(wave int) int {
	if wave < 0 {
		wave = 0
	}
	early := min(wave, s.cfg.EarlyUntil)
	late := max(0, wave-s.cfg.EarlyUntil)
	return s.cfg.Initial + early/s.cfg.EarlyEvery + late/s.cfg.LateEvery
}

// Eligible returns the mutation profiles that may roll at the given wave.
func Eligible(mutations []MutationConfig, wave int) []MutationConfig {
	var out []MutationConfig
	for _, m := range mutations {
		if wave >= m.MinWave && m.Chance > 0 {
			out = append(out, m)
		}
	}
	return out
}
