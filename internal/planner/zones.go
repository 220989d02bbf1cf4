package planner

import (
	"math"
	"sort"
)

// Capacity returns how many corridors zone z nominally holds.
func (p *Planner) Capacity(z int) int {
	return int(math.Round(2 * float64(z*z) * p.cfg.Zones.Density))
}

// ZoneInner returns the inner radius of zone z in cells.
func (p *Planner) ZoneInner(z int) float64 {
	return p.cfg.Zones.InnerRadius + float64(z-1)*p.cfg.Zones.Width
}

// ZoneOuter returns the outer radius of zone z in cells.
func (p *Planner) ZoneOuter(z int) float64 {
	return p.cfg.Zones.InnerRadius + float64(z)*p.cfg.Zones.Width
}

// TargetZone walks zones outward accumulating capacity until the load
// target fits.
func (p *Planner) TargetZone(target int) int {
	cum := 0
	for z := 1; z <= p.cfg.Zones.MaxZones; z++ {
		cum += p.Capacity(z)
		if cum >= target {
			return z
		}
	}
	return p.cfg.Zones.MaxZones
}

// LoadTarget is the corridor count the map should reach with the next
// placement: the schedule for the wave, and never less than one more than
// what already exists.
func (p *Planner) LoadTarget(wave, existing int) int {
	return max(p.schedule.ExpectedCorridors(wave), existing+1)
}

// Desired returns the wanted corridor count per zone, indexed by zone
// number (index 0 unused). The target is spread over zones 1..tz in
// proportion to capacity; once the target reaches InnerFloorMin, zones 1-3
// are kept from going empty.
func (p *Planner) Desired(target, tz int) []int {
	desired := make([]int, tz+1)
	total := 0
	for z := 1; z <= tz; z++ {
		total += p.Capacity(z)
	}
	if total > 0 {
		for z := 1; z <= tz; z++ {
			desired[z] = int(math.Round(float64(target) * float64(p.Capacity(z)) / float64(total)))
		}
	}
	if target >= p.cfg.Zones.InnerFloorMin {
		for z := 1; z <= min(3, tz); z++ {
			desired[z] = max(desired[z], 1)
		}
	}
	return desired
}

// OrderZones returns the zones to try, most wanted first. The zone furthest
// below its desired count goes first; the rest are ranked by closeness to
// the target zone, deficit, a slight inner bias and jitter.
func (p *Planner) OrderZones(tz int, desired []int, occupancy map[int]int) []int {
	last := min(tz+1, p.cfg.Zones.MaxZones)
	deficit := func(z int) int {
		if z < len(desired) {
			return desired[z] - occupancy[z]
		}
		return -occupancy[z]
	}

	forced := 0
	worst := 0
	for z := 1; z <= last; z++ {
		if d := deficit(z); d > worst {
			forced, worst = z, d
		}
	}

	type scored struct {
		zone  int
		score float64
	}
	pc := p.cfg.Planner
	var rest []scored
	for z := 1; z <= last; z++ {
		if z == forced {
			continue
		}
		s := -math.Abs(float64(z-tz))*pc.ZoneDistWeight +
			float64(max(0, deficit(z)))*pc.DeficitBonus +
			pc.InnerBias/float64(z) +
			p.rng.Float64()*pc.ZoneJitter
		rest = append(rest, scored{zone: z, score: s})
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].score > rest[j].score
	})

	order := make([]int, 0, last)
	if forced > 0 {
		order = append(order, forced)
	}
	for _, s := range rest {
		order = append(order, s.zone)
	}
	return order
}

// hasRoom reports whether zone z may take another corridor. Capacity is a
// soft cap that widens with each relax level and vanishes in aggressive mode.
func (p *Planner) hasRoom(z, occupied, relax int, aggressive bool) bool {
	if aggressive {
		return true
	}
	limit := float64(p.Capacity(z)) * (1 + p.cfg.Planner.CapacityRelax*float64(relax))
	return float64(occupied) < limit
}
