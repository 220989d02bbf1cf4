// Package sector partitions the angle around the core into gap sectors, the
// wedges between adjacent core hardpoints through which corridors enter the
// protected core radius.
package sector

import (
	"math"
	"sort"

	"github.com/vovakirdan/riftlane/internal/grid"
)

// Sector is one angular wedge [Start, End). Both angles are normalized, so
// the sector that wraps through angle zero has Start > End.
type Sector struct {
	Index  int
	Start  float64
	End    float64
	Center float64
}

// Wraps reports whether the sector crosses angle zero.
func (s Sector) Wraps() bool {
	return s.Start > s.End
}

// Width returns the angular size of the sector.
func (s Sector) Width() float64 {
	if s.Wraps() {
		return s.End + 2*math.Pi - s.Start
	}
	return s.End - s.Start
}

// Contains reports whether the normalized angle lies in the sector.
func (s Sector) Contains(a float64) bool {
	if s.Wraps() {
		return a >= s.Start || a < s.End
	}
	return a >= s.Start && a < s.End
}

// Set is the sector partition around one core.
type Set struct {
	center          grid.Cell
	protectedRadius float64
	sectors         []Sector
}

// Compute builds sectors from the core hardpoint cells. Fewer than two
// anchors yield an empty set, which disables every gap rule.
func Compute(anchors []grid.Cell, center grid.Cell, protectedRadius float64) *Set {
	s := &Set{center: center, protectedRadius: protectedRadius}
	if len(anchors) < 2 {
		return s
	}

	angles := make([]float64, 0, len(anchors))
	for _, a := range anchors {
		angles = append(angles, a.Angle(center))
	}
	sort.Float64s(angles)

	for i, start := range angles {
		sec := Sector{Index: i, Start: start, End: angles[(i+1)%len(angles)]}
		sec.Center = grid.NormalizeAngle(start + sec.Width()/2)
		s.sectors = append(s.sectors, sec)
	}
	return s
}

// Len returns the number of sectors.
func (s *Set) Len() int {
	return len(s.sectors)
}

// Active reports whether gap rules apply.
func (s *Set) Active() bool {
	return len(s.sectors) > 0
}

// Sectors returns the sectors in index order.
func (s *Set) Sectors() []Sector {
	return s.sectors
}

// Sector returns the sector with the given index.
func (s *Set) Sector(i int) Sector {
	return s.sectors[i]
}

// ClassifyCell returns the sector index containing the cell. The center cell
// and an inactive set classify to -1 and false.
func (s *Set) ClassifyCell(c grid.Cell) (int, bool) {
	if !s.Active() || c == s.center {
		return -1, false
	}
	a := c.Angle(s.center)
	for _, sec := range s.sectors {
		if sec.Contains(a) {
			return sec.Index, true
		}
	}
	// Floating point left a sliver between sectors
	return 0, true
}

// Inside reports whether the cell lies within the protected radius.
func (s *Set) Inside(c grid.Cell) bool {
	return c.Dist(s.center) < s.protectedRadius
}

// ClassifyEntry returns the sector a corridor enters the protected radius
// through: the last cell before its first outside-to-inside transition.
// Corridors without such a transition classify their second-to-last cell.
func (s *Set) ClassifyEntry(cells []grid.Cell) (int, bool) {
	if !s.Active() || len(cells) == 0 {
		return -1, false
	}
	for i := 0; i+1 < len(cells); i++ {
		if !s.Inside(cells[i]) && s.Inside(cells[i+1]) {
			return s.ClassifyCell(cells[i])
		}
	}
	if len(cells) < 2 {
		return s.ClassifyCell(cells[0])
	}
	return s.ClassifyCell(cells[len(cells)-2])
}

// AngularDistance returns the smallest absolute difference between two angles.
func AngularDistance(a, b float64) float64 {
	d := math.Abs(grid.NormalizeAngle(a) - grid.NormalizeAngle(b))
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}
