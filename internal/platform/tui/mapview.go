package tui

import (
	"github.com/vovakirdan/riftlane/internal/core"
	"github.com/vovakirdan/riftlane/internal/grid"
	"github.com/vovakirdan/riftlane/internal/hardpoint"
	"github.com/vovakirdan/riftlane/internal/sim"
)

// cellWidth is the number of screen columns one map cell occupies.
const cellWidth = 2

// glyph is how a single map cell is drawn.
type glyph struct {
	text  string
	color core.Color
}

var (
	glyphEmpty     = glyph{". ", core.ColorGray}
	glyphCore      = glyph{"[]", core.ColorBrightRed}
	glyphTower     = glyph{"TT", core.ColorBrightCyan}
	glyphAnchored  = glyph{"T+", core.ColorBrightCyan}
	glyphSpawn     = glyph{"<>", core.ColorBrightYellow}
	glyphJunction  = glyph{"++", core.ColorMagenta}
	glyphCoreHP    = glyph{"()", core.ColorGreen}
	glyphMicroHP   = glyph{"o ", core.ColorBlue}
	glyphMutated   = glyph{"~~", core.ColorYellow}
	corridorGlyphs = []glyph{
		{"::", core.ColorOrange},
		{"==", core.ColorRed},
		{"##", core.ColorBrightRed},
	}
)

// corridorGlyph returns the glyph for a corridor cell of the given tier.
func corridorGlyph(tier int) glyph {
	i := core.Clamp(tier-1, 0, len(corridorGlyphs)-1)
	return corridorGlyphs[i]
}

// Camera tracks which map cell sits at the center of the map area.
type Camera struct {
	Center grid.Cell
}

// Pan moves the camera by the given number of cells.
func (c *Camera) Pan(dc, dr int) {
	c.Center = c.Center.Add(dc, dr)
}

// VisibleBounds returns the cells that fit in a screen area around the camera.
func (c Camera) VisibleBounds(area core.Rect) grid.Bounds {
	return grid.BoundsAround(c.Center, max(1, area.W/cellWidth), max(1, area.H))
}

// layers resolves the top glyph of every non-empty cell. Later writes win,
// so the order below is lowest priority first.
func layers(w *sim.World) map[grid.Cell]glyph {
	out := make(map[grid.Cell]glyph)

	for _, hp := range w.Hardpoints() {
		if hp.Kind == hardpoint.KindCore {
			out[hp.Cell] = glyphCoreHP
		} else {
			out[hp.Cell] = glyphMicroHP
		}
	}
	for _, p := range w.Paths() {
		g := corridorGlyph(p.Tier)
		if p.Mutation != nil {
			g = glyphMutated
		}
		for i, c := range p.Cells {
			// Shared tails keep the glyph of the corridor that laid them.
			if p.Junction >= 0 && i > p.Junction {
				break
			}
			out[c] = g
		}
	}
	for _, p := range w.Paths() {
		if p.Junction >= 0 {
			out[p.Cells[p.Junction]] = glyphJunction
		}
	}
	for _, p := range w.Paths() {
		out[p.Spawn()] = glyphSpawn
	}
	for _, t := range w.Towers() {
		if t.Anchored() {
			out[t.Cell] = glyphAnchored
		} else {
			out[t.Cell] = glyphTower
		}
	}
	out[w.Core()] = glyphCore
	return out
}

// DrawMap draws the part of the world visible through the camera into area.
// Cells outside the world bounds are left blank.
func DrawMap(s *core.Screen, area core.Rect, w *sim.World, cam Camera) {
	view := cam.VisibleBounds(area)
	bounds := w.Grid().Bounds()
	top := layers(w)

	for r := view.MinR; r < view.MaxR; r++ {
		y := area.Y + (r - view.MinR)
		for c := view.MinC; c < view.MaxC; c++ {
			x := area.X + (c-view.MinC)*cellWidth
			if x+cellWidth > area.Right() {
				break
			}
			cell := grid.At(c, r)
			if !bounds.Contains(cell) {
				continue
			}
			g, ok := top[cell]
			if !ok {
				g = glyphEmpty
			}
			s.DrawTextColor(x, y, g.text, g.color)
		}
	}
}

// PlainMap renders the whole world without styling, one row per line.
func PlainMap(w *sim.World) string {
	b := w.Grid().Bounds()
	area := core.NewRect(0, 0, b.Cols()*cellWidth, b.Rows())
	s := core.NewScreen(area.W, area.H)

	// Center the camera so BoundsAround reproduces the world bounds exactly.
	cam := Camera{Center: grid.At(b.MinC+b.Cols()/2, b.MinR+b.Rows()/2)}
	DrawMap(s, area, w, cam)
	return s.String()
}
