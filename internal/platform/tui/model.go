package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/riftlane/internal/config"
	"github.com/vovakirdan/riftlane/internal/core"
	"github.com/vovakirdan/riftlane/internal/grid"
	"github.com/vovakirdan/riftlane/internal/sim"
	"github.com/vovakirdan/riftlane/internal/storage"
)

// panStep is how many cells one pan key press moves the camera.
const panStep = 4

// hudLines is the number of status rows under the map box.
const hudLines = 2

// Model is the Bubble Tea model for watching a rift map grow.
type Model struct {
	world      *sim.World
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	preset     config.Preset
	keys       ViewerKeyMap
	help       help.Model
	camera     Camera
	ticks      int
	paused     bool
	status     string
	statusErr  bool
	saved      bool
	inSession  bool // Back returns to the session menu instead of quitting
	quitting   bool
	backToMenu bool
}

// NewModel creates a viewer for the given world and places its first corridor.
func NewModel(world *sim.World, store *storage.Store, cfg core.RuntimeConfig, preset config.Preset) Model {
	m := Model{
		world:  world,
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:  store,
		config: cfg,
		preset: preset,
		keys:   DefaultViewerKeyMap(),
		help:   help.New(),
		camera: Camera{Center: world.Core()},
	}
	m.help.Width = cfg.ScreenW

	if err := world.CalculatePath(); err != nil {
		m.setError(err)
	} else {
		m.setStatus(fmt.Sprintf("seed %d", world.Seed()))
	}
	m.layout()
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.saveRun()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.saveRun()
		if m.inSession {
			m.backToMenu = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused

	case key.Matches(msg, m.keys.NextWave):
		m.advance()

	case key.Matches(msg, m.keys.Force):
		if p, err := m.world.ForceGenerate(); err != nil {
			m.setError(err)
		} else {
			m.setStatus(fmt.Sprintf("forced corridor in zone %d", p.Zone))
		}

	case key.Matches(msg, m.keys.Rebuild):
		if err := m.world.RebuildAll(m.world.Wave()); err != nil {
			m.setError(err)
		} else {
			m.setStatus(fmt.Sprintf("rebuilt %d corridors", len(m.world.Paths())))
		}

	case key.Matches(msg, m.keys.Promote):
		newest := len(m.world.Paths()) - 1
		if err := m.world.PromoteTier(newest); err != nil {
			m.setError(err)
		} else {
			m.setStatus(fmt.Sprintf("corridor %d promoted to tier %d", newest, m.world.Paths()[newest].Tier))
		}

	case key.Matches(msg, m.keys.Place):
		if t, err := m.world.PlaceTower(m.camera.Center, 0); err != nil {
			m.setError(err)
		} else {
			m.setStatus(fmt.Sprintf("tower %d placed at %s", t.ID, t.Cell))
		}

	case key.Matches(msg, m.keys.Sell):
		t, ok := towerNear(m.world.Towers(), m.camera.Center)
		if !ok {
			m.setError(sim.ErrNoSuchTower)
			break
		}
		if refund, err := m.world.SellTower(t.ID); err != nil {
			m.setError(err)
		} else {
			m.setStatus(fmt.Sprintf("tower %d sold for %d", t.ID, refund))
		}

	case key.Matches(msg, m.keys.Up):
		m.pan(0, -panStep)
	case key.Matches(msg, m.keys.Down):
		m.pan(0, panStep)
	case key.Matches(msg, m.keys.Left):
		m.pan(-panStep, 0)
	case key.Matches(msg, m.keys.Right):
		m.pan(panStep, 0)
	case key.Matches(msg, m.keys.Center):
		m.camera.Center = m.world.Core()
		m.syncViewport()

	case key.Matches(msg, m.keys.Save):
		m.saved = false
		m.saveRun()

	case key.Matches(msg, m.keys.Snapshot):
		m.saveScreenshot()
	}

	return m, nil
}

// handleTick advances the wave clock unless paused.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if !m.paused {
		m.ticks++
		if m.config.WaveStep > 0 && m.ticks%m.config.WaveStep == 0 {
			m.advance()
		}
	}
	return m, tickCmd(m.config.TickRate)
}

// advance moves to the next wave and lets the map catch up with the schedule.
func (m *Model) advance() {
	wave := m.world.Wave() + 1
	added, err := m.world.Tick(wave)
	switch {
	case err != nil:
		m.setError(err)
	case added > 0:
		m.setStatus(fmt.Sprintf("wave %d: %d new corridor(s)", wave, added))
	}
	m.saved = false
}

func (m *Model) pan(dc, dr int) {
	m.camera.Pan(dc, dr)
	m.syncViewport()
}

// layout sizes the screen buffer to the space left above the help bar.
func (m *Model) layout() {
	helpHeight := lipgloss.Height(m.help.View(m.keys))
	m.screen.Resize(m.config.ScreenW, max(0, m.config.ScreenH-helpHeight))
	m.syncViewport()
}

func (m *Model) mapBox() core.Rect {
	b := m.screen.Bounds()
	return core.NewRect(b.X, b.Y+1, b.W, max(0, b.H-1-hudLines))
}

// syncViewport tells the world which cells are on screen so it can grow.
func (m *Model) syncViewport() {
	area := m.mapBox().Inset(1)
	if area.W <= 0 || area.H <= 0 {
		return
	}
	m.world.SetViewport(m.camera.VisibleBounds(area))
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

// saveRun archives the map once per change. Storage is optional.
func (m *Model) saveRun() {
	if m.store == nil || m.saved || len(m.world.Paths()) == 0 {
		return
	}
	id, err := m.store.SaveWorld(m.world, string(m.preset))
	if err != nil {
		m.setError(err)
		return
	}
	m.saved = true
	m.setStatus(fmt.Sprintf("saved run #%d", id))
}

// saveScreenshot writes the current map as plain text.
func (m *Model) saveScreenshot() {
	m.draw()

	dir := filepath.Join(os.Getenv("HOME"), ".riftlane", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.setError(err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("rift_%d_w%d_%s.txt", m.world.Seed(), m.world.Wave(), timestamp)
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.setError(err)
		return
	}
	m.setStatus("screenshot " + path)
}

// draw renders the title, the map and the HUD into the screen buffer.
func (m Model) draw() {
	s := m.screen
	s.Clear()

	title := " R I F T L A N E "
	if m.preset != "" {
		title += "- " + string(m.preset) + " "
	}
	s.DrawTextColor(max(0, (s.Width()-len(title))/2), 0, title, core.ColorBrightYellow)

	box := m.mapBox()
	s.DrawBox(box, core.ColorGray)
	area := box.Inset(1)
	DrawMap(s, area, m.world, m.camera)
	m.drawCursor(area)

	sum := m.world.Summary()
	hud := fmt.Sprintf("wave %d  corridors %d/%d (direct %d, merged %d, mutated %d)  towers %d  credits %d  map %dx%d",
		sum.Wave, sum.Corridors, sum.Expected, sum.Direct, sum.Merged, sum.Mutated,
		sum.Towers, sum.Credits, sum.Cols, sum.Rows)
	y := box.Bottom()
	s.DrawText(1, y, hud)

	flags := ""
	if m.paused {
		flags += "[PAUSED] "
	}
	if m.world.Aggressive() {
		flags += "[AGGRESSIVE] "
	}
	s.DrawTextColor(1, y+1, flags, core.ColorYellow)
	color := core.ColorDefault
	if m.statusErr {
		color = core.ColorRed
	}
	s.DrawTextColor(1+len(flags), y+1, m.status, color)
}

// drawCursor marks the camera center, where towers are placed.
func (m Model) drawCursor(area core.Rect) {
	x := area.X + (area.W/cellWidth/2)*cellWidth
	y := area.Y + area.H/2
	if !area.Contains(x, y) || m.camera.Center == m.world.Core() {
		return
	}
	m.screen.DrawTextColor(x, y, "{}", core.ColorCyan)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	m.draw()
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// towerNear finds the tower closest to c within two cells.
func towerNear(towers []sim.Tower, c grid.Cell) (sim.Tower, bool) {
	var best sim.Tower
	bestDist := 3
	for _, t := range towers {
		if d := t.Cell.Manhattan(c); d < bestDist {
			best, bestDist = t, d
		}
	}
	return best, bestDist < 3
}

// Run starts the viewer as a standalone Bubble Tea program.
func Run(world *sim.World, store *storage.Store, cfg core.RuntimeConfig, preset config.Preset) error {
	model := NewModel(world, store, cfg, preset)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
