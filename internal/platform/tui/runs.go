package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/riftlane/internal/storage"
)

// Runs browser layout constants
const (
	minWidthForSidebar = 100 // Minimum width to show the corridor sidebar
	sidebarWidth       = 34  // Width of the corridor sidebar
	maxRuns            = 100 // Max runs to load
)

// RunsModel is the Bubble Tea model for browsing saved runs.
type RunsModel struct {
	store       *storage.Store
	runs        []storage.Run
	corridors   []storage.Corridor // Corridors of the highlighted run
	table       table.Model
	help        help.Model
	keys        RunsKeyMap
	width       int
	height      int
	err         error
	quitting    bool
	goingBack   bool // True if user pressed back (not quit)
	showSidebar bool
}

// NewRunsModel creates a runs browser over the given store, which may be nil.
func NewRunsModel(store *storage.Store, width, height int) RunsModel {
	m := RunsModel{
		store:       store,
		keys:        DefaultRunsKeyMap(),
		help:        help.New(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.loadRuns()
	return m
}

// runColumns returns the table columns, widening the date to fill space.
func runColumns(tableWidth int) []table.Column {
	columns := []table.Column{
		{Title: "Run", Width: 5},
		{Title: "Preset", Width: 8},
		{Title: "Seed", Width: 20},
		{Title: "Wave", Width: 5},
		{Title: "Lanes", Width: 6},
		{Title: "D/M", Width: 6},
		{Title: "Saved", Width: 12},
	}
	used := 0
	for _, c := range columns[:len(columns)-1] {
		used += c.Width + 2
	}
	if rest := tableWidth - used; rest > columns[len(columns)-1].Width {
		columns[len(columns)-1].Width = min(rest, 18)
	}
	return columns
}

// createTable creates a new table sized for the current window.
func (m *RunsModel) createTable() table.Model {
	tableWidth := m.width - 4
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3
	}

	t := table.New(
		table.WithColumns(runColumns(tableWidth)),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-8)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadRuns reloads the run list from storage.
func (m *RunsModel) loadRuns() {
	m.runs = nil
	m.err = nil
	if m.store != nil {
		m.runs, m.err = m.store.RecentRuns(maxRuns)
	}
	m.table.SetRows(RunRows(m.runs))
	m.table.GotoTop()
	m.loadCorridors()
}

// loadCorridors loads the corridors of the highlighted run.
func (m *RunsModel) loadCorridors() {
	m.corridors = nil
	run, ok := m.current()
	if !ok || m.store == nil {
		return
	}
	corridors, err := m.store.Corridors(run.ID)
	if err != nil {
		m.err = err
		return
	}
	m.corridors = corridors
}

func (m RunsModel) current() (storage.Run, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.runs) {
		return storage.Run{}, false
	}
	return m.runs[i], true
}

// RunRows converts runs to table rows.
func RunRows(runs []storage.Run) []table.Row {
	rows := make([]table.Row, len(runs))
	for i, r := range runs {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", r.ID),
			r.Preset,
			fmt.Sprintf("%d", r.Seed),
			fmt.Sprintf("%d", r.Wave),
			fmt.Sprintf("%d/%d", r.Corridors, r.Expected),
			fmt.Sprintf("%d/%d", r.Direct, r.Merged),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	return rows
}

// Init initializes the runs model.
func (m RunsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the runs browser.
func (m RunsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Delete):
			if run, ok := m.current(); ok && m.store != nil {
				if err := m.store.DeleteRun(run.ID); err != nil {
					m.err = err
					return m, nil
				}
				m.loadRuns()
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			m.loadCorridors()
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.table.SetRows(RunRows(m.runs))
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the runs browser.
func (m RunsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(centerText("SAVED RUNS", m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	tableRendered := tableStyle.Render(m.renderTableContent())

	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tableRendered, "  ", m.renderSidebar()))
	} else {
		b.WriteString(centerText(tableRendered, m.width))
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(m.err.Error()))
		b.WriteString("\n")
	}
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderSidebar lists the corridors of the highlighted run.
func (m RunsModel) renderSidebar() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sb strings.Builder
	sb.WriteString("Corridors\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")
	for _, c := range m.corridors {
		sb.WriteString(CorridorLine(c))
		sb.WriteString("\n")
	}
	return sidebarStyle.Render(sb.String())
}

// CorridorLine is a one-line digest of a stored corridor.
func CorridorLine(c storage.Corridor) string {
	route := "direct"
	if c.Junction >= 0 {
		route = fmt.Sprintf("merge@%d", c.Junction)
	}
	line := fmt.Sprintf("%2d z%d t%d %3d %s", c.Index, c.Zone, c.Tier, len(c.Cells), route)
	if c.Mutation != "" {
		line += " " + c.Mutation
	}
	return line
}

// renderTableContent renders the table or empty message.
func (m RunsModel) renderTableContent() string {
	if len(m.runs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No runs saved yet.\nPress w in the viewer to save one!")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m RunsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m RunsModel) IsQuitting() bool {
	return m.quitting
}

// RunRuns runs the saved-runs browser.
// Returns true if user wants to go back to menu, false if quitting.
func RunRuns(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewRunsModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(RunsModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
