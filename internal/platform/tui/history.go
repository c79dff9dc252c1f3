package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/minigolf/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 100 // Minimum width to show hole stats sidebar
	sidebarWidth       = 26  // Width of hole stats sidebar
)

// HistoryKeyMap defines the key bindings for the sweep history.
type HistoryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Select, k.Quit}}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "view heat map"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel lists stored sweeps in a table.
type HistoryModel struct {
	store       *storage.Store
	sweeps      []storage.SweepSummary
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	selected    string
	quitting    bool
	showSidebar bool
}

// NewHistoryModel creates a history model over the given sweeps.
func NewHistoryModel(store *storage.Store, sweeps []storage.SweepSummary, width, height int) HistoryModel {
	m := HistoryModel{
		store:       store,
		sweeps:      sweeps,
		keys:        DefaultHistoryKeyMap(),
		help:        help.New(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 8},
		{Title: "Hole", Width: 14},
		{Title: "Step", Width: 6},
		{Title: "Putts", Width: 7},
		{Title: "Made", Width: 7},
		{Title: "Time", Width: 8},
		{Title: "Date", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-8)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("22")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// updateTableRows fills the table from the loaded sweeps.
func (m *HistoryModel) updateTableRows() {
	m.table.SetRows(HistoryRows(m.sweeps))
	m.table.GotoTop()
}

// HistoryRows formats sweeps as table rows. The plain history output uses
// the same columns.
func HistoryRows(sweeps []storage.SweepSummary) []table.Row {
	rows := make([]table.Row, len(sweeps))
	for i, s := range sweeps {
		id := s.ID
		if len(id) > 8 {
			id = id[:8]
		}
		rows[i] = table.Row{
			id,
			s.HoleName,
			fmt.Sprintf("%g", s.Step),
			fmt.Sprintf("%d", s.Samples),
			fmt.Sprintf("%.1f%%", s.MakeRate()*100),
			s.Elapsed.Round(time.Millisecond).String(),
			s.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	return rows
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history table.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			if i := m.table.Cursor(); i >= 0 && i < len(m.sweeps) {
				m.selected = m.sweeps[i].ID
				return m, tea.Quit
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history.
func (m HistoryModel) View() string {
	if m.quitting || m.selected != "" {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(centerText("SWEEP HISTORY", m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	tableRendered := tableStyle.Render(m.renderTableContent())

	if m.showSidebar && len(m.sweeps) > 0 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tableRendered, "  ", m.renderSidebar()))
	} else {
		b.WriteString(tableRendered)
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderSidebar shows play statistics of the selected sweep's hole.
func (m HistoryModel) renderSidebar() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	i := m.table.Cursor()
	if i < 0 || i >= len(m.sweeps) {
		return sidebarStyle.Render("")
	}
	s := m.sweeps[i]

	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render(s.HoleName))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "surface  %g\n", s.SurfaceSize)
	fmt.Fprintf(&sb, "workers  %d\n", s.Workers)
	fmt.Fprintf(&sb, "made     %d/%d\n", s.Made, s.Samples)

	if m.store != nil {
		if st, err := m.store.HoleStats(s.HoleName); err == nil && st.Rounds > 0 {
			sb.WriteString("\n")
			fmt.Fprintf(&sb, "rounds   %d\n", st.Rounds)
			fmt.Fprintf(&sb, "holed    %d\n", st.Holed)
			if st.BestStrokes > 0 {
				fmt.Fprintf(&sb, "best     %d\n", st.BestStrokes)
				fmt.Fprintf(&sb, "average  %.1f\n", st.AvgStrokes)
			}
		}
	}

	return sidebarStyle.Render(sb.String())
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	if len(m.sweeps) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No sweeps recorded yet.\nRun 'minigolf simulate <hole>' first.")
	}

	return m.table.View()
}

// Selected returns the ID of the chosen sweep, or empty if none.
func (m HistoryModel) Selected() string {
	return m.selected
}

// RunHistory runs the history screen and returns the selected sweep ID.
func RunHistory(store *storage.Store, sweeps []storage.SweepSummary, width, height int) (string, error) {
	p := tea.NewProgram(
		NewHistoryModel(store, sweeps, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	m, ok := finalModel.(HistoryModel)
	if !ok {
		return "", nil
	}
	return m.Selected(), nil
}
