package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/typecricket/internal/core"
	"github.com/vovakirdan/typecricket/internal/storage"
)

// Lineup browser layout constants
const (
	minWidthForPreview = 80 // Minimum width to show the player preview
	previewWidth       = 30 // Width of the preview panel
)

// LineupsKeyMap defines the key bindings for the lineup browser.
type LineupsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Delete key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k LineupsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Delete, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k LineupsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Delete, k.Back, k.Quit},
	}
}

// DefaultLineupsKeyMap returns default key bindings.
func DefaultLineupsKeyMap() LineupsKeyMap {
	return LineupsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "bat with this XI"),
		),
		Delete: key.NewBinding(
			key.WithKeys("delete", "x"),
			key.WithHelp("x", "delete"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// LineupBrowser lists saved lineups and lets the user pick or delete one.
type LineupBrowser struct {
	env         Env
	lineups     []storage.Lineup
	table       table.Model
	help        help.Model
	keys        LineupsKeyMap
	width       int
	height      int
	err         string
	selected    *storage.Lineup
	goingBack   bool
	quitting    bool
	showPreview bool
}

// NewLineupBrowser creates a browser over the store in env.
func NewLineupBrowser(env Env, width, height int) LineupBrowser {
	env = env.withDefaults()
	m := LineupBrowser{
		env:         env,
		keys:        DefaultLineupsKeyMap(),
		help:        help.New(),
		width:       width,
		height:      height,
		showPreview: width >= minWidthForPreview,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a new table sized for the current window.
func (m *LineupBrowser) createTable() table.Model {
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Opening pair", Width: 24},
		{Title: "Updated", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(core.Max(m.height-8, 3)),
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

// load reads lineups from the store.
func (m *LineupBrowser) load() {
	m.lineups = nil
	m.err = ""
	if m.env.Store == nil {
		m.err = "No lineup database is open."
		m.updateTableRows()
		return
	}

	lineups, err := m.env.Store.Lineups()
	if err != nil {
		m.env.Logger.Warn("could not list lineups", "error", err)
		m.err = "Could not read saved lineups."
	} else {
		m.lineups = lineups
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current lineups.
func (m *LineupBrowser) updateTableRows() {
	rows := make([]table.Row, len(m.lineups))
	for i, l := range m.lineups {
		rows[i] = table.Row{
			l.Name,
			fmt.Sprintf("%s, %s", l.Players[0], l.Players[1]),
			l.UpdatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.GotoTop()
	}
}

func (m LineupBrowser) current() *storage.Lineup {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.lineups) {
		return nil
	}
	l := m.lineups[i]
	return &l
}

// Init initializes the browser.
func (m LineupBrowser) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser.
func (m LineupBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.Select):
			m.selected = m.current()
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if l := m.current(); l != nil && m.env.Store != nil {
				if err := m.env.Store.DeleteLineup(l.Name); err != nil {
					m.env.Logger.Warn("could not delete lineup", "name", l.Name, "error", err)
				} else {
					m.env.Logger.Info("lineup deleted", "name", l.Name)
				}
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showPreview = m.width >= minWidthForPreview
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the browser.
func (m LineupBrowser) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(centerText("SAVED LINEUPS", m.width)))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	body := boxStyle.Render(m.renderTableContent())
	if m.showPreview && len(m.lineups) > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", boxStyle.Width(previewWidth).Render(m.renderPreview()))
	}
	b.WriteString(body)

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(m.help.View(m.keys)))
	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m LineupBrowser) renderTableContent() string {
	if len(m.lineups) == 0 {
		msg := m.err
		if msg == "" {
			msg = "No lineups saved yet.\nPress ctrl+e in an innings to make one."
		}
		return hintStyle.Padding(2, 4).Render(msg)
	}
	return m.table.View()
}

// renderPreview lists the batting order of the highlighted lineup.
func (m LineupBrowser) renderPreview() string {
	l := m.current()
	if l == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(l.Name))
	b.WriteString("\n")
	for i, p := range l.Players {
		fmt.Fprintf(&b, "%2d. %s\n", i+1, p)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Selected returns the lineup chosen with enter, if any.
func (m LineupBrowser) Selected() *storage.Lineup {
	return m.selected
}

// IsGoingBack returns true if user wants to go back.
func (m LineupBrowser) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m LineupBrowser) IsQuitting() bool {
	return m.quitting
}
