package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/typecricket/internal/core"
)

// MenuItem is one entry of the main menu.
type MenuItem struct {
	Title string
	Nav   Nav
}

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	items      []MenuItem
	cursor     int
	width      int
	height     int
	lineupName string
	keyMapper  *KeyMapper
	chosen     Nav
}

// NewMenuModel creates the main menu. lineupName is shown as the current XI.
func NewMenuModel(cfg core.RuntimeConfig, lineupName string, withStore bool) MenuModel {
	items := []MenuItem{
		{Title: "Bat", Nav: NavInnings},
		{Title: "Edit lineup", Nav: NavEditor},
	}
	if withStore {
		items = append(items, MenuItem{Title: "Saved lineups", Nav: NavLineups})
	}
	items = append(items, MenuItem{Title: "Quit", Nav: NavQuit})

	return MenuModel{
		items:      items,
		width:      cfg.ScreenW,
		height:     cfg.ScreenH,
		lineupName: lineupName,
		keyMapper:  NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKey(msg) {
	case core.ActionQuit:
		m.chosen = NavQuit
		return m, tea.Quit

	case core.ActionUp, core.ActionPrevField:
		if m.cursor > 0 {
			m.cursor--
		}

	case core.ActionDown, core.ActionNextField:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case core.ActionConfirm:
		m.chosen = m.items[m.cursor].Nav
		if m.chosen == NavQuit {
			return m, tea.Quit
		}
	}

	return m, nil
}

// Chosen returns the selected destination, NavNone until enter is pressed.
func (m MenuModel) Chosen() Nav {
	return m.chosen
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.chosen == NavQuit {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("  T Y P E C R I C K E T  ", m.width)))
	b.WriteString("\n\n")

	subtitle := "Type to score runs. Errors cost wickets."
	b.WriteString(centerText(subtitle, m.width))
	b.WriteString("\n")
	if m.lineupName != "" {
		b.WriteString(centerText(fmt.Sprintf("Batting: %s", m.lineupName), m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+item.Title, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Ctrl+C: Quit"
	b.WriteString(hintStyle.Render(centerText(controls, m.width)))
	b.WriteString("\n")

	return b.String()
}
