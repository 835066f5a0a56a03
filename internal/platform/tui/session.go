package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/typecricket/internal/core"
)

type screen int

const (
	screenMenu screen = iota
	screenInnings
	screenEditor
	screenLineups
)

// SessionModel manages the session flow: menu, innings, lineup editor and
// saved-lineup browser. It is the top-level model for both local play and
// SSH sessions.
type SessionModel struct {
	env     Env
	config  core.RuntimeConfig
	current screen
	back    screen // where a cancelled editor returns to

	menu    MenuModel
	innings Model
	editor  LineupEditor
	browser LineupBrowser

	quitting bool
}

// NewSessionModel creates a session batting with the given lineup. When
// startInInnings is set the menu is skipped.
func NewSessionModel(env Env, cfg core.RuntimeConfig, lineupName string, lineup []string, startInInnings bool) SessionModel {
	env = env.withDefaults()
	m := SessionModel{
		env:     env,
		config:  cfg,
		menu:    NewMenuModel(cfg, lineupName, env.Store != nil),
		innings: NewModel(env, cfg, lineupName, lineup),
	}
	if startInInnings {
		m.current = screenInnings
	}
	return m
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.current == screenInnings {
		return m.innings.Init()
	}
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.menu = update(m.menu, msg)
		m.innings = update(m.innings, msg)
		switch m.current {
		case screenEditor:
			m.editor = update(m.editor, msg)
		case screenLineups:
			m.browser = update(m.browser, msg)
		}
		return m, nil

	case FrameMsg, BallMsg:
		// The innings clock runs whichever screen is showing.
		var cmd tea.Cmd
		m.innings, cmd = updateCmd(m.innings, msg)
		return m, cmd
	}

	switch m.current {
	case screenInnings:
		return m.updateInnings(msg)
	case screenEditor:
		return m.updateEditor(msg)
	case screenLineups:
		return m.updateLineups(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.menu, cmd = updateCmd(m.menu, msg)

	choice := m.menu.Chosen()
	if choice == NavNone {
		return m, cmd
	}
	m.menu = m.freshMenu()
	return m.navigate(choice)
}

func (m SessionModel) updateInnings(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.innings, cmd = updateCmd(m.innings, msg)

	nav := m.innings.Nav()
	if nav == NavNone {
		return m, cmd
	}
	m.innings = m.innings.Resumed()
	next, navCmd := m.navigate(nav)
	return next, tea.Batch(cmd, navCmd)
}

func (m SessionModel) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.editor, cmd = updateCmd(m.editor, msg)

	if name, names, ok := m.editor.Result(); ok {
		m.innings = m.innings.WithLineup(name, names)
		m.menu = m.freshMenu()
		m.current = screenInnings
		return m, nil
	}
	if m.editor.Cancelled() {
		m.current = m.back
		return m, cmd
	}
	return m, cmd
}

func (m SessionModel) updateLineups(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.browser, cmd = updateCmd(m.browser, msg)

	switch {
	case m.browser.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.browser.Selected() != nil:
		l := m.browser.Selected()
		m.env.Logger.Info("lineup selected", "name", l.Name)
		m.innings = m.innings.WithLineup(l.Name, l.Players[:])
		m.menu = m.freshMenu()
		m.current = screenInnings
		return m, nil
	case m.browser.IsGoingBack():
		m.current = screenMenu
		return m, nil
	}
	return m, cmd
}

// navigate switches to the screen a child asked for.
func (m SessionModel) navigate(nav Nav) (tea.Model, tea.Cmd) {
	switch nav {
	case NavQuit:
		m.quitting = true
		return m, tea.Quit
	case NavMenu:
		m.current = screenMenu
	case NavInnings:
		if _, over := m.innings.Over(); over {
			name, lineup := m.innings.Lineup()
			m.innings = m.innings.WithLineup(name, lineup)
		}
		m.current = screenInnings
	case NavEditor:
		name, lineup := m.innings.Lineup()
		m.editor = NewLineupEditor(m.env, name, lineup, m.config.ScreenW)
		m.back = m.current
		m.current = screenEditor
		return m, m.editor.Init()
	case NavLineups:
		m.browser = NewLineupBrowser(m.env, m.config.ScreenW, m.config.ScreenH)
		m.current = screenLineups
	}
	return m, nil
}

func (m SessionModel) freshMenu() MenuModel {
	name, _ := m.innings.Lineup()
	return NewMenuModel(m.config, name, m.env.Store != nil)
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.current {
	case screenInnings:
		return m.innings.View()
	case screenEditor:
		return m.editor.View()
	case screenLineups:
		return m.browser.View()
	default:
		return m.menu.View()
	}
}

// Innings returns the innings model, for callers that inspect the result.
func (m SessionModel) Innings() Model {
	return m.innings
}

// update forwards msg to a child model and keeps its concrete type.
func update[T tea.Model](child T, msg tea.Msg) T {
	next, _ := updateCmd(child, msg)
	return next
}

func updateCmd[T tea.Model](child T, msg tea.Msg) (T, tea.Cmd) {
	next, cmd := child.Update(msg)
	if typed, ok := next.(T); ok {
		return typed, cmd
	}
	return child, cmd
}

// Run starts a local session on the terminal.
func Run(env Env, cfg core.RuntimeConfig, lineupName string, lineup []string) error {
	model := NewSessionModel(env, cfg, lineupName, lineup, true)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
