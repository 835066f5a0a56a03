package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/typecricket/internal/core"
	"github.com/vovakirdan/typecricket/internal/match"
)

var (
	labelStyle   = lipgloss.NewStyle().Width(10).Foreground(lipgloss.Color("245"))
	focusedLabel = labelStyle.Foreground(lipgloss.Color("229")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// LineupEditor edits the batting order. Field 0 is the name to save the
// lineup under (optional); fields 1..11 are the players in batting order.
type LineupEditor struct {
	env    Env
	keys   *KeyMapper
	inputs []textinput.Model
	focus  int
	width  int
	err    string

	done      bool
	cancelled bool
	name      string
	names     []string
}

// NewLineupEditor creates an editor prefilled with the given lineup.
func NewLineupEditor(env Env, name string, lineup []string, width int) LineupEditor {
	env = env.withDefaults()
	current := match.BuildLineup(lineup)

	inputs := make([]textinput.Model, match.LineupSize+1)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = match.MaxNameLen
		ti.Width = match.MaxNameLen + 2
		if i == 0 {
			ti.Placeholder = "leave blank to skip saving"
			ti.SetValue(name)
		} else {
			ti.Placeholder = match.DefaultPlayers[i-1]
			ti.SetValue(current[i-1])
		}
		inputs[i] = ti
	}
	inputs[1].Focus()

	return LineupEditor{
		env:    env,
		keys:   NewKeyMapper(),
		inputs: inputs,
		focus:  1,
		width:  width,
	}
}

// Init starts the cursor blinking.
func (e LineupEditor) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the editor.
func (e LineupEditor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.width = msg.Width
		return e, nil

	case tea.KeyMsg:
		switch e.keys.MapKey(msg) {
		case core.ActionQuit:
			e.cancelled = true
			return e, tea.Quit
		case core.ActionBack:
			e.cancelled = true
			return e, nil
		case core.ActionSave:
			return e.submit(), nil
		case core.ActionConfirm:
			if e.focus == len(e.inputs)-1 {
				return e.submit(), nil
			}
			return e.moveFocus(1), nil
		case core.ActionNextField, core.ActionDown:
			return e.moveFocus(1), nil
		case core.ActionPrevField, core.ActionUp:
			return e.moveFocus(-1), nil
		}
	}

	var cmd tea.Cmd
	e.inputs[e.focus], cmd = e.inputs[e.focus].Update(msg)
	return e, cmd
}

func (e LineupEditor) moveFocus(delta int) LineupEditor {
	e.inputs[e.focus].Blur()
	e.focus = (e.focus + delta + len(e.inputs)) % len(e.inputs)
	e.inputs[e.focus].Focus()
	return e
}

// submit validates the fields and, when a name is given, saves the lineup.
// A blank field takes the default player for its slot, so the rest of the
// order stays where it was typed.
// A storage failure is logged and the lineup is still used for play.
func (e LineupEditor) submit() LineupEditor {
	names := make([]string, match.LineupSize)
	for i := range names {
		names[i] = strings.TrimSpace(e.inputs[i+1].Value())
		if names[i] == "" {
			names[i] = match.DefaultPlayers[i]
		}
	}
	if err := match.ValidateLineup(names); err != nil {
		e.err = err.Error()
		return e
	}

	name := strings.TrimSpace(e.inputs[0].Value())
	if name != "" && e.env.Store != nil {
		if _, err := e.env.Store.SaveLineup(name, names); err != nil {
			e.env.Logger.Warn("could not save lineup", "name", name, "error", err)
		} else {
			e.env.Logger.Info("lineup saved", "name", name)
		}
	}

	e.done = true
	e.name = name
	e.names = names
	return e
}

// Result returns the edited lineup once the editor has been submitted.
func (e LineupEditor) Result() (name string, names []string, ok bool) {
	return e.name, e.names, e.done
}

// Cancelled reports whether the user backed out.
func (e LineupEditor) Cancelled() bool {
	return e.cancelled
}

// View renders the editor.
func (e LineupEditor) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("EDIT LINEUP"))
	b.WriteString("\n\n")

	for i, in := range e.inputs {
		label := "Save as"
		if i > 0 {
			label = fmt.Sprintf("%2d.", i)
		}
		ls := labelStyle
		if i == e.focus {
			ls = focusedLabel
		}
		b.WriteString(ls.Render(label))
		b.WriteString(in.View())
		b.WriteString("\n")
		if i == 0 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if e.err != "" {
		b.WriteString(errorStyle.Render(e.err))
		b.WriteString("\n")
	}
	b.WriteString(hintStyle.Render("A blank player takes that slot's default."))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("tab/↑↓ move  enter next  ctrl+s save  esc cancel"))
	return b.String()
}
