package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/typecricket/internal/core"
	"github.com/vovakirdan/typecricket/internal/typing"
)

// colorStyles maps chart roles to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorAxis:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorWorm:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorWicket:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	core.ColorLabel:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// Passage styles, one per typing.CharState.
var (
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	typedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	currentStyle = lipgloss.NewStyle().Underline(true).Bold(true)
	wrongStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1"))
)

func charStyle(st typing.CharState) lipgloss.Style {
	switch st {
	case typing.StateTyped:
		return typedStyle
	case typing.StateCurrent:
		return currentStyle
	case typing.StateWrong:
		return wrongStyle
	default:
		return pendingStyle
	}
}

// RenderPassage draws the visible window of the passage, one styled run per
// state change.
func RenderPassage(p *typing.Passage, width, height int) string {
	lines := p.Window(width, height)
	out := make([]string, len(lines))

	for i, line := range lines {
		var sb strings.Builder
		j := 0
		for j < len(line) {
			st := line[j].State
			var run strings.Builder
			for j < len(line) && line[j].State == st {
				r := line[j].Rune
				if r == ' ' && st == typing.StateCurrent {
					r = '·'
				}
				run.WriteRune(r)
				j++
			}
			sb.WriteString(charStyle(st).Render(run.String()))
		}
		out[i] = sb.String()
	}
	return strings.Join(out, "\n")
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
