package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/typecricket/internal/match"
)

const (
	cardNameWidth  = 38
	cardStatsWidth = 18
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	partnershipStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	outStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	totalStyle       = lipgloss.NewStyle().Bold(true)
)

// FormatDismissal renders a dismissal the scorecard way:
// "c Dhoni b Bumrah" becomes "c Dhoni b.Bumrah.".
func FormatDismissal(d string) string {
	d = strings.TrimSpace(d)
	if d == "" {
		return ""
	}
	d = strings.ReplaceAll(d, " b ", " b.")
	if !strings.HasSuffix(d, ".") {
		d += "."
	}
	return d
}

// cardRow is one line of the batting card before styling.
type cardRow struct {
	Name    string
	Stats   string
	Batting bool
	Out     bool
}

func battingRows(s match.Snapshot) []cardRow {
	rows := make([]cardRow, len(s.Players))
	for i, p := range s.Players {
		batting := s.IsBatting(i)
		name := p.Name
		switch {
		case p.IsOut:
			name = p.Name + " " + FormatDismissal(p.DismissalDescription)
		case batting && i == s.StrikerIndex:
			name += "*"
		}
		rows[i] = cardRow{
			Name:    name,
			Stats:   fmt.Sprintf("%d(%d)", p.RunsScored, p.BallsFaced),
			Batting: batting,
			Out:     p.IsOut,
		}
	}
	return rows
}

// RenderBattingCard draws the scorecard: one row per player with the current
// partnership highlighted, then the team total.
func RenderBattingCard(s match.Snapshot) string {
	var b strings.Builder
	for _, r := range battingRows(s) {
		line := padRight(r.Name, cardNameWidth) + padLeft(r.Stats, cardStatsWidth)
		switch {
		case r.Batting:
			line = partnershipStyle.Render(line)
		case r.Out:
			line = outStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("─", cardNameWidth+cardStatsWidth))
	b.WriteString("\n")
	total := padRight("Total", cardNameWidth-cardStatsWidth) + padLeft(s.Scoreline(), 2*cardStatsWidth)
	b.WriteString(totalStyle.Render(total))

	return cardStyle.Render(b.String())
}

func padRight(s string, w int) string {
	n := lipgloss.Width(s)
	if n >= w {
		return s
	}
	return s + strings.Repeat(" ", w-n)
}

func padLeft(s string, w int) string {
	n := lipgloss.Width(s)
	if n >= w {
		return s
	}
	return strings.Repeat(" ", w-n) + s
}
