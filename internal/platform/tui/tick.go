// Package tui provides the Bubble Tea front end for typecricket: the innings
// driver, lineup screens, and SSH session handling.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg triggers a redraw and a deadline check.
type FrameMsg struct {
	Gen  int
	Time time.Time
}

// BallMsg is the once-per-second match clock: one ball bowled.
type BallMsg struct {
	Gen  int
	Time time.Time
}

// BallInterval is the real time one ball takes.
const BallInterval = time.Second

// frameCmd schedules the next FrameMsg for innings generation gen.
func frameCmd(interval time.Duration, gen int) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg{Gen: gen, Time: t}
	})
}

// ballCmd schedules the next BallMsg for innings generation gen.
func ballCmd(gen int) tea.Cmd {
	return tea.Tick(BallInterval, func(t time.Time) tea.Msg {
		return BallMsg{Gen: gen, Time: t}
	})
}
