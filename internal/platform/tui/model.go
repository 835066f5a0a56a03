package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/typecricket/internal/core"
	"github.com/vovakirdan/typecricket/internal/match"
	"github.com/vovakirdan/typecricket/internal/metrics"
	"github.com/vovakirdan/typecricket/internal/storage"
	"github.com/vovakirdan/typecricket/internal/typing"
	"github.com/vovakirdan/typecricket/internal/worm"
)

// Env holds the collaborators a session shares across screens.
// Every field is optional.
type Env struct {
	Store   *storage.Store
	Logger  *log.Logger
	Metrics *metrics.Manager
	Clock   match.Clock
}

func (e Env) withDefaults() Env {
	if e.Logger == nil {
		e.Logger = log.New(io.Discard)
	}
	if e.Clock == nil {
		e.Clock = match.SystemClock()
	}
	return e
}

// EndReason says how an innings finished.
type EndReason string

const (
	EndTime      EndReason = "time"
	EndAllOut    EndReason = "all_out"
	EndCompleted EndReason = "completed"
	EndDeclared  EndReason = "declared"
)

// Message returns the line shown under the passage when the innings ends.
func (r EndReason) Message() string {
	switch r {
	case EndCompleted:
		return "Well played! Innings complete!"
	case EndAllOut:
		return "All out! Innings complete!"
	case EndDeclared:
		return "Declared! Innings complete!"
	default:
		return "Time! Innings complete!"
	}
}

// Nav is a request from a screen to the session router.
type Nav int

const (
	NavNone Nav = iota
	NavMenu
	NavInnings
	NavEditor
	NavLineups
	NavQuit
)

type phase int

const (
	phaseReady   phase = iota // waiting for the first keystroke
	phaseBatting              // clock running
	phaseOver                 // innings finished, card frozen
)

const (
	passageLines    = 4
	maxPassageWidth = 76
	chartHeight     = 15
	sideBySideWidth = 120
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	doneStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	passageBox  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// inningsWatch is the engine observer: it feeds the worm chart and logs wickets.
type inningsWatch struct {
	chart   *worm.Chart
	logger  *log.Logger
	wickets int
}

func (w *inningsWatch) observe(s match.Snapshot) {
	w.chart.Update(s)
	if s.WicketsDown > w.wickets {
		w.logger.Debug("wicket", "score", s.Scoreline())
	}
	w.wickets = s.WicketsDown
}

// Model drives one innings: keystrokes go to the passage and engine, ticks
// bowl balls, and the view shows passage, status, batting card and worm.
type Model struct {
	env    Env
	config core.RuntimeConfig
	keys   *KeyMapper
	help   help.Model

	lineupName string
	lineup     []string

	engine  *match.Engine
	passage *typing.Passage
	chart   *worm.Chart
	watch   *inningsWatch
	screen  *core.Screen

	phase     phase
	gen       int
	startedAt time.Time
	elapsed   time.Duration
	endReason EndReason

	nav      Nav
	quitting bool
}

// NewModel creates an innings for lineup, waiting for the first keystroke.
func NewModel(env Env, cfg core.RuntimeConfig, lineupName string, lineup []string) Model {
	env = env.withDefaults()

	chart := worm.New(cfg.NominalOvers)
	watch := &inningsWatch{chart: chart, logger: env.Logger}

	m := Model{
		env:        env,
		config:     cfg,
		keys:       NewKeyMapper(),
		help:       help.New(),
		lineupName: lineupName,
		lineup:     lineup,
		chart:      chart,
		watch:      watch,
		screen:     core.NewScreen(cfg.ScreenW, chartHeight),
		passage:    typing.NewPassage(cfg.WordCount),
	}
	m.engine = match.New(lineup, watch.observe,
		match.WithClock(env.Clock),
		match.WithRand(match.NewRand(cfg.Seed)),
		match.WithFormat(cfg.MatchDuration, cfg.NominalOvers),
	)
	return m
}

// Init implements tea.Model. Nothing ticks until the first keystroke.
func (m Model) Init() tea.Cmd {
	return nil
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
		return m, nil

	case FrameMsg:
		return m.handleFrame(msg)

	case BallMsg:
		return m.handleBall(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.MapKey(msg) {
	case core.ActionQuit:
		if m.phase == phaseBatting {
			m.finish(EndDeclared)
		}
		m.quitting = true
		m.nav = NavQuit
		return m, tea.Quit

	case core.ActionBack:
		if m.phase == phaseBatting {
			m.finish(EndDeclared)
			return m, nil
		}
		m.nav = NavMenu
		return m, nil

	case core.ActionRestart:
		if m.phase == phaseBatting {
			m.env.Logger.Info("innings abandoned", "score", m.engine.Snapshot().Scoreline())
		}
		m.newInnings()
		return m, nil

	case core.ActionEditLineup:
		if m.phase != phaseBatting {
			m.nav = NavEditor
		}
		return m, nil

	case core.ActionToggleHelp:
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	r, ok := TypedRune(msg)
	if !ok || m.phase == phaseOver {
		return m, nil
	}

	var cmd tea.Cmd
	if m.phase == phaseReady {
		cmd = m.start()
	}

	switch m.passage.Type(r) {
	case typing.WordComplete:
		m.engine.ApplyCorrectKeystroke()
	case typing.Incorrect:
		m.engine.ApplyIncorrectKeystroke()
	}

	switch {
	case m.engine.Snapshot().AllOut():
		m.finish(EndAllOut)
	case m.passage.Done():
		m.finish(EndCompleted)
	}

	return m, cmd
}

// start begins the innings clock.
func (m *Model) start() tea.Cmd {
	m.phase = phaseBatting
	m.startedAt = m.env.Clock.Now()
	m.engine.StartInnings()
	m.gen++
	m.env.Logger.Debug("innings started", "lineup", m.lineupName)
	return tea.Batch(frameCmd(m.config.TickInterval(), m.gen), ballCmd(m.gen))
}

// handleFrame checks the deadline and keeps the redraw loop alive.
func (m Model) handleFrame(msg FrameMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen || m.phase != phaseBatting {
		return m, nil
	}
	if m.sinceStart() >= m.config.MatchDuration {
		m.finish(EndTime)
		return m, nil
	}
	return m, frameCmd(m.config.TickInterval(), m.gen)
}

// handleBall bowls one ball unless the innings is already over.
func (m Model) handleBall(msg BallMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen || m.phase != phaseBatting {
		return m, nil
	}
	if m.sinceStart() >= m.config.MatchDuration {
		m.finish(EndTime)
		return m, nil
	}
	m.engine.ApplyClockTick()
	return m, ballCmd(m.gen)
}

// sinceStart is the innings time so far, capped at the match duration.
func (m Model) sinceStart() time.Duration {
	switch m.phase {
	case phaseReady:
		return 0
	case phaseOver:
		return m.elapsed
	}
	d := m.env.Clock.Now().Sub(m.startedAt)
	if d < 0 {
		return 0
	}
	if d > m.config.MatchDuration {
		return m.config.MatchDuration
	}
	return d
}

// finish freezes the innings and reports it. Pending ticks become stale.
func (m *Model) finish(reason EndReason) {
	m.elapsed = m.sinceStart()
	m.phase = phaseOver
	m.endReason = reason
	m.gen++

	s := m.engine.Snapshot()
	wpm := m.passage.WPM(m.elapsed)
	m.env.Logger.Info("innings complete",
		"reason", string(reason),
		"score", s.Scoreline(),
		"wpm", wpm,
		"errors", m.passage.Errors(),
		"lineup", m.lineupName,
	)
	m.env.Metrics.InningsCompleted(metrics.Innings{
		Reason:   string(reason),
		Runs:     s.TotalRuns,
		Wickets:  s.WicketsDown,
		Duration: m.elapsed,
		WPM:      wpm,
	})
}

// newInnings resets the engine, passage and chart for the same lineup.
func (m *Model) newInnings() {
	m.gen++
	m.phase = phaseReady
	m.elapsed = 0
	m.endReason = ""
	m.passage = typing.NewPassage(m.config.WordCount)
	m.chart.Reset()
	m.engine.Reset(m.lineup)
}

// WithLineup returns the model reset for a new lineup.
func (m Model) WithLineup(name string, lineup []string) Model {
	m.lineupName = name
	m.lineup = lineup
	m.newInnings()
	m.nav = NavNone
	return m
}

// Resumed clears a handled navigation request.
func (m Model) Resumed() Model {
	m.nav = NavNone
	return m
}

// Nav returns the pending navigation request.
func (m Model) Nav() Nav {
	return m.nav
}

// Lineup returns the lineup name and the names as entered.
func (m Model) Lineup() (string, []string) {
	return m.lineupName, m.lineup
}

// Snapshot returns the current match state.
func (m Model) Snapshot() match.Snapshot {
	return m.engine.Snapshot()
}

// Over reports whether the innings has finished, and why.
func (m Model) Over() (EndReason, bool) {
	return m.endReason, m.phase == phaseOver
}

// Status is the one-line summary: WPM, seconds, run rate and score.
func (m Model) Status() string {
	elapsed := m.sinceStart()
	s := m.engine.Snapshot()
	return fmt.Sprintf("WPM %d   Time %ds   RR %.2f   %s",
		m.passage.WPM(elapsed),
		int(elapsed.Seconds()),
		m.engine.RunRate(elapsed),
		s.Scoreline(),
	)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width := core.Max(m.config.ScreenW, 40)
	var b strings.Builder

	title := "TYPECRICKET"
	if m.lineupName != "" {
		title += " - " + m.lineupName
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.Status()))
	b.WriteString("\n")

	pw := core.Min(width-4, maxPassageWidth)
	b.WriteString(passageBox.Render(RenderPassage(m.passage, pw, passageLines)))
	b.WriteString("\n")

	switch m.phase {
	case phaseReady:
		b.WriteString(hintStyle.Render("Start typing to begin the innings. Backspace is disabled."))
	case phaseOver:
		b.WriteString(doneStyle.Render(m.endReason.Message()))
	default:
		b.WriteString(" ")
	}
	b.WriteString("\n")

	card := RenderBattingCard(m.engine.Snapshot())
	cardW := lipgloss.Width(card)
	if width >= sideBySideWidth {
		m.screen.Resize(width-cardW-2, chartHeight)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, card, "  ", m.renderChart()))
	} else {
		m.screen.Resize(width, chartHeight)
		b.WriteString(card)
		b.WriteString("\n")
		b.WriteString(m.renderChart())
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys.Keys()))
	return b.String()
}

func (m Model) renderChart() string {
	m.screen.Clear()
	m.chart.Render(m.screen, core.NewRect(0, 0, m.screen.Width(), m.screen.Height()))
	return RenderScreen(m.screen)
}
