package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/typecricket/internal/core"
	"github.com/vovakirdan/typecricket/internal/match"
	"github.com/vovakirdan/typecricket/internal/metrics"
)

// fakeClock only moves when told to.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func testConfig(words int) core.RuntimeConfig {
	cfg := core.DefaultConfig()
	cfg.WordCount = words
	cfg.Seed = 7
	return cfg
}

func newTestModel(t *testing.T, words int) (Model, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	return NewModel(Env{Clock: clock}, testConfig(words), "Test XI", nil), clock
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyOf(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// send feeds msg to the model and keeps the concrete type.
func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return model, cmd
}

// typeText sends one key per rune; spaces go as KeySpace.
func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		msg := runes(string(r))
		if r == ' ' {
			msg = keyOf(tea.KeySpace)
		}
		m, _ = send(t, m, msg)
	}
	return m
}

func TestModelWaitsForFirstKey(t *testing.T) {
	m, _ := newTestModel(t, 10)

	assert.Nil(t, m.Init())
	m, cmd := send(t, m, BallMsg{Gen: 0})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.Snapshot().BallsInCurrentOver, "no balls before the first key")
	assert.Contains(t, m.View(), "Start typing")

	m, cmd = send(t, m, runes("T"))
	assert.NotNil(t, cmd, "first key starts the clock")
	assert.Equal(t, phaseBatting, m.phase)
	assert.Equal(t, 1, m.gen)
}

func TestModelCorrectWordScoresRun(t *testing.T) {
	m, _ := newTestModel(t, 10)

	m = typeText(t, m, "The")
	assert.Equal(t, 0, m.Snapshot().TotalRuns, "no run until the word is finished")

	m = typeText(t, m, " ")
	assert.Equal(t, 1, m.Snapshot().TotalRuns)

	m = typeText(t, m, "cricket ")
	assert.Equal(t, 2, m.Snapshot().TotalRuns)
	assert.Equal(t, 2, m.passage.WordsTyped())
}

func TestModelErrorCostsOpenerInstantly(t *testing.T) {
	m, _ := newTestModel(t, 10)

	m = typeText(t, m, "x")
	s := m.Snapshot()
	assert.Equal(t, 1, s.WicketsDown, "first error in a new top-order partnership is out")
	assert.Equal(t, 1, m.passage.Errors())
	assert.Equal(t, 0, m.passage.Cursor(), "wrong key does not advance")
}

func TestModelReadyTimeIsNotPartnershipTime(t *testing.T) {
	m, clock := newTestModel(t, 10)
	clock.Advance(30 * time.Second)

	m = typeText(t, m, "x")
	assert.Equal(t, 1, m.Snapshot().WicketsDown, "the opening partnership starts with the first key")
}

func TestModelBallTicks(t *testing.T) {
	m, clock := newTestModel(t, 10)
	m = typeText(t, m, "T")
	gen := m.gen

	m, cmd := send(t, m, BallMsg{Gen: gen - 1})
	assert.Nil(t, cmd, "stale tick dropped")
	assert.Equal(t, 0, m.Snapshot().BallsInCurrentOver)

	for i := 0; i < 7; i++ {
		clock.Advance(time.Second)
		m, cmd = send(t, m, BallMsg{Gen: gen})
		require.NotNil(t, cmd, "ball %d should schedule the next", i)
	}
	s := m.Snapshot()
	assert.Equal(t, 1, s.CompletedOvers)
	assert.Equal(t, 1, s.BallsInCurrentOver)
}

func TestModelFrameKeepsLoopAlive(t *testing.T) {
	m, clock := newTestModel(t, 10)
	m = typeText(t, m, "T")

	clock.Advance(2 * time.Second)
	m, cmd := send(t, m, FrameMsg{Gen: m.gen})
	assert.NotNil(t, cmd)
	assert.Contains(t, m.Status(), "Time 2s")

	_, cmd = send(t, m, FrameMsg{Gen: m.gen + 1})
	assert.Nil(t, cmd, "frame from another generation is ignored")
}

func TestModelEndsOnTime(t *testing.T) {
	m, clock := newTestModel(t, 10)
	m = typeText(t, m, "The ")

	clock.Advance(6 * time.Minute)
	m, cmd := send(t, m, FrameMsg{Gen: m.gen})
	assert.Nil(t, cmd)

	reason, over := m.Over()
	require.True(t, over)
	assert.Equal(t, EndTime, reason)
	assert.Contains(t, m.Status(), "Time 300s", "elapsed is capped at the match duration")
	assert.Contains(t, m.View(), EndTime.Message())

	before := m.Snapshot()
	m = typeText(t, m, "cricket ")
	assert.Equal(t, before.TotalRuns, m.Snapshot().TotalRuns, "typing after the end is ignored")
}

func TestModelBallAfterDeadlineEndsInnings(t *testing.T) {
	m, clock := newTestModel(t, 10)
	m = typeText(t, m, "T")

	clock.Advance(5 * time.Minute)
	m, cmd := send(t, m, BallMsg{Gen: m.gen})
	assert.Nil(t, cmd)
	reason, over := m.Over()
	assert.True(t, over)
	assert.Equal(t, EndTime, reason)
	assert.Equal(t, 0, m.Snapshot().BallsInCurrentOver, "no ball bowled past the deadline")
}

func TestModelCompletesPassage(t *testing.T) {
	m, _ := newTestModel(t, 3)

	m = typeText(t, m, "The cricket match")
	reason, over := m.Over()
	require.True(t, over)
	assert.Equal(t, EndCompleted, reason)
	assert.Equal(t, 3, m.Snapshot().TotalRuns)
}

func TestModelAllOut(t *testing.T) {
	reg := prometheus.NewRegistry()
	clock := newFakeClock()
	env := Env{Clock: clock, Metrics: metrics.NewManager(metrics.WithRegistry(reg))}
	m := NewModel(env, testConfig(10), "Test XI", nil)

	// Two instant openers, four middle-order wickets at five errors each,
	// three tail wickets at two each, then the last wicket on the next error.
	m = typeText(t, m, strings.Repeat("x", 1+1+4*5+3*2+1))

	reason, over := m.Over()
	require.True(t, over)
	assert.Equal(t, EndAllOut, reason)
	assert.Equal(t, match.MaxWickets, m.Snapshot().WicketsDown)

	count, err := testutil.GatherAndCount(reg, "typecricket_innings_completed_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestModelEscDeclaresThenLeaves(t *testing.T) {
	m, _ := newTestModel(t, 10)
	m = typeText(t, m, "The ")

	m, _ = send(t, m, keyOf(tea.KeyEsc))
	reason, over := m.Over()
	require.True(t, over)
	assert.Equal(t, EndDeclared, reason)
	assert.Equal(t, NavNone, m.Nav(), "first esc only declares")

	m, _ = send(t, m, keyOf(tea.KeyEsc))
	assert.Equal(t, NavMenu, m.Nav())
	assert.Equal(t, NavNone, m.Resumed().Nav())
}

func TestModelQuit(t *testing.T) {
	m, _ := newTestModel(t, 10)
	m = typeText(t, m, "T")

	m, cmd := send(t, m, keyOf(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, NavQuit, m.Nav())
	reason, _ := m.Over()
	assert.Equal(t, EndDeclared, reason)
	assert.Empty(t, m.View())
}

func TestModelRestart(t *testing.T) {
	m, _ := newTestModel(t, 10)
	m = typeText(t, m, "The cricket x")
	oldGen := m.gen
	require.Equal(t, 2, m.Snapshot().TotalRuns)
	require.Len(t, m.chart.Wickets(), 1)

	m, _ = send(t, m, keyOf(tea.KeyCtrlR))
	s := m.Snapshot()
	assert.Equal(t, phaseReady, m.phase)
	assert.Equal(t, 0, s.TotalRuns)
	assert.Equal(t, 0, s.WicketsDown)
	assert.Equal(t, 0, m.passage.Cursor())
	assert.Empty(t, m.chart.Wickets(), "chart starts over")
	assert.Equal(t, []int{0}, m.chart.OverTotals())

	m, cmd := send(t, m, BallMsg{Gen: oldGen})
	assert.Nil(t, cmd, "ticks from the abandoned innings are stale")
	assert.Equal(t, 0, m.Snapshot().BallsInCurrentOver)
}

func TestModelEditLineupOnlyBetweenInnings(t *testing.T) {
	m, _ := newTestModel(t, 10)

	m, _ = send(t, m, keyOf(tea.KeyCtrlE))
	assert.Equal(t, NavEditor, m.Nav())

	m = m.Resumed()
	m = typeText(t, m, "T")
	m, _ = send(t, m, keyOf(tea.KeyCtrlE))
	assert.Equal(t, NavNone, m.Nav(), "editor is locked while batting")
}

func TestModelWithLineup(t *testing.T) {
	m, _ := newTestModel(t, 10)
	m = typeText(t, m, "The ")

	m = m.WithLineup("Aussies", []string{"Warner", "Head"})
	name, lineup := m.Lineup()
	assert.Equal(t, "Aussies", name)
	assert.Equal(t, []string{"Warner", "Head"}, lineup)

	s := m.Snapshot()
	assert.Equal(t, 0, s.TotalRuns)
	assert.Equal(t, "Warner", s.Players[0].Name)
	assert.Equal(t, "Head", s.Players[1].Name)
	assert.Equal(t, match.DefaultPlayers[0], s.Players[2].Name)
	assert.Contains(t, m.View(), "TYPECRICKET - Aussies")
}

func TestModelViewLayouts(t *testing.T) {
	m, _ := newTestModel(t, 10)

	for _, w := range []int{60, 140} {
		m, _ = send(t, m, tea.WindowSizeMsg{Width: w, Height: 40})
		view := m.View()
		assert.Contains(t, view, "Total")
		assert.Contains(t, view, "WPM 0")
	}
}

func TestEndReasonMessage(t *testing.T) {
	assert.Equal(t, "Well played! Innings complete!", EndCompleted.Message())
	assert.Equal(t, "Time! Innings complete!", EndTime.Message())
	assert.Contains(t, EndAllOut.Message(), "All out")
	assert.Contains(t, EndDeclared.Message(), "Declared")
}
