package match

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualClock only moves when told to.
type manualClock struct {
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// stubRand returns fixed draws.
type stubRand struct {
	float float64
	pick  int
}

func (r stubRand) Float64() float64 { return r.float }

func (r stubRand) Intn(n int) int { return r.pick % n }

func newTestEngine(t *testing.T, r Rand) (*Engine, *manualClock, *[]Snapshot) {
	t.Helper()
	clock := newManualClock()
	var seen []Snapshot
	e := New(nil, func(s Snapshot) { seen = append(seen, s) }, WithClock(clock), WithRand(r))
	return e, clock, &seen
}

// forceWickets dismisses the first batter at the crease n times.
func forceWickets(e *Engine, n int) {
	for i := 0; i < n; i++ {
		e.dismiss(e.pair[0], e.clock.Now())
	}
}

func TestFreshMatch(t *testing.T) {
	e, _, seen := newTestEngine(t, stubRand{})

	require.Len(t, *seen, 1, "construction should notify once")
	s := e.Snapshot()
	assert.Equal(t, 0, s.TotalRuns)
	assert.Equal(t, 0, s.WicketsDown)
	assert.Equal(t, 0, s.CompletedOvers)
	assert.Equal(t, 0, s.BallsInCurrentOver)
	assert.Equal(t, [2]int{0, 1}, e.Pair())
	assert.Equal(t, 0, s.StrikerIndex)
	assert.Equal(t, 1, s.NonStrikerIndex)
	require.Len(t, s.Players, LineupSize)
	for i, p := range s.Players {
		assert.Equal(t, DefaultPlayers[i], p.Name)
		assert.False(t, p.IsOut)
		assert.Empty(t, p.DismissalDescription)
	}
}

func TestBuildLineup(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		first []string
	}{
		{"nil uses defaults", nil, []string{"Tendulkar", "Sehwag"}},
		{"short list padded", []string{"Root", "Stokes"}, []string{"Root", "Stokes", "Tendulkar"}},
		{"blank names skipped", []string{" ", "Root", ""}, []string{"Root", "Tendulkar"}},
		{"names trimmed", []string{"  Root "}, []string{"Root"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lineup := BuildLineup(tc.names)
			assert.Equal(t, tc.first, lineup[:len(tc.first)])
		})
	}

	t.Run("extra names ignored", func(t *testing.T) {
		names := make([]string, 14)
		for i := range names {
			names[i] = string(rune('A' + i))
		}
		lineup := BuildLineup(names)
		assert.Equal(t, "K", lineup[LineupSize-1])
	})
}

func TestValidateLineup(t *testing.T) {
	assert.NoError(t, ValidateLineup(nil))
	assert.NoError(t, ValidateLineup(DefaultPlayers[:]))
	assert.NoError(t, ValidateLineup([]string{"Root", ""}))

	err := ValidateLineup(make([]string, LineupSize+1))
	assert.ErrorIs(t, err, ErrInvalidLineup)

	err = ValidateLineup([]string{strings.Repeat("x", MaxNameLen+1)})
	assert.ErrorIs(t, err, ErrInvalidLineup)
}

func TestSingleRunToStriker(t *testing.T) {
	e, _, seen := newTestEngine(t, stubRand{float: 0.1})

	e.ApplyCorrectKeystroke()

	s := e.Snapshot()
	assert.Equal(t, 1, s.TotalRuns)
	assert.Equal(t, 1, s.Players[0].RunsScored)
	assert.Equal(t, 0, s.Players[1].RunsScored)
	assert.Equal(t, 0, s.StrikerIndex, "strike should not change")
	assert.Equal(t, 0, s.BallsInCurrentOver, "runs do not bowl balls")
	assert.Len(t, *seen, 2)
}

func TestSingleRunToNonStrikerRotatesStrike(t *testing.T) {
	e, _, _ := newTestEngine(t, stubRand{float: 0.9})

	e.ApplyCorrectKeystroke()

	s := e.Snapshot()
	assert.Equal(t, 1, s.TotalRuns)
	assert.Equal(t, 0, s.Players[0].RunsScored)
	assert.Equal(t, 1, s.Players[1].RunsScored)
	assert.Equal(t, 1, s.StrikerIndex)
	assert.Equal(t, 0, s.NonStrikerIndex)
}

func TestFullOver(t *testing.T) {
	e, _, _ := newTestEngine(t, stubRand{})

	for i := 0; i < BallsPerOver-1; i++ {
		e.ApplyClockTick()
	}
	s := e.Snapshot()
	assert.Equal(t, 0, s.CompletedOvers)
	assert.Equal(t, 5, s.BallsInCurrentOver)
	assert.Equal(t, 0, s.StrikerIndex)

	e.ApplyClockTick()
	s = e.Snapshot()
	assert.Equal(t, 1, s.CompletedOvers)
	assert.Equal(t, 0, s.BallsInCurrentOver)
	assert.Equal(t, 1, s.StrikerIndex, "strike changes ends after the over")
	assert.Equal(t, 6, s.Players[0].BallsFaced)
	assert.Equal(t, 0, s.Players[1].BallsFaced)

	for i := 0; i < BallsPerOver; i++ {
		e.ApplyClockTick()
	}
	s = e.Snapshot()
	assert.Equal(t, 2, s.CompletedOvers)
	assert.Equal(t, 0, s.StrikerIndex)
	assert.Equal(t, 6, s.Players[1].BallsFaced)
}

func TestInstantDismissal(t *testing.T) {
	for _, pick := range []int{0, 1} {
		e, clock, _ := newTestEngine(t, stubRand{pick: pick})
		clock.Advance(5 * time.Second)

		e.ApplyIncorrectKeystroke()

		s := e.Snapshot()
		require.Equal(t, 1, s.WicketsDown, "pick %d", pick)
		assert.True(t, s.Players[pick].IsOut)
		assert.Contains(t, dismissalModes, s.Players[pick].DismissalDescription)

		// Survivor keeps strike; player 2 comes in at the other end.
		survivor := 1 - pick
		assert.Equal(t, survivor, s.StrikerIndex)
		assert.Equal(t, 2, s.NonStrikerIndex)
		assert.False(t, e.suppressInstant)
		assert.Equal(t, 0, e.partnershipErrors)
		assert.Equal(t, clock.Now(), e.partnershipStart)
	}
}

func TestStartInningsRestartsPartnershipClock(t *testing.T) {
	e, clock, _ := newTestEngine(t, stubRand{})
	clock.Advance(time.Minute)

	e.StartInnings()
	assert.Equal(t, clock.Now(), e.partnershipStart)

	clock.Advance(time.Second)
	e.ApplyIncorrectKeystroke()
	assert.Equal(t, 1, e.wicketsDown)
}

func TestInstantRuleAtBoundary(t *testing.T) {
	e, clock, _ := newTestEngine(t, stubRand{})
	clock.Advance(instantWindow)

	e.ApplyIncorrectKeystroke()
	assert.Equal(t, 1, e.wicketsDown, "exactly 18s is still inside the window")

	clock.Advance(instantWindow + time.Millisecond)
	e.ApplyIncorrectKeystroke()
	assert.Equal(t, 1, e.wicketsDown, "first error after the window is not out")
	assert.Equal(t, 1, e.partnershipErrors)
}

func TestRollingWindowDismissal(t *testing.T) {
	e, clock, _ := newTestEngine(t, stubRand{})
	e.suppressInstant = true
	clock.Advance(20 * time.Second)

	e.ApplyIncorrectKeystroke()
	assert.False(t, e.suppressInstant, "suppression clears once past 18s")
	clock.Advance(10 * time.Second)
	e.ApplyIncorrectKeystroke()
	require.Equal(t, 0, e.wicketsDown)
	require.Equal(t, 2, e.partnershipErrors)

	clock.Advance(10 * time.Second)
	e.ApplyIncorrectKeystroke()

	assert.Equal(t, 1, e.wicketsDown)
	assert.True(t, e.suppressInstant, "window dismissal suppresses the next instant rule")
	assert.Empty(t, e.partnershipErrorTimes)
}

func TestRollingWindowSpreadErrors(t *testing.T) {
	e, clock, _ := newTestEngine(t, stubRand{})
	clock.Advance(20 * time.Second)

	for i := 0; i < 3; i++ {
		e.ApplyIncorrectKeystroke()
		clock.Advance(40 * time.Second)
	}

	assert.Equal(t, 0, e.wicketsDown)
	assert.Equal(t, 3, e.partnershipErrors)
}

func TestSuppressedPartnershipSkipsInstantRule(t *testing.T) {
	e, clock, _ := newTestEngine(t, stubRand{})
	clock.Advance(20 * time.Second)
	for i := 0; i < 3; i++ {
		e.ApplyIncorrectKeystroke()
		clock.Advance(5 * time.Second)
	}
	require.Equal(t, 1, e.wicketsDown)
	require.True(t, e.suppressInstant)

	// New partnership started at the window dismissal; errors inside 18s
	// only count toward the rolling window.
	e.ApplyIncorrectKeystroke()
	clock.Advance(2 * time.Second)
	e.ApplyIncorrectKeystroke()
	assert.Equal(t, 1, e.wicketsDown)
	assert.True(t, e.suppressInstant, "still inside the first 18s")

	clock.Advance(2 * time.Second)
	e.ApplyIncorrectKeystroke()
	assert.Equal(t, 2, e.wicketsDown, "third error within 36s falls to the window rule")
	assert.True(t, e.suppressInstant)
}

func TestInstantDismissalClearsSuppression(t *testing.T) {
	e, clock, _ := newTestEngine(t, stubRand{})
	clock.Advance(time.Second)
	e.ApplyIncorrectKeystroke()
	require.Equal(t, 1, e.wicketsDown)
	assert.False(t, e.suppressInstant)
}

func TestMiddleOrderEveryFifthError(t *testing.T) {
	for wickets := 2; wickets <= 5; wickets++ {
		e, _, _ := newTestEngine(t, stubRand{})
		forceWickets(e, wickets)
		require.Equal(t, wickets, e.wicketsDown)

		for i := 1; i <= 4; i++ {
			e.ApplyIncorrectKeystroke()
			require.Equal(t, wickets, e.wicketsDown, "error %d with %d down", i, wickets)
		}
		e.ApplyIncorrectKeystroke()
		assert.Equal(t, wickets+1, e.wicketsDown, "fifth error with %d down", wickets)
		assert.False(t, e.suppressInstant)
	}
}

func TestMiddleOrderCountIsPerPartnership(t *testing.T) {
	e, _, _ := newTestEngine(t, stubRand{})
	forceWickets(e, 2)

	for i := 0; i < 10; i++ {
		e.ApplyIncorrectKeystroke()
	}
	// Fifth error takes a wicket and resets the count; the next five take
	// another.
	assert.Equal(t, 4, e.wicketsDown)
	assert.Equal(t, 0, e.partnershipErrors)
}

func TestTailEverySecondError(t *testing.T) {
	for wickets := 6; wickets <= 8; wickets++ {
		e, _, _ := newTestEngine(t, stubRand{})
		forceWickets(e, wickets)

		e.ApplyIncorrectKeystroke()
		require.Equal(t, wickets, e.wicketsDown)
		e.ApplyIncorrectKeystroke()
		assert.Equal(t, wickets+1, e.wicketsDown)
	}
}

func TestLastWicketAlwaysFalls(t *testing.T) {
	e, _, _ := newTestEngine(t, stubRand{})
	forceWickets(e, 9)

	e.ApplyIncorrectKeystroke()

	s := e.Snapshot()
	assert.Equal(t, MaxWickets, s.WicketsDown)
	assert.True(t, s.AllOut())
}

func TestAllOutIsTerminal(t *testing.T) {
	e, clock, _ := newTestEngine(t, NewRand(7))

	for i := 0; i < 500 && e.wicketsDown < MaxWickets; i++ {
		e.ApplyIncorrectKeystroke()
		clock.Advance(3 * time.Second)
	}
	require.Equal(t, MaxWickets, e.wicketsDown)

	assert.NotPanics(t, func() {
		for i := 0; i < 20; i++ {
			e.ApplyIncorrectKeystroke()
			e.ApplyCorrectKeystroke()
			e.ApplyClockTick()
		}
	})

	s := e.Snapshot()
	assert.Equal(t, MaxWickets, s.WicketsDown)
	out := 0
	for _, p := range s.Players {
		if p.IsOut {
			out++
		}
	}
	assert.Equal(t, MaxWickets, out)
}

func TestDismissIsIdempotent(t *testing.T) {
	e, clock, _ := newTestEngine(t, stubRand{})
	e.dismiss(0, clock.Now())
	desc := e.players[0].DismissalDescription

	e.dismiss(0, clock.Now())

	assert.Equal(t, 1, e.wicketsDown)
	assert.Equal(t, desc, e.players[0].DismissalDescription)
}

func TestNextBatterIsLowestAvailable(t *testing.T) {
	e, clock, _ := newTestEngine(t, stubRand{})

	e.dismiss(1, clock.Now())
	assert.Equal(t, [2]int{0, 2}, e.pair)
	e.dismiss(0, clock.Now())
	assert.Equal(t, [2]int{3, 2}, e.pair)
	assert.Equal(t, 1, e.striker, "survivor in slot 1 keeps strike")
}

func TestRandomInningsInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	clock := newManualClock()
	prevWickets := 0
	e := New([]string{"A", "B", "C"}, func(s Snapshot) {
		total := 0
		for _, p := range s.Players {
			total += p.RunsScored
		}
		if total != s.TotalRuns {
			t.Fatalf("run conservation broken: %d != %d", total, s.TotalRuns)
		}
		if s.WicketsDown < prevWickets || s.WicketsDown > MaxWickets {
			t.Fatalf("wickets went from %d to %d", prevWickets, s.WicketsDown)
		}
		prevWickets = s.WicketsDown
		if s.BallsInCurrentOver < 0 || s.BallsInCurrentOver >= BallsPerOver {
			t.Fatalf("balls in over out of range: %d", s.BallsInCurrentOver)
		}
	}, WithClock(clock), WithRand(NewRand(3)))

	for i := 0; i < 3000; i++ {
		switch n := rng.Intn(10); {
		case n < 6:
			e.ApplyCorrectKeystroke()
		case n < 8:
			e.ApplyIncorrectKeystroke()
		default:
			e.ApplyClockTick()
		}
		clock.Advance(time.Duration(rng.Intn(1500)) * time.Millisecond)
	}

	s := e.Snapshot()
	out := 0
	for _, p := range s.Players {
		if p.IsOut {
			out++
		}
	}
	assert.Equal(t, s.WicketsDown, out, "every wicket is a distinct player")
}

func TestDeterminism(t *testing.T) {
	run := func() Snapshot {
		clock := newManualClock()
		e := New(nil, nil, WithClock(clock), WithRand(NewRand(12345)))
		for i := 0; i < 400; i++ {
			switch i % 7 {
			case 0, 3:
				e.ApplyIncorrectKeystroke()
			case 5:
				e.ApplyClockTick()
			default:
				e.ApplyCorrectKeystroke()
			}
			clock.Advance(700 * time.Millisecond)
		}
		return e.Snapshot()
	}

	assert.Equal(t, run(), run())
}

func TestSnapshotIsACopy(t *testing.T) {
	e, _, _ := newTestEngine(t, stubRand{})
	s := e.Snapshot()
	s.Players[0].RunsScored = 99
	s.Players[0].Name = "changed"

	fresh := e.Snapshot()
	assert.Equal(t, 0, fresh.Players[0].RunsScored)
	assert.Equal(t, "Tendulkar", fresh.Players[0].Name)
}

func TestResetWithNewRoster(t *testing.T) {
	e, clock, seen := newTestEngine(t, stubRand{float: 0.1})
	e.ApplyCorrectKeystroke()
	e.ApplyClockTick()
	clock.Advance(time.Second)
	e.ApplyIncorrectKeystroke()
	before := len(*seen)

	e.Reset([]string{"Root", "Crawley"})

	require.Len(t, *seen, before+1)
	s := (*seen)[len(*seen)-1]
	assert.Equal(t, 0, s.TotalRuns)
	assert.Equal(t, 0, s.WicketsDown)
	assert.Equal(t, 0, s.BallsInCurrentOver)
	assert.Equal(t, "Root", s.Players[0].Name)
	assert.Equal(t, "Crawley", s.Players[1].Name)
	assert.Equal(t, "Tendulkar", s.Players[2].Name)
	assert.Equal(t, [2]int{0, 1}, e.Pair())
	assert.False(t, e.suppressInstant)
}

func TestRunRate(t *testing.T) {
	e, _, _ := newTestEngine(t, stubRand{float: 0.1})
	for i := 0; i < 10; i++ {
		e.ApplyCorrectKeystroke()
	}

	assert.Equal(t, 0.0, e.RunRate(0))
	assert.Equal(t, 0.0, e.RunRate(-time.Second))
	// 30s of a 5 minute, 50 over match is 5 overs.
	assert.InDelta(t, 2.0, e.RunRate(30*time.Second), 1e-9)

	custom := New(nil, nil, WithFormat(time.Minute, 20), WithRand(stubRand{}))
	custom.ApplyCorrectKeystroke()
	assert.InDelta(t, 0.1, custom.RunRate(30*time.Second), 1e-9)
}
