// Package match implements the cricket scoring engine behind the typing game.
//
// The engine turns three event kinds into innings state: a correctly typed
// word scores a run, a typing error may cost a wicket, and every real second
// bowls a ball. It holds no goroutines or locks; the owning driver serializes
// calls. Randomness and wall-clock reads are injected so tests can run the
// time-windowed dismissal rules without sleeping.
package match

import "time"

const (
	// MaxWickets ends the innings.
	MaxWickets = 10

	// BallsPerOver is the number of clock ticks in one over.
	BallsPerOver = 6

	// strikerCreditProb is the chance a run goes to the batter on strike.
	strikerCreditProb = 0.65

	// DefaultMatchDuration maps onto DefaultNominalOvers for run rate.
	DefaultMatchDuration = 5 * time.Minute
	DefaultNominalOvers  = 50
)

// Engine owns all cricket-domain state for one innings.
type Engine struct {
	clock    Clock
	rng      Rand
	observer Observer

	matchDuration time.Duration
	nominalOvers  int

	players []Player

	totalRuns   int
	wicketsDown int
	balls       int // balls in the current over, 0-5
	overs       int // completed overs

	pair    [2]int // lineup indices at the crease
	striker int    // 0 or 1, slot in pair on strike

	partnershipErrors     int
	partnershipStart      time.Time
	partnershipErrorTimes []time.Time

	// suppressInstant skips the instant rule for the first window of the
	// next partnership after a rolling-window dismissal.
	suppressInstant bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source used by the dismissal policy.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithRand sets the random source.
func WithRand(r Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithFormat sets the match duration and the overs it represents for run rate.
func WithFormat(duration time.Duration, overs int) Option {
	return func(e *Engine) {
		if duration > 0 {
			e.matchDuration = duration
		}
		if overs > 0 {
			e.nominalOvers = overs
		}
	}
}

// New creates an engine for the given names and notifies the observer with
// the opening snapshot. Missing names are filled from DefaultPlayers.
func New(names []string, observer Observer, opts ...Option) *Engine {
	e := &Engine{
		clock:         SystemClock(),
		observer:      observer,
		matchDuration: DefaultMatchDuration,
		nominalOvers:  DefaultNominalOvers,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = NewRand(0)
	}
	e.Reset(names)
	return e
}

// Reset starts a fresh innings with the given names (defaults when empty).
func (e *Engine) Reset(names []string) {
	e.players = newPlayers(BuildLineup(names))
	e.totalRuns = 0
	e.wicketsDown = 0
	e.balls = 0
	e.overs = 0
	e.pair = [2]int{0, 1}
	e.striker = 0
	e.suppressInstant = false
	e.resetPartnership()
	e.notify()
}

// StartInnings restarts the opening partnership's clock. Time spent before
// the first ball does not count toward the top-order rules.
func (e *Engine) StartInnings() {
	e.resetPartnership()
}

// SetObserver replaces the registered observer.
func (e *Engine) SetObserver(o Observer) {
	e.observer = o
}

// strikerIdx returns the lineup index of the batter on strike.
func (e *Engine) strikerIdx() int {
	return e.pair[e.striker]
}

func (e *Engine) nonStrikerIdx() int {
	return e.pair[1-e.striker]
}

// ApplyCorrectKeystroke scores one run for a correctly typed word.
func (e *Engine) ApplyCorrectKeystroke() {
	e.totalRuns++

	toStriker := e.rng.Float64() < strikerCreditProb
	if toStriker {
		e.players[e.strikerIdx()].RunsScored++
	} else {
		e.players[e.nonStrikerIdx()].RunsScored++
		// Odd run: batters cross.
		e.striker = 1 - e.striker
	}

	e.notify()
}

// ApplyIncorrectKeystroke records a typing error, which may cost a wicket.
func (e *Engine) ApplyIncorrectKeystroke() {
	now := e.clock.Now()

	reason := e.wicketReason(now)
	if reason != reasonNone {
		out := e.pair[e.rng.Intn(2)]
		e.dismiss(out, now)
		e.suppressInstant = reason == reasonWindow
	} else {
		e.partnershipErrors++
		e.partnershipErrorTimes = append(e.partnershipErrorTimes, now)
	}

	e.notify()
}

// dismiss marks a batter out and brings in the next available player.
func (e *Engine) dismiss(idx int, now time.Time) {
	p := &e.players[idx]
	if p.IsOut {
		return
	}
	p.IsOut = true
	p.DismissalDescription = dismissalModes[e.rng.Intn(len(dismissalModes))]
	e.wicketsDown++

	if next := e.nextBatter(); next >= 0 {
		slot := 0
		if e.pair[1] == idx {
			slot = 1
		}
		e.pair[slot] = next
		// Survivor keeps strike; the new batter starts at the other end.
		e.striker = 1 - slot
	}

	e.resetPartnershipAt(now)
}

// nextBatter returns the lowest lineup index neither out nor batting, or -1.
func (e *Engine) nextBatter() int {
	for i, p := range e.players {
		if p.IsOut || i == e.pair[0] || i == e.pair[1] {
			continue
		}
		return i
	}
	return -1
}

func (e *Engine) resetPartnership() {
	e.resetPartnershipAt(e.clock.Now())
}

func (e *Engine) resetPartnershipAt(now time.Time) {
	e.partnershipErrors = 0
	e.partnershipStart = now
	e.partnershipErrorTimes = nil
}

// ApplyClockTick bowls one ball: the striker faces it and the over advances.
func (e *Engine) ApplyClockTick() {
	e.players[e.strikerIdx()].BallsFaced++
	e.balls++
	if e.balls >= BallsPerOver {
		e.balls = 0
		e.overs++
		// Change of ends.
		e.striker = 1 - e.striker
	}
	e.notify()
}

// RunRate returns runs per over, treating the elapsed time as a fraction of
// the configured match format. Zero before any time has elapsed.
func (e *Engine) RunRate(elapsed time.Duration) float64 {
	if e.matchDuration <= 0 {
		return 0
	}
	oversEquivalent := elapsed.Seconds() / e.matchDuration.Seconds() * float64(e.nominalOvers)
	if oversEquivalent <= 0 {
		return 0
	}
	return float64(e.totalRuns) / oversEquivalent
}

// Pair returns the lineup indices at the crease, striker first.
func (e *Engine) Pair() [2]int {
	return [2]int{e.strikerIdx(), e.nonStrikerIdx()}
}

// Snapshot returns a copy of the current match state.
func (e *Engine) Snapshot() Snapshot {
	players := make([]Player, len(e.players))
	copy(players, e.players)

	return Snapshot{
		TotalRuns:          e.totalRuns,
		WicketsDown:        e.wicketsDown,
		CompletedOvers:     e.overs,
		BallsInCurrentOver: e.balls,
		Players:            players,
		StrikerIndex:       e.strikerIdx(),
		NonStrikerIndex:    e.nonStrikerIdx(),
	}
}

func (e *Engine) notify() {
	if e.observer != nil {
		e.observer(e.Snapshot())
	}
}
