// Package worm keeps the cumulative-runs ("worm") chart of an innings and
// draws it into a core.Screen.
package worm

import (
	"fmt"
	"math"

	"github.com/vovakirdan/typecricket/internal/match"
)

const (
	// DefaultMinOvers is the x-axis extent before the innings outgrows it.
	DefaultMinOvers = 50

	minRuns  = 200 // initial y-axis extent
	runsStep = 50  // y-axis grows in chunks of this size
)

// Wicket marks where a batter fell on the chart.
type Wicket struct {
	Player    int // lineup index
	Over      int
	Ball      int
	TotalRuns int
	Label     string // "Name runs(balls)"
}

// X returns the wicket position in overs.
func (w Wicket) X() float64 {
	return float64(w.Over) + float64(w.Ball)/match.BallsPerOver
}

// Point is one vertex of the worm line.
type Point struct {
	Overs float64
	Runs  int
}

// Chart accumulates snapshots into a worm line and wicket markers.
type Chart struct {
	minOvers int

	overTotals []int // cumulative runs at the end of each over; index 0 is the start
	wickets    []Wicket
	outSeen    []bool

	overs int
	balls int
	runs  int
}

// New creates a chart whose x-axis spans at least minOvers.
func New(minOvers int) *Chart {
	if minOvers <= 0 {
		minOvers = DefaultMinOvers
	}
	c := &Chart{minOvers: minOvers}
	c.Reset()
	return c
}

// Reset clears all recorded data.
func (c *Chart) Reset() {
	c.overTotals = []int{0}
	c.wickets = nil
	c.outSeen = nil
	c.overs = 0
	c.balls = 0
	c.runs = 0
}

// Update records a snapshot. Over-end totals are captured when the ball count
// is back at zero; newly dismissed players become wicket markers.
func (c *Chart) Update(s match.Snapshot) {
	for i := len(c.overTotals); i <= s.CompletedOvers; i++ {
		c.overTotals = append(c.overTotals, c.overTotals[i-1])
	}

	c.runs = s.TotalRuns
	c.overs = s.CompletedOvers
	c.balls = s.BallsInCurrentOver

	if len(c.outSeen) < len(s.Players) {
		grown := make([]bool, len(s.Players))
		copy(grown, c.outSeen)
		c.outSeen = grown
	}
	for i, p := range s.Players {
		if p.IsOut && !c.outSeen[i] {
			c.wickets = append(c.wickets, Wicket{
				Player:    i,
				Over:      s.CompletedOvers,
				Ball:      s.BallsInCurrentOver,
				TotalRuns: s.TotalRuns,
				Label:     fmt.Sprintf("%s %d(%d)", p.Name, p.RunsScored, p.BallsFaced),
			})
		}
		c.outSeen[i] = p.IsOut
	}

	if s.BallsInCurrentOver == 0 {
		c.overTotals[s.CompletedOvers] = s.TotalRuns
	}
}

// Wickets returns the recorded wicket markers in the order they fell.
func (c *Chart) Wickets() []Wicket {
	out := make([]Wicket, len(c.wickets))
	copy(out, c.wickets)
	return out
}

// OverTotals returns cumulative runs at each completed over, starting at 0.
func (c *Chart) OverTotals() []int {
	out := make([]int, len(c.overTotals))
	copy(out, c.overTotals)
	return out
}

// Points returns the worm line: the origin, each over end, and the current
// in-progress position.
func (c *Chart) Points() []Point {
	pts := make([]Point, 0, len(c.overTotals)+1)
	pts = append(pts, Point{})
	for o := 1; o < len(c.overTotals); o++ {
		pts = append(pts, Point{Overs: float64(o), Runs: c.overTotals[o]})
	}
	pts = append(pts, Point{Overs: c.currentOvers(), Runs: c.runs})
	return pts
}

func (c *Chart) currentOvers() float64 {
	return float64(c.overs) + float64(c.balls)/match.BallsPerOver
}

// XDomain returns the x-axis extent in overs.
func (c *Chart) XDomain() int {
	now := int(math.Ceil(c.currentOvers() + 0.001))
	if now > c.minOvers {
		return now
	}
	return c.minOvers
}

// YDomain returns the y-axis extent in runs.
func (c *Chart) YDomain() int {
	top := c.runs
	for _, r := range c.overTotals {
		if r > top {
			top = r
		}
	}
	stepped := int(math.Ceil(float64(top)/runsStep)) * runsStep
	if stepped > minRuns {
		return stepped
	}
	return minRuns
}
