package worm

import (
	"math"
	"strconv"

	"github.com/vovakirdan/typecricket/internal/core"
)

const (
	axisLabelWidth = 4 // room for run labels left of the y-axis
	xTickEvery     = 5 // overs between x-axis labels
	labelAttempts  = 6 // vertical nudges tried when wicket labels collide

	minPlotW = 10
	minPlotH = 3
)

// plot maps chart coordinates to screen cells inside an area.
type plot struct {
	left, top int
	w, h      int
	xMax      float64
	yMax      float64
}

func (p plot) col(overs float64) int {
	return p.left + int(math.Round(overs/p.xMax*float64(p.w-1)))
}

func (p plot) row(runs int) int {
	return p.top + p.h - 1 - int(math.Round(float64(runs)/p.yMax*float64(p.h-1)))
}

// Render draws axes, the worm line and wicket markers into area.
// Areas too small to hold a plot are left blank.
func (c *Chart) Render(dst *core.Screen, area core.Rect) {
	plotArea := area.Inset(0, 0, 2, axisLabelWidth+1)
	if plotArea.W < minPlotW || plotArea.H < minPlotH {
		return
	}

	p := plot{
		left: plotArea.X,
		top:  plotArea.Y,
		w:    plotArea.W,
		h:    plotArea.H,
		xMax: float64(c.XDomain()),
		yMax: float64(c.YDomain()),
	}

	c.drawAxes(dst, p)
	c.drawLine(dst, p)
	c.drawWickets(dst, p, area)
}

func (c *Chart) drawAxes(dst *core.Screen, p plot) {
	axisX := p.left - 1
	axisY := p.top + p.h

	dst.DrawVLine(axisX, p.top, p.h, '│', core.ColorAxis)
	dst.DrawHLine(p.left, axisY, p.w, '─', core.ColorAxis)
	dst.SetColor(axisX, axisY, '└', core.ColorAxis)

	nextFree := p.left - 1
	for o := 0; o <= int(p.xMax); o += xTickEvery {
		x := p.col(float64(o))
		label := strconv.Itoa(o)
		start := x - len(label)/2
		if start <= nextFree || start+len(label) > p.left+p.w {
			continue
		}
		dst.SetColor(x, axisY, '┴', core.ColorAxis)
		dst.DrawTextColor(start, axisY+1, label, core.ColorAxis)
		nextFree = start + len(label)
	}

	lastRow := math.MaxInt
	for r := 0; r <= int(p.yMax); r += runsStep {
		y := p.row(r)
		if y >= lastRow {
			continue
		}
		label := strconv.Itoa(r)
		dst.SetColor(axisX, y, '┤', core.ColorAxis)
		dst.DrawTextColor(axisX-len(label), y, label, core.ColorAxis)
		lastRow = y
	}
}

func (c *Chart) drawLine(dst *core.Screen, p plot) {
	pts := c.Points()
	for i := 1; i < len(pts); i++ {
		x0, y0 := p.col(pts[i-1].Overs), p.row(pts[i-1].Runs)
		x1, y1 := p.col(pts[i].Overs), p.row(pts[i].Runs)

		steps := core.Max(abs(x1-x0), abs(y1-y0))
		if steps == 0 {
			dst.SetColor(x0, y0, '•', core.ColorWorm)
			continue
		}
		for s := 0; s <= steps; s++ {
			x := x0 + int(math.Round(float64(s*(x1-x0))/float64(steps)))
			y := y0 + int(math.Round(float64(s*(y1-y0))/float64(steps)))
			dst.SetColor(x, y, '•', core.ColorWorm)
		}
	}
}

// box is a screen span occupied by a label.
type box struct {
	x0, x1, y int
}

func (b box) overlaps(o box) bool {
	return b.y == o.y && b.x0 <= o.x1 && o.x0 <= b.x1
}

// drawWickets places a marker per wicket and a label beside it, preferring
// the right of the marker and nudging vertically to avoid earlier labels.
func (c *Chart) drawWickets(dst *core.Screen, p plot, area core.Rect) {
	var placed []box
	for _, w := range c.wickets {
		cx, cy := p.col(w.X()), p.row(w.TotalRuns)
		dst.SetColor(cx, cy, 'W', core.ColorWicket)

		label := []rune(w.Label)
		lx := cx + 2
		if lx+len(label) > p.left+p.w {
			lx = cx - 2 - len(label)
		}
		lx = core.Max(lx, p.left)

		candidate := box{lx, lx + len(label) - 1, cy - 1}
		for i := 0; i < labelAttempts && collides(candidate, placed); i++ {
			candidate.y--
		}
		if candidate.y < p.top || collides(candidate, placed) {
			candidate.y = cy + 1
			for i := 0; i < labelAttempts && collides(candidate, placed); i++ {
				candidate.y++
			}
		}
		if candidate.y >= p.top+p.h || candidate.y < area.Y {
			continue
		}

		placed = append(placed, candidate)
		dst.DrawTextColor(candidate.x0, candidate.y, w.Label, core.ColorLabel)
	}
}

func collides(b box, placed []box) bool {
	for _, o := range placed {
		if b.overlaps(o) {
			return true
		}
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
