// Package core provides the drawing primitives shared by the renderers.
// It has no terminal dependencies (no Bubble Tea) so chart layout stays
// testable as a plain rune buffer.
package core

// Rect is an axis-aligned area of the screen.
type Rect struct {
	X, Y int // top-left corner
	W, H int
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Inset shrinks the rectangle by the given margins, never below zero size.
func (r Rect) Inset(top, right, bottom, left int) Rect {
	return Rect{
		X: r.X + left,
		Y: r.Y + top,
		W: Max(r.W-left-right, 0),
		H: Max(r.H-top-bottom, 0),
	}
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
