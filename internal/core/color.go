package core

// Color is the role a screen cell plays in a chart. The platform decides
// how each role looks on the terminal.
type Color uint8

const (
	ColorDefault Color = iota
	ColorAxis          // axes, ticks and tick labels
	ColorWorm          // the run line
	ColorWicket        // wicket markers
	ColorLabel         // wicket annotations
)
