package core

import "time"

// RuntimeConfig carries per-session settings from the platform layer into
// the innings driver.
type RuntimeConfig struct {
	ScreenW   int   // Screen width in characters
	ScreenH   int   // Screen height in characters
	FrameRate int   // Redraw ticks per second
	Seed      int64 // RNG seed, 0 means seed from the current time

	MatchDuration time.Duration // Wall-clock length of an innings
	NominalOvers  int           // Overs the duration stands for in the run rate
	WordCount     int           // Words in each typing passage
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:       80,
		ScreenH:       24,
		FrameRate:     10,
		MatchDuration: 5 * time.Minute,
		NominalOvers:  50,
		WordCount:     1000,
	}
}

// TickInterval is the redraw period implied by FrameRate.
func (c RuntimeConfig) TickInterval() time.Duration {
	if c.FrameRate <= 0 {
		return time.Second / 10
	}
	return time.Second / time.Duration(c.FrameRate)
}
