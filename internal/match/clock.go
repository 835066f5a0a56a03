package match

import (
	"math/rand"
	"time"
)

// Clock supplies the wall-clock reads used by the time-windowed dismissal
// rules. Tests substitute a manual clock.
type Clock interface {
	Now() time.Time
}

// Rand is the random source behind batter credit, dismissed-batter and
// dismissal-description draws. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// NewRand returns a seeded random source. A zero seed uses the current time.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
