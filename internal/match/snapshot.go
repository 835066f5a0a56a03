package match

import "fmt"

// Snapshot is an immutable view of match state handed to the observer.
// Players is a copy; changing it has no effect on the engine.
type Snapshot struct {
	TotalRuns          int
	WicketsDown        int
	CompletedOvers     int
	BallsInCurrentOver int
	Players            []Player
	StrikerIndex       int
	NonStrikerIndex    int
}

// Observer receives a snapshot after every mutating engine call.
type Observer func(Snapshot)

// Overs formats the over count the cricket way, e.g. "36.2".
func (s Snapshot) Overs() string {
	return fmt.Sprintf("%d.%d", s.CompletedOvers, s.BallsInCurrentOver)
}

// Scoreline formats the team total, e.g. "226/4 36.2 overs".
func (s Snapshot) Scoreline() string {
	return fmt.Sprintf("%d/%d %s overs", s.TotalRuns, s.WicketsDown, s.Overs())
}

// AllOut reports whether every wicket has fallen.
func (s Snapshot) AllOut() bool {
	return s.WicketsDown >= MaxWickets
}

// IsBatting reports whether the player at idx is at the crease and not out.
func (s Snapshot) IsBatting(idx int) bool {
	if idx < 0 || idx >= len(s.Players) || s.Players[idx].IsOut {
		return false
	}
	return idx == s.StrikerIndex || idx == s.NonStrikerIndex
}

