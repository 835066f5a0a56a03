package match

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// LineupSize is the number of players in a batting lineup.
	LineupSize = 11

	// MaxNameLen bounds a player name so the batting card stays aligned.
	MaxNameLen = 24
)

// ErrInvalidLineup is returned (wrapped) by ValidateLineup.
var ErrInvalidLineup = errors.New("invalid lineup")

// DefaultPlayers is the roster used when no names (or too few) are supplied.
var DefaultPlayers = [LineupSize]string{
	"Tendulkar", "Sehwag", "Ganguly", "Dravid", "Kaif",
	"Yuvraj", "Pathan", "Khan", "Kumble", "Harbhajan", "Srisanth",
}

// dismissalModes is the catalog dismissal descriptions are drawn from.
var dismissalModes = []string{
	"b Steyn", "lbw Steyn", "c de Villiers b Steyn", "b Anderson", "lbw Anderson",
	"c Dhoni b Bumrah", "b Bumrah", "c Gilchrist b McGrath", "b McGrath", "st Dhoni",
}

// Player is one member of the batting lineup.
// Identity is the lineup position, not the name.
type Player struct {
	Name                 string
	RunsScored           int
	BallsFaced           int
	IsOut                bool
	DismissalDescription string
}

// BuildLineup merges supplied names with the default roster.
// Blank names are skipped, the defaults are appended after the supplied
// names, and the result is cut to LineupSize.
func BuildLineup(names []string) [LineupSize]string {
	merged := make([]string, 0, len(names)+LineupSize)
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		merged = append(merged, n)
	}
	merged = append(merged, DefaultPlayers[:]...)

	var lineup [LineupSize]string
	copy(lineup[:], merged)
	return lineup
}

// ValidateLineup rejects input the engine should never see: more names than
// lineup slots, or names too long to display. Fewer names are fine; they are
// padded from the defaults.
func ValidateLineup(names []string) error {
	if len(names) > LineupSize {
		return fmt.Errorf("%w: %d names, at most %d allowed", ErrInvalidLineup, len(names), LineupSize)
	}
	for i, n := range names {
		if utf8.RuneCountInString(strings.TrimSpace(n)) > MaxNameLen {
			return fmt.Errorf("%w: name %d is longer than %d characters", ErrInvalidLineup, i+1, MaxNameLen)
		}
	}
	return nil
}

func newPlayers(lineup [LineupSize]string) []Player {
	players := make([]Player, LineupSize)
	for i, name := range lineup {
		players[i] = Player{Name: name}
	}
	return players
}
