package storage

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/typecricket/internal/match"
)

// LineupFile is the on-disk form used by `lineup import` and `lineup export`:
//
//	name: India 2003
//	players:
//	  - Tendulkar
//	  - Sehwag
type LineupFile struct {
	Name    string   `yaml:"name"`
	Players []string `yaml:"players"`
}

// ReadLineupFile decodes and validates a lineup file.
func ReadLineupFile(r io.Reader) (*LineupFile, error) {
	var f LineupFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("storage: %w: empty lineup file", match.ErrInvalidLineup)
		}
		return nil, fmt.Errorf("storage: cannot parse lineup file: %w", err)
	}
	if err := match.ValidateLineup(f.Players); err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return &f, nil
}

// WriteLineupFile encodes l as YAML.
func WriteLineupFile(w io.Writer, l *Lineup) error {
	f := LineupFile{Name: l.Name, Players: l.Players[:]}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("storage: cannot write lineup file: %w", err)
	}
	return enc.Close()
}
