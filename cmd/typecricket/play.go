package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/typecricket/internal/platform/tui"
	"github.com/vovakirdan/typecricket/internal/storage"
)

var (
	flagLineup     string
	flagLineupFile string
	flagSeed       int64
	flagWords      int
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Bat an innings in this terminal",
	Long: `Start an innings. The clock starts on your first keystroke.

Controls:
  Type       - Each finished word scores a run, each wrong key may cost a wicket
  Esc        - Declare the innings, then back to the menu
  Ctrl+R     - New innings with the same lineup
  Ctrl+E     - Edit the lineup (between innings)
  Ctrl+C     - Quit

Examples:
  typecricket play
  typecricket play --lineup aussies
  typecricket play --lineup-file ./aussies.yaml
  typecricket play --seed 42 --words 200`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLineup, "lineup", "", "Name of a saved lineup to bat with")
	playCmd.Flags().StringVar(&flagLineupFile, "lineup-file", "", "Path to a lineup YAML file to bat with")
	playCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed (overrides config; 0 = config or time)")
	playCmd.Flags().IntVar(&flagWords, "words", 0, "Passage length in words (overrides config)")
	playCmd.MarkFlagsMutuallyExclusive("lineup", "lineup-file")
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagSeed != 0 {
		cfg.Seed = flagSeed
	}
	if flagWords > 0 {
		cfg.WordCount = flagWords
	}

	// The alt screen owns the terminal, so logs go to a file.
	logger := log.New(io.Discard)
	if f, err := openLogFile(cfg.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	} else {
		defer f.Close()
		logger = newLogger(f, cfg, "typecricket")
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open lineup database", "error", err)
		// Continue without saved lineups
		store = nil
	} else {
		defer store.Close()
	}

	name, lineup, err := resolveLineup(store)
	if err != nil {
		return err
	}

	rt := cfg.Runtime()
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		rt.ScreenW = w
		rt.ScreenH = h
	}

	env := tui.Env{Store: store, Logger: logger}
	return tui.Run(env, rt, name, lineup)
}

// resolveLineup returns the lineup picked by --lineup or --lineup-file, or
// the default XI when neither is set.
func resolveLineup(store *storage.Store) (string, []string, error) {
	switch {
	case flagLineupFile != "":
		f, err := os.Open(flagLineupFile)
		if err != nil {
			return "", nil, err
		}
		defer f.Close()
		lf, err := storage.ReadLineupFile(f)
		if err != nil {
			return "", nil, fmt.Errorf("%s: %w", flagLineupFile, err)
		}
		return lf.Name, lf.Players, nil

	case flagLineup != "":
		if store == nil {
			return "", nil, fmt.Errorf("lineup %q: no lineup database available", flagLineup)
		}
		l, err := store.Lineup(flagLineup)
		if err != nil {
			return "", nil, err
		}
		return l.Name, l.Players[:], nil
	}
	return "", nil, nil
}
