// typecricket is a typing game scored as a cricket innings.
//
// Usage:
//
//	typecricket play                  - Bat an innings in this terminal
//	typecricket serve                 - Start SSH server for remote play
//	typecricket lineup <command>      - Manage saved lineups
//	typecricket config <command>      - Write or show the configuration
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.typecricket/config.yaml)
//	--db <path>         - Lineup database (default: ~/.typecricket/typecricket.db)
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/typecricket/internal/config"
	"github.com/vovakirdan/typecricket/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "typecricket",
	Short: "Typecricket - a typing test scored like a cricket innings",
	Long: `Typecricket turns typing practice into a cricket innings. Every
correctly typed word scores a run, mistakes cost wickets, and every
second of the clock bowls a ball.

Available commands:
  play     - Bat an innings in this terminal
  serve    - Start SSH server for remote play
  lineup   - List, import, export and delete saved lineups
  config   - Write the default config or show the effective one

Examples:
  typecricket play
  typecricket play --lineup aussies
  typecricket serve --ssh :2222
  typecricket lineup import --name aussies ./aussies.yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML (default: ~/.typecricket/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to lineup database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(lineupCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads the layered config and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDBPath != "" {
		cfg.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.Config, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           cfg.Level(),
	})
}

// openLogFile opens path for appending, creating its directory.
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// openStore opens the lineup database named by the config.
func openStore(cfg *config.Config) (*storage.Store, error) {
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening lineup database: %w", err)
	}
	return store, nil
}
