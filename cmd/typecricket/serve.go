package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/typecricket/internal/metrics"
	"github.com/vovakirdan/typecricket/internal/platform/tui"
	"github.com/vovakirdan/typecricket/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagMetricsAddr string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the typecricket SSH server",
	Long: `Start an SSH server that allows users to connect and bat.

Each SSH connection gets its own session with a menu. Lineups are stored
per-server; a user whose login name matches a saved lineup bats with it.

Host key handling:
  - If --host-key (or host_key in config) is set, uses that key file
  - Otherwise, auto-generates a key at ~/.typecricket/host_key

Examples:
  typecricket serve                           # Listen on :23235
  typecricket serve --ssh :2222               # Listen on port 2222
  typecricket serve --metrics :9090           # Also serve Prometheus /metrics
  typecricket serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23235`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address host:port (overrides config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (overrides config)")
	serveCmd.Flags().StringVar(&flagMetricsAddr, "metrics", "", "Address for Prometheus /metrics (overrides config)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagSSHAddr != "" {
		cfg.SSHAddr = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.HostKey = flagHostKey
	}
	if flagMetricsAddr != "" {
		cfg.MetricsAddr = flagMetricsAddr
	}
	if flagIdleTimeout > 0 {
		cfg.IdleTimeout = flagIdleTimeout
	}

	logger := newLogger(os.Stderr, cfg, "typecricket-ssh")

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open lineup database", "error", err)
		// Continue without saved lineups
		store = nil
	} else {
		defer store.Close()
	}

	serverCfg := tui.SSHServerConfig{
		Address:        cfg.SSHAddr,
		HostKeyPath:    cfg.HostKey,
		MetricsAddress: cfg.MetricsAddr,
		IdleTimeout:    cfg.IdleTimeout,
		Runtime:        cfg.Runtime(),
	}
	env := tui.Env{
		Store:   store,
		Logger:  logger,
		Metrics: metrics.NewManager(),
	}

	server, err := tui.NewSSHServer(serverCfg, env)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting typecricket SSH server on %s\n", server.Addr())
	fmt.Printf("Connect with: %s\n", server.ConnectHint())
	if addr := server.MetricsAddr(); addr != "" {
		fmt.Printf("Metrics on http://%s/metrics\n", addr)
	}
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe(ctx)
}
