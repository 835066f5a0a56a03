package tui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/typecricket/internal/core"
	"github.com/vovakirdan/typecricket/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23235").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.typecricket/host_key.
	HostKeyPath string

	// MetricsAddress serves Prometheus /metrics when not empty.
	MetricsAddress string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Runtime carries the match settings every session plays with.
	Runtime core.RuntimeConfig
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23235",
		IdleTimeout: 30 * time.Minute,
		Runtime:     core.DefaultConfig(),
	}
}

// SSHServer wraps a Wish SSH server that hands every session its own game.
type SSHServer struct {
	config  SSHServerConfig
	env     Env
	server  *ssh.Server
	metrics *http.Server
}

// NewSSHServer creates a new SSH server. The store, logger and metrics in
// env are shared by all sessions.
func NewSSHServer(cfg SSHServerConfig, env Env) (*SSHServer, error) {
	env = env.withDefaults()
	srv := &SSHServer{
		config: cfg,
		env:    env,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".typecricket", "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if err := os.MkdirAll(hostKeyDir, 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	// Middleware runs last-to-first: logging wraps activeterm wraps the game.
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			activeterm.Middleware(),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}
	srv.server = server

	if cfg.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", env.Metrics.Handler())
		srv.metrics = &http.Server{
			Addr:              cfg.MetricsAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return srv, nil
}

// sessionIDKey stores the session's uuid in the ssh context.
type sessionIDKey struct{}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sshSession.Pty()

	cfg := s.config.Runtime
	cfg.ScreenW = pty.Window.Width
	cfg.ScreenH = pty.Window.Height

	env := s.env
	id, _ := sshSession.Context().Value(sessionIDKey{}).(string)
	env.Logger = s.env.Logger.With("session", id, "user", sshSession.User())

	name, lineup := s.lineupFor(sshSession.User())
	model := NewSessionModel(env, cfg, name, lineup, false)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// lineupFor returns the saved lineup named after the SSH user, if any.
func (s *SSHServer) lineupFor(user string) (string, []string) {
	if s.env.Store == nil || user == "" {
		return "", nil
	}
	l, err := s.env.Store.Lineup(user)
	if err != nil {
		if !errors.Is(err, storage.ErrLineupNotFound) {
			s.env.Logger.Warn("could not load lineup", "user", user, "error", err)
		}
		return "", nil
	}
	return l.Name, l.Players[:]
}

// loggingMiddleware tags the session with an id, logs it and counts it.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		id := uuid.NewString()
		sshSession.Context().SetValue(sessionIDKey{}, id)

		s.env.Metrics.SessionStarted()
		defer s.env.Metrics.SessionEnded()

		start := time.Now()
		s.env.Logger.Info("session started",
			"session", id,
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.env.Logger.Info("session ended",
			"session", id,
			"user", sshSession.User(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe serves SSH (and metrics, when configured) until ctx is done,
// then shuts down gracefully.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	errc := make(chan error, 2)

	s.env.Logger.Info("starting SSH server", "address", s.config.Address)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- fmt.Errorf("ssh server: %w", err)
		}
	}()

	if s.metrics != nil {
		s.env.Logger.Info("serving metrics", "address", s.config.MetricsAddress)
		go func() {
			if err := s.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	var serveErr error
	select {
	case <-ctx.Done():
		s.env.Logger.Info("shutting down...")
	case serveErr = <-errc:
		s.env.Logger.Error("server error", "error", serveErr)
	}

	if err := s.Shutdown(); err != nil {
		return errors.Join(serveErr, err)
	}
	return serveErr
}

// Shutdown gracefully stops the servers.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error
	if s.metrics != nil {
		if err := s.metrics.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.server.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// MetricsAddr returns the metrics listen address, or "" when disabled.
func (s *SSHServer) MetricsAddr() string {
	if s.metrics == nil {
		return ""
	}
	return s.metrics.Addr
}

// splitHostPort is used by the CLI to show a connect hint.
func splitHostPort(addr string) (host, port string) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "localhost", addr
	}
	if host == "" {
		host = "localhost"
	}
	return host, port
}

// ConnectHint returns an ssh command line for the server address.
func (s *SSHServer) ConnectHint() string {
	host, port := splitHostPort(s.config.Address)
	return fmt.Sprintf("ssh -p %s %s", port, host)
}
