// Package metrics exposes Prometheus counters for the SSH server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry sets the registry metrics are registered on and served from.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// Manager owns the typecricket metrics. A nil *Manager is valid and records
// nothing, so callers outside `serve` can pass nil.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	sessionsActive   prometheus.Gauge
	sessionsTotal    prometheus.Counter
	inningsCompleted *prometheus.CounterVec
	inningsDuration  prometheus.Histogram
	wordsPerMinute   prometheus.Histogram
	runsTotal        prometheus.Counter
	wicketsTotal     prometheus.Counter
}

// NewManager creates a manager on a private registry unless WithRegistry is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "typecricket",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	f := promauto.With(m.registry)

	m.sessionsActive = f.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "sessions_active",
		Help:      "SSH sessions currently connected.",
	})
	m.sessionsTotal = f.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "sessions_total",
		Help:      "SSH sessions accepted since start.",
	})
	m.inningsCompleted = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "innings_completed_total",
		Help:      "Innings finished, by how they ended.",
	}, []string{"reason"})
	m.inningsDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "innings_duration_seconds",
		Help:      "Wall-clock length of finished innings.",
		Buckets:   []float64{15, 30, 60, 120, 180, 240, 300, 360},
	})
	m.wordsPerMinute = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "innings_words_per_minute",
		Help:      "Typing speed over finished innings.",
		Buckets:   prometheus.LinearBuckets(10, 10, 12),
	})
	m.runsTotal = f.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "runs_total",
		Help:      "Runs scored across all innings.",
	})
	m.wicketsTotal = f.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "wickets_total",
		Help:      "Wickets fallen across all innings.",
	})

	return m
}

// Registry returns the registry backing the manager.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// SessionStarted records a new connection.
func (m *Manager) SessionStarted() {
	if m == nil {
		return
	}
	m.sessionsTotal.Inc()
	m.sessionsActive.Inc()
}

// SessionEnded records a disconnect.
func (m *Manager) SessionEnded() {
	if m == nil {
		return
	}
	m.sessionsActive.Dec()
}

// Innings is the summary recorded when an innings finishes.
type Innings struct {
	Reason   string
	Runs     int
	Wickets  int
	Duration time.Duration
	WPM      int
}

// InningsCompleted records a finished innings.
func (m *Manager) InningsCompleted(in Innings) {
	if m == nil {
		return
	}
	m.inningsCompleted.WithLabelValues(in.Reason).Inc()
	m.inningsDuration.Observe(in.Duration.Seconds())
	m.wordsPerMinute.Observe(float64(in.WPM))
	m.runsTotal.Add(float64(in.Runs))
	m.wicketsTotal.Add(float64(in.Wickets))
}
