// Package generator periodically injects synthetic forecast alerts into the
// store so the notification pipeline can be exercised without a backend.
package generator

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/field-report-alerts/internal/domain"
	"github.com/couchcryptid/field-report-alerts/internal/observability"
	"github.com/couchcryptid/field-report-alerts/internal/store"
)

const (
	defaultInterval  = 10 * time.Second
	defaultScatterKm = 10
)

// Config controls where and how often synthetic alerts appear.
type Config struct {
	Center      domain.LatLng
	Interval    time.Duration
	ScatterKm   float64
	FailureRate float64 // probability of a "forecast failed" alert per tick
}

func (c Config) normalized() Config {
	if c.Interval <= 0 {
		c.Interval = defaultInterval
	}
	if c.ScatterKm <= 0 {
		c.ScatterKm = defaultScatterKm
	}
	if c.FailureRate < 0 {
		c.FailureRate = 0
	}
	if c.FailureRate > 1 {
		c.FailureRate = 1
	}
	return c
}

// Options carries the generator's collaborators. Zero-value fields pick
// defaults.
type Options struct {
	Clock   clockwork.Clock
	Logger  *slog.Logger
	Metrics *observability.Metrics
	Rand    *rand.Rand
}

// Generator is a schedulable task with an explicit start/stop lifecycle.
// Reconfigure tears the current timer down and restarts with fresh values,
// so at most one timer ever runs.
type Generator struct {
	alerts  *store.Store
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
	rnd     *rand.Rand

	mu      sync.Mutex
	cfg     Config
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// New builds a Generator feeding the given store.
func New(alerts *store.Store, cfg Config, opts Options) *Generator {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewMetricsForTesting()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{
		alerts:  alerts,
		clock:   opts.Clock,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		rnd:     opts.Rand,
		cfg:     cfg.normalized(),
	}
}

// Start begins ticking. No-op when already running.
func (g *Generator) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		return
	}
	g.startLocked()
}

func (g *Generator) startLocked() {
	g.stop = make(chan struct{})
	g.done = make(chan struct{})
	g.running = true
	g.metrics.GeneratorRunning.Set(1)
	g.logger.Info("forecast generator started",
		"interval", g.cfg.Interval, "scatter_km", g.cfg.ScatterKm,
		"failure_rate", g.cfg.FailureRate)
	go g.run(g.cfg, g.stop, g.done)
}

// Stop halts ticking and waits for the run loop to exit. No-op when idle.
func (g *Generator) Stop() {
	g.mu.Lock()
	if !g.running {
		g.mu.Unlock()
		return
	}
	stop, done := g.stop, g.done
	g.running = false
	g.mu.Unlock()

	close(stop)
	<-done
	g.metrics.GeneratorRunning.Set(0)
	g.logger.Info("forecast generator stopped")
}

// Reconfigure swaps in a new config. A running generator is restarted so the
// old timer never fires against stale values.
func (g *Generator) Reconfigure(cfg Config) {
	g.mu.Lock()
	wasRunning := g.running
	g.mu.Unlock()

	if wasRunning {
		g.Stop()
	}

	g.mu.Lock()
	g.cfg = cfg.normalized()
	if wasRunning {
		g.startLocked()
	}
	g.mu.Unlock()
}

// Running reports whether the tick loop is active.
func (g *Generator) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}

func (g *Generator) run(cfg Config, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := g.clock.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			g.tick(cfg)
		}
	}
}

// tick emits one synthetic alert at a point sampled uniformly within the
// scatter disk. Text fields are translation-key references, never resolved
// strings, so localization happens at render time.
func (g *Generator) tick(cfg Config) {
	g.metrics.GeneratorTicks.Inc()

	point := domain.RandomPointInRadius(
		cfg.Center.Latitude, cfg.Center.Longitude, cfg.ScatterKm, g.rnd)

	if g.rnd.Float64() < cfg.FailureRate {
		g.metrics.GeneratorFailures.Inc()
		g.alerts.AddSystemAlert(store.AlertFields{
			Title:    domain.Keyed("forecast.errorTitle"),
			Subtitle: domain.Keyed("forecast.errorSubtitle"),
			Severity: domain.SeverityYellow,
			Location: point,
		})
		g.logger.Debug("emitted simulated forecast failure",
			"lat", point.Latitude, "lon", point.Longitude)
		return
	}

	sev := domain.Severities[g.rnd.IntN(len(domain.Severities))]
	g.alerts.AddSystemAlert(store.AlertFields{
		Title: domain.Keyed("forecast.autoTitle"),
		Subtitle: domain.KeyedWith("forecast.autoSubtitle", map[string]domain.Text{
			"severity": domain.Keyed("severity." + string(sev)),
		}),
		Severity: sev,
		Location: point,
	})
	g.logger.Debug("emitted forecast alert",
		"severity", string(sev), "lat", point.Latitude, "lon", point.Longitude)
}
