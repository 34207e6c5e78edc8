package generator

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/field-report-alerts/internal/domain"
	"github.com/couchcryptid/field-report-alerts/internal/store"
)

var center = domain.LatLng{Latitude: 32.200085, Longitude: 119.514156}

func newGenerator(t *testing.T, clock clockwork.Clock, cfg Config) (*Generator, *store.Store) {
	t.Helper()
	alerts := store.New(store.Options{Clock: clock})
	g := New(alerts, cfg, Options{
		Clock: clock,
		Rand:  rand.New(rand.NewPCG(1, 2)),
	})
	t.Cleanup(g.Stop)
	return g, alerts
}

// blockUntilTicker waits for the run loop to register its ticker with the
// fake clock, so a subsequent Advance is guaranteed to reach it.
func blockUntilTicker(t *testing.T, clock *clockwork.FakeClock) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
}

func waitForAlerts(t *testing.T, alerts *store.Store, n int) []domain.AlertItem {
	t.Helper()
	require.Eventually(t, func() bool { return len(alerts.SystemAlerts()) >= n },
		time.Second, time.Millisecond)
	return alerts.SystemAlerts()
}

func TestGenerator_EmitsForecastAlert(t *testing.T) {
	clock := clockwork.NewFakeClock()
	g, alerts := newGenerator(t, clock, Config{
		Center: center, Interval: 10 * time.Second, ScatterKm: 5, FailureRate: 0,
	})

	g.Start()
	blockUntilTicker(t, clock)
	clock.Advance(10 * time.Second)

	list := waitForAlerts(t, alerts, 1)
	item := list[0]

	assert.Equal(t, domain.Keyed("forecast.autoTitle"), item.Title)
	assert.True(t, item.Severity.Valid())
	assert.Equal(t, "forecast.autoSubtitle", item.Subtitle.Key)
	assert.Equal(t, domain.Keyed("severity."+string(item.Severity)), item.Subtitle.Params["severity"],
		"subtitle severity parameter matches the alert severity")
	assert.LessOrEqual(t, domain.DistanceKm(center, item.Location), 5.001,
		"sampled point stays within the scatter disk")
}

func TestGenerator_SimulatedFailure(t *testing.T) {
	clock := clockwork.NewFakeClock()
	g, alerts := newGenerator(t, clock, Config{
		Center: center, Interval: 10 * time.Second, ScatterKm: 5, FailureRate: 1,
	})

	g.Start()
	blockUntilTicker(t, clock)
	clock.Advance(10 * time.Second)

	list := waitForAlerts(t, alerts, 1)
	assert.Equal(t, domain.Keyed("forecast.errorTitle"), list[0].Title)
	assert.Equal(t, domain.Keyed("forecast.errorSubtitle"), list[0].Subtitle)
	assert.Equal(t, domain.SeverityYellow, list[0].Severity)
}

func TestGenerator_StartIsIdempotent(t *testing.T) {
	clock := clockwork.NewFakeClock()
	g, _ := newGenerator(t, clock, Config{Center: center, FailureRate: 0})

	g.Start()
	g.Start()
	assert.True(t, g.Running())

	g.Stop()
	assert.False(t, g.Running())
}

func TestGenerator_StopHaltsTicks(t *testing.T) {
	clock := clockwork.NewFakeClock()
	g, alerts := newGenerator(t, clock, Config{
		Center: center, Interval: 10 * time.Second, FailureRate: 0,
	})

	g.Start()
	blockUntilTicker(t, clock)
	g.Stop()

	clock.Advance(time.Minute)
	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, alerts.SystemAlerts())
}

func TestGenerator_ReconfigureRestartsWithFreshValues(t *testing.T) {
	clock := clockwork.NewFakeClock()
	g, alerts := newGenerator(t, clock, Config{
		Center: center, Interval: 10 * time.Second, ScatterKm: 5, FailureRate: 0,
	})

	g.Start()
	blockUntilTicker(t, clock)

	moved := domain.LatLng{Latitude: 35.0, Longitude: 129.0}
	g.Reconfigure(Config{Center: moved, Interval: 5 * time.Second, ScatterKm: 2, FailureRate: 0})
	require.True(t, g.Running(), "reconfigure keeps a running generator running")

	blockUntilTicker(t, clock)
	clock.Advance(5 * time.Second)

	list := waitForAlerts(t, alerts, 1)
	assert.LessOrEqual(t, domain.DistanceKm(moved, list[0].Location), 2.001,
		"new alerts sample around the new center")
}

func TestGenerator_ReconfigureWhileStoppedStaysStopped(t *testing.T) {
	clock := clockwork.NewFakeClock()
	g, _ := newGenerator(t, clock, Config{Center: center})

	g.Reconfigure(Config{Center: center, Interval: time.Second})
	assert.False(t, g.Running())
}

func TestConfig_Normalization(t *testing.T) {
	cfg := Config{FailureRate: 1.5}.normalized()
	assert.Equal(t, defaultInterval, cfg.Interval)
	assert.Equal(t, float64(defaultScatterKm), cfg.ScatterKm)
	assert.Equal(t, 1.0, cfg.FailureRate)

	cfg = Config{FailureRate: -1}.normalized()
	assert.Equal(t, 0.0, cfg.FailureRate)
}
