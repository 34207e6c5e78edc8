package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, 200*time.Millisecond, cfg.SnapshotDebounce)
	assert.Equal(t, time.Second, cfg.DedupWindow)
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, 10*time.Second, cfg.ForecastInterval)
	assert.Equal(t, 10.0, cfg.ForecastScatterKm)
	assert.Equal(t, 0.2, cfg.ForecastFailureRate)
	assert.False(t, cfg.AMapEnabled)
	assert.Empty(t, cfg.AMapKey)
	assert.Equal(t, 2500*time.Millisecond, cfg.AMapTimeout)
	assert.Equal(t, 1000, cfg.AMapCacheSize)
	assert.Equal(t, 2500*time.Millisecond, cfg.RainfallTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DATA_DIR", "/tmp/alerts")
	t.Setenv("SNAPSHOT_DEBOUNCE", "500ms")
	t.Setenv("DEDUP_WINDOW", "2s")
	t.Setenv("APP_LANGUAGE", "ko")
	t.Setenv("FORECAST_INTERVAL", "20s")
	t.Setenv("FORECAST_SCATTER_KM", "5")
	t.Setenv("FORECAST_FAILURE_RATE", "0.5")
	t.Setenv("AMAP_KEY", "test-key")
	t.Setenv("AMAP_TIMEOUT", "5s")
	t.Setenv("AMAP_CACHE_SIZE", "250")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/tmp/alerts", cfg.DataDir)
	assert.Equal(t, 500*time.Millisecond, cfg.SnapshotDebounce)
	assert.Equal(t, 2*time.Second, cfg.DedupWindow)
	assert.Equal(t, "ko", cfg.Language)
	assert.Equal(t, 20*time.Second, cfg.ForecastInterval)
	assert.Equal(t, 5.0, cfg.ForecastScatterKm)
	assert.Equal(t, 0.5, cfg.ForecastFailureRate)
	assert.True(t, cfg.AMapEnabled)
	assert.Equal(t, "test-key", cfg.AMapKey)
	assert.Equal(t, 5*time.Second, cfg.AMapTimeout)
	assert.Equal(t, 250, cfg.AMapCacheSize)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeSnapshotDebounce(t *testing.T) {
	t.Setenv("SNAPSHOT_DEBOUNCE", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SNAPSHOT_DEBOUNCE")
}

func TestLoad_FailureRateOutOfRange(t *testing.T) {
	t.Setenv("FORECAST_FAILURE_RATE", "1.5")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORECAST_FAILURE_RATE")
}

func TestLoad_InvalidScatter(t *testing.T) {
	t.Setenv("FORECAST_SCATTER_KM", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORECAST_SCATTER_KM")
}

func TestLoad_AMapEnabledWithoutKey(t *testing.T) {
	t.Setenv("AMAP_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AMAP_KEY")
}

func TestLoad_AMapKeyImpliesEnabled(t *testing.T) {
	t.Setenv("AMAP_KEY", "test-key")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.AMapEnabled)
}

func TestLoad_AMapExplicitlyDisabled(t *testing.T) {
	t.Setenv("AMAP_KEY", "test-key")
	t.Setenv("AMAP_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.AMapEnabled)
}
