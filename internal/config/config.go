package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Local persistence.
	DataDir          string
	SnapshotDebounce time.Duration

	// Alerts store behavior.
	DedupWindow time.Duration
	Language    string

	// Mock forecast generator.
	ForecastInterval    time.Duration
	ForecastScatterKm   float64
	ForecastFailureRate float64
	DefaultCenterLat    float64
	DefaultCenterLon    float64

	// AMap reverse geocoding.
	AMapKey       string
	AMapEnabled   bool
	AMapTimeout   time.Duration
	AMapCacheSize int

	// Rain-rate lookup.
	RainfallURL     string
	RainfallTimeout time.Duration
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is merged in first, without
// overriding variables already exported.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional; absence is not an error

	cfg := &Config{
		HTTPAddr:    envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		LogFormat:   envOrDefault("LOG_FORMAT", "json"),
		DataDir:     envOrDefault("DATA_DIR", "data"),
		Language:    envOrDefault("APP_LANGUAGE", "en"),
		AMapKey:     os.Getenv("AMAP_KEY"),
		RainfallURL: os.Getenv("RAINFALL_URL"),
	}

	var err error
	if cfg.ShutdownTimeout, err = durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.SnapshotDebounce, err = durationEnv("SNAPSHOT_DEBOUNCE", 200*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.DedupWindow, err = durationEnv("DEDUP_WINDOW", time.Second); err != nil {
		return nil, err
	}
	if cfg.ForecastInterval, err = durationEnv("FORECAST_INTERVAL", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.AMapTimeout, err = durationEnv("AMAP_TIMEOUT", 2500*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.RainfallTimeout, err = durationEnv("RAINFALL_TIMEOUT", 2500*time.Millisecond); err != nil {
		return nil, err
	}

	if cfg.ForecastScatterKm, err = floatEnv("FORECAST_SCATTER_KM", 10); err != nil {
		return nil, err
	}
	if cfg.ForecastFailureRate, err = floatEnv("FORECAST_FAILURE_RATE", 0.2); err != nil {
		return nil, err
	}
	if cfg.ForecastFailureRate < 0 || cfg.ForecastFailureRate > 1 {
		return nil, errors.New("FORECAST_FAILURE_RATE must be within [0, 1]")
	}
	if cfg.ForecastScatterKm <= 0 {
		return nil, errors.New("FORECAST_SCATTER_KM must be positive")
	}

	if cfg.DefaultCenterLat, err = floatEnv("DEFAULT_LAT", 32.200085); err != nil {
		return nil, err
	}
	if cfg.DefaultCenterLon, err = floatEnv("DEFAULT_LON", 119.514156); err != nil {
		return nil, err
	}

	if cfg.AMapCacheSize, err = intEnv("AMAP_CACHE_SIZE", 1000); err != nil {
		return nil, err
	}
	if cfg.AMapCacheSize <= 0 {
		return nil, errors.New("AMAP_CACHE_SIZE must be positive")
	}

	cfg.AMapEnabled = cfg.AMapKey != ""
	if v := os.Getenv("AMAP_ENABLED"); v != "" {
		cfg.AMapEnabled = v == "true"
	}
	if cfg.AMapEnabled && cfg.AMapKey == "" {
		return nil, errors.New("AMAP_ENABLED is true but AMAP_KEY is not set")
	}

	if cfg.DataDir == "" {
		return nil, errors.New("DATA_DIR is required")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func floatEnv(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return f, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}
