package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/field-report-alerts/internal/adapter/amap"
	httpadapter "github.com/couchcryptid/field-report-alerts/internal/adapter/http"
	"github.com/couchcryptid/field-report-alerts/internal/adapter/rainfall"
	"github.com/couchcryptid/field-report-alerts/internal/adapter/storage"
	"github.com/couchcryptid/field-report-alerts/internal/camera"
	"github.com/couchcryptid/field-report-alerts/internal/config"
	"github.com/couchcryptid/field-report-alerts/internal/domain"
	"github.com/couchcryptid/field-report-alerts/internal/generator"
	"github.com/couchcryptid/field-report-alerts/internal/i18n"
	"github.com/couchcryptid/field-report-alerts/internal/observability"
	"github.com/couchcryptid/field-report-alerts/internal/report"
	"github.com/couchcryptid/field-report-alerts/internal/store"
	"github.com/couchcryptid/field-report-alerts/internal/toast"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	blobs, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		logger.Error("failed to open data dir", "error", err)
		os.Exit(1)
	}

	alerts := store.New(store.Options{
		Blobs:            blobs,
		SnapshotDebounce: cfg.SnapshotDebounce,
		DedupWindow:      cfg.DedupWindow,
		Clock:            clock,
		Logger:           logger,
		Metrics:          metrics,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	alerts.Load(ctx)

	// Reverse geocoding is feature-flagged via AMAP_ENABLED / AMAP_KEY.
	var geocoder domain.Geocoder
	if cfg.AMapEnabled {
		client := amap.NewClient(cfg.AMapKey, cfg.AMapTimeout, logger, metrics)
		geocoder = amap.NewCachedGeocoder(client, cfg.AMapCacheSize, metrics)
		logger.Info("amap geocoding enabled", "cache_size", cfg.AMapCacheSize, "timeout", cfg.AMapTimeout)
	} else {
		logger.Info("amap geocoding disabled")
	}

	var rain domain.RainLookup
	if cfg.RainfallURL != "" {
		rain = rainfall.NewClient(cfg.RainfallURL, cfg.RainfallTimeout, logger).Lookup()
		logger.Info("rain lookup enabled", "url", cfg.RainfallURL)
	} else {
		logger.Info("rain lookup disabled")
	}

	cameraReg := camera.NewRegistry()

	gen := generator.New(alerts, generator.Config{
		Center:      domain.LatLng{Latitude: cfg.DefaultCenterLat, Longitude: cfg.DefaultCenterLon},
		Interval:    cfg.ForecastInterval,
		ScatterKm:   cfg.ForecastScatterKm,
		FailureRate: cfg.ForecastFailureRate,
	}, generator.Options{Clock: clock, Logger: logger, Metrics: metrics})

	userToasts := toast.NewController(toast.KindUser, alerts, nil,
		toast.Options{Clock: clock, Logger: logger, Metrics: metrics})
	systemToasts := toast.NewController(toast.KindSystem, alerts, cameraReg,
		toast.Options{Clock: clock, Logger: logger, Metrics: metrics})

	submitter := report.NewSubmitter(alerts, report.Options{
		Geocoder:       geocoder,
		GeocodeTimeout: cfg.AMapTimeout,
		Clock:          clock,
		Logger:         logger,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Alerts:    alerts,
		Rain:      rain,
		Submitter: submitter,
		Catalog:   i18n.NewCatalog(),
		Clock:     clock,
		Logger:    logger,
	})

	userToasts.Start()
	systemToasts.Start()
	gen.Start()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	gen.Stop()
	userToasts.Stop()
	systemToasts.Stop()
	alerts.Close(shutdownCtx)

	logger.Info("shutdown complete")
}
