// Package http exposes the ops surface (health, readiness, metrics) plus the
// alert views and report submission endpoint the mobile shell talks to.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/field-report-alerts/internal/domain"
	"github.com/couchcryptid/field-report-alerts/internal/i18n"
	"github.com/couchcryptid/field-report-alerts/internal/overlay"
	"github.com/couchcryptid/field-report-alerts/internal/report"
	"github.com/couchcryptid/field-report-alerts/internal/store"
)

// Deps carries the server's collaborators. Rain and Submitter may be nil;
// the matching endpoints then report 503.
type Deps struct {
	Alerts    *store.Store
	Rain      domain.RainLookup
	Submitter *report.Submitter
	Catalog   *i18n.Catalog
	Clock     clockwork.Clock
	Logger    *slog.Logger
}

// Server exposes health, readiness, metrics, and alert endpoints.
type Server struct {
	httpServer *http.Server
	deps       Deps
}

// NewServer creates the HTTP server.
func NewServer(addr string, deps Deps) *Server {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Catalog == nil {
		deps.Catalog = i18n.NewCatalog()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		deps: deps,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /v1/alerts", s.handleAlerts)
	mux.HandleFunc("GET /v1/overlay", s.handleOverlay)
	mux.HandleFunc("GET /v1/ponding", s.handlePonding)
	mux.HandleFunc("POST /v1/reports", s.handleSubmitReport)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.deps.Logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleReady reports ready once the snapshot (or seed) has loaded.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if !s.deps.Alerts.Loaded() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  "alerts not loaded",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// alertView is an AlertItem plus the display strings the list rows need.
// Rendered fields are filled only when the request asks for a language.
type alertView struct {
	domain.AlertItem
	RenderedTitle    string `json:"renderedTitle,omitempty"`
	RenderedSubtitle string `json:"renderedSubtitle,omitempty"`
	RelativeTime     string `json:"relativeTime,omitempty"`
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	langTag := r.URL.Query().Get("lang")

	writeJSON(w, http.StatusOK, map[string][]alertView{
		"userAlerts":   s.renderAlerts(s.deps.Alerts.UserAlerts(), langTag),
		"systemAlerts": s.renderAlerts(s.deps.Alerts.SystemAlerts(), langTag),
	})
}

func (s *Server) renderAlerts(items []domain.AlertItem, langTag string) []alertView {
	views := make([]alertView, len(items))
	if langTag == "" {
		for i, item := range items {
			views[i] = alertView{AlertItem: item}
		}
		return views
	}

	lang := i18n.Normalize(langTag)
	now := s.deps.Clock.Now()
	for i, item := range items {
		views[i] = alertView{
			AlertItem:        item,
			RenderedTitle:    item.Severity.Icon() + " " + s.deps.Catalog.Resolve(lang, item.Title),
			RenderedSubtitle: s.deps.Catalog.Resolve(lang, item.Subtitle),
			RelativeTime:     i18n.FormatRelative(item.Timestamp, langTag, now),
		}
	}
	return views
}

func (s *Server) handleOverlay(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]overlay.Circle{
		"circles": overlay.Circles(s.deps.Alerts),
	})
}

// handlePonding runs a one-shot ponding analysis at the given coordinate.
// With notify=1 the result is also filed as a user alert, so the probe shows
// up in the alert list and toast flow like a manual report would.
func (s *Server) handlePonding(w http.ResponseWriter, r *http.Request) {
	if s.deps.Rain == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "rain lookup not configured",
		})
		return
	}

	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if errLat != nil || errLon != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "lat and lon query parameters are required",
		})
		return
	}
	radiusM, _ := strconv.ParseFloat(r.URL.Query().Get("radius_m"), 64)

	summary, style, err := domain.RunPondingAnalysis(r.Context(), lat, lon, s.deps.Rain, radiusM)
	if err != nil {
		s.deps.Logger.Warn("ponding analysis failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	body := map[string]any{
		"summary": summary,
		"style":   style,
	}

	if notify, _ := strconv.ParseBool(r.URL.Query().Get("notify")); notify {
		id := s.deps.Alerts.AddUserAlert(store.AlertFields{
			Title: domain.KeyedWith("ponding.autoDetectTitle", map[string]domain.Text{
				"risk": domain.Plain(strconv.FormatFloat(summary.PondingIndex, 'f', 2, 64)),
			}),
			Subtitle: domain.Plain(fmt.Sprintf("%s / %.1f mm/h",
				domain.CoordLabel(summary.Center.Latitude, summary.Center.Longitude), summary.RainMmH)),
			Severity: summary.Severity,
			Location: summary.Center,
		})
		body["alertId"] = id
	}

	writeJSON(w, http.StatusOK, body)
}

type submitRequest struct {
	Note     string          `json:"note"`
	PhotoURI string          `json:"photoUri"`
	Severity domain.Severity `json:"severity"`
	Location domain.LatLng   `json:"location"`
}

// handleSubmitReport runs the full submission flow synchronously: the
// simulated upload takes under a second, so the handler just waits it out.
func (s *Server) handleSubmitReport(w http.ResponseWriter, r *http.Request) {
	if s.deps.Submitter == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "report submission not configured",
		})
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	id, err := s.deps.Submitter.Submit(r.Context(), report.Draft{
		Note:     req.Note,
		PhotoURI: req.PhotoURI,
		Severity: req.Severity,
		Location: req.Location,
	}, nil)
	if errors.Is(err, report.ErrPhotoRequired) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":      err.Error(),
			"validation": "photoRequired",
		})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
