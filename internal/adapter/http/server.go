package http

import (
	"context"
	"embed"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/canyon-lake-dashboard/internal/domain"
	"github.com/couchcryptid/canyon-lake-dashboard/internal/hitlog"
	"github.com/couchcryptid/canyon-lake-dashboard/internal/observability"
)

//go:embed pages
var pages embed.FS

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the dashboard pages, the JSON APIs, and the health and
// metrics endpoints. Page views on the two tracked routes are recorded in
// the hit log before serving.
type Server struct {
	httpServer *http.Server
	store      *hitlog.Store
	fetcher    domain.GaugeFetcher
	clock      clockwork.Clock
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates the dashboard HTTP server.
func NewServer(addr string, store *hitlog.Store, fetcher domain.GaugeFetcher, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		store:   store,
		fetcher: fetcher,
		clock:   clockwork.NewRealClock(),
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("GET /{$}", s.tracked(s.handlePage("pages/index.html")))
	mux.HandleFunc("GET /chart", s.tracked(s.handlePage("pages/chart.html")))
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(store))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
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

// SetClock swaps the time source. Pass nil to reset to real time.
func (s *Server) SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	s.clock = c
}

// tracked records the page view before serving. Record never fails, so
// analytics can never take the page down with it.
func (s *Server) tracked(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.store.Record(r.URL.Path, clientIP(r), r.UserAgent())
		next(w, r)
	}
}

func (s *Server) handlePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		data, err := pages.ReadFile(name)
		if err != nil {
			http.Error(w, "page not found", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(data) //nolint:errcheck // best-effort page response
	}
}

// handleStatus serves current lake conditions. Upstream failures degrade to
// an error payload with HTTP 200; the page renders the message itself.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	sample, err := s.fetcher.FetchCurrent(r.Context())
	if err != nil {
		s.logger.Warn("current gauge fetch failed", "error", err)
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "error",
			"message": "Unable to fetch data from USGS",
		})
		return
	}

	status := domain.DeriveLakeStatus(sample.Value, s.clock.Now().UTC())
	s.metrics.LakeElevationFt.Set(status.Elevation)
	s.metrics.LakePercentFull.Set(status.PercentFull)

	writeJSON(w, http.StatusOK, status)
}

// handleHistory serves the trailing elevation history, compressed into
// 12-hour buckets.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"status":  "error",
				"message": "days must be between 1 and 365",
			})
			return
		}
		days = n
	}

	samples, err := s.fetcher.FetchDailyHistory(r.Context(), days)
	if err != nil {
		s.logger.Warn("history fetch failed", "error", err, "days", days)
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "error",
			"message": "Unable to fetch historical data",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"data":   domain.BucketSamples(samples, domain.DefaultBucketWidth),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	snapshot := s.store.Snapshot()
	stats := domain.ComputeStats(snapshot, s.clock.Now().UTC(), s.logger)
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// clientIP resolves the visitor address: first hop of X-Forwarded-For when
// the reverse proxy sets it, otherwise the connection peer.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, found := strings.Cut(xff, ","); found || first != "" {
			return strings.TrimSpace(first)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
