// Package api provides the HTTP server for reimburse.
// It exposes the calculator as a small JSON API plus Prometheus metrics.
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tutu-network/reimburse/internal/app/reimburse"
	"github.com/tutu-network/reimburse/internal/infra/observability"
)

// Version is reported by /api/version and `reimbursectl version`.
const Version = "0.1.0"

// DefaultMaxBatch caps POST /v1/reimbursement/batch when none is configured.
const DefaultMaxBatch = 1000

// Server is the reimburse HTTP API server.
type Server struct {
	calc           *reimburse.Calculator
	logger         *zap.Logger
	metricsEnabled bool
	maxBatch       int
}

// NewServer creates a new API server. A nil logger is replaced with a no-op.
func NewServer(calc *reimburse.Calculator, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{calc: calc, logger: logger, maxBatch: DefaultMaxBatch}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetMaxBatch sets the largest accepted batch. Non-positive values are ignored.
func (s *Server) SetMaxBatch(n int) {
	if n > 0 {
		s.maxBatch = n
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.accessLog)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": Version,
		})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/rates", s.handleRates)
		r.Get("/reimbursement", s.handleQuoteQuery)
		r.Post("/reimbursement", s.handleQuoteBody)
		r.Post("/reimbursement/batch", s.handleQuoteBatch)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// unmatchedRoute labels requests no route matched, keeping the metric's
// label set bounded.
const unmatchedRoute = "unmatched"

// accessLog logs each request and records its latency by route pattern.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		observability.ObserveRequest(route, methodLabel(r.Method), start)

		s.logger.Debug("request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// methodLabel maps non-standard methods to "OTHER".
func methodLabel(m string) string {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions:
		return m
	}
	return "OTHER"
}

// writeJSON writes a JSON response. The body is encoded before the status
// is sent so an encoding failure can still become a 500.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		buf.Reset()
		status = http.StatusInternalServerError
		json.NewEncoder(&buf).Encode(errorBody("encode response: " + err.Error()))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody(msg))
}

func errorBody(msg string) map[string]interface{} {
	return map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	}
}
