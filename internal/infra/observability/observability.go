// Package observability wires structured logging and Prometheus metrics.
//
// This provides:
//   - a zap logger built from the [log] config section
//   - quote counters per pricing path
//   - HTTP latency per route
package observability

import (
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tutu-network/reimburse/internal/domain"
)

// ═══════════════════════════════════════════════════════════════════════════
// Logging
// ═══════════════════════════════════════════════════════════════════════════

// NewLogger builds a zap logger. format is "json" (production encoder) or
// "console" (development encoder); level is a zap level name.
func NewLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	var cfg zap.Config
	switch format {
	case "json", "":
		cfg = zap.NewProductionConfig()
	case "console":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// ═══════════════════════════════════════════════════════════════════════════
// Prometheus Metrics
// ═══════════════════════════════════════════════════════════════════════════

// ─── Quote Metrics ──────────────────────────────────────────────────────────

// QuotesTotal counts priced trips by path ("none" for rejected input).
var QuotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "reimburse",
	Name:      "quotes_total",
	Help:      "Total reimbursement quotes by pricing path.",
}, []string{"path"})

// LuckyCentsTotal counts quotes that received the lucky-cents bonus.
var LuckyCentsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "reimburse",
	Name:      "lucky_cents_total",
	Help:      "Total quotes that received the lucky-cents bonus.",
})

// InvalidInputTotal counts quotes whose input failed coercion or had days <= 0.
var InvalidInputTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "reimburse",
	Name:      "invalid_input_total",
	Help:      "Total quotes degraded to zero by invalid input.",
})

// QuoteAmount tracks the distribution of reimbursement amounts.
var QuoteAmount = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "reimburse",
	Name:      "quote_amount_dollars",
	Help:      "Distribution of quoted reimbursement amounts.",
	Buckets:   []float64{0, 100, 250, 500, 750, 1000, 1500, 2000, 3000},
})

// ─── HTTP Metrics ───────────────────────────────────────────────────────────

// HTTPRequestDuration tracks API latency by route pattern.
var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "reimburse",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by route.",
	Buckets:   prometheus.DefBuckets,
}, []string{"route", "method"})

// RecordQuote updates the quote metrics for one calculation.
func RecordQuote(q domain.Quote) {
	QuotesTotal.WithLabelValues(string(q.Path)).Inc()
	if q.Path == domain.PathNone {
		InvalidInputTotal.Inc()
		return
	}
	if q.LuckyCents {
		LuckyCentsTotal.Inc()
	}
	if !math.IsInf(q.Amount, 0) {
		QuoteAmount.Observe(q.Amount)
	}
}

// ObserveRequest records the latency of one HTTP request.
func ObserveRequest(route, method string, start time.Time) {
	HTTPRequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
}
