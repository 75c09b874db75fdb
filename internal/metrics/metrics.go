package metrics

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Nazarious-ucu/fca-fines-api/internal/models"
)

const divisor = 100

// Metrics defines all Prometheus metrics for the fines API.
type Metrics struct {
	registry *prometheus.Registry

	// RED (Rate, Errors, Duration) for HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestsInFlight prometheus.Gauge
	HTTPRequestDuration  *prometheus.HistogramVec

	// Business metrics
	DigestVerifications *prometheus.CounterVec // by outcome
	StatsRequests       *prometheus.CounterVec // by source
	SubscriptionsSwept  prometheus.Counter

	// Cron job metrics
	CronRuns        *prometheus.CounterVec
	CronRunDuration *prometheus.HistogramVec

	// Cache metrics
	CacheOperationDuration *prometheus.HistogramVec
	CacheOperations        *prometheus.CounterVec

	ServiceUptime prometheus.Gauge

	BusinessErrors  *prometheus.CounterVec
	TechnicalErrors *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics under the given namespace on a
// private registry. db may be nil, in which case no DB stats are collected.
func NewMetrics(namespace string, db *sql.DB, dbName string) *Metrics {
	registry := prometheus.NewRegistry()
	errorLabels := []string{"error_type", "severity"}
	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests total",
			},
			[]string{"method", "endpoint", "status_class"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "In-flight HTTP requests",
			},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		DigestVerifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "digest_verifications_total",
				Help:      "Digest verification attempts by outcome",
			},
			[]string{"outcome"},
		),
		StatsRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "homepage_stats_requests_total",
				Help:      "Homepage stats computations by source",
			},
			[]string{"source"},
		),
		SubscriptionsSwept: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "digest_subscriptions_swept_total",
				Help:      "Pending digest subscriptions marked expired",
			},
		),

		CronRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cron_runs_total",
				Help:      "Cron job executions",
			},
			[]string{"job"},
		),
		CronRunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cron_run_duration_seconds",
				Help:      "Duration of cron jobs",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"job"},
		),

		CacheOperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cache_operation_duration_seconds",
				Help:      "Cache operation latencies",
			},
			[]string{"operation"},
		),
		CacheOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_operations_total",
				Help:      "Cache operations by result (hit, miss, error, ok)",
			},
			[]string{"operation", "result"},
		),

		ServiceUptime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "service_start_time_seconds",
				Help:      "Unix time the service started",
			},
		),

		BusinessErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "business_errors_total",
				Help:      "Total business errors",
			},
			errorLabels,
		),
		TechnicalErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "technical_errors_total",
				Help:      "Total technical errors",
			},
			errorLabels,
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestsInFlight,
		m.HTTPRequestDuration,
		m.DigestVerifications,
		m.StatsRequests,
		m.SubscriptionsSwept,
		m.CronRuns,
		m.CronRunDuration,
		m.CacheOperationDuration,
		m.CacheOperations,
		m.ServiceUptime,
		m.BusinessErrors,
		m.TechnicalErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if db != nil {
		registry.MustRegister(collectors.NewDBStatsCollector(db, dbName))
	}

	m.ServiceUptime.SetToCurrentTime()

	return m
}

// Handler exposes the private registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// HTTPMiddleware instruments Gin HTTP handlers for RED metrics.
func (m *Metrics) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		c.Next()
		m.HTTPRequestsInFlight.Dec()

		dur := time.Since(start).Seconds()
		status := c.Writer.Status()
		statusClass := fmt.Sprintf("%dxx", status/divisor)

		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, c.FullPath(), statusClass).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, c.FullPath()).Observe(dur)
	}
}

// CronJob wraps a function with cron metrics (runs + duration).
func (m *Metrics) CronJob(job string, fn func()) {
	start := time.Now()
	m.CronRuns.WithLabelValues(job).Inc()
	fn()
	m.CronRunDuration.WithLabelValues(job).Observe(time.Since(start).Seconds())
}

// RecordVerification counts a digest verification by its outcome code.
// Rejected tokens are also counted as business errors; verification_failed is
// already reported as a technical error by the repository.
func (m *Metrics) RecordVerification(outcome string) {
	m.DigestVerifications.WithLabelValues(outcome).Inc()

	switch models.VerificationOutcome(outcome) {
	case models.OutcomeInvalidToken, models.OutcomeInvalidOrExpired, models.OutcomeTokenExpired:
		m.RecordBusinessError(outcome)
	default:
	}
}

// RecordStatsSource counts where a homepage stats response came from.
func (m *Metrics) RecordStatsSource(source string) {
	m.StatsRequests.WithLabelValues(source).Inc()
}

// RecordCacheOperation counts a cache call by result and observes its latency.
func (m *Metrics) RecordCacheOperation(op, result string, d time.Duration) {
	m.CacheOperationDuration.WithLabelValues(op).Observe(d.Seconds())
	m.CacheOperations.WithLabelValues(op, result).Inc()
}

func (m *Metrics) RecordTechnicalError(errorType, severity string) {
	m.TechnicalErrors.WithLabelValues(errorType, severity).Inc()
}

// RecordBusinessError counts a request rejected for a domain reason, e.g. an
// expired verification token or a malformed year.
func (m *Metrics) RecordBusinessError(errorType string) {
	m.BusinessErrors.WithLabelValues(errorType, "info").Inc()
}
