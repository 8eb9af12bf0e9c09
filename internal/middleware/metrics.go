package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricRateLimitRequests   = "rate_limit_requests_total"
	MetricRateLimitBlocked    = "rate_limit_blocked_total"
	MetricRateLimitErrors     = "rate_limit_store_errors_total"
	MetricHTTPRequestDuration = "http_request_duration_seconds"
	MetricHTTPRequestsTotal   = "http_requests_total"
)

// Metrics contains Prometheus collectors for the HTTP middleware.
// The collectors are not registered until Register is called.
type Metrics struct {
	rateLimitRequests   *prometheus.CounterVec
	rateLimitBlocked    *prometheus.CounterVec
	rateLimitErrors     prometheus.Counter
	httpRequestDuration *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		rateLimitRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRateLimitRequests,
				Help: "Total number of rate limit checks by route",
			},
			[]string{"route"},
		),
		rateLimitBlocked: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRateLimitBlocked,
				Help: "Total number of requests rejected by the rate limiter by route",
			},
			[]string{"route"},
		),
		rateLimitErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricRateLimitErrors,
				Help: "Total number of rate limit store errors (requests were let through)",
			},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricHTTPRequestDuration,
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0},
			},
			[]string{"method", "route", "status"},
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricHTTPRequestsTotal,
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
	}
}

func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.rateLimitRequests,
		m.rateLimitBlocked,
		m.rateLimitErrors,
		m.httpRequestDuration,
		m.httpRequestsTotal,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) incRateLimitRequests(route string) {
	if m != nil {
		m.rateLimitRequests.WithLabelValues(route).Inc()
	}
}

func (m *Metrics) incRateLimitBlocked(route string) {
	if m != nil {
		m.rateLimitBlocked.WithLabelValues(route).Inc()
	}
}

func (m *Metrics) incRateLimitErrors() {
	if m != nil {
		m.rateLimitErrors.Inc()
	}
}

// routeLabel uses the registered route pattern to keep label cardinality bounded.
func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}

// HTTPMetricsMiddleware records request counts and latency per route pattern.
// Health checks and the metrics endpoint itself are skipped.
func HTTPMetricsMiddleware(metrics *Metrics, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := routeLabel(c)
		status := strconv.Itoa(c.Writer.Status())
		metrics.httpRequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		metrics.httpRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
	}
}
