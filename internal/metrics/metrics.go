package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds all Prometheus collectors for the portal.
type Metrics struct {
	registry *prometheus.Registry

	// Inbound HTTP.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Outbound calls to the upstream Condy API.
	UpstreamRequestsTotal *prometheus.CounterVec
	UpstreamDuration      *prometheus.HistogramVec
	UpstreamErrorsTotal   *prometheus.CounterVec

	// Session lifecycle.
	LoginsTotal        *prometheus.CounterVec
	ForcedLogoutsTotal prometheus.Counter

	// Login throttling.
	RateLimitRejectionsTotal prometheus.Counter

	// Audit collector.
	AuditBufferSize prometheus.Gauge

	// Server lifecycle.
	ServerStartTime prometheus.Gauge
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "condy_http_requests_total",
			Help: "Total number of HTTP requests served by the portal.",
		}, []string{"method", "path_pattern", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "condy_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path_pattern"}),

		UpstreamRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "condy_upstream_requests_total",
			Help: "Total number of calls to the upstream Condy API.",
		}, []string{"method", "status_code"}),

		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "condy_upstream_duration_seconds",
			Help:    "Upstream call duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),

		UpstreamErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "condy_upstream_errors_total",
			Help: "Total number of upstream transport failures by type.",
		}, []string{"error_type"}),

		LoginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "condy_logins_total",
			Help: "Total number of login attempts by outcome.",
		}, []string{"outcome"}),

		ForcedLogoutsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "condy_forced_logouts_total",
			Help: "Total number of sessions invalidated by upstream auth errors.",
		}),

		RateLimitRejectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "condy_login_ratelimit_rejections_total",
			Help: "Total number of login attempts rejected by the rate limiter.",
		}),

		AuditBufferSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "condy_audit_buffer_size",
			Help: "Current number of buffered audit events.",
		}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "condy_server_start_time_seconds",
			Help: "Unix timestamp when the server started.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.UpstreamRequestsTotal,
		m.UpstreamDuration,
		m.UpstreamErrorsTotal,
		m.LoginsTotal,
		m.ForcedLogoutsTotal,
		m.RateLimitRejectionsTotal,
		m.AuditBufferSize,
		m.ServerStartTime,
	)

	m.ServerStartTime.Set(float64(time.Now().Unix()))

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Registry returns the private Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDBPoolCollector registers the DB pool stats collector.
func (m *Metrics) RegisterDBPoolCollector(statFunc DBPoolStatFunc) {
	m.registry.MustRegister(NewDBPoolCollector(statFunc))
}

// IncUpstreamRequest implements gateway.MetricsRecorder.
func (m *Metrics) IncUpstreamRequest(method string, statusCode int) {
	m.UpstreamRequestsTotal.WithLabelValues(method, fmt.Sprintf("%d", statusCode)).Inc()
}

// ObserveUpstreamDuration implements gateway.MetricsRecorder.
func (m *Metrics) ObserveUpstreamDuration(method string, seconds float64) {
	m.UpstreamDuration.WithLabelValues(method).Observe(seconds)
}

// IncUpstreamError implements gateway.MetricsRecorder.
func (m *Metrics) IncUpstreamError(errorType string) {
	m.UpstreamErrorsTotal.WithLabelValues(errorType).Inc()
}

// IncLogin counts a login attempt outcome ("success" or "failure").
func (m *Metrics) IncLogin(outcome string) {
	m.LoginsTotal.WithLabelValues(outcome).Inc()
}

// IncForcedLogout counts a session invalidated by the auth guard.
func (m *Metrics) IncForcedLogout() {
	m.ForcedLogoutsTotal.Inc()
}

// IncRateLimitRejection counts a throttled login attempt.
func (m *Metrics) IncRateLimitRejection() {
	m.RateLimitRejectionsTotal.Inc()
}

// IncHTTPRequest counts a served request.
func (m *Metrics) IncHTTPRequest(method, pathPattern string, statusCode int) {
	m.HTTPRequestsTotal.WithLabelValues(method, pathPattern, fmt.Sprintf("%d", statusCode)).Inc()
}

// ObserveHTTPDuration records a served request's duration.
func (m *Metrics) ObserveHTTPDuration(method, pathPattern string, seconds float64) {
	m.HTTPRequestDuration.WithLabelValues(method, pathPattern).Observe(seconds)
}
