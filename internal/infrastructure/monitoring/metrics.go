package monitoring

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "toolkit"

// Metrics holds all Prometheus collectors
type Metrics struct {
	registry *prometheus.Registry

	// HTTP API
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Tool calls
	ToolCalls    *prometheus.CounterVec
	ToolDuration *prometheus.HistogramVec

	// Tree operations
	TreeEntries *prometheus.CounterVec

	// Outbound HTTP
	OutboundRequests *prometheus.CounterVec

	Uptime    prometheus.GaugeFunc
	startTime time.Time

	totalRequests atomic.Int64
	totalErrors   atomic.Int64
}

// Snapshot is a JSON-friendly summary
type Snapshot struct {
	UptimeSeconds float64 `json:"uptime_seconds"`
	TotalRequests int64   `json:"total_requests"`
	TotalErrors   int64   `json:"total_errors"`
}

// NewMetrics creates collectors on a fresh registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry:  prometheus.NewRegistry(),
		startTime: time.Now(),

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ToolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_calls_total",
				Help:      "Total number of tool calls",
			},
			[]string{"service", "tool", "status"},
		),
		ToolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tool_duration_seconds",
				Help:      "Tool call duration in seconds",
				Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30, 60},
			},
			[]string{"service", "tool"},
		),
		TreeEntries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tree_entries_total",
				Help:      "Entries handled by tree operations",
			},
			[]string{"operation", "outcome"},
		),
		OutboundRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "outbound_requests_total",
				Help:      "Outbound HTTP requests by result",
			},
			[]string{"operation", "result"},
		),
	}
	m.Uptime = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Seconds since the server started",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestsTotal,
		m.RequestDuration,
		m.ToolCalls,
		m.ToolDuration,
		m.TreeEntries,
		m.OutboundRequests,
		m.Uptime,
	)
	return m
}

// Registry returns the registry backing m
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records an API request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, statusClass(status)).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.totalRequests.Add(1)
	if status >= http.StatusInternalServerError {
		m.totalErrors.Add(1)
	}
}

// RecordToolCall records a tool invocation
func (m *Metrics) RecordToolCall(service, tool, status string, duration time.Duration) {
	m.ToolCalls.WithLabelValues(service, tool, status).Inc()
	m.ToolDuration.WithLabelValues(service, tool).Observe(duration.Seconds())
}

// RecordTree records tree operation outcomes
func (m *Metrics) RecordTree(operation string, processed, failed int) {
	if processed > 0 {
		m.TreeEntries.WithLabelValues(operation, "processed").Add(float64(processed))
	}
	if failed > 0 {
		m.TreeEntries.WithLabelValues(operation, "failed").Add(float64(failed))
	}
}

// RecordOutbound records an outbound HTTP call
func (m *Metrics) RecordOutbound(operation, result string) {
	m.OutboundRequests.WithLabelValues(operation, result).Inc()
}

// Snapshot returns current totals
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		UptimeSeconds: time.Since(m.startTime).Seconds(),
		TotalRequests: m.totalRequests.Load(),
		TotalErrors:   m.totalErrors.Load(),
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
