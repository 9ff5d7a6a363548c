package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/riskibarqy/fpl-mcp/internal/platform/resilience"
)

const metricsNamespace = "fpl_mcp"

// Metrics holds the server's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	cacheLookups    *prometheus.CounterVec
	refreshes       *prometheus.CounterVec
	refreshDuration *prometheus.HistogramVec
	upstream        *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	circuitOpen     prometheus.Gauge
	toolCalls       *prometheus.CounterVec
	toolDuration    *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by category and result.",
		}, []string{"category", "result"}),
		refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_refreshes_total",
			Help:      "Cache refresh attempts by category and outcome.",
		}, []string{"category", "outcome"}),
		refreshDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "cache_refresh_duration_seconds",
			Help:      "Time spent refreshing a cache category, retries included.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"category"}),
		upstream: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "upstream_requests_total",
			Help:      "Requests sent to the FPL API by endpoint and status.",
		}, []string{"endpoint", "status"}),
		upstreamLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "FPL API request latency.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"endpoint"}),
		circuitOpen: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "upstream_circuit_open",
			Help:      "1 while the FPL API circuit breaker is open.",
		}),
		toolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "tool_calls_total",
			Help:      "Tool calls by tool and result kind.",
		}, []string{"tool", "result"}),
		toolDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Tool call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// CacheLookup records a fresh hit or a miss (absent or stale).
func (m *Metrics) CacheLookup(category string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(category, result).Inc()
}

func (m *Metrics) Refresh(category string, outcome string, elapsed time.Duration) {
	m.refreshes.WithLabelValues(category, outcome).Inc()
	if elapsed > 0 {
		m.refreshDuration.WithLabelValues(category).Observe(elapsed.Seconds())
	}
}

// UpstreamRequest matches the FPL client's request observer.
func (m *Metrics) UpstreamRequest(endpoint string, status string, elapsed time.Duration) {
	m.upstream.WithLabelValues(endpoint, status).Inc()
	m.upstreamLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// CircuitStateChanged matches the circuit breaker state hook.
func (m *Metrics) CircuitStateChanged(_, to resilience.CircuitState) {
	if to == resilience.CircuitStateOpen {
		m.circuitOpen.Set(1)
		return
	}
	m.circuitOpen.Set(0)
}

// ToolCall records one tool invocation; result is "ok" or an error kind.
func (m *Metrics) ToolCall(tool string, result string, elapsed time.Duration) {
	m.toolCalls.WithLabelValues(tool, result).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}
