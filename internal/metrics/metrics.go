// Package metrics exposes Prometheus counters and histograms for tool calls
// and upstream GraphQL requests.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/usestring/opentargets-mcp/pkg/graphql"
)

const namespace = "opentargets_mcp"

// Tool call statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusLimited = "rate_limited"
)

// GraphQL request outcomes besides the transport error kinds.
const (
	OutcomeSuccess      = "success"
	OutcomeGraphQLError = "graphql_error"
	OutcomeInvalid      = "invalid_request"
)

// Metrics holds the collectors on a private registry. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	toolCalls       *prometheus.CounterVec
	toolDuration    *prometheus.HistogramVec
	graphqlRequests *prometheus.CounterVec
}

// New creates the collectors and registers them together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool calls by tool name and result status.",
		}, []string{"tool", "status"}),
		toolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_duration_seconds",
			Help:      "Tool call latency.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"tool"}),
		graphqlRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphql_requests_total",
			Help:      "Upstream GraphQL requests by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.toolCalls,
		m.toolDuration,
		m.graphqlRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveTool records one finished tool call.
func (m *Metrics) ObserveTool(tool, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(tool, status).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(d.Seconds())
}

// ObserveGraphQL records the outcome of one upstream request.
func (m *Metrics) ObserveGraphQL(err error) {
	if m == nil {
		return
	}
	m.graphqlRequests.WithLabelValues(Outcome(err)).Inc()
}

// Outcome maps an Execute error to a label value.
func Outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	var terr *graphql.TransportError
	if errors.As(err, &terr) {
		return string(terr.Kind)
	}
	if graphql.IsApplication(err) {
		return OutcomeGraphQLError
	}
	return OutcomeInvalid
}
