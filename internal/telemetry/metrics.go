// Package telemetry exposes the server's Prometheus metrics.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var defaultRegistry = newRegistry()

type registry struct {
	reg             *prometheus.Registry
	toolCalls       *prometheus.CounterVec
	toolDuration    *prometheus.HistogramVec
	googleAPIErrors *prometheus.CounterVec
	rpcRequests     *prometheus.CounterVec
}

func newRegistry() *registry {
	r := &registry{
		reg: prometheus.NewRegistry(),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docsmcp_tool_calls_total",
			Help: "Tool calls by tool and outcome.",
		}, []string{"tool", "status"}),
		toolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "docsmcp_tool_duration_seconds",
			Help:    "Tool call latency.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"tool"}),
		googleAPIErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docsmcp_google_api_errors_total",
			Help: "Non-2xx responses from Google APIs.",
		}, []string{"operation", "status_code"}),
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docsmcp_rpc_requests_total",
			Help: "JSON-RPC requests by transport and method.",
		}, []string{"transport", "method"}),
	}
	r.reg.MustRegister(
		r.toolCalls,
		r.toolDuration,
		r.googleAPIErrors,
		r.rpcRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func IncToolCall(toolName, status string) {
	defaultRegistry.toolCalls.WithLabelValues(toolName, status).Inc()
}

func ObserveToolDuration(toolName string, d time.Duration) {
	defaultRegistry.toolDuration.WithLabelValues(toolName).Observe(d.Seconds())
}

func IncGoogleAPIError(operation string, statusCode int) {
	defaultRegistry.googleAPIErrors.WithLabelValues(operation, strconv.Itoa(statusCode)).Inc()
}

// IncRPCRequest counts an inbound JSON-RPC message. Unrecognised methods are
// folded into "other" to keep label cardinality bounded.
func IncRPCRequest(transport, method string) {
	switch method {
	case "initialize", "tools/list", "tools/call", "ping", "notifications/initialized":
	default:
		method = "other"
	}
	defaultRegistry.rpcRequests.WithLabelValues(transport, method).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(defaultRegistry.reg, promhttp.HandlerOpts{})
}
