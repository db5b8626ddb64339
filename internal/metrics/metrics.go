package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ModelRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_model_requests_total",
			Help: "Chat completion requests issued to the upstream model",
		},
		[]string{"model", "mode"}, // mode: buffered, stream
	)
	ModelErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_model_errors_total",
			Help: "Chat completion requests that failed",
		},
		[]string{"model"},
	)
	ToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_tool_calls_total",
			Help: "Tool invocations dispatched by the orchestration loop",
		},
		[]string{"tool"},
	)
	ToolErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_tool_errors_total",
			Help: "Tool invocations that ended in an error result",
		},
		[]string{"tool"},
	)
	ToolLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agent_tool_latency_seconds",
			Help:    "Latency of tool invocations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"tool"},
	)
	TokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_tokens_total",
			Help: "Tokens exchanged with the upstream model",
		},
		[]string{"type"}, // type: prompt, completion
	)
)

// StartServer exposes /metrics on addr in a background goroutine.
func StartServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(addr, mux)
}
