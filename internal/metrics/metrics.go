// Package metrics exposes Prometheus instrumentation for the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counter metrics (monotonically increasing)
var (
	// GenerationsTotal counts lesson generation requests by status (success, failure)
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homeroom_generations_total",
			Help: "Total number of lesson generation requests",
		},
		[]string{"status"},
	)

	// TutorRequestsTotal counts tutoring requests by status (success, failure)
	TutorRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homeroom_tutor_requests_total",
			Help: "Total number of tutoring requests",
		},
		[]string{"status"},
	)

	// ReportsTotal counts report email dispatches by status (sent, simulated, failure)
	ReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homeroom_reports_total",
			Help: "Total number of weekly report dispatches",
		},
		[]string{"status"},
	)

	// RateLimitRejectionsTotal counts requests rejected by admission control
	RateLimitRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homeroom_rate_limit_rejections_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	// LLMTokensTotal counts tokens consumed upstream by direction (prompt, completion)
	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homeroom_llm_tokens_total",
			Help: "Total number of LLM tokens consumed",
		},
		[]string{"direction"},
	)

	// HTTPRequestsTotal counts total HTTP requests by method, path, and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homeroom_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
)

// Histogram metrics (distributions)
var (
	// HTTPRequestDuration tracks HTTP request latency by method and path
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "homeroom_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path"},
	)

	// LLMRequestDuration tracks the LLM provider round trip by kind
	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "homeroom_llm_request_duration_seconds",
			Help:    "LLM provider round-trip latency in seconds",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		},
		[]string{"kind"},
	)
)
