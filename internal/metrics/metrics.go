package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GatewayRequests counts API calls by operation and outcome.
	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "heartlink_gateway_requests_total",
			Help: "Total number of HeartLink API requests",
		},
		[]string{"operation", "result"},
	)

	// GatewayDuration observes API call latency by operation.
	GatewayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "heartlink_gateway_request_duration_seconds",
			Help:    "HeartLink API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	// PollTicks counts background conversation refreshes.
	PollTicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "heartlink_poll_ticks_total",
			Help: "Total number of conversation poll ticks",
		},
		[]string{"result"},
	)

	// Sends counts optimistic sends by final delivery state.
	Sends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "heartlink_sends_total",
			Help: "Total number of optimistic message sends",
		},
		[]string{"result"},
	)

	// PendingMessages tracks unconfirmed sends in the open conversation.
	PendingMessages = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "heartlink_pending_messages",
			Help: "Number of optimistic messages awaiting confirmation",
		},
	)
)

// Result label values.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultSkipped = "skipped"
)
