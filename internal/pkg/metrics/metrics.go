// Package metrics exposes Prometheus collectors for the tracking relay.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry gauges are collected from the session registry at scrape time.
var (
	ChannelsDesc = prometheus.NewDesc(
		"tracking_active_channels",
		"Number of live order channels",
		nil, nil,
	)
	JoinedConnectionsDesc = prometheus.NewDesc(
		"tracking_joined_connections",
		"Number of connections holding a channel slot",
		nil, nil,
	)
)

var (
	// ActiveConnections counts open websocket connections.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tracking_active_connections",
		Help: "Number of open tracking websocket connections",
	})

	// Joins counts join attempts.
	// Labels:
	//   - role: "courier", "customer"
	//   - outcome: "accepted", "invalid_credential", "order_not_found", "not_a_participant", "invalid_request", "internal_error"
	Joins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracking_joins_total",
			Help: "Total number of channel join attempts",
		},
		[]string{"role", "outcome"},
	)

	// Evictions counts participants replaced by a newer connection of the same role.
	Evictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracking_evictions_total",
			Help: "Total number of participants evicted by a newer join",
		},
		[]string{"role"},
	)

	// PositionReports counts courier reports by outcome.
	// Labels:
	//   - outcome: "relayed", "invalid_position", "not_courier", "channel_gone", "rate_limited"
	PositionReports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracking_position_reports_total",
			Help: "Total number of courier position reports",
		},
		[]string{"outcome"},
	)

	// DroppedEvents counts outbound events discarded because a participant queue was full.
	DroppedEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracking_dropped_events_total",
			Help: "Outbound events dropped on full send queues",
		},
		[]string{"event"},
	)

	// RouteRequests counts routing provider calls.
	// Labels:
	//   - outcome: "success", "failure", "rejected"
	RouteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracking_route_requests_total",
			Help: "Total number of routing provider requests",
		},
		[]string{"outcome"},
	)

	// RouteDuration measures routing provider latency.
	RouteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tracking_route_request_duration_seconds",
		Help:    "Routing provider request latency",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	// CircuitBreakerState reports breaker state (0=closed, 1=half-open, 2=open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tracking_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)
