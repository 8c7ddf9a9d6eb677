package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK = "ok"
)

var (
	// RequestsTotal counts exchange API calls by endpoint path and outcome ("ok" or an error kind).
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mtgox",
			Name:      "requests_total",
			Help:      "Number of exchange API requests by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	// RequestDuration observes the round trip time of exchange API calls by endpoint path.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mtgox",
			Name:      "request_duration_seconds",
			Help:      "Round trip time of exchange API requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// OrdersRejectedTotal counts orders refused locally before reaching the exchange.
	OrdersRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mtgox",
			Name:      "orders_rejected_total",
			Help:      "Number of orders rejected by local validation.",
		},
		[]string{"side"},
	)

	// StreamMessagesTotal counts messages read from the streaming feed by their private type.
	StreamMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mtgox",
			Name:      "stream_messages_total",
			Help:      "Number of streaming feed messages by type.",
		},
		[]string{"type"},
	)
)
