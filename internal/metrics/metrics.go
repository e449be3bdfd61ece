// Package metrics registers the prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, route and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tribuna_http_requests_total",
		Help: "Total number of HTTP requests processed.",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration observes per-route request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tribuna_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// ReservationsTotal counts reservation attempts by outcome.
	ReservationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tribuna_reservations_total",
		Help: "Reservation attempts by outcome.",
	}, []string{"outcome"})

	// CancellationsTotal counts cancellation attempts by outcome.
	CancellationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tribuna_cancellations_total",
		Help: "Cancellation attempts by outcome.",
	}, []string{"outcome"})
)
