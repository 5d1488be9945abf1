package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shareit_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shareit_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shareit_bookings_created_total",
			Help: "Total number of bookings created",
		},
	)

	BookingDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shareit_booking_decisions_total",
			Help: "Total number of owner decisions on bookings",
		},
		[]string{"status"},
	)

	EventsPublishFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shareit_events_publish_failed_total",
			Help: "Total number of domain events that could not be published",
		},
		[]string{"event"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBookingCreated() {
	BookingsCreatedTotal.Inc()
}

func RecordBookingDecision(status string) {
	BookingDecisionsTotal.WithLabelValues(status).Inc()
}

func RecordEventPublishFailure(event string) {
	EventsPublishFailedTotal.WithLabelValues(event).Inc()
}
