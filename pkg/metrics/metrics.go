package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	// Business metrics
	RideTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ride_transitions_total",
			Help: "Ride status changes by target status",
		},
		[]string{"status"},
	)

	RideAcceptConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ride_accept_conflicts_total",
			Help: "Accept attempts that lost the race or hit a ride that was no longer open",
		},
	)

	LocationPingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "location_pings_total",
			Help: "Driver location pings by outcome",
		},
		[]string{"outcome"},
	)

	ApprovalChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "driver_approval_changes_total",
			Help: "Driver approval status changes by target status",
		},
		[]string{"status"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "approval_notifications_total",
			Help: "Approval notifications by result",
		},
		[]string{"status"},
	)

	DatabaseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	BrokerMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broker_messages_published_total",
			Help: "Messages published to RabbitMQ or Kafka",
		},
		[]string{"broker", "destination", "status"},
	)
)

// Ping outcomes.
const (
	PingAccepted = "accepted"
	PingDropped  = "dropped"
	PingRejected = "rejected"
)

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(service, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(service, method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, status).Observe(duration.Seconds())
}

// RecordDatabaseQuery records database query metrics
func RecordDatabaseQuery(operation string, err error, duration time.Duration) {
	DatabaseQueriesTotal.WithLabelValues(operation, statusOf(err)).Inc()
	DatabaseQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordPublish records one broker publish attempt.
func RecordPublish(broker, destination string, err error) {
	BrokerMessagesPublished.WithLabelValues(broker, destination, statusOf(err)).Inc()
}

func RecordRideTransition(status string) {
	RideTransitionsTotal.WithLabelValues(status).Inc()
}

func RecordPing(outcome string) {
	LocationPingsTotal.WithLabelValues(outcome).Inc()
}

func RecordApprovalChange(status string) {
	ApprovalChangesTotal.WithLabelValues(status).Inc()
}

func RecordNotification(err error) {
	NotificationsTotal.WithLabelValues(statusOf(err)).Inc()
}
