package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "schedule_service"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	wsConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_connections_total",
			Help:      "Total number of WebSocket connections accepted",
		},
	)

	wsActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_active_connections",
			Help:      "Number of active WebSocket connections",
		},
	)

	notificationsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_created_total",
			Help:      "Total number of notifications created, by type",
		},
		[]string{"type"},
	)

	remindersSweepTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminder_sweeps_total",
			Help:      "Total number of reminder sweeps executed, by trigger",
		},
		[]string{"trigger"},
	)
)

// RecordWebSocketConnection counts an accepted connection.
func RecordWebSocketConnection() {
	wsConnectionsTotal.Inc()
	wsActiveConnections.Inc()
}

// RecordWebSocketDisconnection releases an active connection.
func RecordWebSocketDisconnection() {
	wsActiveConnections.Dec()
}

// RecordNotificationCreated counts a stored notification.
func RecordNotificationCreated(notificationType string) {
	notificationsCreatedTotal.WithLabelValues(notificationType).Inc()
}

// RecordSweep counts one scheduler sweep run.
func RecordSweep(trigger string) {
	remindersSweepTotal.WithLabelValues(trigger).Inc()
}
