package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	toolCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recepce",
			Name:      "tool_calls_total",
			Help:      "Engine operations by name.",
		},
		[]string{"operation"},
	)

	portErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recepce",
			Name:      "port_errors_total",
			Help:      "External port failures by port.",
		},
		[]string{"port"},
	)

	bookings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recepce",
			Name:      "bookings_total",
			Help:      "Booking lifecycle events by type.",
		},
		[]string{"event"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(toolCalls, portErrors, bookings)
	})
}

// IncTool increments the counter for an engine operation.
func IncTool(operation string) {
	toolCalls.WithLabelValues(operation).Inc()
}

// IncPortError increments the failure counter for an external port.
func IncPortError(port string) {
	portErrors.WithLabelValues(port).Inc()
}

// IncBooking increments the lifecycle counter for a booking event type.
func IncBooking(event string) {
	bookings.WithLabelValues(event).Inc()
}
