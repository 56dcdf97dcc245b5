package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private Prometheus registry so tests can build as many
// instances as they need.
type Metrics struct {
	registry        *prometheus.Registry
	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	notifications   *prometheus.CounterVec
	appointments    *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Transactional emails by kind and outcome",
		}, []string{"kind", "outcome"}),
		appointments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "appointment_events_total",
			Help: "Appointment lifecycle events by type and status",
		}, []string{"event", "status"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestTotal,
		m.requestDuration,
		m.notifications,
		m.appointments,
	)

	return m
}

// RegisterDB exposes connection pool statistics for db.
func (m *Metrics) RegisterDB(db *sql.DB, name string) error {
	return m.registry.Register(collectors.NewDBStatsCollector(db, name))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.requestTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) ObserveNotification(kind, outcome string) {
	m.notifications.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) ObserveAppointmentEvent(event, status string) {
	m.appointments.WithLabelValues(event, status).Inc()
}
