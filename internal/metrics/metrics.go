// Package metrics holds the Prometheus collectors exported by the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application. Each instance owns
// its own registry so tests can build independent servers.
type Metrics struct {
	registry *prometheus.Registry

	UsersCreated    prometheus.Counter
	UsersDeleted    prometheus.Counter
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates and registers all metrics. registered is sampled on every
// scrape to report the current registry size.
func New(registered func() int) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		UsersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "simple_users_created_total",
			Help: "Total number of users created through the API",
		}),
		UsersDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "simple_users_deleted_total",
			Help: "Total number of users deleted through the API",
		}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "simple_http_requests_total",
			Help: "HTTP requests by method and status code",
		}, []string{"method", "code"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "simple_http_request_duration_seconds",
			Help:    "HTTP request latency by method",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}

	if registered != nil {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "simple_users_registered",
			Help: "Number of users currently held in memory",
		}, func() float64 { return float64(registered()) })
	}
	return m
}

// IncrementUsersCreated increments the users created counter by 1
func (m *Metrics) IncrementUsersCreated() {
	m.UsersCreated.Inc()
}

// IncrementUsersDeleted increments the users deleted counter by 1
func (m *Metrics) IncrementUsersDeleted() {
	m.UsersDeleted.Inc()
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method string, status int, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer exposes the underlying registry for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
