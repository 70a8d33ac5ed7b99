package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Error kinds recorded in lure_api_errors_total
const (
	KindTransport = "transport"
	KindServer    = "server"
	KindDecode    = "decode"
)

// Metrics holds the Prometheus metrics of API calls made by the client
type Metrics struct {
	RequestsTotal          *prometheus.CounterVec
	RequestDurationSeconds *prometheus.HistogramVec
	ErrorsTotal            *prometheus.CounterVec
	InFlight               prometheus.Gauge

	registry *prometheus.Registry
}

// New creates a new Metrics instance with all metrics registered
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lure_api_requests_total",
				Help: "Total number of API requests by catalog endpoint",
			},
			[]string{"endpoint", "method", "status"},
		),
		RequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lure_api_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"endpoint"},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lure_api_errors_total",
				Help: "Total number of failed API requests",
			},
			[]string{"endpoint", "kind"},
		),
		InFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lure_api_requests_in_flight",
				Help: "Number of API requests waiting for a response",
			},
		),

		registry: reg,
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDurationSeconds,
		m.ErrorsTotal,
		m.InFlight,
	)

	return m
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Begin marks a request as in flight and returns the function ending it
func (m *Metrics) Begin() func() {
	if m == nil {
		return func() {}
	}
	m.InFlight.Inc()
	return m.InFlight.Dec
}

// ObserveRequest records a request that produced an HTTP response
func (m *Metrics) ObserveRequest(endpoint, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(endpoint, method, strconv.Itoa(status)).Inc()
	m.RequestDurationSeconds.WithLabelValues(endpoint).Observe(d.Seconds())
	if status >= 400 {
		m.ErrorsTotal.WithLabelValues(endpoint, KindServer).Inc()
	}
}

// ObserveError records a failure that is not an HTTP error status
func (m *Metrics) ObserveError(endpoint, kind string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(endpoint, kind).Inc()
}
