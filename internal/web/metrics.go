package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rshade/hpc-carbon-estimator/internal/carbon"
)

const metricsNamespace = "hpc_carbon"

// Metrics holds the collectors exported on /metrics. Each Metrics owns its
// registry so that servers built in tests do not collide.
type Metrics struct {
	registry *prometheus.Registry

	estimates          *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	emissions          prometheus.Histogram
	requestDuration    *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		estimates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "estimates_total",
				Help:      "Number of completed assessments by selected location",
			},
			[]string{"location"},
		),
		validationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "validation_failures_total",
				Help:      "Number of assessments stopped by the validation gate",
			},
			[]string{"reason"},
		),
		emissions: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "estimated_emissions_kg",
				Help:      "Estimated job emissions in kg CO2e",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
			},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route and status code",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method", "code"},
		),
	}

	m.registry.MustRegister(
		m.estimates,
		m.validationFailures,
		m.emissions,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeAssessment(a *carbon.Assessment) {
	m.estimates.WithLabelValues(a.Scenario.Location).Inc()
	m.emissions.Observe(a.Impact.CO2Kg)
}

func (m *Metrics) observeValidationFailure(err error) {
	m.validationFailures.WithLabelValues(failureReason(err)).Inc()
}

func (m *Metrics) observeRequest(route, method string, code int, elapsed time.Duration) {
	m.requestDuration.WithLabelValues(route, method, strconv.Itoa(code)).Observe(elapsed.Seconds())
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, carbon.ErrIdleExceedsPeak):
		return "idle_exceeds_peak"
	case errors.Is(err, carbon.ErrInvalidIntensity):
		return "invalid_intensity"
	case errors.Is(err, carbon.ErrUnknownLocation):
		return "unknown_location"
	default:
		return "other"
	}
}
