package telemetry

import (
	"context"
	"time"

	"lookalike-audience-service/internal/audiences/core/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Graph call outcomes used as the "outcome" label.
const (
	OutcomeOK             = "ok"
	OutcomeAPIError       = "api_error"
	OutcomeTransportError = "transport_error"
	OutcomeBreakerOpen    = "breaker_open"
)

// Collectors holds every Prometheus metric the service exports. A nil
// *Collectors is valid and records nothing.
type Collectors struct {
	Registry *prometheus.Registry

	GraphRequests    *prometheus.CounterVec
	GraphLatency     *prometheus.HistogramVec
	LookalikeResults *prometheus.CounterVec
}

func New() *Collectors {
	c := &Collectors{
		Registry: prometheus.NewRegistry(),

		GraphRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lookalike_graph_requests_total",
				Help: "Marketing API calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),

		GraphLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lookalike_graph_request_duration_seconds",
				Help:    "Marketing API call latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation"},
		),

		LookalikeResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lookalike_results_total",
				Help: "Lookalike rows processed by final status",
			},
			[]string{"status"},
		),
	}

	c.Registry.MustRegister(
		c.GraphRequests,
		c.GraphLatency,
		c.LookalikeResults,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

func (c *Collectors) ObserveGraphCall(operation, outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.GraphRequests.WithLabelValues(operation, outcome).Inc()
	c.GraphLatency.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordResult counts a finished lookalike row. It satisfies the result
// recorder port so it can sit next to the Postgres recorder.
func (c *Collectors) RecordResult(_ context.Context, _, _ string, r domain.LookalikeResult) error {
	if c == nil {
		return nil
	}
	c.LookalikeResults.WithLabelValues(string(r.Status)).Inc()
	return nil
}

// Handler exposes the registry in the Prometheus text format.
func (c *Collectors) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{}))
}
