// Package metrics defines the Prometheus collectors of the marketplace service.
package metrics

import (
	"context"
	"net/http"

	"marketplace/internal/pkg/ddd"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "marketplace"

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	CommandsTotal       *prometheus.CounterVec
	JobRunsTotal        *prometheus.CounterVec
	EventsPublished     *prometheus.CounterVec
}

// New creates the collectors on a private registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		CommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Total number of handled commands by outcome",
			},
			[]string{"command", "outcome"},
		),
		JobRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "job_runs_total",
				Help:      "Total number of scheduled job runs by outcome",
			},
			[]string{"job", "outcome"},
		),
		EventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "domain_events_published_total",
				Help:      "Total number of domain events handed to the event bus",
			},
			[]string{"event_type", "outcome"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.CommandsTotal,
		m.JobRunsTotal,
		m.EventsPublished,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveCommand counts one command outcome. classify maps the error to a label.
func (m *Metrics) ObserveCommand(command string, err error, classify func(error) string) {
	outcome := "ok"
	if err != nil {
		outcome = classify(err)
	}
	m.CommandsTotal.WithLabelValues(command, outcome).Inc()
}

func (m *Metrics) ObserveJobRun(job string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.JobRunsTotal.WithLabelValues(job, outcome).Inc()
}

type publisher interface {
	Publish(ctx context.Context, events ...ddd.DomainEvent) error
}

// InstrumentedPublisher counts events passed to the wrapped publisher.
type InstrumentedPublisher struct {
	next    publisher
	metrics *Metrics
}

func (m *Metrics) InstrumentPublisher(next publisher) *InstrumentedPublisher {
	return &InstrumentedPublisher{next: next, metrics: m}
}

func (p *InstrumentedPublisher) Publish(ctx context.Context, events ...ddd.DomainEvent) error {
	err := p.next.Publish(ctx, events...)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	for _, event := range events {
		p.metrics.EventsPublished.WithLabelValues(event.EventType(), outcome).Inc()
	}
	return err
}
