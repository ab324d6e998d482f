// Package metrics exposes Prometheus collectors for the intake pipeline.
// A nil *Pipeline is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline holds the counters for quotes, leads and notifications.
type Pipeline struct {
	leadsCreated  *prometheus.CounterVec
	stepFailures  *prometheus.CounterVec
	quotes        *prometheus.CounterVec
	notifications *prometheus.CounterVec
	stepLatency   *prometheus.HistogramVec
}

// NewRegistry returns a registry with the Go and process collectors attached.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// NewPipeline creates and registers the pipeline collectors.
func NewPipeline(reg prometheus.Registerer) *Pipeline {
	m := &Pipeline{
		leadsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "containers",
			Subsystem: "leads",
			Name:      "created_total",
			Help:      "Leads recorded, by service type",
		}, []string{"service_type"}),
		stepFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "containers",
			Subsystem: "leads",
			Name:      "step_failures_total",
			Help:      "Failed pipeline steps, fatal or degraded",
		}, []string{"step"}),
		quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "containers",
			Subsystem: "quotes",
			Name:      "computed_total",
			Help:      "Quote computations by mode and outcome",
		}, []string{"mode", "outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "containers",
			Subsystem: "notifications",
			Name:      "total",
			Help:      "Notification channel outcomes",
		}, []string{"channel", "outcome"}),
		stepLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "containers",
			Subsystem: "leads",
			Name:      "step_duration_seconds",
			Help:      "Latency of each pipeline step",
			Buckets:   prometheus.DefBuckets,
		}, []string{"step"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.leadsCreated, m.stepFailures, m.quotes, m.notifications, m.stepLatency)
	return m
}

// Handler serves the given registry in the Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

func (m *Pipeline) LeadCreated(serviceType string) {
	if m == nil {
		return
	}
	m.leadsCreated.WithLabelValues(serviceType).Inc()
}

func (m *Pipeline) StepFailed(step string) {
	if m == nil {
		return
	}
	m.stepFailures.WithLabelValues(step).Inc()
}

func (m *Pipeline) ObserveStep(step string, seconds float64) {
	if m == nil {
		return
	}
	m.stepLatency.WithLabelValues(step).Observe(seconds)
}

// QuoteComputed records one pricing call. outcome is ok, manual or invalid.
func (m *Pipeline) QuoteComputed(mode, outcome string) {
	if m == nil {
		return
	}
	m.quotes.WithLabelValues(mode, outcome).Inc()
}

func (m *Pipeline) Notification(channel string, ok bool) {
	if m == nil {
		return
	}
	outcome := "failed"
	if ok {
		outcome = "sent"
	}
	m.notifications.WithLabelValues(channel, outcome).Inc()
}
