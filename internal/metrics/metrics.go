// Package metrics defines the Prometheus collectors recorded during a
// similarity run and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "prosim"

// Metrics holds all Prometheus collectors for a run.
type Metrics struct {
	registry *prometheus.Registry

	DocumentsIngestedTotal prometheus.Counter
	PhonemesIngestedTotal  prometheus.Counter
	SymbolsPerChannel      *prometheus.GaugeVec
	ProblemsTotal          prometheus.Gauge
	ProblemsSolvedTotal    prometheus.Counter
	WorkerThreads          prometheus.Gauge
	PhaseDuration          *prometheus.HistogramVec
	RunsTotal              *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		DocumentsIngestedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_ingested_total",
				Help:      "Total documents ingested into the corpus.",
			},
		),
		PhonemesIngestedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "phonemes_ingested_total",
				Help:      "Total phoneme tuples ingested into the corpus.",
			},
		),
		SymbolsPerChannel: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "channel_symbols",
				Help:      "Distinct symbols interned per feature channel.",
			},
			[]string{"channel"},
		),
		ProblemsTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "problems",
				Help:      "Problems generated for the current run.",
			},
		),
		ProblemsSolvedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "problems_solved_total",
				Help:      "Total problems solved by the worker pool.",
			},
		),
		WorkerThreads: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "worker_threads",
				Help:      "Number of solver workers.",
			},
		),
		PhaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "phase_duration_seconds",
				Help:      "Duration of each run phase (ingest, solve, aggregate) in seconds.",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 60, 300, 1800},
			},
			[]string{"phase"},
		),
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total runs by outcome (success, failed, cancelled).",
			},
			[]string{"outcome"},
		),
	}

	m.registry.MustRegister(
		m.DocumentsIngestedTotal,
		m.PhonemesIngestedTotal,
		m.SymbolsPerChannel,
		m.ProblemsTotal,
		m.ProblemsSolvedTotal,
		m.WorkerThreads,
		m.PhaseDuration,
		m.RunsTotal,
	)

	return m
}

// Registry returns the registry the collectors are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus scrape HTTP handler for these metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
