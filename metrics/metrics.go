// Package metrics exposes Prometheus instruments for model estimation and
// simulation runs.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every instrument registered on one Prometheus registry.
type Registry struct {
	registry *prometheus.Registry

	EstimationsTotal       *prometheus.CounterVec
	EstimationDuration     prometheus.Histogram
	UndeterminedCellsTotal *prometheus.CounterVec

	SimulationsTotal   *prometheus.CounterVec
	SimulatedRowsTotal prometheus.Counter
	SimulationDuration prometheus.Histogram
	ErsatzBinsTotal    prometheus.Counter
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// DefaultRegistry returns the process-wide registry, created on first use.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})

	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initEstimationMetrics()
	r.initSimulationMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

func (r *Registry) initEstimationMetrics() {
	r.EstimationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cgm_estimations_total",
			Help: "Total number of model estimations",
		},
		[]string{"result"}, // ok, error
	)

	r.EstimationDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cgm_estimation_duration_seconds",
			Help:    "Duration of model estimations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		},
	)

	r.UndeterminedCellsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cgm_undetermined_cells_total",
			Help: "Parameter cells left NaN for lack of supporting rows",
		},
		[]string{"group"}, // discrete, continuous
	)
}

func (r *Registry) initSimulationMetrics() {
	r.SimulationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cgm_simulations_total",
			Help: "Total number of forward simulations",
		},
		[]string{"result"}, // ok, error
	)

	r.SimulatedRowsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "cgm_simulated_rows_total",
			Help: "Total number of simulated rows",
		},
	)

	r.SimulationDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cgm_simulation_duration_seconds",
			Help:    "Duration of forward simulations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		},
	)

	r.ErsatzBinsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "cgm_ersatz_discretizations_total",
			Help: "Continuous parent columns discretized during simulation",
		},
	)
}

func result(err error) string {
	if err != nil {
		return "error"
	}

	return "ok"
}

// RecordEstimation records one estimation run and its undetermined cells.
func (r *Registry) RecordEstimation(d time.Duration, nanDiscrete, nanContinuous int, err error) {
	r.EstimationsTotal.WithLabelValues(result(err)).Inc()
	r.EstimationDuration.Observe(d.Seconds())
	if err != nil {
		return
	}
	r.UndeterminedCellsTotal.WithLabelValues("discrete").Add(float64(nanDiscrete))
	r.UndeterminedCellsTotal.WithLabelValues("continuous").Add(float64(nanContinuous))
}

// RecordSimulation records one simulation run.
func (r *Registry) RecordSimulation(d time.Duration, rows int, err error) {
	r.SimulationsTotal.WithLabelValues(result(err)).Inc()
	r.SimulationDuration.Observe(d.Seconds())
	if err == nil {
		r.SimulatedRowsTotal.Add(float64(rows))
	}
}

// RecordErsatz records one continuous column discretized for sampling.
func (r *Registry) RecordErsatz() {
	r.ErsatzBinsTotal.Inc()
}
