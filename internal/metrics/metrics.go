package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rpgo/retirement-runway/internal/domain"
)

// Registry holds the Prometheus collectors for simulation runs.
type Registry struct {
	reg *prometheus.Registry

	SimulationRuns     *prometheus.CounterVec
	SimulationErrors   *prometheus.CounterVec
	SimulationDuration *prometheus.HistogramVec
	SurvivalMonths     prometheus.Histogram
	SignalsRaised      *prometheus.CounterVec
}

// NewRegistry creates the collectors on a private registry so several servers
// (or tests) can coexist in one process.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		SimulationRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runway_simulations_total",
				Help: "Total number of completed simulations by stress scenario",
			},
			[]string{"scenario"},
		),

		SimulationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runway_simulation_errors_total",
				Help: "Total number of rejected or failed simulations by error type",
			},
			[]string{"error_type"},
		),

		SimulationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "runway_simulation_duration_seconds",
				Help:    "Wall time of a full simulation request in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"scenario"},
		),

		SurvivalMonths: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "runway_survival_months",
				Help:    "Survival months reported by completed simulations",
				Buckets: []float64{12, 60, 120, 180, 240, 300, 359, 360},
			},
		),

		SignalsRaised: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runway_signals_total",
				Help: "Deduplicated guardrail signals returned, by kind",
			},
			[]string{"kind"},
		),
	}

	r.reg.MustRegister(
		r.SimulationRuns,
		r.SimulationErrors,
		r.SimulationDuration,
		r.SurvivalMonths,
		r.SignalsRaised,
	)
	return r
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

func scenarioLabel(s string) string {
	if s == "" {
		return "BASE"
	}
	return s
}

// ObserveResult records a completed simulation.
func (r *Registry) ObserveResult(res *domain.SimulationResult, elapsed time.Duration) {
	scenario := scenarioLabel(res.Summary.ActiveStressScenario)
	r.SimulationRuns.WithLabelValues(scenario).Inc()
	r.SimulationDuration.WithLabelValues(scenario).Observe(elapsed.Seconds())
	r.SurvivalMonths.Observe(float64(res.SurvivalMonths))
	for _, s := range res.Summary.Signals {
		r.SignalsRaised.WithLabelValues(string(s.Kind)).Inc()
	}
}

// ObserveError records a simulation that did not produce a result.
func (r *Registry) ObserveError(errorType string) {
	r.SimulationErrors.WithLabelValues(errorType).Inc()
}
