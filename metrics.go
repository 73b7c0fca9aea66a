package dragon

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the engine's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	gestures       *prometheus.CounterVec
	snaps          prometheus.Counter
	chains         prometheus.Counter
	diagnostics    *prometheus.CounterVec
	manifoldPoints prometheus.Histogram
	solverEvals    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		gestures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dragon_gestures_total",
				Help: "Drag gestures started, by spec kind.",
			},
			[]string{"kind"},
		),
		snaps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dragon_snaps_total",
			Help: "Gestures ended by snapping onto a target state.",
		}),
		chains: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dragon_chains_total",
			Help: "Snaps that continued into a new drag.",
		}),
		diagnostics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dragon_diagnostics_total",
				Help: "Author errors caught by the engine, by mode.",
			},
			[]string{"mode"},
		),
		manifoldPoints: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dragon_manifold_points",
			Help:    "Points per constructed manifold.",
			Buckets: prometheus.LinearBuckets(1, 2, 10),
		}),
		solverEvals: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dragon_solver_evaluations",
			Help:    "Objective evaluations per parametric solve.",
			Buckets: prometheus.ExponentialBuckets(4, 2, 10),
		}),
	}
	reg.MustRegister(m.gestures, m.snaps, m.chains, m.diagnostics, m.manifoldPoints, m.solverEvals)
	return m
}

func (m *Metrics) gesture(kind string) {
	if m != nil {
		m.gestures.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) snap(chained bool) {
	if m == nil {
		return
	}
	m.snaps.Inc()
	if chained {
		m.chains.Inc()
	}
}

func (m *Metrics) diagnostic(mode Mode) {
	if m != nil {
		m.diagnostics.WithLabelValues(mode.String()).Inc()
	}
}

func (m *Metrics) manifold(points int) {
	if m != nil {
		m.manifoldPoints.Observe(float64(points))
	}
}

func (m *Metrics) solve(evals int) {
	if m != nil {
		m.solverEvals.Observe(float64(evals))
	}
}
