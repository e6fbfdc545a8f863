package ga

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics receives GA progress. Implementations must be safe for
// concurrent use since independent runs may share one.
type Metrics interface {
	ObserveCycle(label string, best, mean, variance float64)
	AddEvaluations(label string, n int)
	IncCollapse(label string)
	ObserveRun(label string, cycles int, elapsed time.Duration)
}

const metricsPrefix = "gadock_ga_"

// PrometheusMetrics exports GA progress labelled by run label.
type PrometheusMetrics struct {
	bestScore    *prometheus.GaugeVec
	meanScore    *prometheus.GaugeVec
	variance     *prometheus.GaugeVec
	cycles       *prometheus.CounterVec
	evaluations  *prometheus.CounterVec
	collapses    *prometheus.CounterVec
	runDuration  *prometheus.HistogramVec
	cyclesPerRun *prometheus.HistogramVec
}

// NewPrometheusMetrics registers the GA collectors with registerer, or
// with the default registerer when it is nil.
func NewPrometheusMetrics(registerer prometheus.Registerer) (*PrometheusMetrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	labels := []string{"label"}
	m := &PrometheusMetrics{
		bestScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: metricsPrefix + "best_score",
			Help: "Best genome score after the latest cycle.",
		}, labels),
		meanScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: metricsPrefix + "mean_score",
			Help: "Mean population score after the latest cycle.",
		}, labels),
		variance: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: metricsPrefix + "score_variance",
			Help: "Population score variance after the latest cycle.",
		}, labels),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricsPrefix + "cycles_total",
			Help: "GA cycles completed.",
		}, labels),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricsPrefix + "evaluations_total",
			Help: "Scoring function evaluations.",
		}, labels),
		collapses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricsPrefix + "collapses_total",
			Help: "Runs aborted because the population lost diversity.",
		}, labels),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metricsPrefix + "run_duration_seconds",
			Help:    "Wall time of complete GA runs.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}, labels),
		cyclesPerRun: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metricsPrefix + "cycles_per_run",
			Help:    "Cycles needed before a run stopped.",
			Buckets: prometheus.LinearBuckets(10, 20, 10),
		}, labels),
	}
	collectors := []prometheus.Collector{
		m.bestScore, m.meanScore, m.variance,
		m.cycles, m.evaluations, m.collapses,
		m.runDuration, m.cyclesPerRun,
	}
	for _, c := range collectors {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *PrometheusMetrics) ObserveCycle(label string, best, mean, variance float64) {
	m.bestScore.WithLabelValues(label).Set(best)
	m.meanScore.WithLabelValues(label).Set(mean)
	m.variance.WithLabelValues(label).Set(variance)
	m.cycles.WithLabelValues(label).Inc()
}

func (m *PrometheusMetrics) AddEvaluations(label string, n int) {
	m.evaluations.WithLabelValues(label).Add(float64(n))
}

func (m *PrometheusMetrics) IncCollapse(label string) {
	m.collapses.WithLabelValues(label).Inc()
}

func (m *PrometheusMetrics) ObserveRun(label string, cycles int, elapsed time.Duration) {
	m.runDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	m.cyclesPerRun.WithLabelValues(label).Observe(float64(cycles))
}

type nopMetrics struct{}

func (nopMetrics) ObserveCycle(string, float64, float64, float64) {}
func (nopMetrics) AddEvaluations(string, int)                     {}
func (nopMetrics) IncCollapse(string)                             {}
func (nopMetrics) ObserveRun(string, int, time.Duration)          {}

// NewNopMetrics returns Metrics that discards everything.
func NewNopMetrics() Metrics { return nopMetrics{} }
