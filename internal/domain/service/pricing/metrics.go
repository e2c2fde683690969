package pricing

import (
	"github.com/prometheus/client_golang/prometheus"

	"melidash/internal/domain/value"
)

type Metrics struct {
	executions  *prometheus.CounterVec
	alerts      *prometheus.CounterVec
	runDuration prometheus.Histogram
	activeRules prometheus.Gauge
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "melidash",
			Subsystem: "pricing",
			Name:      "executions_total",
			Help:      "Rule executions by terminal status.",
		}, []string{"status"}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "melidash",
			Subsystem: "pricing",
			Name:      "alerts_total",
			Help:      "Pricing alerts raised by type.",
		}, []string{"type"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "melidash",
			Subsystem: "pricing",
			Name:      "run_duration_seconds",
			Help:      "Duration of a full automation run.",
			Buckets:   prometheus.DefBuckets,
		}),
		activeRules: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "melidash",
			Subsystem: "pricing",
			Name:      "active_rules",
			Help:      "Number of active pricing rules.",
		}),
	}

	registerer.MustRegister(m.executions, m.alerts, m.runDuration, m.activeRules)

	return m
}

// A nil *Metrics records nothing.

func (m *Metrics) observeExecution(status value.ExecutionStatus) {
	if m == nil {
		return
	}

	m.executions.WithLabelValues(string(status)).Inc()
}

func (m *Metrics) observeAlert(alertType value.AlertType) {
	if m == nil {
		return
	}

	m.alerts.WithLabelValues(string(alertType)).Inc()
}

func (m *Metrics) observeRun(seconds float64) {
	if m == nil {
		return
	}

	m.runDuration.Observe(seconds)
}

func (m *Metrics) setActiveRules(n int) {
	if m == nil {
		return
	}

	m.activeRules.Set(float64(n))
}
