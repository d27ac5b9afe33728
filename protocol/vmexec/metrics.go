package vmexec

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts the work done by Run.
type Metrics struct {
	Steps prometheus.Counter
	Runs  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neovm",
			Name:      "steps_total",
			Help:      "Instructions executed by the script engine.",
		}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neovm",
			Name:      "runs_total",
			Help:      "Script runs, by the state the engine stopped in.",
		}, []string{"state"}),
	}
}

// Register adds the metrics to r.
func (m *Metrics) Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Steps, m.Runs} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) observe(res Result, label string) {
	if m == nil {
		return
	}
	m.Steps.Add(float64(res.Steps))
	m.Runs.WithLabelValues(label).Inc()
}
