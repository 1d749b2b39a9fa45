package sim

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterMetrics exposes simulation gauges in reg.
func (s *Simulation) RegisterMetrics(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "babeltower",
			Subsystem: "sim",
			Name:      "entities",
			Help:      "Characters currently in the world, corpses included.",
		}, func() float64 { return float64(s.world.Len()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "babeltower",
			Subsystem: "sim",
			Name:      "active_effects",
			Help:      "Running time-extended skill effects.",
		}, func() float64 { return float64(s.ActiveEffects()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "babeltower",
			Subsystem: "sim",
			Name:      "ai_controllers",
			Help:      "Registered monster AI controllers.",
		}, func() float64 { return float64(s.AIControllers()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "babeltower",
			Subsystem: "sim",
			Name:      "ticks_total",
			Help:      "Completed simulation ticks.",
		}, func() float64 { return float64(s.Ticks()) }),
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
