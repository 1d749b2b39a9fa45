package event

import "github.com/prometheus/client_golang/prometheus"

// Metrics exports combat events as Prometheus series.
type Metrics struct {
	damage        *prometheus.HistogramVec
	criticalHits  prometheus.Counter
	deaths        *prometheus.CounterVec
	kills         prometheus.Counter
	experience    prometheus.Counter
	gold          prometheus.Counter
	effectSpawned *prometheus.CounterVec
}

// NewMetrics creates collectors and registers them in reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		damage: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "babeltower",
			Subsystem: "combat",
			Name:      "damage_taken",
			Help:      "Damage amounts applied to entities.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"faction"}),
		criticalHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "babeltower",
			Subsystem: "combat",
			Name:      "critical_hits_total",
			Help:      "Hits reported as critical.",
		}),
		deaths: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "babeltower",
			Subsystem: "combat",
			Name:      "deaths_total",
			Help:      "Entity deaths by faction.",
		}, []string{"faction"}),
		kills: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "babeltower",
			Subsystem: "rewards",
			Name:      "monsters_killed_total",
			Help:      "Monsters killed (reward hook invocations).",
		}),
		experience: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "babeltower",
			Subsystem: "rewards",
			Name:      "experience_total",
			Help:      "Experience granted by monster kills.",
		}),
		gold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "babeltower",
			Subsystem: "rewards",
			Name:      "gold_total",
			Help:      "Gold granted by monster kills.",
		}),
		effectSpawned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "babeltower",
			Subsystem: "skills",
			Name:      "effects_spawned_total",
			Help:      "Cast/hit effect hooks by kind.",
		}, []string{"effect"}),
	}

	for _, c := range []prometheus.Collector{
		m.damage, m.criticalHits, m.deaths, m.kills, m.experience, m.gold, m.effectSpawned,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Listener returns the bus listener feeding the collectors.
func (m *Metrics) Listener() Listener {
	return func(ev Event) {
		switch ev.Kind {
		case KindDamageTaken:
			m.damage.WithLabelValues(ev.Faction).Observe(ev.Value)
			if ev.Critical {
				m.criticalHits.Inc()
			}
		case KindDeath:
			m.deaths.WithLabelValues(ev.Faction).Inc()
		case KindMonsterKilled:
			m.kills.Inc()
			m.experience.Add(float64(ev.Exp))
			m.gold.Add(float64(ev.Gold))
		case KindEffectSpawned:
			m.effectSpawned.WithLabelValues(ev.Effect).Inc()
		}
	}
}
