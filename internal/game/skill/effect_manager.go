package skill

import (
	"log/slog"
	"sync"
)

// activeProcess is a running effect owned by the EffectManager.
type activeProcess struct {
	cast   *Cast
	effect string
	proc   Process
}

// EffectManager steps every live effect process once per tick in insertion
// order and drops the finished ones. Processes added while a tick is in
// progress start stepping on the following tick.
//
// Thread-safe: Add may be called from any goroutine.
type EffectManager struct {
	env *Env

	mu      sync.Mutex
	active  []*activeProcess
	pending []*activeProcess
}

// NewEffectManager creates an empty EffectManager bound to env.
func NewEffectManager(env *Env) *EffectManager {
	return &EffectManager{env: env}
}

// Add schedules proc for stepping.
func (m *EffectManager) Add(cast *Cast, effect string, proc Process) {
	if proc == nil {
		return
	}
	m.mu.Lock()
	m.pending = append(m.pending, &activeProcess{cast: cast, effect: effect, proc: proc})
	m.mu.Unlock()
}

// Tick advances every process scheduled before this call by dt seconds.
func (m *EffectManager) Tick(dt float64) {
	m.mu.Lock()
	running := append(m.active, m.pending...)
	m.active = nil
	m.pending = nil
	m.mu.Unlock()

	survivors := running[:0]
	for _, ap := range running {
		if ap.proc.Tick(m.env, dt) {
			survivors = append(survivors, ap)
			continue
		}
		slog.Debug("effect finished", "effect", ap.effect, "skill", ap.cast.Skill.ID, "cast", ap.cast.ID)
	}

	m.mu.Lock()
	m.active = survivors
	m.mu.Unlock()
}

// Len returns number of live processes including pending ones.
func (m *EffectManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active) + len(m.pending)
}

// Clear stops and drops every process.
func (m *EffectManager) Clear() {
	m.mu.Lock()
	all := append(m.active, m.pending...)
	m.active = nil
	m.pending = nil
	m.mu.Unlock()

	for _, ap := range all {
		ap.proc.Stop(m.env)
	}
}
