package skill

import (
	"log/slog"

	"github.com/udisondev/babeltower/internal/event"
	"github.com/udisondev/babeltower/internal/model"
)

// SelfBuffEffect raises a status flag on the caster for "duration" seconds.
// Params: "status" (stealth|shield|warcry|smoke), "duration" (float64).
type SelfBuffEffect struct {
	status   model.Status
	duration float64
}

func NewSelfBuffEffect(params map[string]string) Effect {
	return &SelfBuffEffect{
		status:   model.Status(params["status"]),
		duration: paramFloat(params, "duration", 0),
	}
}

func (e *SelfBuffEffect) Name() string { return "SelfBuff" }

func (e *SelfBuffEffect) Apply(env *Env, cast *Cast) Process {
	caster := env.caster(cast)
	if caster == nil || e.status == "" || e.duration <= 0 {
		return nil
	}

	caster.SetStatus(e.status, true)
	env.spawn(cast, event.EffectCast, caster.Position())

	slog.Debug("buff started", "caster", caster.Name(), "status", e.status, "duration", e.duration)
	return &selfBuffProcess{status: e.status, casterID: cast.CasterID, remaining: e.duration}
}

type selfBuffProcess struct {
	status    model.Status
	casterID  uint32
	remaining float64
}

func (p *selfBuffProcess) Tick(env *Env, dt float64) bool {
	caster := env.Space.Entity(p.casterID)
	if caster == nil || caster.IsDead() {
		p.Stop(env)
		return false
	}
	p.remaining -= dt
	if p.remaining > 0 {
		return true
	}
	p.Stop(env)
	return false
}

func (p *selfBuffProcess) Stop(env *Env) {
	if caster := env.Space.Entity(p.casterID); caster != nil {
		caster.SetStatus(p.status, false)
	}
	slog.Debug("buff ended", "caster", p.casterID, "status", p.status)
}
