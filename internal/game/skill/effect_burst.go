package skill

import (
	"github.com/udisondev/babeltower/internal/event"
	"github.com/udisondev/babeltower/internal/model"
)

// BurstEffect resolves an area after a delay. At resolution the area is
// re-queried, so targets that moved out or died in the meantime are skipped.
// Params:
//   - "delay" (float64 seconds, 0 resolves immediately)
//   - "radius" (float64, default skill area radius)
//   - "center" ("point" aimed point, "caster" caster position at resolution)
//   - "mode" ("all" every enemy, "nearest" enemy closest to the caster)
//   - "mult", "crit"
type BurstEffect struct {
	delay      float64
	radius     float64
	fromCaster bool
	nearest    bool
	mult       float64
	crit       critMode
}

func NewBurstEffect(params map[string]string) Effect {
	return &BurstEffect{
		delay:      paramFloat(params, "delay", 0),
		radius:     paramFloat(params, "radius", 0),
		fromCaster: paramString(params, "center", "point") == "caster",
		nearest:    paramString(params, "mode", "all") == "nearest",
		mult:       paramFloat(params, "mult", 1),
		crit:       parseCrit(params["crit"]),
	}
}

func (e *BurstEffect) Name() string { return "Burst" }

func (e *BurstEffect) Apply(env *Env, cast *Cast) Process {
	if env.caster(cast) == nil {
		return nil
	}
	if e.delay <= 0 {
		e.resolve(env, cast)
		return nil
	}
	return &burstProcess{effect: e, cast: cast}
}

func (e *BurstEffect) resolve(env *Env, cast *Cast) {
	caster := env.caster(cast)
	if caster == nil {
		return
	}

	radius := e.radius
	if radius <= 0 {
		radius = cast.Skill.AreaRadius
	}
	center := cast.Target
	if e.fromCaster {
		center = caster.Position()
	}
	env.spawn(cast, event.EffectCast, center)

	found := env.enemiesAround(caster, center, radius)
	if e.nearest {
		if t := nearestTo(caster.Position(), found); t != nil {
			found = []*model.Character{t}
		}
	}

	mult := cast.multiplier(e.mult)
	for _, t := range found {
		cast.markPrimary(t)
		env.strike(cast, caster, t, mult, e.crit)
		if caster.IsDead() {
			return
		}
	}
}

// burstProcess waits out the delay and resolves once.
type burstProcess struct {
	effect  *BurstEffect
	cast    *Cast
	elapsed float64
}

func (p *burstProcess) Tick(env *Env, dt float64) bool {
	if env.caster(p.cast) == nil {
		return false
	}
	p.elapsed += dt
	if p.elapsed < p.effect.delay {
		return true
	}
	p.effect.resolve(env, p.cast)
	return false
}

func (p *burstProcess) Stop(*Env) {}
