package skill

import (
	"github.com/udisondev/babeltower/internal/event"
)

// BackstabEffect finds the enemy closest to the caster within "radius" of
// the aimed point, teleports the caster "distance" units behind it and
// deals damage scaled by "power", always flagged critical.
// Params: "radius" (default 3), "distance" (default 2), "power" (default 2).
type BackstabEffect struct {
	radius   float64
	distance float64
	power    float64
}

func NewBackstabEffect(params map[string]string) Effect {
	return &BackstabEffect{
		radius:   paramFloat(params, "radius", 3),
		distance: paramFloat(params, "distance", 2),
		power:    paramFloat(params, "power", 2),
	}
}

func (e *BackstabEffect) Name() string { return "Backstab" }

func (e *BackstabEffect) Apply(env *Env, cast *Cast) Process {
	caster := env.caster(cast)
	if caster == nil {
		return nil
	}

	from := caster.Position()
	target := nearestTo(from, env.enemiesAround(caster, cast.Target, e.radius))
	if target == nil {
		return nil
	}
	cast.markPrimary(target)

	dir := target.Position().Sub(from).Normalized()
	behind := target.Position().Sub(dir.Mul(e.distance))
	env.spawn(cast, event.EffectCast, from)
	caster.SetPosition(behind)

	env.strike(cast, caster, target, cast.multiplier(e.power), critAlways)
	return nil
}
