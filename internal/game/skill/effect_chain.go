package skill

import (
	"github.com/udisondev/babeltower/internal/model"
)

// ChainEffect jumps between targets: the first link is the enemy nearest to
// the caster within "range" of the aimed point, each next link is the enemy
// nearest to the previous one within "range". A target is never hit twice
// per cast and at most "count" targets are hit.
// Params: "count" (int, default 3), "range" (float64, default 4), "mult", "crit".
type ChainEffect struct {
	count int
	rng   float64
	mult  float64
	crit  critMode
}

func NewChainEffect(params map[string]string) Effect {
	return &ChainEffect{
		count: paramInt(params, "count", 3),
		rng:   paramFloat(params, "range", 4),
		mult:  paramFloat(params, "mult", 1),
		crit:  parseCrit(params["crit"]),
	}
}

func (e *ChainEffect) Name() string { return "Chain" }

func (e *ChainEffect) Apply(env *Env, cast *Cast) Process {
	caster := env.caster(cast)
	if caster == nil || e.count <= 0 {
		return nil
	}

	link := nearestTo(caster.Position(), env.enemiesAround(caster, cast.Target, e.rng))
	if link == nil {
		return nil
	}
	cast.markPrimary(link)

	visited := make(map[uint32]struct{}, e.count)
	mult := cast.multiplier(e.mult)
	for link != nil && len(visited) < e.count {
		visited[link.ObjectID()] = struct{}{}
		env.strike(cast, caster, link, mult, e.crit)
		if caster.IsDead() {
			return nil
		}
		link = e.next(env, caster, link, visited)
	}
	return nil
}

// next returns the closest unvisited enemy around from, or nil.
func (e *ChainEffect) next(env *Env, caster, from *model.Character, visited map[uint32]struct{}) *model.Character {
	for _, c := range env.enemiesAround(caster, from.Position(), e.rng) {
		if _, seen := visited[c.ObjectID()]; !seen {
			return c
		}
	}
	return nil
}
