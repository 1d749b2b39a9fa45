package skill

import (
	"github.com/google/uuid"

	"github.com/udisondev/babeltower/internal/event"
	"github.com/udisondev/babeltower/internal/game/combat"
	"github.com/udisondev/babeltower/internal/model"
	"github.com/udisondev/babeltower/internal/vec"
)

// Effect is one stateless step of a skill. Apply resolves it against the
// world; time-extended effects return a Process that the EffectManager steps
// every tick, instant effects return nil.
type Effect interface {
	Name() string
	Apply(env *Env, cast *Cast) Process
}

// Process is the live state of a time-extended effect.
type Process interface {
	// Tick advances the process by dt seconds. Returns false once finished.
	Tick(env *Env, dt float64) bool
	// Stop releases the process early (state flags are reverted).
	Stop(env *Env)
}

// Env is what effects see of the world.
type Env struct {
	Space  combat.Space
	Events event.Sink
}

// Cast is one invocation of a skill. Effects of the same cast share it.
type Cast struct {
	ID       uuid.UUID
	CasterID uint32
	Skill    *model.Skill

	// Origin is the caster position when the cast started.
	Origin vec.Vec2
	// Target is the aimed point.
	Target vec.Vec2
	// Direction is the unit vector from Origin to Target (zero if they coincide).
	Direction vec.Vec2

	// PrimaryTarget is the first single target picked by an effect of this cast.
	PrimaryTarget uint32
}

// caster resolves the caster if it can still act.
func (env *Env) caster(cast *Cast) *model.Character {
	c := env.Space.Entity(cast.CasterID)
	if c == nil || !c.IsTargetable() {
		return nil
	}
	return c
}

// target resolves objectID if it is still a valid target for caster.
func (env *Env) target(caster *model.Character, objectID uint32) *model.Character {
	if objectID == 0 {
		return nil
	}
	t := env.Space.Entity(objectID)
	if !combat.IsValidTarget(caster, t) {
		return nil
	}
	return t
}

// enemiesAround returns valid targets of caster within radius of center,
// nearest first.
func (env *Env) enemiesAround(caster *model.Character, center vec.Vec2, radius float64) []*model.Character {
	return env.Space.QueryRadius(center, radius, combat.EnemyFilter(caster))
}

// nearestTo picks the candidate closest to point; ties go to the lower object ID.
func nearestTo(point vec.Vec2, candidates []*model.Character) *model.Character {
	var best *model.Character
	bestDist := 0.0
	for _, c := range candidates {
		d := point.DistanceSquared(c.Position())
		if best == nil || d < bestDist || (d == bestDist && c.ObjectID() < best.ObjectID()) {
			best, bestDist = c, d
		}
	}
	return best
}

// spawn emits effectSpawned for presentation.
func (env *Env) spawn(cast *Cast, kind string, pos vec.Vec2) {
	env.Events.Publish(event.Event{
		Kind:     event.KindEffectSpawned,
		EntityID: cast.CasterID,
		Effect:   kind,
		Skill:    cast.Skill.ID,
		Position: pos,
	})
}

// strike resolves and applies one hit, re-checking liveness right before mutation.
func (env *Env) strike(cast *Cast, caster, target *model.Character, multiplier float64, crit critMode) combat.Hit {
	if !combat.IsValidTarget(caster, target) {
		return combat.Hit{}
	}

	var hit combat.Hit
	switch crit {
	case critAlways:
		hit = combat.Hit{Amount: combat.Damage(caster, target, multiplier), Critical: true}
	case critRoll:
		hit = combat.ResolveHit(caster, target, multiplier, true)
	default:
		hit = combat.ResolveHit(caster, target, multiplier, false)
	}
	combat.Apply(target, hit)
	env.spawn(cast, event.EffectHit, target.Position())
	return hit
}

// multiplier scales the skill's damage multiplier by the effect factor.
func (cast *Cast) multiplier(factor float64) float64 {
	return cast.Skill.DamageMultiplier * factor
}

// markPrimary records target as the cast's primary target if none is set yet.
func (cast *Cast) markPrimary(target *model.Character) {
	if cast.PrimaryTarget == 0 && target != nil {
		cast.PrimaryTarget = target.ObjectID()
	}
}
