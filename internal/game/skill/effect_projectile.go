package skill

import (
	"math"

	"github.com/udisondev/babeltower/internal/event"
	"github.com/udisondev/babeltower/internal/vec"
)

// ProjectileEffect launches "count" projectiles from the caster, fanned
// evenly over "spread" degrees around the aim. A projectile travels at
// "speed" for "lifetime" seconds and hits enemies within "radius" of its
// path. A non-piercing projectile stops at the first hit; a piercing one
// stops after "maxHits" distinct targets. Damage is computed against each
// target at the moment of impact.
// Params: "count", "spread", "speed", "lifetime", "radius", "pierce",
// "maxHits", "mult", "crit".
type ProjectileEffect struct {
	count    int
	spread   float64
	speed    float64
	lifetime float64
	radius   float64
	pierce   bool
	maxHits  int
	mult     float64
	crit     critMode
}

func NewProjectileEffect(params map[string]string) Effect {
	e := &ProjectileEffect{
		count:    max(paramInt(params, "count", 1), 1),
		spread:   paramFloat(params, "spread", 0),
		speed:    paramFloat(params, "speed", 10),
		lifetime: paramFloat(params, "lifetime", 5),
		radius:   paramFloat(params, "radius", 0.3),
		pierce:   paramBool(params, "pierce", false),
		maxHits:  paramInt(params, "maxHits", 1),
		mult:     paramFloat(params, "mult", 1),
		crit:     parseCrit(params["crit"]),
	}
	if !e.pierce || e.maxHits < 1 {
		e.maxHits = 1
	}
	if e.radius <= 0 {
		e.radius = 0.3
	}
	return e
}

func (e *ProjectileEffect) Name() string { return "Projectile" }

// directions returns the launch direction of each projectile.
func (e *ProjectileEffect) directions(aim vec.Vec2) []vec.Vec2 {
	if e.count == 1 {
		return []vec.Vec2{aim}
	}
	out := make([]vec.Vec2, 0, e.count)
	start := -e.spread / 2
	step := e.spread / float64(e.count-1)
	for i := range e.count {
		out = append(out, aim.Rotate(start+step*float64(i)))
	}
	return out
}

func (e *ProjectileEffect) Apply(env *Env, cast *Cast) Process {
	caster := env.caster(cast)
	if caster == nil || cast.Direction.IsZero() {
		return nil
	}

	p := &projectileProcess{effect: e, cast: cast}
	for _, dir := range e.directions(cast.Direction) {
		p.shots = append(p.shots, &projectile{
			pos: caster.Position(),
			dir: dir,
			hit: make(map[uint32]struct{}),
		})
	}
	env.spawn(cast, event.EffectCast, caster.Position())
	return p
}

type projectile struct {
	pos  vec.Vec2
	dir  vec.Vec2
	hit  map[uint32]struct{}
	done bool
}

type projectileProcess struct {
	effect *ProjectileEffect
	cast   *Cast
	shots  []*projectile
	age    float64
}

func (p *projectileProcess) Tick(env *Env, dt float64) bool {
	caster := env.caster(p.cast)
	if caster == nil {
		return false
	}

	// never fly past the end of life
	dt = min(dt, p.effect.lifetime-p.age)
	p.age += dt

	travel := p.effect.speed * dt
	steps := max(int(math.Ceil(travel/p.effect.radius)), 1)
	stride := travel / float64(steps)

	alive := false
	for _, s := range p.shots {
		if s.done {
			continue
		}
		for range steps {
			s.pos = s.pos.Add(s.dir.Mul(stride))
			if p.collide(env, s) {
				s.done = true
				break
			}
			if caster.IsDead() {
				return false
			}
		}
		if !s.done {
			alive = true
		}
	}
	return alive && p.age < p.effect.lifetime
}

// collide hits enemies touching the projectile. Returns true when it is spent.
func (p *projectileProcess) collide(env *Env, s *projectile) bool {
	caster := env.caster(p.cast)
	if caster == nil {
		return true
	}
	mult := p.cast.multiplier(p.effect.mult)
	for _, t := range env.enemiesAround(caster, s.pos, p.effect.radius) {
		if _, seen := s.hit[t.ObjectID()]; seen {
			continue
		}
		s.hit[t.ObjectID()] = struct{}{}
		p.cast.markPrimary(t)
		env.strike(p.cast, caster, t, mult, p.effect.crit)
		if len(s.hit) >= p.effect.maxHits {
			return true
		}
	}
	return false
}

func (p *projectileProcess) Stop(*Env) {}
