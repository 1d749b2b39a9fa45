package skill

import (
	"math"

	"github.com/udisondev/babeltower/internal/model"
	"github.com/udisondev/babeltower/internal/vec"
)

// DashEffect moves the caster "distance" units toward the aim over
// "duration" seconds, hitting every enemy within "hitRadius" of the moving
// caster. Each enemy is hit at most once per dash.
// Params: "distance", "duration", "hitRadius", "mult", "crit".
type DashEffect struct {
	distance  float64
	duration  float64
	hitRadius float64
	mult      float64
	crit      critMode
}

func NewDashEffect(params map[string]string) Effect {
	return &DashEffect{
		distance:  paramFloat(params, "distance", 5),
		duration:  paramFloat(params, "duration", 0.3),
		hitRadius: paramFloat(params, "hitRadius", 1),
		mult:      paramFloat(params, "mult", 1),
		crit:      parseCrit(params["crit"]),
	}
}

func (e *DashEffect) Name() string { return "Dash" }

func (e *DashEffect) Apply(env *Env, cast *Cast) Process {
	caster := env.caster(cast)
	if caster == nil {
		return nil
	}
	start := caster.Position()
	return &dashProcess{
		effect: e,
		cast:   cast,
		start:  start,
		end:    start.Add(cast.Direction.Mul(e.distance)),
		hit:    make(map[uint32]struct{}),
	}
}

type dashProcess struct {
	effect     *DashEffect
	cast       *Cast
	start, end vec.Vec2
	elapsed    float64
	progress   float64
	hit        map[uint32]struct{}
}

func (p *dashProcess) Tick(env *Env, dt float64) bool {
	caster := env.caster(p.cast)
	if caster == nil {
		return false
	}

	p.elapsed += dt
	progress := 1.0
	if p.effect.duration > 0 {
		progress = min(p.elapsed/p.effect.duration, 1)
	}

	// hit-test the path at most hitRadius apart
	travel := p.start.DistanceTo(p.end) * (progress - p.progress)
	steps := 1
	if p.effect.hitRadius > 0 {
		steps = max(int(math.Ceil(travel/p.effect.hitRadius)), 1)
	}
	from := p.progress
	p.progress = progress

	mult := p.cast.multiplier(p.effect.mult)
	for i := 1; i <= steps; i++ {
		t := from + (progress-from)*float64(i)/float64(steps)
		caster.SetPosition(vec.Lerp(p.start, p.end, t))
		if !p.hitAround(env, caster, mult) {
			return false
		}
	}
	return progress < 1
}

// hitAround strikes enemies near the caster not yet hit by this dash.
// Returns false once the caster is dead.
func (p *dashProcess) hitAround(env *Env, caster *model.Character, mult float64) bool {
	for _, t := range env.enemiesAround(caster, caster.Position(), p.effect.hitRadius) {
		if _, done := p.hit[t.ObjectID()]; done {
			continue
		}
		p.hit[t.ObjectID()] = struct{}{}
		p.cast.markPrimary(t)
		env.strike(p.cast, caster, t, mult, p.effect.crit)
		if caster.IsDead() {
			return false
		}
	}
	return true
}

func (p *dashProcess) Stop(*Env) {}
