package skill

import (
	"math"

	"github.com/udisondev/babeltower/internal/event"
	"github.com/udisondev/babeltower/internal/model"
	"github.com/udisondev/babeltower/internal/vec"
)

// Periodic anchors.
const (
	anchorTarget = "target" // the cast's primary target (damage over time)
	anchorCaster = "caster" // area around the caster (whirlwind)
	anchorOrb    = "orb"    // area around a point moving from the origin along the aim
)

// PeriodicEffect pulses every "interval" seconds.
// The pulse count is "pulses" if set, else one per interval that starts
// before "duration". With "immediate" the first pulse lands at cast time,
// otherwise at the end of the first interval.
// Params: "anchor", "interval", "duration", "pulses", "immediate",
// "radius" (area anchors, default skill area radius), "speed" (orb),
// "mult", "crit".
type PeriodicEffect struct {
	anchor    string
	interval  float64
	pulses    int
	immediate bool
	radius    float64
	speed     float64
	mult      float64
	crit      critMode
}

func NewPeriodicEffect(params map[string]string) Effect {
	e := &PeriodicEffect{
		anchor:    paramString(params, "anchor", anchorTarget),
		interval:  paramFloat(params, "interval", 1),
		pulses:    paramInt(params, "pulses", 0),
		immediate: paramBool(params, "immediate", false),
		radius:    paramFloat(params, "radius", 0),
		speed:     paramFloat(params, "speed", 0),
		mult:      paramFloat(params, "mult", 1),
		crit:      parseCrit(params["crit"]),
	}
	if e.interval <= 0 {
		e.interval = 1
	}
	if e.pulses <= 0 {
		duration := paramFloat(params, "duration", 0)
		e.pulses = int(math.Ceil(duration/e.interval - 1e-9))
	}
	return e
}

func (e *PeriodicEffect) Name() string { return "Periodic" }

func (e *PeriodicEffect) Apply(env *Env, cast *Cast) Process {
	caster := env.caster(cast)
	if caster == nil || e.pulses <= 0 {
		return nil
	}

	p := &periodicProcess{effect: e, cast: cast, next: e.interval}
	if e.anchor == anchorTarget {
		p.targetID = cast.PrimaryTarget
		if env.target(caster, p.targetID) == nil {
			return nil
		}
	}
	if e.immediate {
		p.next = 0
		if !p.advance(env, 0) {
			return nil
		}
	}
	return p
}

// periodicProcess tracks pulse timing for one cast.
type periodicProcess struct {
	effect   *PeriodicEffect
	cast     *Cast
	targetID uint32

	elapsed float64
	next    float64 // time of the next pulse
	fired   int
}

func (p *periodicProcess) Tick(env *Env, dt float64) bool {
	return p.advance(env, dt)
}

// advance moves time forward and fires every pulse that is due.
func (p *periodicProcess) advance(env *Env, dt float64) bool {
	p.elapsed += dt
	for p.fired < p.effect.pulses && p.next <= p.elapsed+1e-9 {
		if !p.pulse(env) {
			return false
		}
		p.fired++
		p.next += p.effect.interval
	}
	return p.fired < p.effect.pulses
}

// pulse applies one tick of damage. Returns false when the process must stop.
func (p *periodicProcess) pulse(env *Env) bool {
	caster := env.caster(p.cast)
	if caster == nil {
		return false
	}
	mult := p.cast.multiplier(p.effect.mult)

	if p.effect.anchor == anchorTarget {
		target := env.target(caster, p.targetID)
		if target == nil {
			return false
		}
		env.strike(p.cast, caster, target, mult, p.effect.crit)
		return true
	}

	center := p.center(caster)
	env.spawn(p.cast, event.EffectCast, center)
	for _, t := range env.enemiesAround(caster, center, p.radius()) {
		env.strike(p.cast, caster, t, mult, p.effect.crit)
		if caster.IsDead() {
			return false
		}
	}
	return true
}

func (p *periodicProcess) center(caster *model.Character) vec.Vec2 {
	if p.effect.anchor == anchorOrb {
		return p.cast.Origin.Add(p.cast.Direction.Mul(p.effect.speed * p.next))
	}
	return caster.Position()
}

func (p *periodicProcess) radius() float64 {
	if p.effect.radius > 0 {
		return p.effect.radius
	}
	return p.cast.Skill.AreaRadius
}

func (p *periodicProcess) Stop(*Env) {}
