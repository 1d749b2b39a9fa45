package skill

// StrikeEffect hits the nearest valid target around the caster once.
// Params: "radius" (float64, default skill range), "mult" (float64, default 1),
// "crit" (none|roll|always).
type StrikeEffect struct {
	radius float64
	mult   float64
	crit   critMode
}

func NewStrikeEffect(params map[string]string) Effect {
	return &StrikeEffect{
		radius: paramFloat(params, "radius", 0),
		mult:   paramFloat(params, "mult", 1),
		crit:   parseCrit(params["crit"]),
	}
}

func (e *StrikeEffect) Name() string { return "Strike" }

func (e *StrikeEffect) Apply(env *Env, cast *Cast) Process {
	caster := env.caster(cast)
	if caster == nil {
		return nil
	}

	radius := e.radius
	if radius <= 0 {
		radius = cast.Skill.Range
	}
	if radius <= 0 {
		radius = caster.AttackRange()
	}

	found := env.enemiesAround(caster, caster.Position(), radius)
	if len(found) == 0 {
		return nil
	}
	target := found[0]
	cast.markPrimary(target)
	env.strike(cast, caster, target, cast.multiplier(e.mult), e.crit)
	return nil
}
