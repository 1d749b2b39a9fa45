package combat

import (
	"github.com/udisondev/babeltower/internal/model"
)

// IsValidTarget reports whether caster may damage target: target exists,
// is alive and in the world, is not the caster and belongs to the opposing faction.
func IsValidTarget(caster, target *model.Character) bool {
	if caster == nil || target == nil || target == caster {
		return false
	}
	if !target.IsTargetable() {
		return false
	}
	return caster.Faction().Opposes(target.Faction())
}

// EnemyFilter returns a query filter accepting valid targets of caster.
func EnemyFilter(caster *model.Character) func(*model.Character) bool {
	return func(c *model.Character) bool {
		return IsValidTarget(caster, c)
	}
}

// InRange reports whether target is within reach of attacker.
func InRange(attacker, target *model.Character, reach float64) bool {
	return attacker.Position().DistanceSquared(target.Position()) <= reach*reach
}
