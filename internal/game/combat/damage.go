package combat

import (
	"math/rand/v2"

	"github.com/udisondev/babeltower/internal/model"
)

// DefenseFactor is the share of defense subtracted from attack.
const DefenseFactor = 0.5

// MinBaseDamage is the floor applied before any multiplier.
const MinBaseDamage = 1.0

// CritRoll returns a uniform value in [0, 1) for critical checks.
// Tests replace it to make crits deterministic.
var CritRoll = rand.Float64

// Hit is a resolved damage value with its critical flag.
// The flag travels with the value and is never re-rolled.
type Hit struct {
	Amount   float64
	Critical bool
}

// BaseDamage returns max(attack - defense*0.5, 1).
func BaseDamage(attacker, defender *model.Character) float64 {
	return max(attacker.Attack()-defender.Defense()*DefenseFactor, MinBaseDamage)
}

// Damage returns BaseDamage scaled by multiplier.
func Damage(attacker, defender *model.Character, multiplier float64) float64 {
	return BaseDamage(attacker, defender) * multiplier
}

// CriticalDamage returns Damage scaled by the attacker's critical multiplier.
func CriticalDamage(attacker, defender *model.Character, multiplier float64) float64 {
	return Damage(attacker, defender, multiplier) * attacker.CriticalDamage()
}

// RollCritical draws once against the attacker's critical chance.
func RollCritical(attacker *model.Character) bool {
	return CritRoll() < attacker.CriticalChance()
}

// ResolveHit computes damage for one hit. When canCrit is set a single
// critical roll decides between Damage and CriticalDamage.
func ResolveHit(attacker, defender *model.Character, multiplier float64, canCrit bool) Hit {
	if canCrit && RollCritical(attacker) {
		return Hit{Amount: CriticalDamage(attacker, defender, multiplier), Critical: true}
	}
	return Hit{Amount: Damage(attacker, defender, multiplier)}
}

// Apply delivers hit to target. Dead targets ignore it.
func Apply(target *model.Character, hit Hit) {
	target.TakeDamage(hit.Amount, hit.Critical)
}
