package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/babeltower/internal/model"
	"github.com/udisondev/babeltower/internal/vec"
)

// withCritRoll pins the critical roll for the duration of the test.
func withCritRoll(t *testing.T, v float64) {
	t.Helper()
	orig := CritRoll
	CritRoll = func() float64 { return v }
	t.Cleanup(func() { CritRoll = orig })
}

func character(faction model.Faction, attack, defense, critChance, critDamage float64) *model.Character {
	s := model.DefaultStats()
	s.Attack = attack
	s.Defense = defense
	s.CriticalChance = critChance
	s.CriticalDamage = critDamage
	return model.NewCharacter(1, "c", faction, 1, s, vec.Zero, nil)
}

func TestDamage_ScenarioA(t *testing.T) {
	a := character(model.FactionPlayer, 15, 0, 0, 1.5)
	d := character(model.FactionMonster, 0, 10, 0, 1.5)

	assert.Equal(t, 10.0, BaseDamage(a, d))
	assert.Equal(t, 10.0, Damage(a, d, 1))
	assert.Equal(t, 15.0, Damage(a, d, 1.5))
}

func TestDamage_ScenarioB(t *testing.T) {
	a := character(model.FactionPlayer, 15, 0, 0, 1.5)
	d := character(model.FactionMonster, 0, 100, 0, 1.5)

	assert.Equal(t, 1.0, BaseDamage(a, d))
	assert.Equal(t, 1.0, Damage(a, d, 1))
}

func TestResolveHit_CriticalFlagTravels(t *testing.T) {
	withCritRoll(t, 0)
	a := character(model.FactionPlayer, 20, 0, 1.0, 2.0)
	d := character(model.FactionMonster, 0, 10, 0, 1.5)

	hit := ResolveHit(a, d, 1, true)

	assert.True(t, hit.Critical)
	assert.Equal(t, 30.0, hit.Amount)
	assert.Equal(t, hit.Amount, CriticalDamage(a, d, 1))
}

func TestDamage_FloorAtOne(t *testing.T) {
	tests := []struct {
		name            string
		attack, defense float64
		want            float64
	}{
		{"overwhelming defense", 1, 1000, 1},
		{"equal after halving", 5, 10, 1},
		{"zero attack", 0, 0, 1},
		{"just above floor", 6, 8, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := character(model.FactionPlayer, tt.attack, 0, 0, 1.5)
			d := character(model.FactionMonster, 0, tt.defense, 0, 1.5)
			assert.Equal(t, tt.want, BaseDamage(a, d))
		})
	}
}

func TestResolveHit_NoCritWhenDisabled(t *testing.T) {
	withCritRoll(t, 0)
	a := character(model.FactionPlayer, 20, 0, 1.0, 2.0)
	d := character(model.FactionMonster, 0, 10, 0, 1.5)

	hit := ResolveHit(a, d, 0.3, false)

	assert.False(t, hit.Critical)
	assert.InDelta(t, 4.5, hit.Amount, 1e-9)
}

func TestRollCritical(t *testing.T) {
	a := character(model.FactionPlayer, 10, 0, 0.25, 2)

	withCritRoll(t, 0.2499)
	assert.True(t, RollCritical(a))

	CritRoll = func() float64 { return 0.25 }
	assert.False(t, RollCritical(a))
}

func TestIsValidTarget(t *testing.T) {
	p := character(model.FactionPlayer, 10, 0, 0, 1.5)
	ally := model.NewCharacter(2, "ally", model.FactionPlayer, 1, model.DefaultStats(), vec.Zero, nil)
	enemy := model.NewCharacter(3, "enemy", model.FactionMonster, 1, model.DefaultStats(), vec.Zero, nil)
	dead := model.NewCharacter(4, "dead", model.FactionMonster, 1, model.DefaultStats(), vec.Zero, nil)
	dead.TakeDamage(1e6, false)
	gone := model.NewCharacter(5, "gone", model.FactionMonster, 1, model.DefaultStats(), vec.Zero, nil)
	gone.MarkRemoved()

	assert.True(t, IsValidTarget(p, enemy))
	assert.False(t, IsValidTarget(p, nil))
	assert.False(t, IsValidTarget(p, p))
	assert.False(t, IsValidTarget(p, ally))
	assert.False(t, IsValidTarget(p, dead))
	assert.False(t, IsValidTarget(p, gone))
}
