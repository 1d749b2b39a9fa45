package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/babeltower/internal/event"
	"github.com/udisondev/babeltower/internal/vec"
)

func TestClassStats(t *testing.T) {
	tests := []struct {
		class  ClassID
		hp, mp float64
		rng    float64
		crit   float64
	}{
		{ClassWarrior, 150, 50, 2, 0.1},
		{ClassMage, 80, 150, 5, 0.1},
		{ClassRogue, 100, 80, 1.5, 0.25},
		{ClassArcher, 90, 70, 7, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.class.String(), func(t *testing.T) {
			p := NewPlayer(1, "P", tt.class, vec.Zero, nil)
			assert.Equal(t, tt.hp, p.CurrentHP())
			assert.Equal(t, tt.hp, p.MaxHP())
			assert.Equal(t, tt.mp, p.CurrentMP())
			assert.Equal(t, tt.rng, p.AttackRange())
			assert.Equal(t, tt.crit, p.CriticalChance())
			assert.Equal(t, FactionPlayer, p.Faction())
			assert.Same(t, p, p.Data)
		})
	}
}

func TestParseClass(t *testing.T) {
	c, err := ParseClass("Rogue")
	require.NoError(t, err)
	assert.Equal(t, ClassRogue, c)

	_, err = ParseClass("paladin")
	assert.Error(t, err)
}

func TestPlayer_LevelUp(t *testing.T) {
	rec := &recorder{}
	p := NewPlayer(1, "Hero", ClassWarrior, vec.Zero, rec)
	p.TakeDamage(50, false)

	levels := p.GainExperience(100)

	assert.Equal(t, 1, levels)
	assert.Equal(t, 2, p.Level())
	assert.Equal(t, 0, p.Experience())
	assert.Equal(t, 150, p.ExperienceToNextLevel())
	assert.Equal(t, 160.0, p.MaxHP())
	assert.Equal(t, 160.0, p.CurrentHP(), "level-up refills HP")
	assert.Equal(t, 55.0, p.MaxMP())
	assert.Equal(t, 17.0, p.Attack())
	assert.Equal(t, 11.0, p.Defense())
	assert.Equal(t, 1, rec.count(event.KindLevelUp))
}

func TestPlayer_MultipleLevelUps(t *testing.T) {
	p := NewPlayer(1, "Hero", ClassMage, vec.Zero, nil)

	levels := p.GainExperience(260)

	assert.Equal(t, 2, levels)
	assert.Equal(t, 3, p.Level())
	assert.Equal(t, 10, p.Experience())
	assert.Equal(t, 225, p.ExperienceToNextLevel())
}

func TestPlayer_DeadGainsNothing(t *testing.T) {
	p := NewPlayer(1, "Hero", ClassMage, vec.Zero, nil)
	p.TakeDamage(1e6, false)

	assert.Zero(t, p.GainExperience(500))
	assert.Equal(t, 1, p.Level())
}

func TestPlayer_Gold(t *testing.T) {
	p := NewPlayer(1, "Hero", ClassRogue, vec.Zero, nil)
	p.GainGold(30)

	assert.False(t, p.SpendGold(31))
	assert.Equal(t, 30, p.Gold())
	assert.True(t, p.SpendGold(30))
	assert.Zero(t, p.Gold())
}

func TestPlayer_SkillSlots(t *testing.T) {
	p := NewPlayer(1, "Hero", ClassWarrior, vec.Zero, nil)
	sk := &Skill{ID: "charge", Cooldown: 5}

	require.NoError(t, p.EquipSkill(0, sk))
	require.ErrorIs(t, p.EquipSkill(MaxSkillSlots, sk), ErrInvalidSkillSlot)

	got, err := p.SkillAt(0)
	require.NoError(t, err)
	assert.Same(t, sk, got)

	_, err = p.SkillAt(1)
	assert.ErrorIs(t, err, ErrInvalidSkillSlot)
	_, err = p.SkillAt(-1)
	assert.ErrorIs(t, err, ErrInvalidSkillSlot)
}

func TestPlayer_Cooldowns(t *testing.T) {
	p := NewPlayer(1, "Hero", ClassWarrior, vec.Zero, nil)
	p.StartCooldown(2, 1.0)

	p.TickCooldowns(0.4)
	assert.InDelta(t, 0.6, p.SkillCooldown(2), 1e-9)
	assert.Zero(t, p.SkillCooldown(0))

	p.TickCooldowns(5)
	assert.Zero(t, p.SkillCooldown(2), "cooldown floors at zero")
	assert.Zero(t, p.SkillCooldown(99))
}
