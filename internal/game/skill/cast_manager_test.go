package skill

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/babeltower/internal/event"
	"github.com/udisondev/babeltower/internal/model"
	"github.com/udisondev/babeltower/internal/vec"
)

func TestUseSkill_RejectionOrder(t *testing.T) {
	f := newFixture(t)
	p := f.player(model.ClassMage, vec.Zero)
	sk := skillOf("bolt", 1, def("Strike"))
	require.NoError(t, p.EquipSkill(0, sk))

	_, err := f.casts.UseSkill(p, 1, vec.Zero)
	assert.ErrorIs(t, err, ErrInvalidSkillSlot, "empty slot")
	_, err = f.casts.UseSkill(p, 7, vec.Zero)
	assert.ErrorIs(t, err, ErrInvalidSkillSlot, "out of range")

	_, err = f.casts.UseSkill(p, 0, vec.Zero)
	require.NoError(t, err)
	_, err = f.casts.UseSkill(p, 0, vec.Zero)
	assert.ErrorIs(t, err, ErrOnCooldown)

	p.TickCooldowns(5)
	p.ConsumeMana(p.CurrentMP() - 10)
	mp := p.CurrentMP()
	_, err = f.casts.UseSkill(p, 0, vec.Zero)
	assert.ErrorIs(t, err, ErrInsufficientMana)
	assert.Equal(t, mp, p.CurrentMP(), "rejected cast must not spend mana")
	assert.Zero(t, p.SkillCooldown(0), "rejected cast must not start cooldown")

	p.TakeDamage(1e6, false)
	_, err = f.casts.UseSkill(p, 0, vec.Zero)
	assert.ErrorIs(t, err, ErrCasterDead)
}

func TestUseSkill_CostPaidOnWhiff(t *testing.T) {
	f := newFixture(t)
	p := f.player(model.ClassMage, vec.Zero)
	far := f.monster(vec.New(50, 0))
	require.NoError(t, p.EquipSkill(0, skillOf("bolt", 1, def("Strike"))))

	cast, err := f.casts.UseSkill(p, 0, vec.New(1, 0))

	require.NoError(t, err)
	assert.Equal(t, 130.0, p.CurrentMP())
	assert.Equal(t, 5.0, p.SkillCooldown(0))
	assert.Zero(t, cast.PrimaryTarget)
	assert.Zero(t, lost(far))
}

func TestUseSkill_EmitsCastEffect(t *testing.T) {
	f := newFixture(t)
	p := f.player(model.ClassMage, vec.New(1, 1))
	require.NoError(t, p.EquipSkill(0, skillOf("bolt", 1, def("Strike"))))

	cast, err := f.casts.UseSkill(p, 0, vec.New(4, 5))
	require.NoError(t, err)

	var spawned []event.Event
	for _, ev := range f.rec.events {
		if ev.Kind == event.KindEffectSpawned {
			spawned = append(spawned, ev)
		}
	}
	require.NotEmpty(t, spawned)
	assert.Equal(t, event.EffectCast, spawned[0].Effect)
	assert.Equal(t, "bolt", spawned[0].Skill)
	assert.Equal(t, vec.New(1, 1), spawned[0].Position)
	assert.InDelta(t, 0.6, cast.Direction.X, 1e-9)
	assert.InDelta(t, 0.8, cast.Direction.Y, 1e-9)
	assert.NotEqual(t, uuid.Nil, cast.ID)
}

func TestCast_UnknownEffectSkipped(t *testing.T) {
	f := newFixture(t)
	p := f.player(model.ClassWarrior, vec.Zero)
	m := f.monster(vec.New(1, 0))
	sk := skillOf("odd", 1, def("Teleport"), def("Strike"))

	_, err := f.casts.Cast(p.Character, sk, vec.New(1, 0))

	require.NoError(t, err)
	assert.Positive(t, lost(m))
	assert.Error(t, Validate(sk))
	assert.NoError(t, Validate(skillOf("ok", 1, def("Strike"), def("Chain"))))
}

func TestCast_FactionFilter(t *testing.T) {
	f := newFixture(t)
	caster := f.player(model.ClassWarrior, vec.Zero)
	ally := f.player(model.ClassMage, vec.New(0.5, 0))
	m := f.monster(vec.New(1, 0))
	sk := skillOf("quake", 1, def("Burst", "center", "caster", "radius", "5"))

	_, err := f.casts.Cast(caster.Character, sk, vec.Zero)
	require.NoError(t, err)

	assert.Zero(t, lost(ally), "same faction is never damaged")
	assert.Zero(t, lost(caster), "caster is never damaged")
	assert.Positive(t, lost(m))
}

func TestCast_MonsterCasterHitsPlayers(t *testing.T) {
	f := newFixture(t)
	m := f.monster(vec.Zero)
	other := f.monster(vec.New(0.5, 0))
	p := f.player(model.ClassMage, vec.New(1, 0))

	_, err := f.casts.Cast(m.Character, skillOf("slam", 1, def("Strike")), vec.New(1, 0))
	require.NoError(t, err)

	assert.Positive(t, lost(p))
	assert.Zero(t, lost(other))
}
