package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/babeltower/internal/model"
	"github.com/udisondev/babeltower/internal/vec"
	"github.com/udisondev/babeltower/internal/world"
)

type aiFixture struct {
	world   *world.World
	monster *model.Monster
	ai      *MonsterAI
	attacks []uint32
}

func newAIFixture(t *testing.T, spawn vec.Vec2) *aiFixture {
	t.Helper()
	f := &aiFixture{world: world.New(0)}
	f.monster = model.NewMonster(world.MonsterIDBase+1, "goblin", model.TierNormal, 1, spawn, nil)
	f.world.Add(f.monster.Character)

	f.ai = NewMonsterAI(f.monster,
		func(m *model.Monster, targetID uint32) { f.attacks = append(f.attacks, targetID) },
		f.world.QueryRadius,
		f.world.Entity,
	)
	f.ai.SetRandom(func() float64 { return 0.25 })
	f.ai.Start()
	return f
}

func (f *aiFixture) player(id uint32, pos vec.Vec2) *model.Player {
	p := model.NewPlayer(world.PlayerIDBase+id, "hero", model.ClassWarrior, pos, nil)
	f.world.Add(p.Character)
	return p
}

func (f *aiFixture) tick(n int, dt float64) {
	for range n {
		f.ai.Tick(dt)
	}
}

func TestMonsterAI_StartsIdle(t *testing.T) {
	f := newAIFixture(t, vec.Zero)
	assert.Equal(t, StateIdle, f.ai.State())
	assert.Zero(t, f.ai.Target())
}

func TestMonsterAI_ScenarioE_IdleThenPatrol(t *testing.T) {
	spawn := vec.New(10, 10)
	f := newAIFixture(t, spawn)

	f.tick(5, 0.5)
	assert.Equal(t, StateIdle, f.ai.State(), "dwell not exceeded at 2.0s")
	assert.True(t, f.monster.Velocity().IsZero())

	f.tick(1, 0.5)
	require.Equal(t, StatePatrol, f.ai.State())
	assert.Equal(t, 0.5, f.ai.StateTimer())
	_, picked := f.ai.PatrolPoint()
	assert.False(t, picked, "point is picked by the first Patrol tick")

	f.tick(1, 0.5)
	point, ok := f.ai.PatrolPoint()
	require.True(t, ok)
	assert.LessOrEqual(t, point.DistanceTo(spawn), DefaultParams().PatrolRadius)
	assert.InDelta(t, 0, point.X-spawn.X, 1e-9)
	assert.InDelta(t, 1.5, point.Y-spawn.Y, 1e-9)
	assert.False(t, f.monster.Velocity().IsZero(), "moves toward patrol point")
}

func TestMonsterAI_PatrolReachedReturnsToIdle(t *testing.T) {
	f := newAIFixture(t, vec.Zero)
	f.ai.SetRandom(func() float64 { return 0.01 }) // point 0.3 away, already "reached"

	f.tick(6, 0.5)
	require.Equal(t, StatePatrol, f.ai.State())

	f.tick(1, 0.5)
	assert.Equal(t, StateIdle, f.ai.State())
	_, ok := f.ai.PatrolPoint()
	assert.False(t, ok, "reached point is forgotten")
}

func TestMonsterAI_PatrolTimeoutRepicks(t *testing.T) {
	f := newAIFixture(t, vec.Zero)
	f.tick(6, 0.5)
	require.Equal(t, StatePatrol, f.ai.State())

	f.tick(1, 0.5) // picks point, timer reset then +0.5
	assert.Equal(t, 0.5, f.ai.StateTimer())

	f.tick(6, 0.5)
	assert.Equal(t, 3.5, f.ai.StateTimer(), "positions are not integrated here, so the point is never reached")

	f.tick(1, 0.5)
	assert.Equal(t, StatePatrol, f.ai.State())
	assert.Equal(t, 0.5, f.ai.StateTimer(), "timer reset by re-pick")
}

func TestMonsterAI_ChaseWhenDetected(t *testing.T) {
	f := newAIFixture(t, vec.Zero)
	p := f.player(1, vec.New(4, 0))

	f.tick(1, 0.1)

	assert.Equal(t, StateChase, f.ai.State())
	assert.Equal(t, p.ObjectID(), f.ai.Target())
	v := f.monster.Velocity()
	assert.InDelta(t, model.DefaultChaseSpeed, v.X, 1e-9)
	assert.InDelta(t, 0, v.Y, 1e-9)
	assert.Empty(t, f.attacks)
}

func TestMonsterAI_AttackInRange(t *testing.T) {
	f := newAIFixture(t, vec.Zero)
	p := f.player(1, vec.New(1, 0))

	f.tick(3, 0.1)

	assert.Equal(t, StateAttack, f.ai.State())
	assert.True(t, f.monster.Velocity().IsZero())
	assert.Equal(t, []uint32{p.ObjectID(), p.ObjectID(), p.ObjectID()}, f.attacks,
		"attack intent every tick, cooldown is gated by the attacker")
}

func TestMonsterAI_LosingDetectionIdlesWithinOneTick(t *testing.T) {
	for _, start := range []vec.Vec2{vec.New(4, 0), vec.New(1, 0)} {
		f := newAIFixture(t, vec.Zero)
		p := f.player(1, start)
		f.tick(2, 0.1)
		require.Contains(t, []State{StateChase, StateAttack}, f.ai.State())

		p.SetPosition(vec.New(20, 0))
		f.tick(1, 0.1)

		assert.Equal(t, StateIdle, f.ai.State())
		assert.Zero(t, f.ai.Target())
	}
}

func TestMonsterAI_Hysteresis(t *testing.T) {
	f := newAIFixture(t, vec.Zero)
	p := f.player(1, vec.New(1, 0))
	f.tick(1, 0.1)
	require.Equal(t, StateAttack, f.ai.State())

	// between attackRange (1.5) and attackRange*1.2 (1.8)
	p.SetPosition(vec.New(1.7, 0))
	for range 10 {
		f.tick(1, 0.1)
		require.Equal(t, StateAttack, f.ai.State())
	}

	p.SetPosition(vec.New(1.9, 0))
	f.tick(1, 0.1)
	assert.Equal(t, StateChase, f.ai.State())

	f.tick(1, 0.1)
	assert.Equal(t, StateChase, f.ai.State(), "chase outside attack range stays chase")
}

func TestMonsterAI_ReenteringStateResetsTimer(t *testing.T) {
	f := newAIFixture(t, vec.Zero)
	f.player(1, vec.New(4, 0))

	f.tick(4, 0.25)
	require.Equal(t, StateChase, f.ai.State())
	assert.Equal(t, 0.25, f.ai.StateTimer(), "detection re-enters Chase every tick")

	f.monster.SetPosition(vec.New(3, 0))
	f.tick(3, 0.25)
	require.Equal(t, StateAttack, f.ai.State())
	assert.Equal(t, 0.25, f.ai.StateTimer())
}

func TestMonsterAI_TargetDiesGoesIdle(t *testing.T) {
	f := newAIFixture(t, vec.Zero)
	p := f.player(1, vec.New(1, 0))
	f.tick(1, 0.1)

	p.TakeDamage(1e6, false)
	f.tick(1, 0.1)

	assert.Equal(t, StateIdle, f.ai.State())
}

func TestMonsterAI_PicksNearestPlayer(t *testing.T) {
	f := newAIFixture(t, vec.Zero)
	f.player(1, vec.New(4, 0))
	near := f.player(2, vec.New(0, 3))

	f.tick(1, 0.1)

	assert.Equal(t, near.ObjectID(), f.ai.Target())
}

func TestMonsterAI_IgnoresOtherMonsters(t *testing.T) {
	f := newAIFixture(t, vec.Zero)
	other := model.NewMonster(world.MonsterIDBase+2, "orc", model.TierNormal, 1, vec.New(1, 0), nil)
	f.world.Add(other.Character)

	f.tick(1, 0.1)

	assert.Equal(t, StateIdle, f.ai.State())
}

func TestMonsterAI_DeadOwnerStops(t *testing.T) {
	f := newAIFixture(t, vec.Zero)
	f.player(1, vec.New(4, 0))
	f.monster.TakeDamage(1e6, false)

	f.tick(3, 0.5)

	assert.True(t, f.ai.Done())
	assert.Equal(t, StateIdle, f.ai.State())
	assert.Zero(t, f.ai.StateTimer())
}
