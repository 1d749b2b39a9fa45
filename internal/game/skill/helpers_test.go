package skill

import (
	"testing"

	"github.com/udisondev/babeltower/internal/event"
	"github.com/udisondev/babeltower/internal/game/combat"
	"github.com/udisondev/babeltower/internal/model"
	"github.com/udisondev/babeltower/internal/vec"
	"github.com/udisondev/babeltower/internal/world"
)

type recorder struct {
	events []event.Event
}

func (r *recorder) Publish(ev event.Event) { r.events = append(r.events, ev) }

func (r *recorder) damaged() map[uint32]int {
	out := make(map[uint32]int)
	for _, ev := range r.events {
		if ev.Kind == event.KindDamageTaken {
			out[ev.EntityID]++
		}
	}
	return out
}

type fixture struct {
	t       *testing.T
	world   *world.World
	rec     *recorder
	env     *Env
	effects *EffectManager
	casts   *CastManager
	ids     *world.ObjectIDGenerator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	orig := combat.CritRoll
	combat.CritRoll = func() float64 { return 0.999 }
	t.Cleanup(func() { combat.CritRoll = orig })

	w := world.New(2)
	rec := &recorder{}
	env := &Env{Space: w, Events: rec}
	effects := NewEffectManager(env)
	return &fixture{
		t:       t,
		world:   w,
		rec:     rec,
		env:     env,
		effects: effects,
		casts:   NewCastManager(env, effects),
		ids:     world.NewObjectIDGenerator(),
	}
}

func (f *fixture) player(class model.ClassID, pos vec.Vec2) *model.Player {
	p := model.NewPlayer(f.ids.NextPlayerID(), "hero", class, pos, f.rec)
	f.world.Add(p.Character)
	return p
}

func (f *fixture) monster(pos vec.Vec2) *model.Monster {
	m := model.NewMonster(f.ids.NextMonsterID(), "slime", model.TierNormal, 1, pos, f.rec)
	f.world.Add(m.Character)
	return m
}

// run ticks the effect manager n times by dt.
func (f *fixture) run(n int, dt float64) {
	for range n {
		f.effects.Tick(dt)
	}
}

func skillOf(id string, mult float64, effects ...model.EffectDef) *model.Skill {
	return &model.Skill{
		ID:               id,
		Name:             id,
		Cooldown:         5,
		ManaCost:         20,
		DamageMultiplier: mult,
		Range:            3,
		AreaRadius:       1.5,
		Effects:          effects,
	}
}

func def(name string, kv ...string) model.EffectDef {
	params := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		params[kv[i]] = kv[i+1]
	}
	return model.EffectDef{Name: name, Params: params}
}

func lost(c interface{ MaxHP() float64; CurrentHP() float64 }) float64 {
	return c.MaxHP() - c.CurrentHP()
}
