package skill

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/udisondev/babeltower/internal/event"
	"github.com/udisondev/babeltower/internal/model"
	"github.com/udisondev/babeltower/internal/vec"
)

var (
	// ErrInsufficientMana rejects a cast the caster cannot pay for.
	ErrInsufficientMana = errors.New("insufficient mana")
	// ErrOnCooldown rejects a cast whose slot is still cooling down.
	ErrOnCooldown = errors.New("skill on cooldown")
	// ErrCasterDead rejects casts from dead or removed casters.
	ErrCasterDead = errors.New("caster is dead")
	// ErrInvalidSkillSlot rejects empty or out-of-range slots.
	ErrInvalidSkillSlot = model.ErrInvalidSkillSlot
)

// CastManager validates casts, pays their cost and runs their effects.
// Cost (mana and cooldown) is paid before any effect runs, so a cast that
// finds no target still spends it.
type CastManager struct {
	env     *Env
	effects *EffectManager

	mu       sync.Mutex
	compiled map[*model.Skill][]Effect
}

// NewCastManager creates a CastManager that schedules processes on effects.
func NewCastManager(env *Env, effects *EffectManager) *CastManager {
	return &CastManager{
		env:      env,
		effects:  effects,
		compiled: make(map[*model.Skill][]Effect),
	}
}

// UseSkill casts the skill in player's slot at point.
// Rejection order: invalid slot, dead caster, cooldown, mana.
func (cm *CastManager) UseSkill(p *model.Player, slot int, point vec.Vec2) (*Cast, error) {
	sk, err := p.SkillAt(slot)
	if err != nil {
		return nil, err
	}
	if !p.IsTargetable() {
		return nil, ErrCasterDead
	}
	if p.SkillCooldown(slot) > 0 {
		return nil, ErrOnCooldown
	}
	if !p.ConsumeMana(sk.ManaCost) {
		return nil, ErrInsufficientMana
	}
	p.StartCooldown(slot, sk.Cooldown)

	return cm.execute(p.Character, sk, point), nil
}

// Cast runs skill for any caster without slot cooldown tracking.
// Mana is still checked and consumed.
func (cm *CastManager) Cast(caster *model.Character, sk *model.Skill, point vec.Vec2) (*Cast, error) {
	if !caster.IsTargetable() {
		return nil, ErrCasterDead
	}
	if !caster.ConsumeMana(sk.ManaCost) {
		return nil, ErrInsufficientMana
	}
	return cm.execute(caster, sk, point), nil
}

func (cm *CastManager) execute(caster *model.Character, sk *model.Skill, point vec.Vec2) *Cast {
	origin := caster.Position()
	cast := &Cast{
		ID:        uuid.New(),
		CasterID:  caster.ObjectID(),
		Skill:     sk,
		Origin:    origin,
		Target:    point,
		Direction: point.Sub(origin).Normalized(),
	}
	cm.env.spawn(cast, event.EffectCast, origin)

	slog.Debug("skill cast",
		"caster", caster.Name(),
		"skill", sk.ID,
		"cast", cast.ID,
		"target", point)

	for _, eff := range cm.compile(sk) {
		if proc := eff.Apply(cm.env, cast); proc != nil {
			cm.effects.Add(cast, eff.Name(), proc)
		}
	}
	return cast
}

// compile builds (once per skill) the effect chain from its definitions.
// Unknown effects are logged and skipped.
func (cm *CastManager) compile(sk *model.Skill) []Effect {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if effs, ok := cm.compiled[sk]; ok {
		return effs
	}
	effs := make([]Effect, 0, len(sk.Effects))
	for _, def := range sk.Effects {
		eff, err := CreateEffect(def.Name, def.Params)
		if err != nil {
			slog.Warn("skipping skill effect", "skill", sk.ID, "error", err)
			continue
		}
		effs = append(effs, eff)
	}
	cm.compiled[sk] = effs
	return effs
}

// Validate checks that every effect of sk is registered.
func Validate(sk *model.Skill) error {
	for i, def := range sk.Effects {
		if !IsRegistered(def.Name) {
			return fmt.Errorf("skill %s effect %d: unknown effect type: %s", sk.ID, i, def.Name)
		}
	}
	return nil
}
