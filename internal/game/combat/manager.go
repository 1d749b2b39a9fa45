package combat

import (
	"errors"
	"log/slog"

	"github.com/udisondev/babeltower/internal/model"
	"github.com/udisondev/babeltower/internal/vec"
)

var (
	// ErrAttackCooldown is returned when the basic attack interval has not elapsed.
	ErrAttackCooldown = errors.New("attack on cooldown")
	// ErrNoTarget is returned when no valid target is in reach.
	ErrNoTarget = errors.New("no target in range")
	// ErrAttackerDead is returned for attack intents from dead characters.
	ErrAttackerDead = errors.New("attacker is dead")
)

// Space is the spatial query surface combat needs from the world.
type Space interface {
	Entity(objectID uint32) *model.Character
	// QueryRadius returns characters within radius of center accepted by filter,
	// ordered by distance then object ID.
	QueryRadius(center vec.Vec2, radius float64, filter func(*model.Character) bool) []*model.Character
}

// HitResult describes one resolved basic attack.
type HitResult struct {
	AttackerID uint32
	TargetID   uint32
	Damage     float64
	Critical   bool
}

// Manager resolves basic attacks for players and monsters.
type Manager struct {
	space Space

	// hitObserver: callback для наблюдения за результатами атак (nil в production).
	hitObserver func(HitResult)
}

// NewManager creates a combat Manager over space.
func NewManager(space Space) *Manager {
	return &Manager{space: space}
}

// SetHitObserver sets callback for observing attack results.
func (m *Manager) SetHitObserver(fn func(HitResult)) {
	m.hitObserver = fn
}

// PlayerAttack swings at the nearest valid enemy within the attacker's
// attack range. Only one target is hit.
func (m *Manager) PlayerAttack(attacker *model.Character) (HitResult, error) {
	if attacker.IsDead() {
		return HitResult{}, ErrAttackerDead
	}
	if !attacker.CanAttack() {
		return HitResult{}, ErrAttackCooldown
	}
	attacker.MarkAttack()

	targets := m.space.QueryRadius(attacker.Position(), attacker.AttackRange(), EnemyFilter(attacker))
	if len(targets) == 0 {
		return HitResult{}, ErrNoTarget
	}
	return m.strike(attacker, targets[0]), nil
}

// MonsterAttack attacks targetID if it is valid and within the attacker's range.
// A swing out of range still starts the attack cooldown.
func (m *Manager) MonsterAttack(attacker *model.Character, targetID uint32) (HitResult, error) {
	if attacker.IsDead() {
		return HitResult{}, ErrAttackerDead
	}
	if !attacker.CanAttack() {
		return HitResult{}, ErrAttackCooldown
	}
	attacker.MarkAttack()

	target := m.space.Entity(targetID)
	if !IsValidTarget(attacker, target) || !InRange(attacker, target, attacker.AttackRange()) {
		return HitResult{}, ErrNoTarget
	}
	return m.strike(attacker, target), nil
}

func (m *Manager) strike(attacker, target *model.Character) HitResult {
	hit := ResolveHit(attacker, target, 1, true)
	Apply(target, hit)

	res := HitResult{
		AttackerID: attacker.ObjectID(),
		TargetID:   target.ObjectID(),
		Damage:     hit.Amount,
		Critical:   hit.Critical,
	}

	slog.Debug("basic attack",
		"attacker", attacker.Name(),
		"target", target.Name(),
		"damage", hit.Amount,
		"crit", hit.Critical,
		"targetHP", target.CurrentHP())

	if m.hitObserver != nil {
		m.hitObserver(res)
	}
	return res
}
