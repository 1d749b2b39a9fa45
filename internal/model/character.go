package model

import (
	"sync"

	"github.com/udisondev/babeltower/internal/event"
	"github.com/udisondev/babeltower/internal/vec"
)

// Stats: боевые характеристики персонажа.
// MaxHP/MaxMP задают верхнюю границу текущих значений.
type Stats struct {
	MaxHP          float64 `yaml:"max_hp"`
	MaxMP          float64 `yaml:"max_mp"`
	Attack         float64 `yaml:"attack"`
	Defense        float64 `yaml:"defense"`
	MoveSpeed      float64 `yaml:"move_speed"`
	AttackSpeed    float64 `yaml:"attack_speed"`
	AttackRange    float64 `yaml:"attack_range"`
	CriticalChance float64 `yaml:"critical_chance"`
	CriticalDamage float64 `yaml:"critical_damage"`
}

// DefaultStats returns the baseline profile every character starts from.
func DefaultStats() Stats {
	return Stats{
		MaxHP:          100,
		MaxMP:          100,
		Attack:         10,
		Defense:        5,
		MoveSpeed:      5,
		AttackSpeed:    1,
		AttackRange:    1.5,
		CriticalChance: 0.1,
		CriticalDamage: 1.5,
	}
}

// normalize clamps stats into their valid ranges.
func (s Stats) normalize() Stats {
	s.MaxHP = max(s.MaxHP, 1)
	s.MaxMP = max(s.MaxMP, 0)
	s.CriticalChance = max(0, min(s.CriticalChance, 1))
	s.CriticalDamage = max(s.CriticalDamage, 1)
	return s
}

// Character: базовый класс для живых существ (Player, Monster).
// Хранит HP/MP, боевые статы и позицию; все мутации HP/MP клампятся в [0, max].
// События публикуются после снятия блокировки, поэтому listeners могут читать состояние.
type Character struct {
	objectID uint32
	name     string
	faction  Faction

	// Data points to the owning *Player or *Monster.
	Data any

	mu        sync.RWMutex
	level     int
	stats     Stats
	currentHP float64
	currentMP float64
	position  vec.Vec2
	velocity  vec.Vec2

	// seconds until the next basic attack is allowed
	attackCooldown float64
	// seconds spent dead, used by corpse cleanup
	deadFor float64

	statuses map[Status]bool
	removed  bool

	deathOnce   sync.Once // death fires at most once per life
	deathHooks  []func()
	onRelocated func(*Character)

	events event.Sink
}

// NewCharacter создаёт персонажа с полными HP/MP.
// events may be nil (events are dropped).
func NewCharacter(objectID uint32, name string, faction Faction, level int, stats Stats, pos vec.Vec2, events event.Sink) *Character {
	if events == nil {
		events = event.Discard
	}
	stats = stats.normalize()
	return &Character{
		objectID:  objectID,
		name:      name,
		faction:   faction,
		level:     max(level, 1),
		stats:     stats,
		currentHP: stats.MaxHP,
		currentMP: stats.MaxMP,
		position:  pos,
		statuses:  make(map[Status]bool),
		events:    events,
	}
}

// ObjectID возвращает уникальный ID объекта (immutable после создания).
func (c *Character) ObjectID() uint32 { return c.objectID }

// Name возвращает имя.
func (c *Character) Name() string { return c.name }

// Faction returns the targeting group.
func (c *Character) Faction() Faction { return c.faction }

// Level возвращает уровень.
func (c *Character) Level() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.level
}

// Stats returns a copy of the current stat block.
func (c *Character) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// CurrentHP возвращает текущее HP.
func (c *Character) CurrentHP() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentHP
}

// MaxHP возвращает максимальное HP.
func (c *Character) MaxHP() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats.MaxHP
}

// CurrentMP возвращает текущее MP.
func (c *Character) CurrentMP() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentMP
}

// MaxMP возвращает максимальное MP.
func (c *Character) MaxMP() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats.MaxMP
}

// Attack returns the attack stat.
func (c *Character) Attack() float64 { return c.Stats().Attack }

// Defense returns the defense stat.
func (c *Character) Defense() float64 { return c.Stats().Defense }

// CriticalChance returns crit probability in [0, 1].
func (c *Character) CriticalChance() float64 { return c.Stats().CriticalChance }

// CriticalDamage returns the crit multiplier (>= 1).
func (c *Character) CriticalDamage() float64 { return c.Stats().CriticalDamage }

// AttackRange returns basic attack reach.
func (c *Character) AttackRange() float64 { return c.Stats().AttackRange }

// IsAlive проверяет жив ли персонаж (HP > 0).
func (c *Character) IsAlive() bool {
	return c.CurrentHP() > 0
}

// IsDead проверяет мёртв ли персонаж (HP <= 0).
func (c *Character) IsDead() bool {
	return !c.IsAlive()
}

// IsRemoved reports whether the world has dropped this entity.
func (c *Character) IsRemoved() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.removed
}

// MarkRemoved is called by the world when the entity leaves it.
func (c *Character) MarkRemoved() {
	c.mu.Lock()
	c.removed = true
	c.velocity = vec.Zero
	c.mu.Unlock()
}

// IsTargetable is true for entities that are alive and still in the world.
func (c *Character) IsTargetable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentHP > 0 && !c.removed
}

// DeadFor returns seconds elapsed since death (0 while alive).
func (c *Character) DeadFor() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.deadFor
}

// --- Vitals ---

// TakeDamage reduces HP by amount (clamped at 0).
// No-op on a dead character. Emits healthChanged, then damageTaken, and
// death exactly once when HP reaches 0.
func (c *Character) TakeDamage(amount float64, critical bool) {
	amount = max(amount, 0)

	c.mu.Lock()
	if c.currentHP <= 0 {
		c.mu.Unlock()
		return
	}
	c.currentHP = max(c.currentHP-amount, 0)
	hp := c.currentHP
	c.mu.Unlock()

	c.publish(event.Event{Kind: event.KindHealthChanged, Value: hp})
	c.publish(event.Event{Kind: event.KindDamageTaken, Value: amount, Critical: critical})

	if hp <= 0 {
		c.die()
	}
}

// Heal restores HP (clamped at maxHP). No-op on a dead character.
func (c *Character) Heal(amount float64) {
	amount = max(amount, 0)

	c.mu.Lock()
	if c.currentHP <= 0 {
		c.mu.Unlock()
		return
	}
	c.currentHP = min(c.currentHP+amount, c.stats.MaxHP)
	hp := c.currentHP
	c.mu.Unlock()

	c.publish(event.Event{Kind: event.KindHealthChanged, Value: hp})
}

// ConsumeMana spends amount MP. Returns false without mutation if there is not enough.
func (c *Character) ConsumeMana(amount float64) bool {
	if amount < 0 {
		return false
	}

	c.mu.Lock()
	if c.currentMP < amount {
		c.mu.Unlock()
		return false
	}
	c.currentMP -= amount
	mp := c.currentMP
	c.mu.Unlock()

	c.publish(event.Event{Kind: event.KindManaChanged, Value: mp})
	return true
}

// RestoreMana adds MP (clamped at maxMP).
func (c *Character) RestoreMana(amount float64) {
	amount = max(amount, 0)

	c.mu.Lock()
	c.currentMP = min(c.currentMP+amount, c.stats.MaxMP)
	mp := c.currentMP
	c.mu.Unlock()

	c.publish(event.Event{Kind: event.KindManaChanged, Value: mp})
}

// ApplyStats replaces the stat block and refills HP/MP to the new maximums.
// Used on class init, level-up and tier adjustment: a stat change always
// restores the character to full. Ignored for dead characters.
func (c *Character) ApplyStats(stats Stats) {
	stats = stats.normalize()

	c.mu.Lock()
	if c.currentHP <= 0 {
		c.mu.Unlock()
		return
	}
	c.stats = stats
	c.currentHP = stats.MaxHP
	c.currentMP = stats.MaxMP
	hp, mp := c.currentHP, c.currentMP
	c.mu.Unlock()

	c.publish(event.Event{Kind: event.KindHealthChanged, Value: hp})
	c.publish(event.Event{Kind: event.KindManaChanged, Value: mp})
}

// SetLevel sets the level (minimum 1). Stats are re-derived by the owner.
func (c *Character) SetLevel(level int) {
	c.mu.Lock()
	c.level = max(level, 1)
	c.mu.Unlock()
}

// OnDeath registers fn to run once when the character dies, after the death event.
func (c *Character) OnDeath(fn func()) {
	c.mu.Lock()
	c.deathHooks = append(c.deathHooks, fn)
	c.mu.Unlock()
}

func (c *Character) die() {
	c.deathOnce.Do(func() {
		c.mu.Lock()
		c.velocity = vec.Zero
		hooks := c.deathHooks
		c.mu.Unlock()

		c.publish(event.Event{Kind: event.KindDeath})
		for _, fn := range hooks {
			fn()
		}
	})
}

// --- Movement ---

// Position returns the current position.
func (c *Character) Position() vec.Vec2 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.position
}

// Velocity returns the current velocity.
func (c *Character) Velocity() vec.Vec2 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.velocity
}

// SetPosition teleports the character and notifies the spatial index.
func (c *Character) SetPosition(pos vec.Vec2) {
	c.mu.Lock()
	c.position = pos
	hook := c.onRelocated
	c.mu.Unlock()

	if hook != nil {
		hook(c)
	}
}

// SetRelocationHook installs the callback the world uses to keep its index current.
func (c *Character) SetRelocationHook(fn func(*Character)) {
	c.mu.Lock()
	c.onRelocated = fn
	c.mu.Unlock()
}

// Move sets velocity along direction at move speed. Zero direction stops.
// Dead characters do not move.
func (c *Character) Move(direction vec.Vec2) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.currentHP <= 0 || c.removed {
		c.velocity = vec.Zero
		return
	}
	c.velocity = direction.Normalized().Mul(c.stats.MoveSpeed)
}

// Integrate advances position by velocity*dt.
func (c *Character) Integrate(dt float64) {
	c.mu.RLock()
	v := c.velocity
	pos := c.position
	c.mu.RUnlock()

	if v.IsZero() || dt <= 0 {
		return
	}
	c.SetPosition(pos.Add(v.Mul(dt)))
}

// --- Attack gate ---

// CanAttack reports whether the basic attack cooldown (1/attackSpeed) has elapsed.
func (c *Character) CanAttack() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.attackCooldown <= 0
}

// MarkAttack starts the basic attack cooldown.
func (c *Character) MarkAttack() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stats.AttackSpeed > 0 {
		c.attackCooldown = 1 / c.stats.AttackSpeed
	}
}

// Tick advances per-character timers.
func (c *Character) Tick(dt float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attackCooldown > 0 {
		c.attackCooldown = max(c.attackCooldown-dt, 0)
	}
	if c.currentHP <= 0 {
		c.deadFor += dt
	}
}

// --- Status flags ---

// HasStatus reports whether flag is active.
func (c *Character) HasStatus(flag Status) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.statuses[flag]
}

// SetStatus toggles flag and emits statusChanged when the value changes.
func (c *Character) SetStatus(flag Status, active bool) {
	c.mu.Lock()
	if c.statuses[flag] == active {
		c.mu.Unlock()
		return
	}
	if active {
		c.statuses[flag] = true
	} else {
		delete(c.statuses, flag)
	}
	c.mu.Unlock()

	c.publish(event.Event{Kind: event.KindStatusChanged, Status: string(flag), Active: active})
}

// publish stamps identity fields and forwards ev to the sink.
func (c *Character) publish(ev event.Event) {
	ev.EntityID = c.objectID
	ev.EntityName = c.name
	ev.Faction = c.faction.String()
	if ev.Position.IsZero() {
		ev.Position = c.Position()
	}
	c.events.Publish(ev)
}

// Publish forwards an arbitrary event stamped with this character's identity.
func (c *Character) Publish(ev event.Event) {
	c.publish(ev)
}
