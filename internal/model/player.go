package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/udisondev/babeltower/internal/event"
	"github.com/udisondev/babeltower/internal/vec"
)

// MaxSkillSlots is the number of equippable skill slots.
const MaxSkillSlots = 4

const (
	baseExpToNextLevel = 100
	expGrowth          = 1.5
)

// ErrInvalidSkillSlot is returned for a slot outside [0, MaxSkillSlots) or an empty slot.
var ErrInvalidSkillSlot = errors.New("invalid skill slot")

// ClassID identifies a player class.
type ClassID int8

const (
	ClassWarrior ClassID = iota
	ClassMage
	ClassRogue
	ClassArcher
)

var classNames = [...]string{"warrior", "mage", "rogue", "archer"}

// String returns lowercase class name.
func (c ClassID) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "unknown"
	}
	return classNames[c]
}

// ParseClass resolves a class by name (case-insensitive).
func ParseClass(name string) (ClassID, error) {
	for _, c := range Classes() {
		if strings.EqualFold(c.String(), name) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown class %q", name)
}

// Classes returns all player classes in declaration order.
func Classes() []ClassID {
	return []ClassID{ClassWarrior, ClassMage, ClassRogue, ClassArcher}
}

// ClassStats returns the base profile applied when a player of class c is created.
func ClassStats(c ClassID) Stats {
	s := DefaultStats()
	switch c {
	case ClassWarrior:
		s.MaxHP, s.MaxMP = 150, 50
		s.Attack, s.Defense = 15, 10
		s.MoveSpeed, s.AttackSpeed, s.AttackRange = 4, 1.2, 2
	case ClassMage:
		s.MaxHP, s.MaxMP = 80, 150
		s.Attack, s.Defense = 20, 3
		s.MoveSpeed, s.AttackSpeed, s.AttackRange = 4.5, 0.8, 5
	case ClassRogue:
		s.MaxHP, s.MaxMP = 100, 80
		s.Attack, s.Defense = 18, 5
		s.MoveSpeed, s.AttackSpeed, s.AttackRange = 6, 1.8, 1.5
		s.CriticalChance, s.CriticalDamage = 0.25, 2.0
	case ClassArcher:
		s.MaxHP, s.MaxMP = 90, 70
		s.Attack, s.Defense = 17, 4
		s.MoveSpeed, s.AttackSpeed, s.AttackRange = 5, 1.5, 7
	}
	return s
}

// Player: управляемый игроком персонаж.
// Embeds Character; adds class, progression and skill slots with cooldowns.
type Player struct {
	*Character

	class ClassID

	playerMu   sync.RWMutex
	experience int
	expToNext  int
	gold       int
	skills     [MaxSkillSlots]*Skill
	cooldowns  [MaxSkillSlots]float64
}

// NewPlayer создаёт игрока 1 уровня с профилем класса.
func NewPlayer(objectID uint32, name string, class ClassID, pos vec.Vec2, events event.Sink) *Player {
	p := &Player{
		Character: NewCharacter(objectID, name, FactionPlayer, 1, ClassStats(class), pos, events),
		class:     class,
		expToNext: baseExpToNextLevel,
	}
	p.Data = p
	return p
}

// Class returns the player's class.
func (p *Player) Class() ClassID { return p.class }

// Experience returns experience accumulated toward the next level.
func (p *Player) Experience() int {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.experience
}

// ExperienceToNextLevel returns the current level-up threshold.
func (p *Player) ExperienceToNextLevel() int {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.expToNext
}

// Gold returns the gold balance.
func (p *Player) Gold() int {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.gold
}

// GainExperience adds exp and levels up while the threshold is met.
// Returns number of levels gained. Dead players gain nothing.
func (p *Player) GainExperience(amount int) int {
	if amount <= 0 || p.IsDead() {
		return 0
	}

	p.playerMu.Lock()
	p.experience += amount
	levels := 0
	for p.experience >= p.expToNext {
		p.experience -= p.expToNext
		p.expToNext = int(math.Round(float64(p.expToNext) * expGrowth))
		levels++
	}
	p.playerMu.Unlock()

	for range levels {
		p.levelUp()
	}
	return levels
}

// levelUp grows stats, refills vitals and emits levelUp.
func (p *Player) levelUp() {
	level := p.Level() + 1
	p.SetLevel(level)

	s := p.Stats()
	s.MaxHP += 10
	s.MaxMP += 5
	s.Attack += 2
	s.Defense++
	p.ApplyStats(s)

	p.Publish(event.Event{Kind: event.KindLevelUp, Value: float64(level)})
}

// GainGold adds gold.
func (p *Player) GainGold(amount int) {
	if amount <= 0 {
		return
	}
	p.playerMu.Lock()
	p.gold += amount
	p.playerMu.Unlock()
}

// SpendGold deducts gold. Returns false without mutation if balance is too low.
func (p *Player) SpendGold(amount int) bool {
	if amount < 0 {
		return false
	}
	p.playerMu.Lock()
	defer p.playerMu.Unlock()

	if p.gold < amount {
		return false
	}
	p.gold -= amount
	return true
}

// --- Skills ---

func validSlot(slot int) bool {
	return slot >= 0 && slot < MaxSkillSlots
}

// EquipSkill places skill into slot and resets its cooldown.
func (p *Player) EquipSkill(slot int, skill *Skill) error {
	if !validSlot(slot) {
		return fmt.Errorf("equip slot %d: %w", slot, ErrInvalidSkillSlot)
	}
	p.playerMu.Lock()
	p.skills[slot] = skill
	p.cooldowns[slot] = 0
	p.playerMu.Unlock()
	return nil
}

// SkillAt returns the skill in slot. Empty slot is ErrInvalidSkillSlot.
func (p *Player) SkillAt(slot int) (*Skill, error) {
	if !validSlot(slot) {
		return nil, ErrInvalidSkillSlot
	}
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()

	if p.skills[slot] == nil {
		return nil, ErrInvalidSkillSlot
	}
	return p.skills[slot], nil
}

// Skills returns a copy of the equipped slots (nil for empty).
func (p *Player) Skills() [MaxSkillSlots]*Skill {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.skills
}

// SkillCooldown returns remaining cooldown seconds for slot (0 when ready or invalid).
func (p *Player) SkillCooldown(slot int) float64 {
	if !validSlot(slot) {
		return 0
	}
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.cooldowns[slot]
}

// StartCooldown sets slot's cooldown to seconds.
func (p *Player) StartCooldown(slot int, seconds float64) {
	if !validSlot(slot) {
		return
	}
	p.playerMu.Lock()
	p.cooldowns[slot] = max(seconds, 0)
	p.playerMu.Unlock()
}

// TickCooldowns decrements every slot cooldown by dt, flooring at 0.
func (p *Player) TickCooldowns(dt float64) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()

	for i := range p.cooldowns {
		if p.cooldowns[i] > 0 {
			p.cooldowns[i] = max(p.cooldowns[i]-dt, 0)
		}
	}
}
