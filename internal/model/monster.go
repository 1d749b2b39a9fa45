package model

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/udisondev/babeltower/internal/event"
	"github.com/udisondev/babeltower/internal/vec"
)

// Default AI parameters for monsters.
const (
	DefaultDetectionRange = 5.0
	DefaultChaseSpeed     = 3.0
	DefaultMonsterRange   = 1.5
)

// Tier is a monster difficulty grade.
type Tier int8

const (
	TierNormal Tier = iota
	TierElite
	TierBoss
)

var tierNames = [...]string{"normal", "elite", "boss"}

// String returns lowercase tier name.
func (t Tier) String() string {
	if t < 0 || int(t) >= len(tierNames) {
		return "unknown"
	}
	return tierNames[t]
}

// ParseTier resolves a tier by name (case-insensitive).
func ParseTier(name string) (Tier, error) {
	for i, n := range tierNames {
		if strings.EqualFold(n, name) {
			return Tier(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tier %q", name)
}

// StatMultiplier scales maxHP, attack and defense.
func (t Tier) StatMultiplier() float64 {
	switch t {
	case TierElite:
		return 2
	case TierBoss:
		return 5
	default:
		return 1
	}
}

// RewardMultiplier scales experience and gold rewards.
func (t Tier) RewardMultiplier() float64 {
	switch t {
	case TierElite:
		return 3
	case TierBoss:
		return 10
	default:
		return 1
	}
}

// Monster: враждебное существо под управлением AI.
// On death it publishes monsterKilled with its rewards.
type Monster struct {
	*Character

	tier           Tier
	detectionRange float64

	monsterMu  sync.RWMutex
	expReward  int
	goldReward int
}

// NewMonster creates a monster of the given tier and level at pos.
func NewMonster(objectID uint32, name string, tier Tier, level int, pos vec.Vec2, events event.Sink) *Monster {
	s := DefaultStats()
	s.MoveSpeed = DefaultChaseSpeed
	s.AttackRange = DefaultMonsterRange

	m := &Monster{
		Character:      NewCharacter(objectID, name, FactionMonster, level, s, pos, events),
		tier:           tier,
		detectionRange: DefaultDetectionRange,
	}
	m.Data = m
	m.SetMonsterLevel(level)
	m.OnDeath(m.publishRewards)
	return m
}

// Tier returns the difficulty grade.
func (m *Monster) Tier() Tier { return m.tier }

// DetectionRange returns how far the monster notices enemies.
func (m *Monster) DetectionRange() float64 { return m.detectionRange }

// SetDetectionRange overrides the detection radius.
func (m *Monster) SetDetectionRange(r float64) { m.detectionRange = max(r, 0) }

// ExpReward returns experience granted on kill.
func (m *Monster) ExpReward() int {
	m.monsterMu.RLock()
	defer m.monsterMu.RUnlock()
	return m.expReward
}

// GoldReward returns gold granted on kill.
func (m *Monster) GoldReward() int {
	m.monsterMu.RLock()
	defer m.monsterMu.RUnlock()
	return m.goldReward
}

// SetMonsterLevel re-derives stats and rewards for level n, then applies
// the tier multiplier. HP/MP are refilled.
func (m *Monster) SetMonsterLevel(n int) {
	n = max(n, 1)
	m.SetLevel(n)

	mult := m.tier.StatMultiplier()
	s := m.Stats()
	s.MaxHP = (50 + 10*float64(n)) * mult
	s.Attack = (5 + 2*float64(n)) * mult
	s.Defense = (2 + float64(n)) * mult

	reward := m.tier.RewardMultiplier()
	m.monsterMu.Lock()
	m.expReward = int(math.Round(float64(10+5*n) * reward))
	m.goldReward = int(math.Round(float64(5+2*n) * reward))
	m.monsterMu.Unlock()

	m.ApplyStats(s)
}

func (m *Monster) publishRewards() {
	m.Publish(event.Event{
		Kind: event.KindMonsterKilled,
		Exp:  m.ExpReward(),
		Gold: m.GoldReward(),
	})
}
