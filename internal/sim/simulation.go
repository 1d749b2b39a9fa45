// Package sim hosts one combat simulation: it owns the world and every
// manager, accepts player intents and advances everything on a fixed tick.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/babeltower/internal/ai"
	"github.com/udisondev/babeltower/internal/data"
	"github.com/udisondev/babeltower/internal/event"
	"github.com/udisondev/babeltower/internal/game/combat"
	"github.com/udisondev/babeltower/internal/game/skill"
	"github.com/udisondev/babeltower/internal/model"
	"github.com/udisondev/babeltower/internal/vec"
	"github.com/udisondev/babeltower/internal/world"
)

var (
	// ErrUnknownEntity is returned for intents naming an object that is not in the world.
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrNotPlayer is returned for player intents naming a monster.
	ErrNotPlayer = errors.New("entity is not a player")
)

// DefaultCorpseDelay is how long a dead entity stays in the world.
const DefaultCorpseDelay = 2.0

// RewardFunc observes a monster kill after its rewards were granted.
type RewardFunc func(monster *model.Monster, rewarded []*model.Player)

// Options configures a Simulation. Zero values take defaults.
type Options struct {
	CellSize    float64
	CorpseDelay float64
	AI          *ai.Params
	Catalog     *data.Catalog
	// Random replaces the AI patrol RNG (uniform [0,1)).
	Random func() float64
}

// Simulation is the host API of the combat core.
// Intents, spawns and Tick are serialized by one mutex; events are
// delivered synchronously on the calling goroutine.
type Simulation struct {
	mu sync.Mutex

	world   *world.World
	bus     *event.Bus
	ids     *world.ObjectIDGenerator
	catalog *data.Catalog

	combat  *combat.Manager
	effects *skill.EffectManager
	casts   *skill.CastManager
	aiMgr   *ai.TickManager

	aiParams    ai.Params
	corpseDelay float64
	random      func() float64

	rewardFunc atomic.Pointer[RewardFunc]
	elapsed    float64
	ticks      uint64
}

// New creates a Simulation with an empty world.
func New(opts Options) (*Simulation, error) {
	catalog := opts.Catalog
	if catalog == nil {
		var err error
		if catalog, err = data.LoadCatalog(); err != nil {
			return nil, fmt.Errorf("loading skill catalog: %w", err)
		}
	}
	for _, sk := range catalog.Skills() {
		if err := skill.Validate(sk); err != nil {
			slog.Warn("skill catalog entry has unknown effects", "skill", sk.ID, "error", err)
		}
	}

	params := ai.DefaultParams()
	if opts.AI != nil {
		params = *opts.AI
	}
	corpseDelay := opts.CorpseDelay
	if corpseDelay <= 0 {
		corpseDelay = DefaultCorpseDelay
	}

	w := world.New(opts.CellSize)
	bus := event.NewBus()
	env := &skill.Env{Space: w, Events: bus}
	effects := skill.NewEffectManager(env)

	s := &Simulation{
		world:       w,
		bus:         bus,
		ids:         world.NewObjectIDGenerator(),
		catalog:     catalog,
		combat:      combat.NewManager(w),
		effects:     effects,
		casts:       skill.NewCastManager(env, effects),
		aiMgr:       ai.NewTickManager(),
		aiParams:    params,
		corpseDelay: corpseDelay,
		random:      opts.Random,
	}
	bus.Subscribe(s.onEvent)
	return s, nil
}

// World returns the spatial registry.
func (s *Simulation) World() *world.World { return s.world }

// Bus returns the combat event bus.
func (s *Simulation) Bus() *event.Bus { return s.bus }

// Catalog returns the skill catalog loadouts are drawn from.
func (s *Simulation) Catalog() *data.Catalog { return s.catalog }

// Combat returns the basic attack resolver.
func (s *Simulation) Combat() *combat.Manager { return s.combat }

// Subscribe registers listener on the event bus.
func (s *Simulation) Subscribe(listener event.Listener) func() {
	return s.bus.Subscribe(listener)
}

// SetRewardFunc sets callback invoked after kill rewards are granted.
func (s *Simulation) SetRewardFunc(fn RewardFunc) {
	s.rewardFunc.Store(&fn)
}

// Elapsed returns simulated seconds.
func (s *Simulation) Elapsed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// Ticks returns number of completed ticks.
func (s *Simulation) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// ActiveEffects returns number of running effect processes.
func (s *Simulation) ActiveEffects() int { return s.effects.Len() }

// AIControllers returns number of registered monster controllers.
func (s *Simulation) AIControllers() int { return s.aiMgr.Count() }

// --- Spawns ---

// SpawnPlayer creates a player of class with the class loadout equipped.
func (s *Simulation) SpawnPlayer(class model.ClassID, name string, pos vec.Vec2) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := model.NewPlayer(s.ids.NextPlayerID(), name, class, pos, s.bus)
	if err := s.catalog.Equip(p); err != nil {
		return nil, fmt.Errorf("spawning player %s: %w", name, err)
	}
	s.world.Add(p.Character)

	slog.Info("player spawned",
		"name", name,
		"objectID", p.ObjectID(),
		"class", class,
		"x", pos.X,
		"y", pos.Y)
	return p, nil
}

// SpawnMonster creates a monster and starts its AI.
func (s *Simulation) SpawnMonster(name string, tier model.Tier, level int, pos vec.Vec2) *model.Monster {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := model.NewMonster(s.ids.NextMonsterID(), name, tier, level, pos, s.bus)
	s.world.Add(m.Character)

	brain := ai.NewMonsterAI(m, s.monsterAttack, s.world.QueryRadius, s.world.Entity)
	brain.SetParams(s.aiParams)
	if s.random != nil {
		brain.SetRandom(s.random)
	}
	s.aiMgr.Register(m.ObjectID(), brain)

	slog.Info("monster spawned",
		"name", name,
		"objectID", m.ObjectID(),
		"tier", tier,
		"level", level,
		"x", pos.X,
		"y", pos.Y)
	return m
}

// monsterAttack is the AI attack intent; cooldown and range rejections are normal.
func (s *Simulation) monsterAttack(m *model.Monster, targetID uint32) {
	if _, err := s.combat.MonsterAttack(m.Character, targetID); err != nil && ai.IsDebugEnabled() {
		slog.Debug("monster attack rejected",
			"monster", m.Name(),
			"objectID", m.ObjectID(),
			"target", targetID,
			"reason", err)
	}
}

// --- Intents ---

// Player returns the live player with objectID.
func (s *Simulation) Player(objectID uint32) (*model.Player, error) {
	c := s.world.Entity(objectID)
	if c == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEntity, objectID)
	}
	p, ok := c.Data.(*model.Player)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotPlayer, objectID)
	}
	return p, nil
}

// MoveIntent sets the player's movement direction; zero stops.
func (s *Simulation) MoveIntent(objectID uint32, dir vec.Vec2) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Player(objectID)
	if err != nil {
		return err
	}
	p.Move(dir)
	return nil
}

// AttackIntent performs a basic attack. The aim point only orients the swing;
// the hit test is centred on the attacker.
func (s *Simulation) AttackIntent(objectID uint32, point vec.Vec2) (combat.HitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Player(objectID)
	if err != nil {
		return combat.HitResult{}, err
	}
	return s.combat.PlayerAttack(p.Character)
}

// CastIntent casts the skill in slot at point.
func (s *Simulation) CastIntent(objectID uint32, slot int, point vec.Vec2) (*skill.Cast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Player(objectID)
	if err != nil {
		return nil, err
	}
	return s.casts.UseSkill(p, slot, point)
}

// --- Tick ---

// Tick advances the simulation by dt seconds: timers and attack gates, AI,
// movement, effect processes, then corpse cleanup.
func (s *Simulation) Tick(dt float64) {
	if dt <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	chars := s.world.Characters()
	for _, c := range chars {
		c.Tick(dt)
		if p, ok := c.Data.(*model.Player); ok {
			p.TickCooldowns(dt)
		}
	}

	s.aiMgr.Tick(dt)

	for _, c := range chars {
		if c.IsTargetable() {
			c.Integrate(dt)
		}
	}

	s.effects.Tick(dt)

	s.removeCorpses()

	s.elapsed += dt
	s.ticks++
}

func (s *Simulation) removeCorpses() {
	for _, c := range s.world.Characters() {
		if !c.IsDead() || c.DeadFor() < s.corpseDelay {
			continue
		}
		s.world.Remove(c.ObjectID())
		s.aiMgr.Unregister(c.ObjectID())
		slog.Debug("corpse removed", "name", c.Name(), "objectID", c.ObjectID())
	}
}

// Run ticks every interval with a fixed dt of interval seconds until ctx is canceled.
func (s *Simulation) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	dt := interval.Seconds()
	slog.Info("simulation started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation stopping", "ticks", s.Ticks(), "elapsed", s.Elapsed())
			return ctx.Err()
		case <-ticker.C:
			s.Tick(dt)
		}
	}
}

// --- Rewards ---

// onEvent grants kill rewards to every living player.
func (s *Simulation) onEvent(ev event.Event) {
	if ev.Kind != event.KindMonsterKilled {
		return
	}
	c := s.world.Entity(ev.EntityID)
	if c == nil {
		return
	}
	m, ok := c.Data.(*model.Monster)
	if !ok {
		return
	}

	var rewarded []*model.Player
	for _, p := range s.world.Players() {
		if !p.IsTargetable() {
			continue
		}
		p.GainExperience(ev.Exp)
		p.GainGold(ev.Gold)
		rewarded = append(rewarded, p)
	}

	slog.Info("kill rewards granted",
		"monster", m.Name(),
		"objectID", m.ObjectID(),
		"exp", ev.Exp,
		"gold", ev.Gold,
		"players", len(rewarded))

	if fn := s.rewardFunc.Load(); fn != nil && *fn != nil {
		(*fn)(m, rewarded)
	}
}
