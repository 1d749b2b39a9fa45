package ai

import (
	"log/slog"
	"math/rand/v2"
	"sync/atomic"

	"github.com/udisondev/babeltower/internal/model"
	"github.com/udisondev/babeltower/internal/vec"
)

// AttackFunc issues an attack intent of monster at targetID.
// The monster's own attack cooldown gates the swing.
// Injected by the host to avoid an import cycle with combat.
type AttackFunc func(monster *model.Monster, targetID uint32)

// ScanFunc returns characters within radius of center accepted by filter,
// nearest first. Injected by the host to avoid an import cycle with world.
type ScanFunc func(center vec.Vec2, radius float64, filter func(*model.Character) bool) []*model.Character

// GetObjectFunc looks up a character by object ID (nil if gone).
type GetObjectFunc func(objectID uint32) *model.Character

// Params tunes the state machine timings.
type Params struct {
	IdleDwell      float64 `yaml:"idle_dwell"`      // seconds in Idle before patrolling
	PatrolTimeout  float64 `yaml:"patrol_timeout"`  // seconds before a new patrol point is picked
	PatrolRadius   float64 `yaml:"patrol_radius"`   // patrol point distance from current position
	ArriveDistance float64 `yaml:"arrive_distance"` // patrol point counts as reached within this
	LeashFactor    float64 `yaml:"leash_factor"`    // Attack → Chase beyond attackRange*LeashFactor
}

// DefaultParams returns the stock AI timings.
func DefaultParams() Params {
	return Params{
		IdleDwell:      2,
		PatrolTimeout:  3,
		PatrolRadius:   3,
		ArriveDistance: 0.5,
		LeashFactor:    1.2,
	}
}

// MonsterAI is the four-state machine driving one monster:
// Idle → Patrol → Idle while nothing is around, Chase/Attack once an enemy
// enters detection range. No pathfinding, no line of sight.
type MonsterAI struct {
	monster *model.Monster
	params  Params

	isRunning atomic.Bool

	// accessed only from Tick
	state       State
	stateTimer  float64
	targetID    uint32
	patrolPoint vec.Vec2
	hasPatrol   bool

	rnd           func() float64
	attackFunc    AttackFunc
	scanFunc      ScanFunc
	getObjectFunc GetObjectFunc
}

// NewMonsterAI creates a controller for monster.
func NewMonsterAI(monster *model.Monster, attackFunc AttackFunc, scanFunc ScanFunc, getObjectFunc GetObjectFunc) *MonsterAI {
	return &MonsterAI{
		monster:       monster,
		params:        DefaultParams(),
		rnd:           rand.Float64,
		attackFunc:    attackFunc,
		scanFunc:      scanFunc,
		getObjectFunc: getObjectFunc,
	}
}

// SetParams overrides timings.
func (ai *MonsterAI) SetParams(p Params) {
	ai.params = p
}

// SetRandom replaces the uniform [0,1) source used for patrol points.
func (ai *MonsterAI) SetRandom(rnd func() float64) {
	ai.rnd = rnd
}

// Start starts the AI controller in Idle.
func (ai *MonsterAI) Start() {
	ai.isRunning.Store(true)
	ai.state = StateIdle
	ai.stateTimer = 0

	if IsDebugEnabled() {
		slog.Debug("monster AI started",
			"monster", ai.monster.Name(),
			"objectID", ai.monster.ObjectID(),
			"detectionRange", ai.monster.DetectionRange())
	}
}

// Stop stops the AI controller and halts the monster.
func (ai *MonsterAI) Stop() {
	ai.isRunning.Store(false)
	ai.targetID = 0
	ai.monster.Move(vec.Zero)
}

// State returns current state.
func (ai *MonsterAI) State() State { return ai.state }

// StateTimer returns seconds spent in the current state.
func (ai *MonsterAI) StateTimer() float64 { return ai.stateTimer }

// Target returns current target objectID (0 if no target).
func (ai *MonsterAI) Target() uint32 { return ai.targetID }

// PatrolPoint returns the current patrol destination.
func (ai *MonsterAI) PatrolPoint() (vec.Vec2, bool) { return ai.patrolPoint, ai.hasPatrol }

// Done reports whether the monster is dead or removed.
func (ai *MonsterAI) Done() bool {
	return !ai.monster.IsTargetable()
}

// Tick runs detection, then the current state's behaviour, then advances the state timer.
func (ai *MonsterAI) Tick(dt float64) {
	if !ai.isRunning.Load() || ai.Done() {
		return
	}

	ai.detect()

	switch ai.state {
	case StateIdle:
		ai.thinkIdle()
	case StatePatrol:
		ai.thinkPatrol()
	case StateChase:
		ai.thinkChase()
	case StateAttack:
		ai.thinkAttack()
	}

	ai.stateTimer += dt
}

// detect picks the nearest live enemy within detection range.
func (ai *MonsterAI) detect() {
	self := ai.monster.Character
	found := ai.scanFunc(self.Position(), ai.monster.DetectionRange(), func(c *model.Character) bool {
		return c != self && c.IsTargetable() && self.Faction().Opposes(c.Faction())
	})

	if len(found) == 0 {
		ai.targetID = 0
		if ai.state == StateChase || ai.state == StateAttack {
			ai.changeState(StateIdle)
		}
		return
	}

	target := found[0]
	ai.targetID = target.ObjectID()
	if self.Position().DistanceTo(target.Position()) <= self.AttackRange() {
		ai.changeState(StateAttack)
	} else if ai.state != StateAttack {
		ai.changeState(StateChase)
	}
}

func (ai *MonsterAI) thinkIdle() {
	ai.monster.Move(vec.Zero)
	if ai.stateTimer > ai.params.IdleDwell {
		ai.changeState(StatePatrol)
	}
}

func (ai *MonsterAI) thinkPatrol() {
	pos := ai.monster.Position()
	if !ai.hasPatrol || ai.stateTimer > ai.params.PatrolTimeout {
		ai.patrolPoint = pos.Add(vec.RandomInsideCircle(ai.rnd, ai.params.PatrolRadius))
		ai.hasPatrol = true
		ai.stateTimer = 0
	}

	dir := ai.patrolPoint.Sub(pos)
	if dir.Length() > ai.params.ArriveDistance {
		ai.monster.Move(dir)
		return
	}
	ai.changeState(StateIdle)
}

func (ai *MonsterAI) thinkChase() {
	target := ai.target()
	if target == nil {
		ai.changeState(StateIdle)
		return
	}
	ai.monster.Move(target.Position().Sub(ai.monster.Position()))
}

func (ai *MonsterAI) thinkAttack() {
	target := ai.target()
	if target == nil {
		ai.changeState(StateIdle)
		return
	}

	ai.monster.Move(vec.Zero)
	if ai.attackFunc != nil {
		ai.attackFunc(ai.monster, target.ObjectID())
	}

	if ai.monster.Position().DistanceTo(target.Position()) > ai.monster.AttackRange()*ai.params.LeashFactor {
		ai.changeState(StateChase)
	}
}

// target resolves the current target if it is still alive and in the world.
func (ai *MonsterAI) target() *model.Character {
	if ai.targetID == 0 {
		return nil
	}
	t := ai.getObjectFunc(ai.targetID)
	if t == nil || !t.IsTargetable() {
		ai.targetID = 0
		return nil
	}
	return t
}

// changeState switches state and resets the state timer, including on a
// transition to the current state. Leaving Patrol forgets the patrol point.
func (ai *MonsterAI) changeState(next State) {
	ai.stateTimer = 0
	if next == ai.state {
		return
	}
	if IsDebugEnabled() {
		slog.Debug("monster AI state change",
			"monster", ai.monster.Name(),
			"objectID", ai.monster.ObjectID(),
			"from", ai.state,
			"to", next,
			"target", ai.targetID)
	}
	if ai.state == StatePatrol {
		ai.hasPatrol = false
	}
	ai.state = next
}
