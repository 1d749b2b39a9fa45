package spawn

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/udisondev/babeltower/internal/event"
	"github.com/udisondev/babeltower/internal/model"
	"github.com/udisondev/babeltower/internal/vec"
)

// ErrPointFull is returned by DoSpawn when a point already has Count live monsters.
var ErrPointFull = errors.New("spawn point is full")

// Spawner creates monsters in the world.
type Spawner interface {
	SpawnMonster(name string, tier model.Tier, level int, pos vec.Vec2) *model.Monster
}

// Point is a place that keeps up to Count monsters of one kind alive.
type Point struct {
	ID         int
	Name       string
	Tier       model.Tier
	Level      int
	Position   vec.Vec2
	Count      int     // live monsters kept at this point
	Radius     float64 // spawn scatter around Position
	RespawnMin float64 // seconds; zero disables respawn
	RespawnMax float64
}

type pointState struct {
	Point
	alive map[uint32]struct{}
}

// Manager manages spawn points and their monsters.
type Manager struct {
	spawner Spawner
	rnd     func() float64

	mu        sync.Mutex
	points    map[int]*pointState
	order     []int
	byMonster map[uint32]int // objectID → point ID

	respawns *RespawnTaskManager

	spawnCount atomic.Int32 // cached count of points
}

// NewManager creates new spawn manager
func NewManager(spawner Spawner) *Manager {
	m := &Manager{
		spawner:   spawner,
		rnd:       rand.Float64,
		points:    make(map[int]*pointState),
		byMonster: make(map[uint32]int),
	}
	m.respawns = NewRespawnTaskManager(m)
	return m
}

// SetRandom replaces the uniform [0,1) source used for scatter and respawn delay.
func (m *Manager) SetRandom(rnd func() float64) {
	m.rnd = rnd
}

// Respawns returns the respawn scheduler.
func (m *Manager) Respawns() *RespawnTaskManager {
	return m.respawns
}

// AddPoint registers a spawn point.
func (m *Manager) AddPoint(p Point) error {
	if p.Count < 1 {
		return fmt.Errorf("spawn point %d: count must be positive, got %d", p.ID, p.Count)
	}
	if p.RespawnMax < p.RespawnMin {
		p.RespawnMax = p.RespawnMin
	}
	p.Level = max(p.Level, 1)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, dup := m.points[p.ID]; dup {
		return fmt.Errorf("spawn point %d: duplicate id", p.ID)
	}
	m.points[p.ID] = &pointState{Point: p, alive: make(map[uint32]struct{}, p.Count)}
	m.order = append(m.order, p.ID)
	m.spawnCount.Add(1)
	return nil
}

// DoSpawn spawns one monster at point pointID.
func (m *Manager) DoSpawn(pointID int) (*model.Monster, error) {
	m.mu.Lock()
	ps, ok := m.points[pointID]
	if !ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("spawn point %d not found", pointID)
	}
	if len(ps.alive) >= ps.Count {
		m.mu.Unlock()
		return nil, fmt.Errorf("spawn point %d (%d/%d): %w", pointID, len(ps.alive), ps.Count, ErrPointFull)
	}
	p := ps.Point
	pos := p.Position.Add(vec.RandomInsideCircle(m.rnd, p.Radius))
	m.mu.Unlock()

	// spawner takes the simulation lock; ours must not be held
	monster := m.spawner.SpawnMonster(p.Name, p.Tier, p.Level, pos)

	m.mu.Lock()
	ps.alive[monster.ObjectID()] = struct{}{}
	m.byMonster[monster.ObjectID()] = pointID
	m.mu.Unlock()

	slog.Debug("monster spawned at point",
		"objectID", monster.ObjectID(),
		"name", p.Name,
		"pointID", pointID)

	// a tick between SpawnMonster and the bookkeeping above may already have
	// killed it; the death event found no slot then
	if monster.IsDead() {
		m.onMonsterDeath(monster.ObjectID())
	}
	return monster, nil
}

// SpawnAll fills every point up to its count.
func (m *Manager) SpawnAll() (int, error) {
	m.mu.Lock()
	ids := slices.Clone(m.order)
	m.mu.Unlock()

	count := 0
	for _, id := range ids {
		for {
			_, err := m.DoSpawn(id)
			if errors.Is(err, ErrPointFull) {
				break
			}
			if err != nil {
				return count, fmt.Errorf("spawning all monsters: %w", err)
			}
			count++
		}
	}

	slog.Info("all monsters spawned", "count", count, "points", len(ids))
	return count, nil
}

// Listener returns the bus listener that frees point slots on monster death
// and schedules respawns.
func (m *Manager) Listener() event.Listener {
	return func(ev event.Event) {
		if ev.Kind != event.KindDeath || ev.Faction != model.FactionMonster.String() {
			return
		}
		m.onMonsterDeath(ev.EntityID)
	}
}

func (m *Manager) onMonsterDeath(objectID uint32) {
	m.mu.Lock()
	pointID, ok := m.byMonster[objectID]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.byMonster, objectID)
	ps := m.points[pointID]
	delete(ps.alive, objectID)
	p := ps.Point
	m.mu.Unlock()

	if p.RespawnMin <= 0 && p.RespawnMax <= 0 {
		return
	}
	m.respawns.ScheduleRespawn(pointID, CalculateRespawnDelay(p, m.rnd))
}

// Alive returns number of live monsters at pointID.
func (m *Manager) Alive(pointID int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ps, ok := m.points[pointID]; ok {
		return len(ps.alive)
	}
	return 0
}

// PointOf returns the spawn point a monster belongs to.
func (m *Manager) PointOf(objectID uint32) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byMonster[objectID]
	return id, ok
}

// SpawnCount returns total number of spawn points (O(1) cached count)
func (m *Manager) SpawnCount() int {
	return int(m.spawnCount.Load())
}

// CalculateRespawnDelay returns a delay in [RespawnMin, RespawnMax] seconds.
func CalculateRespawnDelay(p Point, rnd func() float64) float64 {
	if p.RespawnMax <= p.RespawnMin {
		return p.RespawnMin
	}
	return p.RespawnMin + rnd()*(p.RespawnMax-p.RespawnMin)
}
