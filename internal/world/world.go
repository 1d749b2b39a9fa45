package world

import (
	"cmp"
	"slices"
	"sync"

	"github.com/udisondev/babeltower/internal/model"
	"github.com/udisondev/babeltower/internal/vec"
)

// World is the entity registry and uniform-grid spatial index.
// Characters are re-bucketed automatically whenever their position changes.
type World struct {
	cellSize float64

	mu      sync.RWMutex
	objects map[uint32]*model.Character
	cells   map[uint32]cellKey
	regions map[cellKey]*Region
	order   []uint32 // insertion order for deterministic iteration
}

// New creates an empty world. Non-positive cellSize uses DefaultCellSize.
func New(cellSize float64) *World {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &World{
		cellSize: cellSize,
		objects:  make(map[uint32]*model.Character),
		cells:    make(map[uint32]cellKey),
		regions:  make(map[cellKey]*Region),
	}
}

// Add inserts c into the world and starts tracking its movement.
// Adding an already-present object ID is a no-op.
func (w *World) Add(c *model.Character) {
	w.mu.Lock()
	if _, exists := w.objects[c.ObjectID()]; exists {
		w.mu.Unlock()
		return
	}
	w.objects[c.ObjectID()] = c
	w.order = append(w.order, c.ObjectID())
	w.placeLocked(c, c.Position())
	w.mu.Unlock()

	c.SetRelocationHook(w.relocate)
}

// Remove drops objectID from the world and marks the character removed.
// Returns the removed character or nil.
func (w *World) Remove(objectID uint32) *model.Character {
	w.mu.Lock()
	c, ok := w.objects[objectID]
	if !ok {
		w.mu.Unlock()
		return nil
	}
	delete(w.objects, objectID)
	if key, ok := w.cells[objectID]; ok {
		w.dropFromRegionLocked(key, objectID)
		delete(w.cells, objectID)
	}
	w.order = slices.DeleteFunc(w.order, func(id uint32) bool { return id == objectID })
	w.mu.Unlock()

	c.SetRelocationHook(nil)
	c.MarkRemoved()
	return c
}

// Entity returns the character by object ID, or nil.
func (w *World) Entity(objectID uint32) *model.Character {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.objects[objectID]
}

// Len returns number of characters in the world.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.objects)
}

// Characters returns all characters in insertion order.
func (w *World) Characters() []*model.Character {
	return w.snapshot()
}

// Players returns all players in insertion order.
func (w *World) Players() []*model.Player {
	var out []*model.Player
	for _, c := range w.snapshot() {
		if p, ok := c.Data.(*model.Player); ok {
			out = append(out, p)
		}
	}
	return out
}

// Monsters returns all monsters in insertion order.
func (w *World) Monsters() []*model.Monster {
	var out []*model.Monster
	for _, c := range w.snapshot() {
		if m, ok := c.Data.(*model.Monster); ok {
			out = append(out, m)
		}
	}
	return out
}

// QueryRadius returns characters within radius of center accepted by filter
// (nil accepts all), ordered by distance then object ID.
func (w *World) QueryRadius(center vec.Vec2, radius float64, filter func(*model.Character) bool) []*model.Character {
	if radius < 0 {
		return nil
	}

	type hit struct {
		c    *model.Character
		dist float64
	}
	var hits []hit

	r2 := radius * radius
	collect := func(region *Region) {
		for _, c := range region.objects {
			d := center.DistanceSquared(c.Position())
			if d <= r2 {
				hits = append(hits, hit{c: c, dist: d})
			}
		}
	}

	w.mu.RLock()
	lo, hi := cellsInRadius(center, radius, w.cellSize)
	if cellSpan(lo, hi) > int64(len(w.regions)) {
		// box wider than the occupied grid
		for key, region := range w.regions {
			if key.within(lo, hi) {
				collect(region)
			}
		}
	} else {
		for x := lo.x; x <= hi.x; x++ {
			for y := lo.y; y <= hi.y; y++ {
				if region, ok := w.regions[cellKey{x, y}]; ok {
					collect(region)
				}
			}
		}
	}
	w.mu.RUnlock()

	// filter outside the lock: filters read character state
	out := make([]*model.Character, 0, len(hits))
	slices.SortFunc(hits, func(a, b hit) int {
		if c := cmp.Compare(a.dist, b.dist); c != 0 {
			return c
		}
		return cmp.Compare(a.c.ObjectID(), b.c.ObjectID())
	})
	for _, h := range hits {
		if filter == nil || filter(h.c) {
			out = append(out, h.c)
		}
	}
	return out
}

// Nearest returns the closest character to center within radius accepted by filter.
func (w *World) Nearest(center vec.Vec2, radius float64, filter func(*model.Character) bool) *model.Character {
	found := w.QueryRadius(center, radius, filter)
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

func (w *World) snapshot() []*model.Character {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]*model.Character, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.objects[id])
	}
	return out
}

// relocate re-buckets c after a position change.
func (w *World) relocate(c *model.Character) {
	pos := c.Position()

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.objects[c.ObjectID()]; !ok {
		return
	}
	w.placeLocked(c, pos)
}

func (w *World) placeLocked(c *model.Character, pos vec.Vec2) {
	id := c.ObjectID()
	key := cellOf(pos, w.cellSize)
	if old, ok := w.cells[id]; ok {
		if old == key {
			return
		}
		w.dropFromRegionLocked(old, id)
	}

	region, ok := w.regions[key]
	if !ok {
		region = newRegion(key)
		w.regions[key] = region
	}
	region.add(c)
	w.cells[id] = key
}

func (w *World) dropFromRegionLocked(key cellKey, objectID uint32) {
	region, ok := w.regions[key]
	if !ok {
		return
	}
	region.remove(objectID)
	if region.empty() {
		delete(w.regions, key)
	}
}
