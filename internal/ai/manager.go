package ai

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// TickManager manages AI ticks for all registered monsters.
// Controllers tick in registration order; controllers whose owner is gone
// are unregistered on the next tick.
type TickManager struct {
	mu          sync.Mutex
	controllers map[uint32]Controller
	order       []uint32
}

// NewTickManager creates new AI tick manager
func NewTickManager() *TickManager {
	return &TickManager{
		controllers: make(map[uint32]Controller),
	}
}

// Register registers and starts the AI controller for a monster.
// Re-registering an objectID replaces (and stops) the previous controller.
func (m *TickManager) Register(objectID uint32, controller Controller) {
	m.mu.Lock()
	prev, exists := m.controllers[objectID]
	m.controllers[objectID] = controller
	if !exists {
		m.order = append(m.order, objectID)
	}
	m.mu.Unlock()

	if prev != nil {
		prev.Stop()
	}
	controller.Start()

	if IsDebugEnabled() {
		slog.Debug("AI controller registered",
			"objectID", objectID,
			"state", controller.State())
	}
}

// Unregister stops and removes the AI controller.
func (m *TickManager) Unregister(objectID uint32) {
	m.mu.Lock()
	controller, ok := m.controllers[objectID]
	if ok {
		delete(m.controllers, objectID)
		m.order = slices.DeleteFunc(m.order, func(id uint32) bool { return id == objectID })
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	controller.Stop()

	if IsDebugEnabled() {
		slog.Debug("AI controller unregistered", "objectID", objectID)
	}
}

// Tick advances every controller by dt in registration order.
func (m *TickManager) Tick(dt float64) {
	m.mu.Lock()
	ids := slices.Clone(m.order)
	m.mu.Unlock()

	var done []uint32
	for _, id := range ids {
		controller := m.controller(id)
		if controller == nil {
			continue
		}
		if controller.Done() {
			done = append(done, id)
			continue
		}
		controller.Tick(dt)
	}

	for _, id := range done {
		m.Unregister(id)
	}

	if len(ids) > 0 && IsDebugEnabled() {
		slog.Debug("AI tick completed", "controllers", len(ids), "dropped", len(done))
	}
}

// Count returns number of registered controllers
func (m *TickManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.controllers)
}

// GetController returns controller for a monster
func (m *TickManager) GetController(objectID uint32) (Controller, error) {
	if c := m.controller(objectID); c != nil {
		return c, nil
	}
	return nil, fmt.Errorf("controller not found for objectID %d", objectID)
}

func (m *TickManager) controller(objectID uint32) Controller {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.controllers[objectID]
}
