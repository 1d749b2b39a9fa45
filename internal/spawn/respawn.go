package spawn

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// RespawnTask represents a scheduled respawn task
type RespawnTask struct {
	PointID     int
	RespawnTime time.Time
}

// RespawnTaskManager manages scheduled respawns
type RespawnTaskManager struct {
	spawnManager *Manager
	now          func() time.Time

	mu    sync.Mutex
	tasks []RespawnTask // one per dead monster, any order
}

// NewRespawnTaskManager creates new respawn task manager
func NewRespawnTaskManager(spawnManager *Manager) *RespawnTaskManager {
	return &RespawnTaskManager{
		spawnManager: spawnManager,
		now:          time.Now,
	}
}

// Run processes due respawns every interval (blocks until context is canceled)
func (m *RespawnTaskManager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("respawn task manager started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("respawn task manager stopping", "pending", m.TaskCount())
			return ctx.Err()

		case now := <-ticker.C:
			m.ProcessTasks(now)
		}
	}
}

// ScheduleRespawn schedules respawn at pointID after delay (in seconds)
func (m *RespawnTaskManager) ScheduleRespawn(pointID int, delaySeconds float64) {
	respawnTime := m.now().Add(time.Duration(delaySeconds * float64(time.Second)))

	m.mu.Lock()
	m.tasks = append(m.tasks, RespawnTask{PointID: pointID, RespawnTime: respawnTime})
	m.mu.Unlock()

	slog.Debug("respawn scheduled",
		"pointID", pointID,
		"delaySeconds", delaySeconds,
		"respawnTime", respawnTime.Format(time.RFC3339))
}

// ProcessTasks respawns every task due at now. Returns number of monsters spawned.
func (m *RespawnTaskManager) ProcessTasks(now time.Time) int {
	m.mu.Lock()
	var due []RespawnTask
	kept := m.tasks[:0]
	for _, task := range m.tasks {
		if !now.Before(task.RespawnTime) {
			due = append(due, task)
			continue
		}
		kept = append(kept, task)
	}
	m.tasks = kept
	m.mu.Unlock()

	// spawn outside lock: the spawner takes the simulation lock
	spawned := 0
	for _, task := range due {
		monster, err := m.spawnManager.DoSpawn(task.PointID)
		if errors.Is(err, ErrPointFull) {
			slog.Debug("respawn skipped (point full)", "pointID", task.PointID)
			continue
		}
		if err != nil {
			slog.Error("respawn failed", "pointID", task.PointID, "error", err)
			continue
		}
		spawned++

		slog.Info("monster respawned",
			"objectID", monster.ObjectID(),
			"name", monster.Name(),
			"pointID", task.PointID)
	}
	return spawned
}

// TaskCount returns number of scheduled respawn tasks
func (m *RespawnTaskManager) TaskCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}
