package db

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/babeltower/internal/model"
)

// KillStore persists kill records.
type KillStore interface {
	SaveKills(ctx context.Context, records []KillRecord) error
}

// Ledger buffers monster kills and their reward grants from the simulation
// tick and writes them to the store in batches, off the tick path.
type Ledger struct {
	store KillStore
	now   func() time.Time

	mu      sync.Mutex
	pending []KillRecord
}

// NewLedger creates a Ledger writing to store.
func NewLedger(store KillStore) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// RecordKill queues one kill and the players it rewarded.
// Called after rewards are applied, so player levels are post-grant.
func (l *Ledger) RecordKill(monster *model.Monster, rewarded []*model.Player) {
	pos := monster.Position()
	rec := KillRecord{
		Kill: KillRow{
			KillID:      uuid.New(),
			MonsterID:   monster.ObjectID(),
			MonsterName: monster.Name(),
			Exp:         monster.ExpReward(),
			Gold:        monster.GoldReward(),
			X:           pos.X,
			Y:           pos.Y,
			KilledAt:    l.now().UTC(),
		},
		Grants: make([]GrantRow, 0, len(rewarded)),
	}
	for _, p := range rewarded {
		rec.Grants = append(rec.Grants, GrantRow{
			KillID:     rec.Kill.KillID,
			PlayerID:   p.ObjectID(),
			PlayerName: p.Name(),
			Exp:        rec.Kill.Exp,
			Gold:       rec.Kill.Gold,
			LevelAfter: p.Level(),
		})
	}

	l.mu.Lock()
	l.pending = append(l.pending, rec)
	l.mu.Unlock()
}

// Pending returns number of kills not yet written.
func (l *Ledger) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Flush writes all pending kills. On failure they are put back in front of
// anything recorded meanwhile and retried on the next flush.
func (l *Ledger) Flush(ctx context.Context) error {
	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	l.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	if err := l.store.SaveKills(ctx, batch); err != nil {
		l.mu.Lock()
		l.pending = append(batch, l.pending...)
		l.mu.Unlock()
		return err
	}

	slog.Debug("reward ledger flushed", "kills", len(batch))
	return nil
}

// Run flushes every interval until ctx is canceled, then flushes once more.
func (l *Ledger) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("reward ledger started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			// Final flush before exit
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			if err := l.Flush(flushCtx); err != nil {
				slog.Error("final reward ledger flush", "pending", l.Pending(), "error", err)
			}
			cancel()
			slog.Info("reward ledger stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := l.Flush(ctx); err != nil {
				slog.Warn("reward ledger flush", "pending", l.Pending(), "error", err)
			}
		}
	}
}
