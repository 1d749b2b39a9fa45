package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// KillRow represents a row from monster_kills.
type KillRow struct {
	KillID      uuid.UUID
	MonsterID   uint32
	MonsterName string
	Exp         int
	Gold        int
	X, Y        float64
	KilledAt    time.Time
}

// GrantRow represents a row from player_rewards.
type GrantRow struct {
	KillID     uuid.UUID
	PlayerID   uint32
	PlayerName string
	Exp        int
	Gold       int
	LevelAfter int
}

// KillRecord is one kill with every reward it granted.
type KillRecord struct {
	Kill   KillRow
	Grants []GrantRow
}

// PlayerTotals aggregates player_rewards per player.
type PlayerTotals struct {
	PlayerID   uint32
	PlayerName string
	Kills      int64
	Exp        int64
	Gold       int64
}

// RewardRepository provides persistence for the reward ledger tables.
type RewardRepository struct {
	pool *pgxpool.Pool
}

// NewRewardRepository creates a new RewardRepository.
func NewRewardRepository(pool *pgxpool.Pool) *RewardRepository {
	return &RewardRepository{pool: pool}
}

// SaveKills inserts kill records and their grants in a single transaction.
// Re-saving a kill ID is a no-op.
func (r *RewardRepository) SaveKills(ctx context.Context, records []KillRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin ledger transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			slog.Error("ledger rollback failed", "error", err)
		}
	}()

	batch := &pgx.Batch{}
	for _, rec := range records {
		k := rec.Kill
		batch.Queue(
			`INSERT INTO monster_kills (kill_id, monster_id, monster_name, exp, gold, pos_x, pos_y, killed_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (kill_id) DO NOTHING`,
			k.KillID, int64(k.MonsterID), k.MonsterName, k.Exp, k.Gold, k.X, k.Y, k.KilledAt)
		for _, g := range rec.Grants {
			batch.Queue(
				`INSERT INTO player_rewards (kill_id, player_id, player_name, exp, gold, level_after)
				 VALUES ($1, $2, $3, $4, $5, $6)
				 ON CONFLICT (kill_id, player_id) DO NOTHING`,
				k.KillID, int64(g.PlayerID), g.PlayerName, g.Exp, g.Gold, g.LevelAfter)
		}
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert ledger batch (%d kills): %w", len(records), err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit ledger transaction: %w", err)
	}
	return nil
}

// RecentKills returns the latest kills, newest first.
func (r *RewardRepository) RecentKills(ctx context.Context, limit int) ([]KillRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT kill_id, monster_id, monster_name, exp, gold, pos_x, pos_y, killed_at
		 FROM monster_kills ORDER BY killed_at DESC, kill_id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query monster_kills: %w", err)
	}
	defer rows.Close()

	var result []KillRow
	for rows.Next() {
		var (
			row       KillRow
			monsterID int64
		)
		if err := rows.Scan(&row.KillID, &monsterID, &row.MonsterName, &row.Exp, &row.Gold, &row.X, &row.Y, &row.KilledAt); err != nil {
			return nil, fmt.Errorf("scan monster_kills: %w", err)
		}
		row.MonsterID = uint32(monsterID)
		result = append(result, row)
	}
	return result, rows.Err()
}

// GrantsForKill returns the rewards granted by one kill, by player ID.
func (r *RewardRepository) GrantsForKill(ctx context.Context, killID uuid.UUID) ([]GrantRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT kill_id, player_id, player_name, exp, gold, level_after
		 FROM player_rewards WHERE kill_id = $1 ORDER BY player_id`, killID)
	if err != nil {
		return nil, fmt.Errorf("query player_rewards for kill %s: %w", killID, err)
	}
	defer rows.Close()

	var result []GrantRow
	for rows.Next() {
		var (
			row      GrantRow
			playerID int64
		)
		if err := rows.Scan(&row.KillID, &playerID, &row.PlayerName, &row.Exp, &row.Gold, &row.LevelAfter); err != nil {
			return nil, fmt.Errorf("scan player_rewards: %w", err)
		}
		row.PlayerID = uint32(playerID)
		result = append(result, row)
	}
	return result, rows.Err()
}

// TotalsByPlayer sums granted exp and gold per player, highest exp first.
func (r *RewardRepository) TotalsByPlayer(ctx context.Context) ([]PlayerTotals, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT player_id, max(player_name), count(*), coalesce(sum(exp), 0), coalesce(sum(gold), 0)
		 FROM player_rewards GROUP BY player_id ORDER BY 4 DESC, player_id`)
	if err != nil {
		return nil, fmt.Errorf("query player reward totals: %w", err)
	}
	defer rows.Close()

	var result []PlayerTotals
	for rows.Next() {
		var (
			row      PlayerTotals
			playerID int64
		)
		if err := rows.Scan(&playerID, &row.PlayerName, &row.Kills, &row.Exp, &row.Gold); err != nil {
			return nil, fmt.Errorf("scan player reward totals: %w", err)
		}
		row.PlayerID = uint32(playerID)
		result = append(result, row)
	}
	return result, rows.Err()
}
