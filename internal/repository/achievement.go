package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"kroner-engine/internal/model"
)

// AchievementRepository handles achievement unlock records. The
// (user_id, achievement_id) primary key guarantees at-most-once
// unlocks under concurrent grant attempts.
type AchievementRepository struct {
	pool *pgxpool.Pool
}

// NewAchievementRepository creates a new AchievementRepository instance.
func NewAchievementRepository(pool *pgxpool.Pool) *AchievementRepository {
	return &AchievementRepository{pool: pool}
}

// InsertUnlock records an achievement unlock. Returns whether the row
// was newly inserted; a concurrent duplicate resolves to false, never
// an error.
func (r *AchievementRepository) InsertUnlock(ctx context.Context, userID int64, achievementID string) (bool, error) {
	const query = `
		INSERT INTO achievement_unlocks (user_id, achievement_id, unlocked_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, achievement_id) DO NOTHING
	`
	result, err := r.pool.Exec(ctx, query, userID, achievementID)
	if err != nil {
		return false, fmt.Errorf("failed to insert achievement unlock: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// IsUnlocked checks whether the user has unlocked the achievement.
func (r *AchievementRepository) IsUnlocked(ctx context.Context, userID int64, achievementID string) (bool, error) {
	const query = `
		SELECT EXISTS(
			SELECT 1 FROM achievement_unlocks
			WHERE user_id = $1 AND achievement_id = $2
		)
	`
	var unlocked bool
	if err := r.pool.QueryRow(ctx, query, userID, achievementID).Scan(&unlocked); err != nil {
		return false, fmt.Errorf("failed to check achievement unlock: %w", err)
	}
	return unlocked, nil
}

// UnlockedIDs returns the IDs of every achievement the user has
// unlocked. Point totals are recomputed from this set on every read.
func (r *AchievementRepository) UnlockedIDs(ctx context.Context, userID int64) ([]string, error) {
	const query = `
		SELECT achievement_id FROM achievement_unlocks
		WHERE user_id = $1
		ORDER BY unlocked_at ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievement unlocks: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan achievement unlock: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UnlocksSince returns unlock rows recorded after the cursor, oldest
// first. Used by the change-feed watcher.
func (r *AchievementRepository) UnlocksSince(ctx context.Context, since time.Time) ([]model.AchievementUnlock, error) {
	const query = `
		SELECT user_id, achievement_id, unlocked_at
		FROM achievement_unlocks
		WHERE unlocked_at > $1
		ORDER BY unlocked_at ASC
	`
	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievement unlocks: %w", err)
	}
	defer rows.Close()

	var unlocks []model.AchievementUnlock
	for rows.Next() {
		var u model.AchievementUnlock
		if err := rows.Scan(&u.UserID, &u.AchievementID, &u.UnlockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement unlock: %w", err)
		}
		unlocks = append(unlocks, u)
	}
	return unlocks, rows.Err()
}
