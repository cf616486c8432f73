package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"kroner-engine/internal/model"
)

// ActivityRepository appends activity-feed records. The feed is a
// fire-and-forget sink: Append logs failures and never returns them,
// so a broken feed cannot roll back the economic operation that
// produced the entry.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository creates a new ActivityRepository instance.
func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

// Append records an activity entry. Data is marshalled to JSON; both
// marshal and insert failures are logged and swallowed.
func (r *ActivityRepository) Append(ctx context.Context, userID int64, activityType string, data map[string]any) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Str("activity_type", activityType).
			Msg("Failed to marshal activity data")
		return
	}

	const query = `
		INSERT INTO activity_feed (user_id, activity_type, activity_data, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	if _, err := r.pool.Exec(ctx, query, userID, activityType, payload); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Str("activity_type", activityType).
			Msg("Failed to append activity entry")
	}
}

// ListByUser returns a user's activity entries, newest first.
func (r *ActivityRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]model.ActivityEntry, error) {
	const query = `
		SELECT id, user_id, activity_type, activity_data, created_at
		FROM activity_feed
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity entries: %w", err)
	}
	defer rows.Close()

	var entries []model.ActivityEntry
	for rows.Next() {
		var e model.ActivityEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.ActivityType, &e.ActivityData, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
