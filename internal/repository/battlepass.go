package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kroner-engine/internal/model"
)

// BattlePassRepository handles per-user, per-season progression state.
// Level transitions are claimed with a compare-and-swap so that
// exactly one caller applies the rewards for any given transition.
type BattlePassRepository struct {
	pool *pgxpool.Pool
}

// NewBattlePassRepository creates a new BattlePassRepository instance.
func NewBattlePassRepository(pool *pgxpool.Pool) *BattlePassRepository {
	return &BattlePassRepository{pool: pool}
}

const stateColumns = "user_id, season_key, current_level, xp, created_at, updated_at"

func scanState(row pgx.Row) (*model.BattlePassState, error) {
	var s model.BattlePassState
	err := row.Scan(&s.UserID, &s.SeasonKey, &s.CurrentLevel, &s.XP, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Ensure creates a zero-valued state row for the user and season if
// one does not exist yet, and returns the current row either way.
func (r *BattlePassRepository) Ensure(ctx context.Context, userID int64, seasonKey string) (*model.BattlePassState, error) {
	const query = `
		INSERT INTO battle_pass_states (user_id, season_key, current_level, xp, created_at, updated_at)
		VALUES ($1, $2, 0, 0, NOW(), NOW())
		ON CONFLICT (user_id, season_key) DO NOTHING
	`
	if _, err := r.pool.Exec(ctx, query, userID, seasonKey); err != nil {
		return nil, fmt.Errorf("failed to ensure battle pass state: %w", err)
	}
	return r.Get(ctx, userID, seasonKey)
}

// Get retrieves the progression state for a user and season.
// Returns ErrStateNotFound if no row exists.
func (r *BattlePassRepository) Get(ctx context.Context, userID int64, seasonKey string) (*model.BattlePassState, error) {
	const query = `
		SELECT ` + stateColumns + `
		FROM battle_pass_states
		WHERE user_id = $1 AND season_key = $2
	`
	s, err := scanState(r.pool.QueryRow(ctx, query, userID, seasonKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to get battle pass state: %w", err)
	}
	return s, nil
}

// ClaimTransition advances the level from exactly oldLevel to newLevel
// as a compare-and-swap. Returns false when the row no longer holds
// oldLevel, meaning a concurrent writer claimed the transition first;
// the caller must not apply rewards in that case. Level can only move
// upward: newLevel <= oldLevel is rejected by the predicate.
func (r *BattlePassRepository) ClaimTransition(ctx context.Context, userID int64, seasonKey string, oldLevel, newLevel int, xp int64) (bool, *model.BattlePassState, error) {
	const query = `
		UPDATE battle_pass_states
		SET current_level = $4, xp = $5, updated_at = NOW()
		WHERE user_id = $1 AND season_key = $2 AND current_level = $3 AND current_level < $4
		RETURNING ` + stateColumns

	s, err := scanState(r.pool.QueryRow(ctx, query, userID, seasonKey, oldLevel, newLevel, xp))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil, nil
		}
		return false, nil, fmt.Errorf("failed to claim level transition: %w", err)
	}
	return true, s, nil
}
