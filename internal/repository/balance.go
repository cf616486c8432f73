// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kroner-engine/internal/model"
)

// Common errors for repository operations.
var (
	ErrBalanceNotFound = errors.New("balance not found")
	ErrStateNotFound   = errors.New("battle pass state not found")
)

// BalanceRepository handles Kroner balance persistence. All mutations
// are single atomic statements; the affordability check on Spend is
// part of the UPDATE itself, never a separate read.
type BalanceRepository struct {
	pool *pgxpool.Pool
}

// NewBalanceRepository creates a new BalanceRepository instance.
func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{pool: pool}
}

const balanceColumns = "user_id, lifetime, spendable, created_at, updated_at"

func scanBalance(row pgx.Row) (*model.Balance, error) {
	var b model.Balance
	err := row.Scan(&b.UserID, &b.Lifetime, &b.Spendable, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Ensure creates a zero-valued balance row for the user if one does
// not exist yet, and returns the current row either way. Profile
// creation calls this once; repeated calls are no-ops.
func (r *BalanceRepository) Ensure(ctx context.Context, userID int64) (*model.Balance, error) {
	const query = `
		INSERT INTO balances (user_id, lifetime, spendable, created_at, updated_at)
		VALUES ($1, 0, 0, NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return nil, fmt.Errorf("failed to ensure balance: %w", err)
	}
	return r.Get(ctx, userID)
}

// Get retrieves a user's balance.
// Returns ErrBalanceNotFound if the user has no balance row.
func (r *BalanceRepository) Get(ctx context.Context, userID int64) (*model.Balance, error) {
	const query = `SELECT ` + balanceColumns + ` FROM balances WHERE user_id = $1`

	b, err := scanBalance(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBalanceNotFound
		}
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return b, nil
}

// Award atomically increments both lifetime and spendable by amount.
// Lifetime never decreases through any repository operation.
func (r *BalanceRepository) Award(ctx context.Context, userID int64, amount int64) (*model.Balance, error) {
	const query = `
		UPDATE balances
		SET lifetime = lifetime + $2, spendable = spendable + $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + balanceColumns

	b, err := scanBalance(r.pool.QueryRow(ctx, query, userID, amount))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBalanceNotFound
		}
		return nil, fmt.Errorf("failed to award balance: %w", err)
	}
	return b, nil
}

// Spend decrements spendable by amount iff the balance can afford it,
// as one conditional UPDATE. Two concurrent calls can therefore never
// jointly overdraw: the row predicate re-checks affordability under
// the row lock. Returns false with the current balance when the
// predicate rejects the decrement.
func (r *BalanceRepository) Spend(ctx context.Context, userID int64, amount int64) (bool, *model.Balance, error) {
	const query = `
		UPDATE balances
		SET spendable = spendable - $2, updated_at = NOW()
		WHERE user_id = $1 AND spendable >= $2
		RETURNING ` + balanceColumns

	b, err := scanBalance(r.pool.QueryRow(ctx, query, userID, amount))
	if err == nil {
		return true, b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, nil, fmt.Errorf("failed to spend balance: %w", err)
	}

	// Rejected: either insufficient funds or no such user.
	current, err := r.Get(ctx, userID)
	if err != nil {
		return false, nil, err
	}
	return false, current, nil
}

// ChangedSince returns balances updated after the cursor, oldest
// first. Used by the change-feed watcher.
func (r *BalanceRepository) ChangedSince(ctx context.Context, since time.Time) ([]*model.Balance, error) {
	const query = `
		SELECT ` + balanceColumns + `
		FROM balances
		WHERE updated_at > $1
		ORDER BY updated_at ASC
	`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query changed balances: %w", err)
	}
	defer rows.Close()

	var balances []*model.Balance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balances: %w", err)
	}
	return balances, nil
}
