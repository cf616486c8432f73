package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kroner-engine/internal/model"
)

// OwnershipRepository handles cosmetic item ownership records.
// The (user_id, item_type, item_id) primary key is the idempotency
// mechanism: the first concurrent insert wins and later ones detect
// the conflict as "already owned".
type OwnershipRepository struct {
	pool *pgxpool.Pool
}

// NewOwnershipRepository creates a new OwnershipRepository instance.
func NewOwnershipRepository(pool *pgxpool.Pool) *OwnershipRepository {
	return &OwnershipRepository{pool: pool}
}

// Insert writes an ownership record. Returns whether a new row was
// inserted; false means the user already owned the item, which is
// never an error. Acquisition data is immutable once written - a
// conflicting insert leaves the original source and timestamp intact.
func (r *OwnershipRepository) Insert(ctx context.Context, userID int64, itemType, itemID, source string) (bool, error) {
	const query = `
		INSERT INTO ownership_records (user_id, item_type, item_id, source, acquired_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, item_type, item_id) DO NOTHING
	`
	result, err := r.pool.Exec(ctx, query, userID, itemType, itemID, source)
	if err != nil {
		return false, fmt.Errorf("failed to insert ownership record: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// Owns checks whether the user owns the given item.
func (r *OwnershipRepository) Owns(ctx context.Context, userID int64, itemType, itemID string) (bool, error) {
	const query = `
		SELECT EXISTS(
			SELECT 1 FROM ownership_records
			WHERE user_id = $1 AND item_type = $2 AND item_id = $3
		)
	`
	var owns bool
	if err := r.pool.QueryRow(ctx, query, userID, itemType, itemID).Scan(&owns); err != nil {
		return false, fmt.Errorf("failed to check ownership: %w", err)
	}
	return owns, nil
}

// Get retrieves one ownership record, or nil if the user does not own
// the item.
func (r *OwnershipRepository) Get(ctx context.Context, userID int64, itemType, itemID string) (*model.OwnershipRecord, error) {
	const query = `
		SELECT user_id, item_type, item_id, source, acquired_at
		FROM ownership_records
		WHERE user_id = $1 AND item_type = $2 AND item_id = $3
	`
	var rec model.OwnershipRecord
	err := r.pool.QueryRow(ctx, query, userID, itemType, itemID).Scan(
		&rec.UserID, &rec.ItemType, &rec.ItemID, &rec.Source, &rec.AcquiredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ownership record: %w", err)
	}
	return &rec, nil
}

// ListByUser returns every item the user owns, newest first.
func (r *OwnershipRepository) ListByUser(ctx context.Context, userID int64) ([]model.OwnershipRecord, error) {
	const query = `
		SELECT user_id, item_type, item_id, source, acquired_at
		FROM ownership_records
		WHERE user_id = $1
		ORDER BY acquired_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ownership records: %w", err)
	}
	defer rows.Close()

	var records []model.OwnershipRecord
	for rows.Next() {
		var rec model.OwnershipRecord
		if err := rows.Scan(&rec.UserID, &rec.ItemType, &rec.ItemID, &rec.Source, &rec.AcquiredAt); err != nil {
			return nil, fmt.Errorf("failed to scan ownership record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
