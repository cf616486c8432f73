package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"kroner-engine/internal/model"
)

// GiftRepository handles the append-only gift transaction audit log.
// Rows are never updated or deleted.
type GiftRepository struct {
	pool *pgxpool.Pool
}

// NewGiftRepository creates a new GiftRepository instance.
func NewGiftRepository(pool *pgxpool.Pool) *GiftRepository {
	return &GiftRepository{pool: pool}
}

// Create appends a gift transaction record.
func (r *GiftRepository) Create(ctx context.Context, senderID, recipientID, amount int64, message *string) (*model.GiftTransaction, error) {
	const query = `
		INSERT INTO gift_transactions (id, sender_id, recipient_id, amount, message, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, sender_id, recipient_id, amount, message, created_at
	`

	var gift model.GiftTransaction
	err := r.pool.QueryRow(ctx, query, uuid.NewString(), senderID, recipientID, amount, message).Scan(
		&gift.ID,
		&gift.SenderID,
		&gift.RecipientID,
		&gift.Amount,
		&gift.Message,
		&gift.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gift transaction: %w", err)
	}
	return &gift, nil
}

// ListBySender returns gift transactions sent by a user, newest first.
func (r *GiftRepository) ListBySender(ctx context.Context, senderID int64, limit int) ([]model.GiftTransaction, error) {
	const query = `
		SELECT id, sender_id, recipient_id, amount, message, created_at
		FROM gift_transactions
		WHERE sender_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, senderID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list gift transactions: %w", err)
	}
	defer rows.Close()

	var gifts []model.GiftTransaction
	for rows.Next() {
		var g model.GiftTransaction
		if err := rows.Scan(&g.ID, &g.SenderID, &g.RecipientID, &g.Amount, &g.Message, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan gift transaction: %w", err)
		}
		gifts = append(gifts, g)
	}
	return gifts, rows.Err()
}
