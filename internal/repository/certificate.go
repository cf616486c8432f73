package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"kroner-engine/internal/model"
)

// CertificateRepository handles certificate records. Issuance is
// idempotent through the (user_id, certificate_type, certificate_id)
// primary key.
type CertificateRepository struct {
	pool *pgxpool.Pool
}

// NewCertificateRepository creates a new CertificateRepository instance.
func NewCertificateRepository(pool *pgxpool.Pool) *CertificateRepository {
	return &CertificateRepository{pool: pool}
}

// Insert writes a certificate record. Returns whether the row was
// newly inserted; a duplicate issuance is silently absorbed as false.
func (r *CertificateRepository) Insert(ctx context.Context, cert *model.Certificate) (bool, error) {
	const query = `
		INSERT INTO certificates (user_id, certificate_type, certificate_id, name, season_key, rarity, earned_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (user_id, certificate_type, certificate_id) DO NOTHING
	`
	result, err := r.pool.Exec(ctx, query,
		cert.UserID, cert.CertificateType, cert.CertificateID,
		cert.Name, cert.SeasonKey, cert.Rarity,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert certificate: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// ListByUser returns every certificate the user has earned, newest first.
func (r *CertificateRepository) ListByUser(ctx context.Context, userID int64) ([]model.Certificate, error) {
	const query = `
		SELECT user_id, certificate_type, certificate_id, name, season_key, rarity, earned_at
		FROM certificates
		WHERE user_id = $1
		ORDER BY earned_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	defer rows.Close()

	var certs []model.Certificate
	for rows.Next() {
		var c model.Certificate
		if err := rows.Scan(&c.UserID, &c.CertificateType, &c.CertificateID, &c.Name, &c.SeasonKey, &c.Rarity, &c.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan certificate: %w", err)
		}
		certs = append(certs, c)
	}
	return certs, rows.Err()
}

// EarnedSince returns certificates earned after the cursor, oldest
// first. Used by the change-feed watcher.
func (r *CertificateRepository) EarnedSince(ctx context.Context, since time.Time) ([]model.Certificate, error) {
	const query = `
		SELECT user_id, certificate_type, certificate_id, name, season_key, rarity, earned_at
		FROM certificates
		WHERE earned_at > $1
		ORDER BY earned_at ASC
	`
	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query certificates: %w", err)
	}
	defer rows.Close()

	var certs []model.Certificate
	for rows.Next() {
		var c model.Certificate
		if err := rows.Scan(&c.UserID, &c.CertificateType, &c.CertificateID, &c.Name, &c.SeasonKey, &c.Rarity, &c.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan certificate: %w", err)
		}
		certs = append(certs, c)
	}
	return certs, rows.Err()
}
