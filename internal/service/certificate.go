package service

import (
	"context"
	"fmt"

	"kroner-engine/internal/model"
	"kroner-engine/internal/repository"
)

// CertificateService owns certificate issuance. Not user-initiated:
// callers are the battle pass progression (season completion) and the
// achievement engine (epic/legendary unlocks).
type CertificateService struct {
	certRepo *repository.CertificateRepository
}

// NewCertificateService creates a new CertificateService instance.
func NewCertificateService(certRepo *repository.CertificateRepository) *CertificateService {
	return &CertificateService{certRepo: certRepo}
}

// Issue records a certificate. Idempotent: a duplicate issuance is
// silently absorbed and reported as false, never an error.
func (s *CertificateService) Issue(ctx context.Context, userID int64, certType, certID, name string, seasonKey, rarity *string) (bool, error) {
	inserted, err := s.certRepo.Insert(ctx, &model.Certificate{
		UserID:          userID,
		CertificateType: certType,
		CertificateID:   certID,
		Name:            name,
		SeasonKey:       seasonKey,
		Rarity:          rarity,
	})
	if err != nil {
		return false, fmt.Errorf("failed to issue certificate: %w", err)
	}
	return inserted, nil
}

// Certificates returns every certificate the user has earned.
func (s *CertificateService) Certificates(ctx context.Context, userID int64) ([]model.Certificate, error) {
	return s.certRepo.ListByUser(ctx, userID)
}
