package service

import (
	"context"

	"kroner-engine/internal/model"
	"kroner-engine/internal/repository"
)

// InventoryService owns cosmetic item ownership records.
type InventoryService struct {
	ownershipRepo *repository.OwnershipRepository
}

// NewInventoryService creates a new InventoryService instance.
func NewInventoryService(ownershipRepo *repository.OwnershipRepository) *InventoryService {
	return &InventoryService{ownershipRepo: ownershipRepo}
}

// OwnsItem checks whether the user owns the given item.
func (s *InventoryService) OwnsItem(ctx context.Context, userID int64, itemType, itemID string) (bool, error) {
	return s.ownershipRepo.Owns(ctx, userID, itemType, itemID)
}

// Grant records item ownership. Idempotent: granting an item the user
// already owns succeeds without side effects and without a second row.
// Returns true for both a fresh grant and an already-owned repeat.
func (s *InventoryService) Grant(ctx context.Context, userID int64, itemType, itemID, source string) (bool, error) {
	_, err := s.ownershipRepo.Insert(ctx, userID, itemType, itemID, source)
	if err != nil {
		return false, err
	}
	return true, nil
}

// Items returns everything the user owns.
func (s *InventoryService) Items(ctx context.Context, userID int64) ([]model.OwnershipRecord, error) {
	return s.ownershipRepo.ListByUser(ctx, userID)
}
