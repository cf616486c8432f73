package service

import (
	"context"
	"errors"
	"fmt"

	"kroner-engine/internal/catalog"
	"kroner-engine/internal/model"
	"kroner-engine/internal/notify"
	"kroner-engine/internal/repository"
)

// Shop errors.
var (
	ErrUnknownItem  = errors.New("item not in shop catalog")
	ErrAlreadyOwned = errors.New("item already owned")
)

// ShopService composes the ledger spend and the inventory grant into
// the purchase operation.
type ShopService struct {
	ledger        *LedgerService
	inventory     *InventoryService
	ownershipRepo *repository.OwnershipRepository
	activityRepo  *repository.ActivityRepository
	notifier      notify.Notifier
}

// NewShopService creates a new ShopService instance.
func NewShopService(
	ledger *LedgerService,
	inventory *InventoryService,
	ownershipRepo *repository.OwnershipRepository,
	activityRepo *repository.ActivityRepository,
	notifier notify.Notifier,
) *ShopService {
	return &ShopService{
		ledger:        ledger,
		inventory:     inventory,
		ownershipRepo: ownershipRepo,
		activityRepo:  activityRepo,
		notifier:      notifier,
	}
}

// Items returns the shop catalog.
func (s *ShopService) Items() map[string]catalog.ShopItem {
	return catalog.ShopItems
}

// Purchase buys a shop item: ownership check, conditional spend, then
// grant. Currency is deducted before ownership is written. If the
// grant fails after the committed debit, the error wraps
// ErrPartialFailure; there is no compensating refund.
func (s *ShopService) Purchase(ctx context.Context, userID int64, itemID string) (*model.OwnershipRecord, error) {
	item, ok := catalog.GetShopItem(itemID)
	if !ok {
		return nil, ErrUnknownItem
	}

	owned, err := s.inventory.OwnsItem(ctx, userID, item.ItemType, item.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to check ownership: %w", err)
	}
	if owned {
		return nil, ErrAlreadyOwned
	}

	ok, _, err = s.ledger.Spend(ctx, userID, item.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to spend for purchase: %w", err)
	}
	if !ok {
		return nil, ErrInsufficientFunds
	}

	// Debited from here on; a failed grant is a partial failure.
	if _, err := s.inventory.Grant(ctx, userID, item.ItemType, item.ItemID, model.SourceShop); err != nil {
		return nil, fmt.Errorf("%w: grant failed after debit: %v", ErrPartialFailure, err)
	}

	s.activityRepo.Append(ctx, userID, model.ActivityShopPurchase, map[string]any{
		"item_type": item.ItemType,
		"item_id":   item.ItemID,
		"price":     item.Price,
	})
	s.notifier.Notify(userID, "Purchase complete", item.Name)

	record, err := s.ownershipRepo.Get(ctx, userID, item.ItemType, item.ItemID)
	if err != nil || record == nil {
		// The purchase itself succeeded; fall back to a local snapshot.
		return &model.OwnershipRecord{
			UserID:   userID,
			ItemType: item.ItemType,
			ItemID:   item.ItemID,
			Source:   model.SourceShop,
		}, nil
	}
	return record, nil
}
