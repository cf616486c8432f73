// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"fmt"

	"kroner-engine/internal/model"
	"kroner-engine/internal/repository"
)

// Ledger-related errors.
var (
	ErrInvalidAmount     = errors.New("invalid amount: must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSelfGift          = errors.New("cannot gift to self")
	// ErrPartialFailure marks a composite operation where an earlier
	// step committed but a later one did not. There is no compensating
	// refund; callers detect this distinctly from ordinary failures.
	ErrPartialFailure = errors.New("partial failure: earlier step committed")
)

// LedgerService owns the Kroner currency counters: award, spend, gift.
type LedgerService struct {
	balanceRepo  *repository.BalanceRepository
	giftRepo     *repository.GiftRepository
	activityRepo *repository.ActivityRepository
}

// NewLedgerService creates a new LedgerService instance.
func NewLedgerService(
	balanceRepo *repository.BalanceRepository,
	giftRepo *repository.GiftRepository,
	activityRepo *repository.ActivityRepository,
) *LedgerService {
	return &LedgerService{
		balanceRepo:  balanceRepo,
		giftRepo:     giftRepo,
		activityRepo: activityRepo,
	}
}

// EnsureBalance creates the zero-valued balance row on first profile
// creation. Safe to call repeatedly.
func (s *LedgerService) EnsureBalance(ctx context.Context, userID int64) (*model.Balance, error) {
	return s.balanceRepo.Ensure(ctx, userID)
}

// Balance returns the current balance snapshot.
func (s *LedgerService) Balance(ctx context.Context, userID int64) (*model.Balance, error) {
	return s.balanceRepo.Get(ctx, userID)
}

// Award credits amount to both lifetime and spendable in one atomic
// update. Rejects non-positive amounts before any mutation. An
// activity-feed record with the amount and reason is appended
// fire-and-forget.
func (s *LedgerService) Award(ctx context.Context, userID int64, amount int64, reason string) (*model.Balance, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	balance, err := s.balanceRepo.Award(ctx, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to award kroner: %w", err)
	}

	s.activityRepo.Append(ctx, userID, model.ActivityKronerAwarded, map[string]any{
		"amount": amount,
		"reason": reason,
	})

	return balance, nil
}

// Spend debits amount from spendable iff the balance can afford it.
// Insufficient funds is an expected business outcome: the first return
// value is false and err is nil. The affordability check and the
// decrement are one conditional update in the store, so concurrent
// spends can never jointly overdraw.
func (s *LedgerService) Spend(ctx context.Context, userID int64, amount int64) (bool, *model.Balance, error) {
	if amount <= 0 {
		return false, nil, ErrInvalidAmount
	}
	return s.balanceRepo.Spend(ctx, userID, amount)
}

// Gift moves amount from sender to recipient: a conditional spend on
// the sender, an award to the recipient, and an append-only gift
// record. The two balances are independent rows and this is not a
// single atomic unit; if the recipient-side award fails after the
// sender was debited, the error wraps ErrPartialFailure and the amount
// is lost from circulation.
func (s *LedgerService) Gift(ctx context.Context, senderID, recipientID, amount int64, message *string) (*model.GiftTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if senderID == recipientID {
		return nil, ErrSelfGift
	}

	ok, _, err := s.balanceRepo.Spend(ctx, senderID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to debit sender: %w", err)
	}
	if !ok {
		return nil, ErrInsufficientFunds
	}

	// Sender is debited from here on; failures below are partial.
	if _, err := s.balanceRepo.Award(ctx, recipientID, amount); err != nil {
		return nil, fmt.Errorf("%w: recipient award failed after sender debit: %v", ErrPartialFailure, err)
	}

	gift, err := s.giftRepo.Create(ctx, senderID, recipientID, amount, message)
	if err != nil {
		return nil, fmt.Errorf("%w: gift record failed after transfer: %v", ErrPartialFailure, err)
	}

	s.activityRepo.Append(ctx, senderID, model.ActivityGiftSent, map[string]any{
		"amount":       amount,
		"recipient_id": recipientID,
	})
	s.activityRepo.Append(ctx, recipientID, model.ActivityGiftReceived, map[string]any{
		"amount":    amount,
		"sender_id": senderID,
	})

	return gift, nil
}
