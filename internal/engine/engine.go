// Package engine bundles the public operation surface the
// presentation layer talks to: ledger, inventory, achievements,
// certificates, battle pass progression and the shop, plus session
// attach/detach for push delivery.
package engine

import (
	"context"

	"kroner-engine/internal/service"
	"kroner-engine/internal/session"
)

// Engine is the composition root handed to the UI layer.
type Engine struct {
	Ledger       *service.LedgerService
	Inventory    *service.InventoryService
	Achievements *service.AchievementService
	Certificates *service.CertificateService
	BattlePass   *service.BattlePassService
	Shop         *service.ShopService

	activeSeason string
	registry     *session.Registry
}

// New creates an Engine.
func New(
	ledger *service.LedgerService,
	inventory *service.InventoryService,
	achievements *service.AchievementService,
	certificates *service.CertificateService,
	battlePass *service.BattlePassService,
	shop *service.ShopService,
	registry *session.Registry,
	activeSeason string,
) *Engine {
	return &Engine{
		Ledger:       ledger,
		Inventory:    inventory,
		Achievements: achievements,
		Certificates: certificates,
		BattlePass:   battlePass,
		Shop:         shop,
		activeSeason: activeSeason,
		registry:     registry,
	}
}

// ActiveSeason returns the currently running season key.
func (e *Engine) ActiveSeason() string {
	return e.activeSeason
}

// OpenSession prepares a client session: ensures the zero-valued
// balance and season state rows exist (first profile creation), seeds
// the session with the authoritative balance snapshot, and attaches it
// to the push registry. Multiple concurrent sessions per user are fine;
// each receives its own pushes.
func (e *Engine) OpenSession(ctx context.Context, userID int64) (*session.Session, error) {
	balance, err := e.Ledger.EnsureBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := e.BattlePass.EnsureState(ctx, userID, e.activeSeason); err != nil {
		return nil, err
	}

	s := session.New(userID, *balance)
	e.registry.Attach(s)
	return s, nil
}

// CloseSession detaches a session from push delivery.
func (e *Engine) CloseSession(s *session.Session) {
	e.registry.Detach(s)
}

// RefreshSession re-reads the authoritative balance and overwrites the
// session snapshot, discarding any optimistic local state.
func (e *Engine) RefreshSession(ctx context.Context, s *session.Session) error {
	balance, err := e.Ledger.Balance(ctx, s.UserID())
	if err != nil {
		return err
	}
	s.ApplyBalance(*balance)
	return nil
}
