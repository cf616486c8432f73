package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"kroner-engine/internal/catalog"
	"kroner-engine/internal/model"
	"kroner-engine/internal/repository"
)

// Battle pass errors.
var (
	ErrUnknownSeason = errors.New("season not in catalog")
)

// BattlePassService owns per-user, per-season level state and applies
// the reward schedule on level transitions. XP accrual itself happens
// upstream; this service is handed the resulting level.
type BattlePassService struct {
	stateRepo    *repository.BattlePassRepository
	ledger       *LedgerService
	inventory    *InventoryService
	certs        *CertificateService
	activityRepo *repository.ActivityRepository
}

// NewBattlePassService creates a new BattlePassService instance.
func NewBattlePassService(
	stateRepo *repository.BattlePassRepository,
	ledger *LedgerService,
	inventory *InventoryService,
	certs *CertificateService,
	activityRepo *repository.ActivityRepository,
) *BattlePassService {
	return &BattlePassService{
		stateRepo:    stateRepo,
		ledger:       ledger,
		inventory:    inventory,
		certs:        certs,
		activityRepo: activityRepo,
	}
}

// EnsureState creates the zero-valued season state on first profile
// creation. Safe to call repeatedly.
func (s *BattlePassService) EnsureState(ctx context.Context, userID int64, seasonKey string) (*model.BattlePassState, error) {
	if _, ok := catalog.GetSeasonSchedule(seasonKey); !ok {
		return nil, ErrUnknownSeason
	}
	return s.stateRepo.Ensure(ctx, userID, seasonKey)
}

// State returns the current progression state.
func (s *BattlePassService) State(ctx context.Context, userID int64, seasonKey string) (*model.BattlePassState, error) {
	return s.stateRepo.Get(ctx, userID, seasonKey)
}

// AdvanceLevel moves the user's season level to newLevel and applies
// every schedule reward crossed between the old and new level, in
// ascending level order - a jump never skips intermediate rewards.
// The transition is claimed with a compare-and-swap before rewards are
// applied, so exactly one caller applies them under concurrency; a
// lost race or a newLevel at or below the current level is a no-op
// (level only moves up). Reaching level 100 additionally issues the
// season-completion certificate. Returns the updated state and the
// rewards applied.
func (s *BattlePassService) AdvanceLevel(ctx context.Context, userID int64, seasonKey string, newLevel int, xp int64) (*model.BattlePassState, []catalog.SeasonReward, error) {
	if _, ok := catalog.GetSeasonSchedule(seasonKey); !ok {
		return nil, nil, ErrUnknownSeason
	}
	if newLevel < 1 || newLevel > model.SeasonCompletionLevel {
		return nil, nil, fmt.Errorf("level %d out of range 1..%d", newLevel, model.SeasonCompletionLevel)
	}

	state, err := s.stateRepo.Ensure(ctx, userID, seasonKey)
	if err != nil {
		return nil, nil, err
	}
	if newLevel <= state.CurrentLevel {
		// Monotonic: stale or duplicate event, nothing to do.
		return state, nil, nil
	}

	claimed, updated, err := s.stateRepo.ClaimTransition(ctx, userID, seasonKey, state.CurrentLevel, newLevel, xp)
	if err != nil {
		return nil, nil, err
	}
	if !claimed {
		// A concurrent update won the transition; it applies the rewards.
		current, err := s.stateRepo.Get(ctx, userID, seasonKey)
		if err != nil {
			return nil, nil, err
		}
		return current, nil, nil
	}

	crossed := catalog.RewardsBetween(seasonKey, state.CurrentLevel, newLevel)
	for _, reward := range crossed {
		if err := s.applyReward(ctx, userID, seasonKey, reward); err != nil {
			return updated, nil, fmt.Errorf("%w: reward %q at level %d: %v",
				ErrPartialFailure, reward.Name, reward.Level, err)
		}
	}

	if newLevel == model.SeasonCompletionLevel {
		season := seasonKey
		_, err := s.certs.Issue(ctx, userID,
			model.CertTypeBattlePass, seasonKey+"_completion",
			"Season Completion", &season, nil)
		if err != nil {
			return updated, crossed, fmt.Errorf("%w: completion certificate: %v", ErrPartialFailure, err)
		}
	}

	s.activityRepo.Append(ctx, userID, model.ActivityLevelUp, map[string]any{
		"season_key": seasonKey,
		"from_level": state.CurrentLevel,
		"to_level":   newLevel,
		"rewards":    len(crossed),
	})

	log.Info().
		Int64("user_id", userID).
		Str("season", seasonKey).
		Int("from", state.CurrentLevel).
		Int("to", newLevel).
		Int("rewards", len(crossed)).
		Msg("Battle pass level advanced")

	return updated, crossed, nil
}

// applyReward dispatches one schedule reward to its owning component.
// Every delegate is idempotent for grant-style rewards, so a re-run
// after a partial failure cannot double-grant unlocks.
func (s *BattlePassService) applyReward(ctx context.Context, userID int64, seasonKey string, reward catalog.SeasonReward) error {
	switch reward.Type {
	case catalog.RewardKroner:
		amount, err := strconv.ParseInt(reward.Value, 10, 64)
		if err != nil {
			return fmt.Errorf("bad kroner amount %q: %w", reward.Value, err)
		}
		_, err = s.ledger.Award(ctx, userID, amount, "battlepass:"+seasonKey)
		return err

	case catalog.RewardTitle, catalog.RewardTheme, catalog.RewardBadge,
		catalog.RewardWallpaper, catalog.RewardProfileEffect:
		_, err := s.inventory.Grant(ctx, userID, string(reward.Type), reward.Value, model.SourceBattlePass)
		return err

	case catalog.RewardCertificate:
		season := seasonKey
		_, err := s.certs.Issue(ctx, userID, model.CertTypeBattlePass, reward.Value, reward.Name, &season, nil)
		return err

	default:
		return fmt.Errorf("unknown reward type %q", reward.Type)
	}
}
