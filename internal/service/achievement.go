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

// Achievement-related errors.
var (
	ErrUnknownAchievement = errors.New("achievement not in catalog")
)

// AchievementService owns unlock records against the static
// achievement catalog.
type AchievementService struct {
	achievementRepo *repository.AchievementRepository
	certs           *CertificateService
	notifier        notify.Notifier
}

// NewAchievementService creates a new AchievementService instance.
func NewAchievementService(
	achievementRepo *repository.AchievementRepository,
	certs *CertificateService,
	notifier notify.Notifier,
) *AchievementService {
	return &AchievementService{
		achievementRepo: achievementRepo,
		certs:           certs,
		notifier:        notifier,
	}
}

// Grant unlocks an achievement for the user. Returns true only on the
// first-time unlock; a repeated or concurrently duplicated grant is a
// no-op returning false, never an error and never a second point
// award. On a first-time unlock it notifies the user (unless the
// achievement is hidden) and issues an achievement certificate for
// epic and legendary rarities.
func (s *AchievementService) Grant(ctx context.Context, userID int64, achievementID string) (bool, error) {
	def, ok := catalog.GetAchievement(achievementID)
	if !ok {
		return false, ErrUnknownAchievement
	}

	inserted, err := s.achievementRepo.InsertUnlock(ctx, userID, achievementID)
	if err != nil {
		return false, fmt.Errorf("failed to grant achievement: %w", err)
	}
	if !inserted {
		// Already unlocked, possibly by a concurrent grant.
		return false, nil
	}

	if !def.Hidden {
		s.notifier.Notify(userID, "Achievement unlocked", def.Name)
	}

	if def.Rarity.IsCertificateWorthy() {
		rarity := string(def.Rarity)
		_, err := s.certs.Issue(ctx, userID, model.CertTypeAchievement, def.ID, def.Name, nil, &rarity)
		if err != nil {
			return true, fmt.Errorf("%w: certificate issue failed after unlock: %v", ErrPartialFailure, err)
		}
	}

	return true, nil
}

// TotalPoints recomputes the user's achievement points from the unlock
// set on every call. Deprecated achievements are excluded.
func (s *AchievementService) TotalPoints(ctx context.Context, userID int64) (int, error) {
	ids, err := s.achievementRepo.UnlockedIDs(ctx, userID)
	if err != nil {
		return 0, err
	}
	return catalog.AchievementPoints(ids), nil
}

// Unlocked returns the catalog definitions of every achievement the
// user has unlocked, in unlock order. Unknown IDs (removed from the
// catalog) are skipped.
func (s *AchievementService) Unlocked(ctx context.Context, userID int64) ([]catalog.AchievementDefinition, error) {
	ids, err := s.achievementRepo.UnlockedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	defs := make([]catalog.AchievementDefinition, 0, len(ids))
	for _, id := range ids {
		if def, ok := catalog.GetAchievement(id); ok {
			defs = append(defs, def)
		}
	}
	return defs, nil
}

// IsUnlocked checks whether the user has unlocked the achievement.
func (s *AchievementService) IsUnlocked(ctx context.Context, userID int64, achievementID string) (bool, error) {
	return s.achievementRepo.IsUnlocked(ctx, userID, achievementID)
}
