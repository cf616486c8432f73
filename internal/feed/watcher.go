// Package feed implements the engine side of the push channel: a
// cursor-based poller over the balance, achievement-unlock and
// certificate tables that fans row changes out to every active session
// of the affected user. Payloads delivered here are authoritative;
// sessions overwrite their local state with them.
package feed

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"kroner-engine/internal/repository"
	"kroner-engine/internal/session"
)

// Watcher polls for row changes and pushes them to sessions. Poll
// failures are logged and retried on the next tick; they never affect
// the operations that produced the rows.
type Watcher struct {
	balanceRepo     *repository.BalanceRepository
	achievementRepo *repository.AchievementRepository
	certRepo        *repository.CertificateRepository
	registry        *session.Registry
	interval        time.Duration
}

// NewWatcher creates a change-feed watcher.
func NewWatcher(
	balanceRepo *repository.BalanceRepository,
	achievementRepo *repository.AchievementRepository,
	certRepo *repository.CertificateRepository,
	registry *session.Registry,
	interval time.Duration,
) *Watcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Watcher{
		balanceRepo:     balanceRepo,
		achievementRepo: achievementRepo,
		certRepo:        certRepo,
		registry:        registry,
		interval:        interval,
	}
}

// Run polls until the context is cancelled. The cursor starts at the
// current time: sessions seed their own initial snapshots on login, so
// only subsequent changes need pushing.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	cursor := time.Now()
	log.Info().Dur("interval", w.interval).Msg("Change-feed watcher started")

	for {
		select {
		case <-ticker.C:
			cursor = w.poll(ctx, cursor)
		case <-ctx.Done():
			log.Info().Msg("Change-feed watcher stopped")
			return
		}
	}
}

// poll pushes every change recorded after the cursor and returns the
// advanced cursor. On any query failure the old cursor is kept so the
// missed window is retried.
func (w *Watcher) poll(ctx context.Context, cursor time.Time) time.Time {
	next := cursor

	balances, err := w.balanceRepo.ChangedSince(ctx, cursor)
	if err != nil {
		log.Warn().Err(err).Msg("Change-feed balance poll failed")
		return cursor
	}
	for _, b := range balances {
		for _, s := range w.registry.ForUser(b.UserID) {
			s.ApplyBalance(*b)
		}
		if b.UpdatedAt.After(next) {
			next = b.UpdatedAt
		}
	}

	unlocks, err := w.achievementRepo.UnlocksSince(ctx, cursor)
	if err != nil {
		log.Warn().Err(err).Msg("Change-feed unlock poll failed")
		return cursor
	}
	for _, u := range unlocks {
		for _, s := range w.registry.ForUser(u.UserID) {
			s.ApplyUnlock(u.AchievementID)
		}
		if u.UnlockedAt.After(next) {
			next = u.UnlockedAt
		}
	}

	certs, err := w.certRepo.EarnedSince(ctx, cursor)
	if err != nil {
		log.Warn().Err(err).Msg("Change-feed certificate poll failed")
		return cursor
	}
	for _, c := range certs {
		for _, s := range w.registry.ForUser(c.UserID) {
			s.ApplyCertificate(c.CertificateType, c.CertificateID)
		}
		if c.EarnedAt.After(next) {
			next = c.EarnedAt
		}
	}

	return next
}
