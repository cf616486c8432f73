// Package main is the entry point for the Kroner economy engine.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"kroner-engine/internal/catalog"
	"kroner-engine/internal/config"
	"kroner-engine/internal/engine"
	"kroner-engine/internal/feed"
	"kroner-engine/internal/notify"
	"kroner-engine/internal/pkg/db"
	"kroner-engine/internal/repository"
	"kroner-engine/internal/service"
	"kroner-engine/internal/session"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	// Validate the static season schedules before serving anything.
	for key, schedule := range catalog.Seasons {
		if err := catalog.ValidateSchedule(schedule); err != nil {
			log.Fatal().Err(err).Str("season", key).Msg("Invalid season schedule")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Repositories
	balanceRepo := repository.NewBalanceRepository(dbPool.Pool)
	ownershipRepo := repository.NewOwnershipRepository(dbPool.Pool)
	achievementRepo := repository.NewAchievementRepository(dbPool.Pool)
	certRepo := repository.NewCertificateRepository(dbPool.Pool)
	battlePassRepo := repository.NewBattlePassRepository(dbPool.Pool)
	giftRepo := repository.NewGiftRepository(dbPool.Pool)
	activityRepo := repository.NewActivityRepository(dbPool.Pool)

	// Sinks
	notifier := notify.NewLogNotifier()

	// Services
	ledger := service.NewLedgerService(balanceRepo, giftRepo, activityRepo)
	inventory := service.NewInventoryService(ownershipRepo)
	certs := service.NewCertificateService(certRepo)
	achievements := service.NewAchievementService(achievementRepo, certs, notifier)
	battlePass := service.NewBattlePassService(battlePassRepo, ledger, inventory, certs, activityRepo)
	shop := service.NewShopService(ledger, inventory, ownershipRepo, activityRepo, notifier)

	// Push channel: fan row changes out to active sessions.
	registry := session.NewRegistry()

	eng := engine.New(ledger, inventory, achievements, certs, battlePass, shop, registry, cfg.Season.ActiveKey)

	log.Info().
		Int("achievements", len(catalog.Achievements)).
		Int("seasons", len(catalog.Seasons)).
		Int("shop_items", len(catalog.ShopItems)).
		Str("active_season", eng.ActiveSeason()).
		Msg("Catalogs loaded")

	watcher := feed.NewWatcher(balanceRepo, achievementRepo, certRepo, registry, cfg.Sync.PollInterval)
	go watcher.Run(ctx)

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	cancel()
	log.Info().Msg("Engine stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: balances
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS balances (
			user_id BIGINT PRIMARY KEY,
			lifetime BIGINT NOT NULL DEFAULT 0 CHECK (lifetime >= 0),
			spendable BIGINT NOT NULL DEFAULT 0 CHECK (spendable >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_balances_updated ON balances(updated_at);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: balances table created")

	// Migration 2: ownership records
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS ownership_records (
			user_id BIGINT NOT NULL,
			item_type VARCHAR(50) NOT NULL,
			item_id VARCHAR(100) NOT NULL,
			source VARCHAR(50) NOT NULL,
			acquired_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, item_type, item_id)
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: ownership_records table created")

	// Migration 3: achievement unlocks
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS achievement_unlocks (
			user_id BIGINT NOT NULL,
			achievement_id VARCHAR(100) NOT NULL,
			unlocked_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, achievement_id)
		);
		CREATE INDEX IF NOT EXISTS idx_achievement_unlocks_time ON achievement_unlocks(unlocked_at);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 3: achievement_unlocks table created")

	// Migration 4: certificates
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS certificates (
			user_id BIGINT NOT NULL,
			certificate_type VARCHAR(50) NOT NULL,
			certificate_id VARCHAR(100) NOT NULL,
			name VARCHAR(255) NOT NULL,
			season_key VARCHAR(50),
			rarity VARCHAR(50),
			earned_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, certificate_type, certificate_id)
		);
		CREATE INDEX IF NOT EXISTS idx_certificates_time ON certificates(earned_at);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 4: certificates table created")

	// Migration 5: battle pass states
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS battle_pass_states (
			user_id BIGINT NOT NULL,
			season_key VARCHAR(50) NOT NULL,
			current_level INT NOT NULL DEFAULT 0 CHECK (current_level BETWEEN 0 AND 100),
			xp BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, season_key)
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 5: battle_pass_states table created")

	// Migration 6: gift transactions (append-only)
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS gift_transactions (
			id UUID PRIMARY KEY,
			sender_id BIGINT NOT NULL,
			recipient_id BIGINT NOT NULL,
			amount BIGINT NOT NULL CHECK (amount > 0),
			message TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_gift_transactions_sender ON gift_transactions(sender_id, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_gift_transactions_recipient ON gift_transactions(recipient_id, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 6: gift_transactions table created")

	// Migration 7: activity feed
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS activity_feed (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			activity_type VARCHAR(50) NOT NULL,
			activity_data JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_activity_feed_user_time ON activity_feed(user_id, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 7: activity_feed table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
