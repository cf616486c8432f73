// Integration tests for the change-feed watcher against a real
// PostgreSQL container. Skips without Docker.
package feed

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"kroner-engine/internal/model"
	"kroner-engine/internal/repository"
	"kroner-engine/internal/session"
)

func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	err := cmd.Run()
	return err == nil
}

func setupWatcherDB(t *testing.T) (*pgxpool.Pool, func()) {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS balances (
			user_id BIGINT PRIMARY KEY,
			lifetime BIGINT NOT NULL DEFAULT 0 CHECK (lifetime >= 0),
			spendable BIGINT NOT NULL DEFAULT 0 CHECK (spendable >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS achievement_unlocks (
			user_id BIGINT NOT NULL,
			achievement_id VARCHAR(100) NOT NULL,
			unlocked_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, achievement_id)
		);
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
	`)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

func TestWatcher_PushesChangesToSessions(t *testing.T) {
	pool, cleanup := setupWatcherDB(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	balanceRepo := repository.NewBalanceRepository(pool)
	achievementRepo := repository.NewAchievementRepository(pool)
	certRepo := repository.NewCertificateRepository(pool)
	registry := session.NewRegistry()

	initial, err := balanceRepo.Ensure(ctx, 1)
	require.NoError(t, err)

	// Two open sessions for the same user, one for another user
	s1 := session.New(1, *initial)
	s2 := session.New(1, *initial)
	other := session.New(2, model.Balance{UserID: 2})
	registry.Attach(s1)
	registry.Attach(s2)
	registry.Attach(other)

	watcher := NewWatcher(balanceRepo, achievementRepo, certRepo, registry, 50*time.Millisecond)
	go watcher.Run(ctx)

	// Give the watcher its cursor before producing changes
	time.Sleep(100 * time.Millisecond)

	_, err = balanceRepo.Award(ctx, 1, 500)
	require.NoError(t, err)
	_, err = achievementRepo.InsertUnlock(ctx, 1, "first_login")
	require.NoError(t, err)
	inserted, err := certRepo.Insert(ctx, &model.Certificate{
		UserID:          1,
		CertificateType: model.CertTypeAchievement,
		CertificateID:   "theme_collector",
		Name:            "Theme Collector",
	})
	require.NoError(t, err)
	require.True(t, inserted)

	// Every session of user 1 converges on the authoritative state
	assert.Eventually(t, func() bool {
		return s1.Balance().Spendable == 500 &&
			s2.Balance().Spendable == 500 &&
			s1.HasUnlock("first_login") &&
			s2.HasUnlock("first_login") &&
			s1.HasCertificate(model.CertTypeAchievement, "theme_collector")
	}, 5*time.Second, 50*time.Millisecond)

	// The other user's session saw nothing
	assert.Equal(t, int64(0), other.Balance().Spendable)
	assert.False(t, other.HasUnlock("first_login"))
}

func TestWatcher_OverwritesOptimisticState(t *testing.T) {
	pool, cleanup := setupWatcherDB(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	balanceRepo := repository.NewBalanceRepository(pool)
	achievementRepo := repository.NewAchievementRepository(pool)
	certRepo := repository.NewCertificateRepository(pool)
	registry := session.NewRegistry()

	_, err := balanceRepo.Ensure(ctx, 1)
	require.NoError(t, err)
	initial, err := balanceRepo.Award(ctx, 1, 100)
	require.NoError(t, err)

	s := session.New(1, *initial)
	registry.Attach(s)

	watcher := NewWatcher(balanceRepo, achievementRepo, certRepo, registry, 50*time.Millisecond)
	go watcher.Run(ctx)
	time.Sleep(100 * time.Millisecond)

	// The session optimistically debits 60, the store commits the same
	// spend. The push must install the store's value, not merge.
	s.OptimisticSpend(60)
	ok, _, err := balanceRepo.Spend(ctx, 1, 60)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		b := s.Balance()
		return b.Spendable == 40 && b.Lifetime == 100
	}, 5*time.Second, 50*time.Millisecond)
}
