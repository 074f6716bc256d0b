package repository

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"roleauth/internal/database"
	"roleauth/internal/domain"
)

func setupLedger(t *testing.T) (*RefreshTokenRepository, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)

	// Single connection keeps SQLite from returning SQLITE_BUSY under the
	// concurrent consume test; the conditional update stays the arbiter.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Role{}, &domain.RefreshToken{}))

	user := domain.User{Username: "alice", Email: "alice@x.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	return NewRefreshTokenRepository(db), db
}

func activeToken(t *testing.T, repo *RefreshTokenRepository, hash string) *domain.RefreshToken {
	t.Helper()
	token := &domain.RefreshToken{
		UserID:    1,
		TokenHash: hash,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.Create(context.Background(), token))
	return token
}

func TestConsume_ActiveToken(t *testing.T) {
	repo, _ := setupLedger(t)
	ctx := context.Background()
	activeToken(t, repo, "hash-1")

	consumed, err := repo.Consume(ctx, "hash-1", time.Now())

	assert.NoError(t, err)
	assert.Equal(t, int64(1), consumed.UserID)
	assert.True(t, consumed.IsRevoked())
}

func TestConsume_SecondUseRejected(t *testing.T) {
	repo, _ := setupLedger(t)
	ctx := context.Background()
	activeToken(t, repo, "hash-1")

	_, err := repo.Consume(ctx, "hash-1", time.Now())
	require.NoError(t, err)

	_, err = repo.Consume(ctx, "hash-1", time.Now())
	assert.ErrorIs(t, err, ErrTokenNotActive)
}

func TestConsume_UnknownToken(t *testing.T) {
	repo, _ := setupLedger(t)

	_, err := repo.Consume(context.Background(), "no-such-hash", time.Now())
	assert.ErrorIs(t, err, ErrTokenNotActive)
}

func TestConsume_ExpiredToken(t *testing.T) {
	repo, _ := setupLedger(t)
	ctx := context.Background()

	token := &domain.RefreshToken{
		UserID:    1,
		TokenHash: "hash-old",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, repo.Create(ctx, token))

	_, err := repo.Consume(ctx, "hash-old", time.Now())
	assert.ErrorIs(t, err, ErrTokenNotActive)

	// The expired row is retained, not deleted.
	kept, err := repo.GetByHash(ctx, "hash-old")
	assert.NoError(t, err)
	assert.False(t, kept.IsRevoked())
}

func TestConsume_ConcurrentAttemptsOnlyOneWins(t *testing.T) {
	repo, _ := setupLedger(t)
	ctx := context.Background()
	activeToken(t, repo, "hash-race")

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Consume(ctx, "hash-race", time.Now())
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrTokenNotActive)
		}
	}
	assert.Equal(t, 1, wins)
}

func TestRevokeByUser(t *testing.T) {
	repo, _ := setupLedger(t)
	ctx := context.Background()
	activeToken(t, repo, "hash-a")
	activeToken(t, repo, "hash-b")

	require.NoError(t, repo.RevokeByUser(ctx, 1))

	_, err := repo.Consume(ctx, "hash-a", time.Now())
	assert.ErrorIs(t, err, ErrTokenNotActive)
	_, err = repo.Consume(ctx, "hash-b", time.Now())
	assert.ErrorIs(t, err, ErrTokenNotActive)
}

func TestLinkSuccessorAndStats(t *testing.T) {
	repo, _ := setupLedger(t)
	ctx := context.Background()
	old := activeToken(t, repo, "hash-old")
	successor := activeToken(t, repo, "hash-new")

	_, err := repo.Consume(ctx, "hash-old", time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.LinkSuccessor(ctx, old.ID, successor.ID))

	stored, err := repo.GetByHash(ctx, "hash-old")
	require.NoError(t, err)
	require.NotNil(t, stored.ReplacedByID)
	assert.Equal(t, successor.ID, *stored.ReplacedByID)

	stats, err := repo.Stats(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Active)
	assert.Equal(t, int64(1), stats.Revoked)
	assert.Equal(t, int64(1), stats.Rotated)
}
