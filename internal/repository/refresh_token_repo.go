package repository

import (
	"context"
	"errors"
	"time"

	"roleauth/internal/domain"

	"gorm.io/gorm"
)

// ErrTokenNotActive is returned by Consume when the token does not exist,
// is already revoked, or has expired. Callers treat all three the same.
var ErrTokenNotActive = errors.New("refresh token not active")

// RefreshTokenRepository is the durable ledger of issued refresh tokens.
// Rows are never deleted; revocation is the only mutation.
type RefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, t *domain.RefreshToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *RefreshTokenRepository) GetByHash(ctx context.Context, hash string) (*domain.RefreshToken, error) {
	var t domain.RefreshToken
	err := r.db.WithContext(ctx).Where("token_hash = ?", hash).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Consume atomically transitions an active token to revoked and returns the
// record. The conditional update is the whole concurrency story: of two
// concurrent calls presenting the same token, exactly one matches the
// non-revoked predicate; the other sees ErrTokenNotActive.
func (r *RefreshTokenRepository) Consume(ctx context.Context, hash string, now time.Time) (*domain.RefreshToken, error) {
	res := r.db.WithContext(ctx).Model(&domain.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?", hash, now).
		Update("revoked_at", now)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrTokenNotActive
	}

	var t domain.RefreshToken
	if err := r.db.WithContext(ctx).Where("token_hash = ?", hash).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// LinkSuccessor records which token replaced a consumed one, for audit.
func (r *RefreshTokenRepository) LinkSuccessor(ctx context.Context, id, replacedByID int64) error {
	return r.db.WithContext(ctx).Model(&domain.RefreshToken{}).
		Where("id = ?", id).
		Update("replaced_by_id", replacedByID).Error
}

// Revoke marks a single token revoked if it is still active.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, hash string, now time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", hash).
		Update("revoked_at", now).Error
}

// RevokeByUser revokes every outstanding token of one user, e.g. when the
// account is deleted.
func (r *RefreshTokenRepository) RevokeByUser(ctx context.Context, userID int64) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&domain.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now).Error
}

// LedgerStats summarizes the ledger for the audit command.
type LedgerStats struct {
	Active  int64
	Revoked int64
	Expired int64
	Rotated int64
}

func (r *RefreshTokenRepository) Stats(ctx context.Context, now time.Time) (*LedgerStats, error) {
	var s LedgerStats
	db := r.db.WithContext(ctx).Model(&domain.RefreshToken{})

	if err := db.Session(&gorm.Session{}).
		Where("revoked_at IS NULL AND expires_at > ?", now).
		Count(&s.Active).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).
		Where("revoked_at IS NOT NULL").
		Count(&s.Revoked).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).
		Where("revoked_at IS NULL AND expires_at <= ?", now).
		Count(&s.Expired).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).
		Where("replaced_by_id IS NOT NULL").
		Count(&s.Rotated).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
