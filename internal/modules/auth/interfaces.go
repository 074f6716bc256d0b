package auth

import (
	"context"
	"time"

	"roleauth/internal/domain"
)

// UserRepositoryInterface — only the methods the auth service uses
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	AddRole(ctx context.Context, u *domain.User, role *domain.Role) error
}

// RoleRepositoryInterface — the auth service only ensures the default role
type RoleRepositoryInterface interface {
	Ensure(ctx context.Context, name, description string) (*domain.Role, error)
}

// RefreshTokenLedger — durable storage for refresh tokens. Consume must be
// atomic: of two concurrent calls with the same hash, at most one succeeds.
type RefreshTokenLedger interface {
	Create(ctx context.Context, t *domain.RefreshToken) error
	GetByHash(ctx context.Context, hash string) (*domain.RefreshToken, error)
	Consume(ctx context.Context, hash string, now time.Time) (*domain.RefreshToken, error)
	LinkSuccessor(ctx context.Context, id, replacedByID int64) error
	Revoke(ctx context.Context, hash string, now time.Time) error
}

type tokenSigner interface {
	Generate(userID int64, username string, roles []string) (string, error)
	TTL() time.Duration
}
