package user

import (
	"context"

	"roleauth/internal/domain"
)

// UserRepositoryInterface — only the methods the user service uses
type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id int64) error
	AddRole(ctx context.Context, u *domain.User, role *domain.Role) error
}

// RoleRepositoryInterface — role grants create the role on demand
type RoleRepositoryInterface interface {
	Ensure(ctx context.Context, name, description string) (*domain.Role, error)
}

// SessionRevoker — deleting an account invalidates its refresh tokens
type SessionRevoker interface {
	RevokeByUser(ctx context.Context, userID int64) error
}
