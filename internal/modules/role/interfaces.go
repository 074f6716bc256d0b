package role

import (
	"context"

	"roleauth/internal/domain"
)

// RoleRepositoryInterface — only the methods the role service uses
type RoleRepositoryInterface interface {
	Create(ctx context.Context, role *domain.Role) error
	GetByID(ctx context.Context, id int64) (*domain.Role, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]domain.Role, error)
	Delete(ctx context.Context, id int64) error
}
