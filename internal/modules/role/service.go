package role

import (
	"context"
	"errors"
	"strings"

	"roleauth/internal/domain"

	"gorm.io/gorm"
)

// Service contains role management logic. All of its operations sit behind
// the admin guard.
type Service struct {
	roles RoleRepositoryInterface
}

func NewService(roles RoleRepositoryInterface) *Service {
	return &Service{roles: roles}
}

func (s *Service) List(ctx context.Context) ([]domain.Role, error) {
	return s.roles.List(ctx)
}

func (s *Service) Create(ctx context.Context, req CreateRoleRequest) (*domain.Role, error) {
	name := strings.TrimSpace(req.Name)

	exists, err := s.roles.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrRoleExists
	}

	role := &domain.Role{Name: name, Description: strings.TrimSpace(req.Description)}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// Delete removes a role and its assignments. The Admin role is load-bearing
// (the seeded administrator must keep it) and cannot be deleted.
func (s *Service) Delete(ctx context.Context, id int64) error {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return err
	}

	if role.Name == domain.RoleAdmin {
		return ErrRoleProtected
	}

	return s.roles.Delete(ctx, id)
}
