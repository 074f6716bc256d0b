package user

import (
	"context"
	"errors"
	"log"
	"strings"

	"roleauth/internal/domain"

	"gorm.io/gorm"
)

// Service contains user management logic: profile reads and updates plus
// the admin-gated listing, deletion and role grants.
type Service struct {
	users    UserRepositoryInterface
	roles    RoleRepositoryInterface
	sessions SessionRevoker
}

func NewService(users UserRepositoryInterface, roles RoleRepositoryInterface, sessions SessionRevoker) *Service {
	return &Service{users: users, roles: roles, sessions: sessions}
}

func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// Update changes username, email and display name. Empty fields keep their
// current value; changed username/email are re-checked for uniqueness.
func (s *Service) Update(ctx context.Context, id int64, req UpdateUserRequest) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if username := strings.TrimSpace(req.Username); username != "" && username != user.Username {
		taken, err := s.users.ExistsByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUsernameExists
		}
		user.Username = username
	}

	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" && email != user.Email {
		taken, err := s.users.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailExists
		}
		user.Email = email
	}

	if name := strings.TrimSpace(req.DisplayName); name != "" {
		user.DisplayName = name
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// Delete removes the account and revokes its outstanding refresh tokens so
// the deleted user cannot refresh back into a session.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.sessions.RevokeByUser(ctx, id); err != nil {
		log.Printf("user_delete revoke_sessions_failed user_id=%d err=%v", id, err)
	}

	return s.users.Delete(ctx, id)
}

// AddRole grants a role by name, creating the role when it does not exist
// yet. The grant shows up in access tokens on the user's next refresh.
func (s *Service) AddRole(ctx context.Context, id int64, roleName string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	role, err := s.roles.Ensure(ctx, strings.TrimSpace(roleName), "")
	if err != nil {
		return nil, err
	}

	if !user.HasRole(role.Name) {
		if err := s.users.AddRole(ctx, user, role); err != nil {
			return nil, err
		}
		user.Roles = append(user.Roles, *role)
	}

	user.PasswordHash = ""
	return user, nil
}
