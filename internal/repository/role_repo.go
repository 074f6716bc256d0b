package repository

import (
	"context"

	"roleauth/internal/domain"

	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *RoleRepository) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	var role domain.Role
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Role{}).
		Where("name = ?", name).
		Count(&count).Error
	return count > 0, err
}

func (r *RoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	var roles []domain.Role
	err := r.db.WithContext(ctx).Order("id").Find(&roles).Error
	return roles, err
}

// Ensure returns the named role, creating it when absent.
func (r *RoleRepository) Ensure(ctx context.Context, name, description string) (*domain.Role, error) {
	role := domain.Role{Name: name, Description: description}
	err := r.db.WithContext(ctx).
		Where(domain.Role{Name: name}).
		FirstOrCreate(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// Delete removes the role and its assignments in one transaction.
func (r *RoleRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM user_roles WHERE role_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Role{}, id).Error
	})
}
