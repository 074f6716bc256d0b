package role

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"roleauth/internal/domain"
)

type mockRoleRepo struct {
	mock.Mock
}

func (m *mockRoleRepo) Create(ctx context.Context, role *domain.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *mockRoleRepo) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

func (m *mockRoleRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *mockRoleRepo) List(ctx context.Context) ([]domain.Role, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Role), args.Error(1)
}

func (m *mockRoleRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestService_Create_Success(t *testing.T) {
	repo := new(mockRoleRepo)
	repo.On("ExistsByName", mock.Anything, "Manager").Return(false, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Role")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Role).ID = 5
	}).Return(nil)

	service := NewService(repo)

	role, err := service.Create(context.Background(), CreateRoleRequest{Name: "Manager", Description: "Can manage"})

	assert.NoError(t, err)
	assert.Equal(t, int64(5), role.ID)
	assert.Equal(t, "Manager", role.Name)
	repo.AssertExpectations(t)
}

func TestService_Create_Duplicate(t *testing.T) {
	repo := new(mockRoleRepo)
	repo.On("ExistsByName", mock.Anything, "Manager").Return(true, nil)

	service := NewService(repo)

	_, err := service.Create(context.Background(), CreateRoleRequest{Name: "Manager"})

	assert.ErrorIs(t, err, ErrRoleExists)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Delete_Success(t *testing.T) {
	repo := new(mockRoleRepo)
	repo.On("GetByID", mock.Anything, int64(5)).Return(&domain.Role{ID: 5, Name: "Manager"}, nil)
	repo.On("Delete", mock.Anything, int64(5)).Return(nil)

	service := NewService(repo)

	assert.NoError(t, service.Delete(context.Background(), 5))
	repo.AssertExpectations(t)
}

func TestService_Delete_NotFound(t *testing.T) {
	repo := new(mockRoleRepo)
	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(repo)

	assert.ErrorIs(t, service.Delete(context.Background(), 99), ErrRoleNotFound)
}

func TestService_Delete_AdminProtected(t *testing.T) {
	repo := new(mockRoleRepo)
	repo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Role{ID: 1, Name: domain.RoleAdmin}, nil)

	service := NewService(repo)

	assert.ErrorIs(t, service.Delete(context.Background(), 1), ErrRoleProtected)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
