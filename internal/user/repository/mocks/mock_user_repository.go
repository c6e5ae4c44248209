package mocks

import (
	"context"

	"github.com/ridloal/e-commerce-storefront/internal/user/domain"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) LoadUsers(ctx context.Context) ([]domain.StoredUser, error) {
	args := m.Called(ctx)
	if u := args.Get(0); u != nil {
		return u.([]domain.StoredUser), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) SaveUsers(ctx context.Context, users []domain.StoredUser) error {
	args := m.Called(ctx, users)
	return args.Error(0)
}

func (m *MockUserRepository) LoadCurrentUser(ctx context.Context) (*domain.User, error) {
	args := m.Called(ctx)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) SaveCurrentUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ClearCurrentUser(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
