package repository

import (
	"context"

	"github.com/ridloal/e-commerce-storefront/internal/platform/logger"
	"github.com/ridloal/e-commerce-storefront/internal/platform/storage"
	"github.com/ridloal/e-commerce-storefront/internal/user/domain"
)

type UserRepository interface {
	LoadUsers(ctx context.Context) ([]domain.StoredUser, error)
	SaveUsers(ctx context.Context, users []domain.StoredUser) error
	// LoadCurrentUser returns nil when nobody is signed in.
	LoadCurrentUser(ctx context.Context) (*domain.User, error)
	SaveCurrentUser(ctx context.Context, user domain.User) error
	ClearCurrentUser(ctx context.Context) error
}

type storageUserRepository struct {
	store storage.Storage
}

func NewStorageUserRepository(store storage.Storage) UserRepository {
	return &storageUserRepository{store: store}
}

func (r *storageUserRepository) LoadUsers(ctx context.Context) ([]domain.StoredUser, error) {
	users := []domain.StoredUser{}
	if _, err := storage.LoadJSON(ctx, r.store, storage.KeyUsers, &users); err != nil {
		logger.Error("LoadUsers: failed to read users", err)
		return nil, err
	}
	return users, nil
}

func (r *storageUserRepository) SaveUsers(ctx context.Context, users []domain.StoredUser) error {
	if users == nil {
		users = []domain.StoredUser{}
	}
	if err := storage.SaveJSON(ctx, r.store, storage.KeyUsers, users); err != nil {
		logger.Error("SaveUsers: failed to persist users", err)
		return err
	}
	return nil
}

func (r *storageUserRepository) LoadCurrentUser(ctx context.Context) (*domain.User, error) {
	var user domain.User
	found, err := storage.LoadJSON(ctx, r.store, storage.KeyCurrentUser, &user)
	if err != nil {
		logger.Error("LoadCurrentUser: failed to read current user", err)
		return nil, err
	}
	if !found || user.ID == "" {
		return nil, nil
	}
	return &user, nil
}

func (r *storageUserRepository) SaveCurrentUser(ctx context.Context, user domain.User) error {
	if err := storage.SaveJSON(ctx, r.store, storage.KeyCurrentUser, user); err != nil {
		logger.Error("SaveCurrentUser: failed to persist current user", err)
		return err
	}
	return nil
}

func (r *storageUserRepository) ClearCurrentUser(ctx context.Context) error {
	if err := r.store.Remove(ctx, storage.KeyCurrentUser); err != nil {
		logger.Error("ClearCurrentUser: failed to remove current user", err)
		return err
	}
	return nil
}
