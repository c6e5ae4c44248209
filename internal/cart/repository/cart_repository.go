package repository

import (
	"context"

	"github.com/ridloal/e-commerce-storefront/internal/cart/domain"
	"github.com/ridloal/e-commerce-storefront/internal/platform/logger"
	"github.com/ridloal/e-commerce-storefront/internal/platform/storage"
)

type CartRepository interface {
	LoadItems(ctx context.Context) ([]domain.CartItem, error)
	SaveItems(ctx context.Context, items []domain.CartItem) error
}

type storageCartRepository struct {
	store storage.Storage
}

func NewStorageCartRepository(store storage.Storage) CartRepository {
	return &storageCartRepository{store: store}
}

// LoadItems returns an empty cart when nothing has been persisted yet.
func (r *storageCartRepository) LoadItems(ctx context.Context) ([]domain.CartItem, error) {
	items := []domain.CartItem{}
	if _, err := storage.LoadJSON(ctx, r.store, storage.KeyCart, &items); err != nil {
		logger.Error("LoadItems: failed to read cart", err)
		return nil, err
	}
	return items, nil
}

func (r *storageCartRepository) SaveItems(ctx context.Context, items []domain.CartItem) error {
	if items == nil {
		items = []domain.CartItem{}
	}
	if err := storage.SaveJSON(ctx, r.store, storage.KeyCart, items); err != nil {
		logger.Error("SaveItems: failed to persist cart", err)
		return err
	}
	return nil
}
