package repository

import (
	"context"

	"github.com/ridloal/e-commerce-storefront/internal/order/domain"
	"github.com/ridloal/e-commerce-storefront/internal/platform/logger"
	"github.com/ridloal/e-commerce-storefront/internal/platform/storage"
)

type OrderRepository interface {
	LoadOrders(ctx context.Context) ([]domain.Order, error)
	SaveOrders(ctx context.Context, orders []domain.Order) error
}

type storageOrderRepository struct {
	store storage.Storage
}

func NewStorageOrderRepository(store storage.Storage) OrderRepository {
	return &storageOrderRepository{store: store}
}

func (r *storageOrderRepository) LoadOrders(ctx context.Context) ([]domain.Order, error) {
	orders := []domain.Order{}
	if _, err := storage.LoadJSON(ctx, r.store, storage.KeyOrders, &orders); err != nil {
		logger.Error("LoadOrders: failed to read orders", err)
		return nil, err
	}
	return orders, nil
}

func (r *storageOrderRepository) SaveOrders(ctx context.Context, orders []domain.Order) error {
	if orders == nil {
		orders = []domain.Order{}
	}
	if err := storage.SaveJSON(ctx, r.store, storage.KeyOrders, orders); err != nil {
		logger.Error("SaveOrders: failed to persist orders", err)
		return err
	}
	return nil
}
