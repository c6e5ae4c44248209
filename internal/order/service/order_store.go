package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/ridloal/e-commerce-storefront/internal/order/domain"
	"github.com/ridloal/e-commerce-storefront/internal/order/repository"
	"github.com/ridloal/e-commerce-storefront/internal/platform/clock"
	"github.com/ridloal/e-commerce-storefront/internal/platform/logger"
	"github.com/ridloal/e-commerce-storefront/internal/platform/storage"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderStore is the append-only order history. Orders are kept in creation
// order and their createdAt never decreases along that order.
type OrderStore interface {
	AddOrder(ctx context.Context, order domain.NewOrder) (*domain.Order, error)
	GetOrderByID(id string) (*domain.Order, error)
	// GetUserOrders returns the user's orders in creation order.
	GetUserOrders(userID string) []domain.Order
	// History returns the user's orders newest first.
	History(userID string) []domain.Order
	Stats(userID string) domain.Stats
	// Orders returns every stored order in creation order.
	Orders() []domain.Order
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
}

type orderStore struct {
	mu     sync.RWMutex
	repo   repository.OrderRepository
	clock  clock.Clock
	newID  func() string
	orders []domain.Order
}

func newOrderID() string {
	return "order-" + uuid.NewString()
}

// NewOrderStore restores the persisted history. A corrupt document is
// discarded and the history starts empty.
func NewOrderStore(ctx context.Context, repo repository.OrderRepository, clk clock.Clock) (OrderStore, error) {
	orders, err := repo.LoadOrders(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrCorruptValue) {
			return nil, err
		}
		logger.Warn("Orders: discarding unreadable order history")
		orders = []domain.Order{}
	}
	return &orderStore{repo: repo, clock: clk, newID: newOrderID, orders: orders}, nil
}

func (s *orderStore) indexOf(id string) int {
	for i, o := range s.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func (s *orderStore) AddOrder(ctx context.Context, order domain.NewOrder) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for s.indexOf(id) > -1 {
		id = s.newID()
	}

	createdAt := s.clock.Now()
	if n := len(s.orders); n > 0 && createdAt.Before(s.orders[n-1].CreatedAt) {
		createdAt = s.orders[n-1].CreatedAt
	}

	stored := domain.Order{ID: id, NewOrder: order, CreatedAt: createdAt}
	next := make([]domain.Order, 0, len(s.orders)+1)
	next = append(append(next, s.orders...), stored)
	if err := s.repo.SaveOrders(ctx, next); err != nil {
		return nil, fmt.Errorf("could not save order: %w", err)
	}
	s.orders = next

	logger.Info("Orders: stored order %s for user %s", id, order.UserID)
	return &stored, nil
}

func (s *orderStore) GetOrderByID(id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOf(id); idx > -1 {
		o := s.orders[idx]
		return &o, nil
	}
	return nil, ErrOrderNotFound
}

func (s *orderStore) GetUserOrders(userID string) []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Order{}
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out
}

func (s *orderStore) History(userID string) []domain.Order {
	orders := s.GetUserOrders(userID)
	for i, j := 0, len(orders)-1; i < j; i, j = i+1, j-1 {
		orders[i], orders[j] = orders[j], orders[i]
	}
	return orders
}

func (s *orderStore) Stats(userID string) domain.Stats {
	var stats domain.Stats
	for _, o := range s.GetUserOrders(userID) {
		stats.Total++
		switch o.Status {
		case domain.StatusProcessing:
			stats.Processing++
		case domain.StatusCompleted:
			stats.Completed++
		}
	}
	return stats
}

func (s *orderStore) Orders() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *orderStore) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrOrderNotFound
	}
	next := make([]domain.Order, len(s.orders))
	copy(next, s.orders)
	next[idx].Status = status
	if err := s.repo.SaveOrders(ctx, next); err != nil {
		return fmt.Errorf("could not update order %s: %w", id, err)
	}
	s.orders = next
	return nil
}
