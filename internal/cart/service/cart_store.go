package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ridloal/e-commerce-storefront/internal/cart/domain"
	"github.com/ridloal/e-commerce-storefront/internal/cart/repository"
	"github.com/ridloal/e-commerce-storefront/internal/platform/logger"
	"github.com/ridloal/e-commerce-storefront/internal/platform/storage"
	productDomain "github.com/ridloal/e-commerce-storefront/internal/product/domain"
)

var (
	ErrItemNotInCart    = errors.New("item not in cart")
	ErrQuantityTooLarge = fmt.Errorf("quantity per item cannot exceed %d", domain.MaxLineQuantity)
)

// CartStore holds the shopping cart. Every mutation persists the whole list
// before it becomes visible; a failed write leaves the cart as it was.
type CartStore interface {
	Add(ctx context.Context, product productDomain.Product, quantity int) error
	Remove(ctx context.Context, productID int) error
	SetQuantity(ctx context.Context, productID, quantity int) error
	Clear(ctx context.Context) error
	// RemoveLines takes the given quantities off their lines, dropping lines
	// that reach zero. Items added since lines were read are left alone.
	RemoveLines(ctx context.Context, lines []domain.CartItem) error

	Items() []domain.CartItem
	// Snapshot returns items and their summary from the same state.
	Snapshot() ([]domain.CartItem, domain.Summary)
	Has(productID int) bool
	ItemCount() int
	Subtotal() float64
	Summary() domain.Summary
}

type cartStore struct {
	mu    sync.RWMutex
	repo  repository.CartRepository
	items []domain.CartItem
}

// NewCartStore restores the persisted cart. A corrupt document is discarded
// and the cart starts empty.
func NewCartStore(ctx context.Context, repo repository.CartRepository) (CartStore, error) {
	items, err := repo.LoadItems(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrCorruptValue) {
			return nil, err
		}
		logger.Warn("Cart: discarding unreadable persisted cart")
		items = []domain.CartItem{}
	}
	return &cartStore{repo: repo, items: sanitize(items)}, nil
}

// sanitize drops entries that could not have been written by the store.
func sanitize(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(items))
	seen := make(map[int]int, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			continue
		}
		if it.Quantity > domain.MaxLineQuantity {
			it.Quantity = domain.MaxLineQuantity
		}
		if idx, ok := seen[it.ID]; ok {
			out[idx].Quantity = min(out[idx].Quantity+it.Quantity, domain.MaxLineQuantity)
			continue
		}
		seen[it.ID] = len(out)
		out = append(out, it)
	}
	return out
}

// commit persists next and, on success, makes it the current cart. Callers hold mu.
func (s *cartStore) commit(ctx context.Context, next []domain.CartItem) error {
	if err := s.repo.SaveItems(ctx, next); err != nil {
		return err
	}
	s.items = next
	return nil
}

func (s *cartStore) snapshot() []domain.CartItem {
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *cartStore) indexOf(productID int) int {
	for i, it := range s.items {
		if it.ID == productID {
			return i
		}
	}
	return -1
}

// Add merges into the existing entry for the product or appends a new one.
// Quantities below one count as one; a line may not grow past MaxLineQuantity.
func (s *cartStore) Add(ctx context.Context, product productDomain.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	if quantity > domain.MaxLineQuantity {
		return ErrQuantityTooLarge
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshot()
	if idx := s.indexOf(product.ID); idx > -1 {
		if next[idx].Quantity > domain.MaxLineQuantity-quantity {
			return ErrQuantityTooLarge
		}
		next[idx].Quantity += quantity
	} else {
		next = append(next, domain.CartItem{Product: product, Quantity: quantity})
	}
	return s.commit(ctx, next)
}

func (s *cartStore) Remove(ctx context.Context, productID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.CartItem, 0, len(s.items))
	for _, it := range s.items {
		if it.ID != productID {
			next = append(next, it)
		}
	}
	return s.commit(ctx, next)
}

// SetQuantity removes the entry when quantity < 1. Unknown ids are a no-op
// apart from the re-persist, as with the other mutations.
func (s *cartStore) SetQuantity(ctx context.Context, productID, quantity int) error {
	if quantity < 1 {
		return s.Remove(ctx, productID)
	}
	if quantity > domain.MaxLineQuantity {
		return ErrQuantityTooLarge
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshot()
	if idx := s.indexOf(productID); idx > -1 {
		next[idx].Quantity = quantity
	}
	return s.commit(ctx, next)
}

func (s *cartStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, []domain.CartItem{})
}

func (s *cartStore) RemoveLines(ctx context.Context, lines []domain.CartItem) error {
	taken := make(map[int]int, len(lines))
	for _, l := range lines {
		taken[l.ID] += l.Quantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.CartItem, 0, len(s.items))
	for _, it := range s.items {
		it.Quantity -= taken[it.ID]
		if it.Quantity >= 1 {
			next = append(next, it)
		}
	}
	return s.commit(ctx, next)
}

func (s *cartStore) Items() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

func (s *cartStore) ItemCount() int {
	return s.Summary().ItemCount
}

func (s *cartStore) Subtotal() float64 {
	return s.Summary().Subtotal
}

func (s *cartStore) Summary() domain.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Summarize(s.items)
}

func (s *cartStore) Snapshot() ([]domain.CartItem, domain.Summary) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(), domain.Summarize(s.items)
}

func (s *cartStore) Has(productID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(productID) > -1
}
