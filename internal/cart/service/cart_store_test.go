package service

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/ridloal/e-commerce-storefront/internal/cart/domain"
	"github.com/ridloal/e-commerce-storefront/internal/cart/repository"
	"github.com/ridloal/e-commerce-storefront/internal/cart/repository/mocks"
	"github.com/ridloal/e-commerce-storefront/internal/platform/storage"
	productDomain "github.com/ridloal/e-commerce-storefront/internal/product/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	backpack = productDomain.Product{ID: 1, Title: "Backpack", Price: 109.95, Category: "men's clothing"}
	tshirt   = productDomain.Product{ID: 2, Title: "T-Shirt", Price: 22.3, Category: "men's clothing"}
	ring     = productDomain.Product{ID: 5, Title: "Ring", Price: 9.99, Category: "jewelery"}
)

func newTestCart(t *testing.T) (CartStore, storage.Storage) {
	t.Helper()
	mem := storage.NewMemoryStorage()
	store, err := NewCartStore(context.Background(), repository.NewStorageCartRepository(mem))
	require.NoError(t, err)
	return store, mem
}

func persistedItems(t *testing.T, s storage.Storage) []domain.CartItem {
	t.Helper()
	var items []domain.CartItem
	_, err := storage.LoadJSON(context.Background(), s, storage.KeyCart, &items)
	require.NoError(t, err)
	return items
}

func TestCartStore_AddMergesByProductID(t *testing.T) {
	ctx := context.Background()
	cart, mem := newTestCart(t)

	require.NoError(t, cart.Add(ctx, backpack, 1))
	require.NoError(t, cart.Add(ctx, tshirt, 2))
	require.NoError(t, cart.Add(ctx, backpack, 3))

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 4, items[0].Quantity)
	assert.Equal(t, 2, items[1].Quantity)
	assert.Equal(t, 6, cart.ItemCount())
	assert.Equal(t, items, persistedItems(t, mem))
}

func TestCartStore_QuantityLimit(t *testing.T) {
	ctx := context.Background()
	cart, mem := newTestCart(t)

	assert.ErrorIs(t, cart.Add(ctx, backpack, math.MaxInt), ErrQuantityTooLarge)
	assert.Empty(t, cart.Items())

	require.NoError(t, cart.Add(ctx, backpack, domain.MaxLineQuantity-1))
	require.NoError(t, cart.Add(ctx, backpack, 1))
	assert.ErrorIs(t, cart.Add(ctx, backpack, 1), ErrQuantityTooLarge)
	assert.ErrorIs(t, cart.Add(ctx, backpack, math.MaxInt), ErrQuantityTooLarge)
	assert.ErrorIs(t, cart.SetQuantity(ctx, backpack.ID, domain.MaxLineQuantity+1), ErrQuantityTooLarge)

	assert.Equal(t, domain.MaxLineQuantity, cart.ItemCount())
	assert.Greater(t, cart.Subtotal(), 0.0)
	assert.Equal(t, domain.MaxLineQuantity, persistedItems(t, mem)[0].Quantity)
}

func TestCartStore_RestoreCapsOversizedLines(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryStorage()
	require.NoError(t, storage.SaveJSON(ctx, mem, storage.KeyCart, []domain.CartItem{
		{Product: ring, Quantity: math.MaxInt},
		{Product: ring, Quantity: 5},
	}))

	cart, err := NewCartStore(ctx, repository.NewStorageCartRepository(mem))
	require.NoError(t, err)
	require.Len(t, cart.Items(), 1)
	assert.Equal(t, domain.MaxLineQuantity, cart.ItemCount())
}

func TestCartStore_RemoveLinesKeepsNewerItems(t *testing.T) {
	ctx := context.Background()
	cart, _ := newTestCart(t)
	require.NoError(t, cart.Add(ctx, backpack, 2))
	require.NoError(t, cart.Add(ctx, tshirt, 1))

	lines, summary := cart.Snapshot()
	assert.Equal(t, 3, summary.ItemCount)

	require.NoError(t, cart.Add(ctx, backpack, 1))
	require.NoError(t, cart.Add(ctx, ring, 4))
	require.NoError(t, cart.RemoveLines(ctx, lines))

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, backpack.ID, items[0].ID)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, ring.ID, items[1].ID)
	assert.Equal(t, 4, items[1].Quantity)
	assert.False(t, cart.Has(tshirt.ID))
}

func TestCartStore_AddDefaultsToOne(t *testing.T) {
	cart, _ := newTestCart(t)
	require.NoError(t, cart.Add(context.Background(), ring, 0))
	assert.Equal(t, 1, cart.ItemCount())
}

func TestCartStore_SetQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("updates quantity", func(t *testing.T) {
		cart, mem := newTestCart(t)
		require.NoError(t, cart.Add(ctx, tshirt, 1))
		require.NoError(t, cart.SetQuantity(ctx, tshirt.ID, 5))
		assert.Equal(t, 5, cart.ItemCount())
		assert.Equal(t, 5, persistedItems(t, mem)[0].Quantity)
	})

	for _, qty := range []int{0, -1, -10} {
		t.Run("non-positive behaves as remove", func(t *testing.T) {
			viaSet, memSet := newTestCart(t)
			viaRemove, memRemove := newTestCart(t)
			for _, c := range []CartStore{viaSet, viaRemove} {
				require.NoError(t, c.Add(ctx, tshirt, 2))
				require.NoError(t, c.Add(ctx, ring, 1))
			}

			require.NoError(t, viaSet.SetQuantity(ctx, tshirt.ID, qty))
			require.NoError(t, viaRemove.Remove(ctx, tshirt.ID))

			assert.Equal(t, viaRemove.Items(), viaSet.Items())
			assert.Equal(t, persistedItems(t, memRemove), persistedItems(t, memSet))
			assert.False(t, viaSet.Has(tshirt.ID))
		})
	}
}

func TestCartStore_ClearAndSummary(t *testing.T) {
	ctx := context.Background()
	cart, mem := newTestCart(t)

	require.NoError(t, cart.Add(ctx, ring, 2))
	s := cart.Summary()
	assert.InDelta(t, 19.98, s.Subtotal, 1e-9)
	assert.Equal(t, domain.FlatShippingFee, s.ShippingFee)
	assert.InDelta(t, 19.98*domain.TaxRate, s.Tax, 1e-9)
	assert.InDelta(t, 19.98+10+19.98*0.08, s.Total, 1e-9)

	require.NoError(t, cart.Add(ctx, backpack, 1))
	assert.Zero(t, cart.Summary().ShippingFee)

	require.NoError(t, cart.Clear(ctx))
	assert.Empty(t, cart.Items())
	assert.Equal(t, domain.Summary{}, cart.Summary())
	assert.Empty(t, persistedItems(t, mem))
}

func TestCartStore_RestoresPersistedCart(t *testing.T) {
	ctx := context.Background()
	cart, mem := newTestCart(t)
	require.NoError(t, cart.Add(ctx, backpack, 2))

	restored, err := NewCartStore(ctx, repository.NewStorageCartRepository(mem))
	require.NoError(t, err)
	assert.Equal(t, cart.Items(), restored.Items())

	t.Run("corrupt document starts empty", func(t *testing.T) {
		require.NoError(t, mem.Set(ctx, storage.KeyCart, "not-json"))
		restored, err := NewCartStore(ctx, repository.NewStorageCartRepository(mem))
		require.NoError(t, err)
		assert.Empty(t, restored.Items())
	})
}

func TestCartStore_FailedPersistLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockCartRepository)
	repo.On("LoadItems", ctx).Return([]domain.CartItem{{Product: tshirt, Quantity: 1}}, nil).Once()
	repo.On("SaveItems", ctx, mock.Anything).Return(errors.New("disk full")).Once()

	cart, err := NewCartStore(ctx, repo)
	require.NoError(t, err)

	err = cart.Add(ctx, backpack, 1)
	assert.Error(t, err)
	assert.Len(t, cart.Items(), 1)
	assert.Equal(t, 1, cart.ItemCount())
	repo.AssertExpectations(t)
}

// Random operation sequences must keep the derived values equal to the
// persisted document.
func TestCartStore_DerivedValuesMatchPersistedState(t *testing.T) {
	ctx := context.Background()
	products := []productDomain.Product{backpack, tshirt, ring}
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 20; run++ {
		cart, mem := newTestCart(t)
		for step := 0; step < 50; step++ {
			p := products[rng.Intn(len(products))]
			switch rng.Intn(3) {
			case 0:
				require.NoError(t, cart.Add(ctx, p, rng.Intn(4)+1))
			case 1:
				require.NoError(t, cart.Remove(ctx, p.ID))
			default:
				require.NoError(t, cart.SetQuantity(ctx, p.ID, rng.Intn(6)-2))
			}

			persisted := persistedItems(t, mem)
			count, subtotal := 0, 0.0
			seen := map[int]bool{}
			for _, it := range persisted {
				assert.GreaterOrEqual(t, it.Quantity, 1)
				assert.False(t, seen[it.ID], "duplicate entry for product %d", it.ID)
				seen[it.ID] = true
				count += it.Quantity
				subtotal += it.Price * float64(it.Quantity)
			}
			assert.Equal(t, count, cart.ItemCount())
			assert.True(t, math.Abs(subtotal-cart.Subtotal()) < 1e-9)
		}
	}
}
