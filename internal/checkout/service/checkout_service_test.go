package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	cartRepo "github.com/ridloal/e-commerce-storefront/internal/cart/repository"
	cartService "github.com/ridloal/e-commerce-storefront/internal/cart/service"
	"github.com/ridloal/e-commerce-storefront/internal/checkout/domain"
	"github.com/ridloal/e-commerce-storefront/internal/checkout/service/mocks"
	orderDomain "github.com/ridloal/e-commerce-storefront/internal/order/domain"
	orderRepo "github.com/ridloal/e-commerce-storefront/internal/order/repository"
	orderRepoMocks "github.com/ridloal/e-commerce-storefront/internal/order/repository/mocks"
	orderService "github.com/ridloal/e-commerce-storefront/internal/order/service"
	"github.com/ridloal/e-commerce-storefront/internal/platform/clock"
	"github.com/ridloal/e-commerce-storefront/internal/platform/storage"
	productDomain "github.com/ridloal/e-commerce-storefront/internal/product/domain"
	userRepo "github.com/ridloal/e-commerce-storefront/internal/user/repository"
	userService "github.com/ridloal/e-commerce-storefront/internal/user/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	cart    cartService.CartStore
	auth    userService.AuthStore
	orders  orderService.OrderStore
	gateway *mocks.MockPaymentGateway
	service CheckoutService
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	ctx := context.Background()
	mem := storage.NewMemoryStorage()
	clk := clock.NewFake(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))

	cart, err := cartService.NewCartStore(ctx, cartRepo.NewStorageCartRepository(mem))
	require.NoError(t, err)
	auth, err := userService.NewAuthStore(ctx, userRepo.NewStorageUserRepository(mem), clk, 0)
	require.NoError(t, err)
	orders, err := orderService.NewOrderStore(ctx, orderRepo.NewStorageOrderRepository(mem), clk)
	require.NoError(t, err)

	gateway := new(mocks.MockPaymentGateway)
	return &checkoutFixture{
		cart:    cart,
		auth:    auth,
		orders:  orders,
		gateway: gateway,
		service: NewCheckoutService(cart, auth, orders, gateway),
	}
}

func razorpayRequest() domain.CheckoutRequest {
	return domain.CheckoutRequest{
		FirstName: "Ann", LastName: "Lee", Email: "ann@example.com",
		Address: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701", Country: "US",
		PaymentMethod: orderDomain.PaymentRazorpay,
	}
}

var ring = productDomain.Product{ID: 5, Title: "Ring", Price: 20}

func TestCheckoutService_PlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Guest checkout records the order and clears the cart", func(t *testing.T) {
		f := newCheckoutFixture(t)
		require.NoError(t, f.cart.Add(ctx, ring, 2))
		expectedTotal := 40 + 10 + 40*0.08
		f.gateway.On("Charge", ctx, orderDomain.PaymentRazorpay, mock.MatchedBy(func(amount float64) bool {
			return amount > expectedTotal-1e-9 && amount < expectedTotal+1e-9
		})).Return("rzp_abc", nil).Once()

		order, err := f.service.PlaceOrder(ctx, razorpayRequest())
		require.NoError(t, err)

		assert.Equal(t, orderDomain.GuestUserID, order.UserID)
		assert.Equal(t, orderDomain.StatusProcessing, order.Status)
		assert.Equal(t, "rzp_abc", order.PaymentID)
		assert.Equal(t, "Ann Lee", order.ShippingAddress.Name)
		assert.Equal(t, "62701", order.ShippingAddress.PostalCode)
		require.Len(t, order.Items, 1)
		assert.Equal(t, orderDomain.OrderItem{Product: ring, Quantity: 2, Price: 20}, order.Items[0])
		assert.InDelta(t, 40.0, order.Subtotal, 1e-9)
		assert.Equal(t, 10.0, order.ShippingFee)

		assert.Empty(t, f.cart.Items())
		stored, err := f.orders.GetOrderByID(order.ID)
		require.NoError(t, err)
		assert.Equal(t, order, stored)
		f.gateway.AssertExpectations(t)
	})

	t.Run("Signed in user owns the order", func(t *testing.T) {
		f := newCheckoutFixture(t)
		user, err := f.auth.Register(ctx, "Ann Lee", "ann@example.com", "pw")
		require.NoError(t, err)
		require.NoError(t, f.cart.Add(ctx, ring, 1))
		f.gateway.On("Charge", ctx, orderDomain.PaymentRazorpay, mock.Anything).Return("rzp_x", nil).Once()

		order, err := f.service.PlaceOrder(ctx, razorpayRequest())
		require.NoError(t, err)
		assert.Equal(t, user.ID, order.UserID)
		assert.Len(t, f.orders.GetUserOrders(user.ID), 1)
	})

	t.Run("Payment failure keeps the cart and records nothing", func(t *testing.T) {
		f := newCheckoutFixture(t)
		require.NoError(t, f.cart.Add(ctx, ring, 1))
		f.gateway.On("Charge", ctx, orderDomain.PaymentRazorpay, mock.Anything).Return("", errors.New("declined")).Once()

		order, err := f.service.PlaceOrder(ctx, razorpayRequest())
		assert.Nil(t, order)
		assert.ErrorIs(t, err, ErrPaymentFailed)
		assert.Len(t, f.cart.Items(), 1)
		assert.Empty(t, f.orders.Orders())
	})

	t.Run("Items added during payment stay in the cart", func(t *testing.T) {
		f := newCheckoutFixture(t)
		require.NoError(t, f.cart.Add(ctx, ring, 1))
		earrings := productDomain.Product{ID: 9, Title: "Earrings", Price: 11}
		f.gateway.On("Charge", ctx, orderDomain.PaymentRazorpay, mock.Anything).
			Run(func(mock.Arguments) {
				require.NoError(t, f.cart.Add(ctx, ring, 2))
				require.NoError(t, f.cart.Add(ctx, earrings, 1))
			}).
			Return("rzp_x", nil).Once()

		order, err := f.service.PlaceOrder(ctx, razorpayRequest())
		require.NoError(t, err)
		require.Len(t, order.Items, 1)
		assert.Equal(t, 1, order.Items[0].Quantity)
		assert.InDelta(t, 20.0, order.Subtotal, 1e-9)
		assert.InDelta(t, 20+10+20*0.08, order.Total, 1e-9)

		items := f.cart.Items()
		require.Len(t, items, 2)
		assert.Equal(t, ring.ID, items[0].ID)
		assert.Equal(t, 2, items[0].Quantity)
		assert.Equal(t, earrings.ID, items[1].ID)
	})

	t.Run("Order write failure is reported as a failed payment", func(t *testing.T) {
		f := newCheckoutFixture(t)
		require.NoError(t, f.cart.Add(ctx, ring, 1))

		repo := new(orderRepoMocks.MockOrderRepository)
		repo.On("LoadOrders", ctx).Return([]orderDomain.Order{}, nil).Once()
		repo.On("SaveOrders", ctx, mock.AnythingOfType("[]domain.Order")).Return(errors.New("quota exceeded")).Once()
		orders, err := orderService.NewOrderStore(ctx, repo, clock.NewFake(time.Now()))
		require.NoError(t, err)
		f.gateway.On("Charge", ctx, orderDomain.PaymentRazorpay, mock.Anything).Return("rzp_x", nil).Once()

		order, err := NewCheckoutService(f.cart, f.auth, orders, f.gateway).PlaceOrder(ctx, razorpayRequest())
		assert.Nil(t, order)
		assert.ErrorIs(t, err, ErrPaymentFailed)
		assert.Len(t, f.cart.Items(), 1)
		repo.AssertExpectations(t)
	})

	t.Run("Invalid form never charges", func(t *testing.T) {
		f := newCheckoutFixture(t)
		require.NoError(t, f.cart.Add(ctx, ring, 1))
		req := razorpayRequest()
		req.City = " "

		_, err := f.service.PlaceOrder(ctx, req)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "City is required", verr.Fields["city"])
		f.gateway.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Empty cart", func(t *testing.T) {
		f := newCheckoutFixture(t)
		_, err := f.service.PlaceOrder(ctx, razorpayRequest())
		assert.ErrorIs(t, err, ErrEmptyCart)
		f.gateway.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSimulatedGateway_Charge(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake(time.Now())
	gateway := NewSimulatedGateway(clk, 1000*time.Millisecond, 1500*time.Millisecond)

	id, err := gateway.Charge(ctx, orderDomain.PaymentCreditCard, 12.5)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^cc_[0-9a-z]{13}$`), id)

	id, err = gateway.Charge(ctx, orderDomain.PaymentRazorpay, 12.5)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^rzp_[0-9a-z]{13}$`), id)

	assert.Equal(t, []time.Duration{time.Second, 1500 * time.Millisecond}, clk.Sleeps())

	t.Run("Unknown method", func(t *testing.T) {
		_, err := gateway.Charge(ctx, "paypal", 1)
		assert.ErrorIs(t, err, ErrUnsupportedPaymentMethod)
	})

	t.Run("Cancelled during processing", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := gateway.Charge(cancelled, orderDomain.PaymentCreditCard, 1)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
