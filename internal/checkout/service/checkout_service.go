package service

import (
	"context"
	"errors"
	"fmt"

	cartService "github.com/ridloal/e-commerce-storefront/internal/cart/service"
	"github.com/ridloal/e-commerce-storefront/internal/checkout/domain"
	orderDomain "github.com/ridloal/e-commerce-storefront/internal/order/domain"
	orderService "github.com/ridloal/e-commerce-storefront/internal/order/service"
	"github.com/ridloal/e-commerce-storefront/internal/platform/logger"
	userService "github.com/ridloal/e-commerce-storefront/internal/user/service"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrPaymentFailed = errors.New("payment failed")
)

type CheckoutService interface {
	// PlaceOrder charges the cart total, records the order and takes the
	// purchased lines out of the cart.
	// Nothing is recorded and the cart is left alone when payment fails.
	PlaceOrder(ctx context.Context, req domain.CheckoutRequest) (*orderDomain.Order, error)
}

type checkoutService struct {
	cart    cartService.CartStore
	auth    userService.AuthStore
	orders  orderService.OrderStore
	gateway PaymentGateway
}

func NewCheckoutService(cart cartService.CartStore, auth userService.AuthStore, orders orderService.OrderStore, gateway PaymentGateway) CheckoutService {
	return &checkoutService{cart: cart, auth: auth, orders: orders, gateway: gateway}
}

func (s *checkoutService) PlaceOrder(ctx context.Context, req domain.CheckoutRequest) (*orderDomain.Order, error) {
	req = req.Normalize()
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	items, summary := s.cart.Snapshot()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	paymentID, err := s.gateway.Charge(ctx, req.PaymentMethod, summary.Total)
	if err != nil {
		logger.Error("PlaceOrder: payment via %s failed", err, req.PaymentMethod)
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	userID := orderDomain.GuestUserID
	if user := s.auth.CurrentUser(); user != nil {
		userID = user.ID
	}

	orderItems := make([]orderDomain.OrderItem, len(items))
	for i, it := range items {
		orderItems[i] = orderDomain.OrderItem{Product: it.Product, Quantity: it.Quantity, Price: it.Price}
	}

	order, err := s.orders.AddOrder(ctx, orderDomain.NewOrder{
		UserID:          userID,
		Items:           orderItems,
		Subtotal:        summary.Subtotal,
		ShippingFee:     summary.ShippingFee,
		Tax:             summary.Tax,
		Total:           summary.Total,
		Status:          orderDomain.StatusProcessing,
		ShippingAddress: req.ShippingAddress(),
		PaymentMethod:   req.PaymentMethod,
		PaymentID:       paymentID,
	})
	if err != nil {
		logger.Error("PlaceOrder: payment %s captured but order was not saved", err, paymentID)
		return nil, fmt.Errorf("%w: could not record order: %v", ErrPaymentFailed, err)
	}

	// Only the purchased lines leave the cart; items added while the payment
	// was processing stay.
	if err := s.cart.RemoveLines(ctx, items); err != nil {
		logger.Error("PlaceOrder: order %s saved but cart was not updated", err, order.ID)
	}
	logger.Info("Checkout: order %s placed by %s", order.ID, userID)
	return order, nil
}
