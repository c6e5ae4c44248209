package mocks

import (
	"context"

	orderDomain "github.com/ridloal/e-commerce-storefront/internal/order/domain"
	"github.com/stretchr/testify/mock"
)

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) Charge(ctx context.Context, method orderDomain.PaymentMethod, amount float64) (string, error) {
	args := m.Called(ctx, method, amount)
	return args.String(0), args.Error(1)
}
