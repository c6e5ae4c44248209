package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	orderDomain "github.com/ridloal/e-commerce-storefront/internal/order/domain"
	"github.com/ridloal/e-commerce-storefront/internal/platform/clock"
	"github.com/ridloal/e-commerce-storefront/internal/platform/logger"
)

var ErrUnsupportedPaymentMethod = errors.New("unsupported payment method")

const (
	paymentIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	paymentIDLength   = 13
)

// PaymentGateway charges the order total and returns a payment reference.
type PaymentGateway interface {
	Charge(ctx context.Context, method orderDomain.PaymentMethod, amount float64) (string, error)
}

// SimulatedGateway never contacts a processor: it waits a per-method delay and
// returns a random reference such as "cc_k3j9x0a1b2c3d".
type SimulatedGateway struct {
	clock         clock.Clock
	cardDelay     time.Duration
	razorpayDelay time.Duration
}

func NewSimulatedGateway(clk clock.Clock, cardDelay, razorpayDelay time.Duration) *SimulatedGateway {
	return &SimulatedGateway{clock: clk, cardDelay: cardDelay, razorpayDelay: razorpayDelay}
}

func (g *SimulatedGateway) Charge(ctx context.Context, method orderDomain.PaymentMethod, amount float64) (string, error) {
	var (
		prefix string
		delay  time.Duration
	)
	switch method {
	case orderDomain.PaymentCreditCard:
		prefix, delay = "cc_", g.cardDelay
	case orderDomain.PaymentRazorpay:
		prefix, delay = "rzp_", g.razorpayDelay
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPaymentMethod, method)
	}

	if err := g.clock.Sleep(ctx, delay); err != nil {
		return "", err
	}
	id := prefix + randomPaymentSuffix()
	logger.Info("Payment: charged %.2f via %s (%s)", amount, method, id)
	return id, nil
}

func randomPaymentSuffix() string {
	b := make([]byte, paymentIDLength)
	for i := range b {
		b[i] = paymentIDAlphabet[rand.Intn(len(paymentIDAlphabet))]
	}
	return string(b)
}
