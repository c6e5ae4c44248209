package domain

import (
	"time"

	productDomain "github.com/ridloal/e-commerce-storefront/internal/product/domain"
)

type OrderStatus string

const (
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
)

type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "creditCard"
	PaymentRazorpay   PaymentMethod = "razorpay"
)

// GuestUserID owns orders placed while signed out.
const GuestUserID = "guest"

type ShippingAddress struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// OrderItem keeps the product as it was at purchase time.
type OrderItem struct {
	Product  productDomain.Product `json:"product"`
	Quantity int                   `json:"quantity"`
	Price    float64               `json:"price"`
}

// NewOrder is everything the caller supplies; the store assigns id and time.
type NewOrder struct {
	UserID          string          `json:"userId"`
	Items           []OrderItem     `json:"items"`
	Subtotal        float64         `json:"subtotal"`
	ShippingFee     float64         `json:"shippingFee"`
	Tax             float64         `json:"tax"`
	Total           float64         `json:"total"`
	Status          OrderStatus     `json:"status"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	PaymentID       string          `json:"paymentId"`
}

// Order is immutable once stored, except for Status.
type Order struct {
	ID string `json:"id"`
	NewOrder
	CreatedAt time.Time `json:"createdAt"`
}

type Stats struct {
	Total      int `json:"total"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
}
