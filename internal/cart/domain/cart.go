package domain

import (
	productDomain "github.com/ridloal/e-commerce-storefront/internal/product/domain"
)

const (
	FreeShippingThreshold = 50.0
	FlatShippingFee       = 10.0
	TaxRate               = 0.08

	// MaxLineQuantity caps a single cart line.
	MaxLineQuantity = 999
)

// CartItem is a product snapshot plus quantity; the product id is its identity.
type CartItem struct {
	productDomain.Product
	Quantity int `json:"quantity"`
}

func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

type Summary struct {
	ItemCount   int     `json:"itemCount"`
	Subtotal    float64 `json:"subtotal"`
	ShippingFee float64 `json:"shippingFee"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"`
}

// Summarize applies the storefront pricing rules: shipping is free above the
// threshold, tax is a flat rate on the subtotal.
func Summarize(items []CartItem) Summary {
	var s Summary
	for _, it := range items {
		s.ItemCount += it.Quantity
		s.Subtotal += it.LineTotal()
	}
	if len(items) > 0 && s.Subtotal <= FreeShippingThreshold {
		s.ShippingFee = FlatShippingFee
	}
	s.Tax = s.Subtotal * TaxRate
	s.Total = s.Subtotal + s.ShippingFee + s.Tax
	return s
}

type CartResponse struct {
	Items   []CartItem `json:"items"`
	Summary Summary    `json:"summary"`
}

type AddItemRequest struct {
	ProductID int `json:"productId" binding:"required,gt=0"`
	Quantity  int `json:"quantity" binding:"omitempty,gte=1,lte=999"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,lte=999"`
}
