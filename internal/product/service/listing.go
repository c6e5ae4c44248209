package service

import (
	"math"
	"sort"
	"strings"

	"github.com/ridloal/e-commerce-storefront/internal/product/domain"
)

// DefaultFilterOptions is the listing page's initial panel state: every
// category, the full price range, catalog order.
func DefaultFilterOptions(products []domain.Product) domain.FilterOptions {
	return domain.FilterOptions{
		MinPrice: 0,
		MaxPrice: MaxPriceCeiling(products),
		SortBy:   domain.SortDefault,
	}
}

// MaxPriceCeiling rounds the most expensive product up to a whole unit.
func MaxPriceCeiling(products []domain.Product) float64 {
	if len(products) == 0 {
		return domain.DefaultMaxPrice
	}
	highest := products[0].Price
	for _, p := range products[1:] {
		if p.Price > highest {
			highest = p.Price
		}
	}
	return math.Ceil(highest)
}

// ApplyFilters returns the products matching opts, sorted by opts.SortBy. The
// input slice is left untouched and ties keep their input order.
func ApplyFilters(products []domain.Product, opts domain.FilterOptions) []domain.Product {
	query := strings.ToLower(strings.TrimSpace(opts.Query))

	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if opts.Category != "" && p.Category != opts.Category {
			continue
		}
		if p.Price < opts.MinPrice || p.Price > opts.MaxPrice {
			continue
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		filtered = append(filtered, p)
	}

	switch opts.SortBy {
	case domain.SortPriceLowHigh:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price < filtered[j].Price })
	case domain.SortPriceHighLow:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price > filtered[j].Price })
	case domain.SortRating:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Rating.Rate > filtered[j].Rating.Rate })
	}
	return filtered
}

func matchesQuery(p domain.Product, lowered string) bool {
	return strings.Contains(strings.ToLower(p.Title), lowered) ||
		strings.Contains(strings.ToLower(p.Description), lowered) ||
		strings.Contains(strings.ToLower(p.Category), lowered)
}
