package domain

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is the catalog's representation; it is never mutated locally.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

type SortBy string

const (
	SortDefault      SortBy = "default"
	SortPriceLowHigh SortBy = "price-low-high"
	SortPriceHighLow SortBy = "price-high-low"
	SortRating       SortBy = "rating"
)

const (
	DefaultMaxPrice   = 1000.0
	FeaturedListLimit = 8
)

// FilterOptions mirrors the listing page's filter panel. An empty Category
// means all categories.
type FilterOptions struct {
	Category string  `form:"category" json:"category"`
	MinPrice float64 `form:"minPrice" json:"minPrice"`
	MaxPrice float64 `form:"maxPrice" json:"maxPrice"`
	SortBy   SortBy  `form:"sortBy" json:"sortBy"`
	Query    string  `form:"q" json:"q,omitempty"`
}

type ListResponse struct {
	Products []Product     `json:"products"`
	Filters  FilterOptions `json:"filters"`
	Total    int           `json:"total"`
}
