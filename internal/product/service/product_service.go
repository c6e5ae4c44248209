package service

import (
	"context"
	"errors"

	"github.com/ridloal/e-commerce-storefront/internal/platform/logger"
	"github.com/ridloal/e-commerce-storefront/internal/product/domain"
)

var ErrProductNotFound = errors.New("product not found")

type ProductService interface {
	ListProducts(ctx context.Context, opts domain.FilterOptions) (*domain.ListResponse, error)
	GetProductDetails(ctx context.Context, productID int) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	FeaturedProducts(ctx context.Context) ([]domain.Product, error)
}

type productServiceImpl struct {
	catalog CatalogClient
}

func NewProductService(catalog CatalogClient) ProductService {
	return &productServiceImpl{catalog: catalog}
}

// ListProducts fetches the listing (narrowed server-side when a category is
// set) and applies the filter panel. A zero MaxPrice means "up to the most
// expensive product".
func (s *productServiceImpl) ListProducts(ctx context.Context, opts domain.FilterOptions) (*domain.ListResponse, error) {
	var (
		products []domain.Product
		err      error
	)
	if opts.Category != "" {
		products, err = s.catalog.GetProductsByCategory(ctx, opts.Category)
	} else {
		products, err = s.catalog.GetProducts(ctx)
	}
	if err != nil {
		logger.Error("ListProducts: catalog error", err)
		return nil, err
	}

	if opts.MaxPrice <= 0 {
		opts.MaxPrice = MaxPriceCeiling(products)
	}
	if opts.MinPrice < 0 {
		opts.MinPrice = 0
	}
	if opts.SortBy == "" {
		opts.SortBy = domain.SortDefault
	}

	result := ApplyFilters(products, opts)
	return &domain.ListResponse{
		Products: result,
		Filters:  opts,
		Total:    len(result),
	}, nil
}

func (s *productServiceImpl) GetProductDetails(ctx context.Context, productID int) (*domain.Product, error) {
	if productID <= 0 {
		return nil, ErrProductNotFound
	}
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		if !errors.Is(err, ErrProductNotFound) {
			logger.Error("GetProductDetails: catalog error for product %d", err, productID)
		}
		return nil, err
	}
	return product, nil
}

func (s *productServiceImpl) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.catalog.GetCategories(ctx)
	if err != nil {
		logger.Error("ListCategories: catalog error", err)
		return nil, err
	}
	return categories, nil
}

// FeaturedProducts is the home page selection: the first products of the catalog.
func (s *productServiceImpl) FeaturedProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.catalog.GetProducts(ctx)
	if err != nil {
		logger.Error("FeaturedProducts: catalog error", err)
		return nil, err
	}
	if len(products) > domain.FeaturedListLimit {
		products = products[:domain.FeaturedListLimit]
	}
	return products, nil
}
