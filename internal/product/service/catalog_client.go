package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ridloal/e-commerce-storefront/internal/platform/logger"
	"github.com/ridloal/e-commerce-storefront/internal/product/domain"
)

// ErrCatalogUnavailable covers transport failures, non-2xx answers and
// undecodable bodies from the catalog API.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

type CatalogClient interface {
	GetProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
	GetCategories(ctx context.Context) ([]string, error)
	GetProductsByCategory(ctx context.Context, category string) ([]domain.Product, error)
}

type httpCatalogClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewHTTPCatalogClient(baseURL string, timeout time.Duration) CatalogClient {
	return &httpCatalogClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// getJSON issues a GET for path and decodes the body into dst. what names the
// resource in error messages. A 404 additionally wraps notFound when it is set.
func (c *httpCatalogClient) getJSON(ctx context.Context, path, what string, notFound error, dst interface{}) error {
	reqURL := c.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		logger.Error("CatalogClient: NewRequest failed for %s", err, reqURL)
		return fmt.Errorf("%w: failed to fetch %s: %v", ErrCatalogUnavailable, what, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logger.Error("CatalogClient: request to %s failed", err, reqURL)
		return fmt.Errorf("%w: failed to fetch %s: %v", ErrCatalogUnavailable, what, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && notFound != nil {
		logger.Warn("CatalogClient: %s returned status 404", reqURL)
		return fmt.Errorf("%w: %w: failed to fetch %s: status 404", ErrCatalogUnavailable, notFound, what)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Error("CatalogClient: %s returned status %d", nil, reqURL, resp.StatusCode)
		return fmt.Errorf("%w: failed to fetch %s: status %d", ErrCatalogUnavailable, what, resp.StatusCode)
	}

	// An empty body decodes as JSON null.
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		logger.Error("CatalogClient: JSON decode failed for %s", err, reqURL)
		return fmt.Errorf("%w: failed to decode %s: %v", ErrCatalogUnavailable, what, err)
	}
	return nil
}

func (c *httpCatalogClient) GetProducts(ctx context.Context) ([]domain.Product, error) {
	products := []domain.Product{}
	if err := c.getJSON(ctx, "/products", "products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *httpCatalogClient) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	var product *domain.Product
	what := "product with ID: " + strconv.Itoa(id)
	if err := c.getJSON(ctx, "/products/"+strconv.Itoa(id), what, ErrProductNotFound, &product); err != nil {
		return nil, err
	}
	// The public catalog answers 200 with an empty body for unknown ids.
	if product == nil || product.ID == 0 {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (c *httpCatalogClient) GetCategories(ctx context.Context) ([]string, error) {
	categories := []string{}
	if err := c.getJSON(ctx, "/products/categories", "categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *httpCatalogClient) GetProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	products := []domain.Product{}
	what := "products in category: " + category
	if err := c.getJSON(ctx, "/products/category/"+url.PathEscape(category), what, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}
