package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/e-commerce-storefront/internal/platform/logger"
	"github.com/ridloal/e-commerce-storefront/internal/product/domain"
	"github.com/ridloal/e-commerce-storefront/internal/product/service"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(ps service.ProductService) *ProductHandler {
	return &ProductHandler{productService: ps}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	productRoutes := router.Group("/products")
	{
		productRoutes.GET("", h.ListProducts)
		productRoutes.GET("/featured", h.FeaturedProducts)
		productRoutes.GET("/:id", h.GetProduct)
	}
	categoryRoutes := router.Group("/categories")
	{
		categoryRoutes.GET("", h.ListCategories)
		categoryRoutes.GET("/:name/products", h.ListCategoryProducts)
	}
}

// RespondCatalogError maps catalog failures onto HTTP statuses.
func RespondCatalogError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrProductNotFound.Error()})
	case errors.Is(err, service.ErrCatalogUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		logger.Error("%s", err, fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	var opts domain.FilterOptions
	if err := c.ShouldBindQuery(&opts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter parameters: " + err.Error()})
		return
	}
	h.respondList(c, opts)
}

func (h *ProductHandler) ListCategoryProducts(c *gin.Context) {
	var opts domain.FilterOptions
	if err := c.ShouldBindQuery(&opts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter parameters: " + err.Error()})
		return
	}
	opts.Category = c.Param("name")
	h.respondList(c, opts)
}

func (h *ProductHandler) respondList(c *gin.Context, opts domain.FilterOptions) {
	resp, err := h.productService.ListProducts(c.Request.Context(), opts)
	if err != nil {
		RespondCatalogError(c, err, "Failed to retrieve products")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) FeaturedProducts(c *gin.Context) {
	products, err := h.productService.FeaturedProducts(c.Request.Context())
	if err != nil {
		RespondCatalogError(c, err, "Failed to retrieve products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrProductNotFound.Error()})
		return
	}
	product, err := h.productService.GetProductDetails(c.Request.Context(), productID)
	if err != nil {
		RespondCatalogError(c, err, "Failed to retrieve product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.productService.ListCategories(c.Request.Context())
	if err != nil {
		RespondCatalogError(c, err, "Failed to retrieve categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}
