package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/e-commerce-storefront/internal/cart/domain"
	"github.com/ridloal/e-commerce-storefront/internal/cart/service"
	"github.com/ridloal/e-commerce-storefront/internal/platform/logger"
	productAPI "github.com/ridloal/e-commerce-storefront/internal/product/api"
	productService "github.com/ridloal/e-commerce-storefront/internal/product/service"
)

type CartHandler struct {
	cart     service.CartStore
	products productService.ProductService
}

func NewCartHandler(cart service.CartStore, products productService.ProductService) *CartHandler {
	return &CartHandler{cart: cart, products: products}
}

func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup) {
	cartRoutes := router.Group("/cart")
	{
		cartRoutes.GET("", h.GetCart)
		cartRoutes.DELETE("", h.ClearCart)
		cartRoutes.POST("/items", h.AddItem)
		cartRoutes.PUT("/items/:id", h.UpdateQuantity)
		cartRoutes.DELETE("/items/:id", h.RemoveItem)
	}
}

func (h *CartHandler) respondCart(c *gin.Context, status int) {
	items, summary := h.cart.Snapshot()
	c.JSON(status, domain.CartResponse{Items: items, Summary: summary})
}

func (h *CartHandler) GetCart(c *gin.Context) {
	h.respondCart(c, http.StatusOK)
}

// AddItem resolves the product from the catalog so the cart always stores a
// complete snapshot.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req domain.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	product, err := h.products.GetProductDetails(c.Request.Context(), req.ProductID)
	if err != nil {
		productAPI.RespondCatalogError(c, err, "Failed to retrieve product")
		return
	}

	if err := h.cart.Add(c.Request.Context(), *product, req.Quantity); err != nil {
		if errors.Is(err, service.ErrQuantityTooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("AddItem: failed to add product %d", err, req.ProductID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	logger.Info("Cart: added product %d", req.ProductID)
	h.respondCart(c, http.StatusCreated)
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	productID, ok := h.itemID(c)
	if !ok {
		return
	}
	var req domain.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	if err := h.cart.SetQuantity(c.Request.Context(), productID, *req.Quantity); err != nil {
		if errors.Is(err, service.ErrQuantityTooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("UpdateQuantity: failed for product %d", err, productID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	h.respondCart(c, http.StatusOK)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, ok := h.itemID(c)
	if !ok {
		return
	}
	if err := h.cart.Remove(c.Request.Context(), productID); err != nil {
		logger.Error("RemoveItem: failed for product %d", err, productID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	h.respondCart(c, http.StatusOK)
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cart.Clear(c.Request.Context()); err != nil {
		logger.Error("ClearCart: failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}
	h.respondCart(c, http.StatusOK)
}

// itemID parses the :id param and rejects ids that have no cart entry.
func (h *CartHandler) itemID(c *gin.Context) (int, bool) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil || !h.cart.Has(productID) {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrItemNotInCart.Error()})
		return 0, false
	}
	return productID, true
}
