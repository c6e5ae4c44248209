package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/e-commerce-storefront/internal/order/service"
	"github.com/ridloal/e-commerce-storefront/internal/platform/logger"
	userAPI "github.com/ridloal/e-commerce-storefront/internal/user/api"
)

type OrderHandler struct {
	orders service.OrderStore
}

func NewOrderHandler(orders service.OrderStore) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// RegisterRoutes mounts the order pages. The history requires a session; the
// confirmation page does not, so guests can see the order they just placed.
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup, requireSession gin.HandlerFunc) {
	orderRoutes := router.Group("/orders")
	{
		orderRoutes.GET("", requireSession, h.ListOrders)
		orderRoutes.GET("/:id", h.GetOrder)
	}
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID := userAPI.SessionUserID(c)
	orders := h.orders.History(userID)
	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"stats":  h.orders.Stats(userID),
	})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orders.GetOrderByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("GetOrder: failed to load order", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		return
	}
	c.JSON(http.StatusOK, order)
}
