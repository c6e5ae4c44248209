package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ridloal/e-commerce-storefront/internal/checkout/domain"
	"github.com/ridloal/e-commerce-storefront/internal/checkout/service"
	"github.com/ridloal/e-commerce-storefront/internal/platform/logger"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(cs service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: cs}
}

// RegisterRoutes also teaches gin's validator the card rules so bind errors
// carry the same fields as the service's own validation.
func (h *CheckoutHandler) RegisterRoutes(router *gin.RouterGroup) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterStructValidation(domain.CardStructLevel, domain.CheckoutRequest{})
	}
	router.POST("/checkout", h.PlaceOrder)
}

func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req domain.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			respondValidation(c, domain.NewValidationError(verrs))
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	order, err := h.checkoutService.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			respondValidation(c, verr)
		case errors.Is(err, service.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
		case errors.Is(err, service.ErrPaymentFailed):
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error": "There was an issue processing your payment. Please try again.",
			})
		default:
			logger.Error("PlaceOrder Hdl: unhandled service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		}
		return
	}

	c.JSON(http.StatusCreated, order)
}

func respondValidation(c *gin.Context, verr *domain.ValidationError) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":  "Please correct the highlighted fields",
		"fields": verr.Fields,
	})
}
