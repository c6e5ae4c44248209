package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	orderDomain "github.com/ridloal/e-commerce-storefront/internal/order/domain"
	"github.com/ridloal/e-commerce-storefront/internal/platform/logger"
	"github.com/ridloal/e-commerce-storefront/internal/user/domain"
	"github.com/ridloal/e-commerce-storefront/internal/user/service"
)

// OrderStats is the slice of the order store the profile page needs.
type OrderStats interface {
	Stats(userID string) orderDomain.Stats
}

type UserHandler struct {
	auth   service.AuthStore
	issuer service.SessionIssuer
	orders OrderStats
}

func NewUserHandler(auth service.AuthStore, issuer service.SessionIssuer, orders OrderStats) *UserHandler {
	return &UserHandler{auth: auth, issuer: issuer, orders: orders}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", h.Register)
		authRoutes.POST("/login", h.Login)
		authRoutes.POST("/logout", h.Logout)
		authRoutes.GET("/me", RequireSession(h.issuer, h.auth), h.Me)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.respondAuthError(c, err, "Failed to register user")
		return
	}
	h.respondSession(c, http.StatusCreated, *user)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondAuthError(c, err, "Failed to login")
		return
	}
	h.respondSession(c, http.StatusOK, *user)
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context()); err != nil {
		logger.Error("Logout: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *UserHandler) Me(c *gin.Context) {
	user := h.auth.CurrentUser()
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"stats": h.orders.Stats(user.ID),
	})
}

func (h *UserHandler) respondSession(c *gin.Context, status int, user domain.User) {
	token, err := h.issuer.Issue(user)
	if err != nil {
		logger.Error("Auth: failed to issue session", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}
	c.JSON(status, domain.AuthResponse{User: user, Token: token})
}

func (h *UserHandler) respondAuthError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrMissingCredentials), errors.Is(err, service.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "Request cancelled"})
	default:
		logger.Error("%s", err, fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
