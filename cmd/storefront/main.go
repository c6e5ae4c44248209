package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	cartAPI "github.com/ridloal/e-commerce-storefront/internal/cart/api"
	cartRepo "github.com/ridloal/e-commerce-storefront/internal/cart/repository"
	cartService "github.com/ridloal/e-commerce-storefront/internal/cart/service"
	checkoutAPI "github.com/ridloal/e-commerce-storefront/internal/checkout/api"
	checkoutService "github.com/ridloal/e-commerce-storefront/internal/checkout/service"
	orderAPI "github.com/ridloal/e-commerce-storefront/internal/order/api"
	orderRepo "github.com/ridloal/e-commerce-storefront/internal/order/repository"
	orderService "github.com/ridloal/e-commerce-storefront/internal/order/service"
	"github.com/ridloal/e-commerce-storefront/internal/platform/clock"
	"github.com/ridloal/e-commerce-storefront/internal/platform/config"
	"github.com/ridloal/e-commerce-storefront/internal/platform/logger"
	"github.com/ridloal/e-commerce-storefront/internal/platform/storage"
	productAPI "github.com/ridloal/e-commerce-storefront/internal/product/api"
	productService "github.com/ridloal/e-commerce-storefront/internal/product/service"
	userAPI "github.com/ridloal/e-commerce-storefront/internal/user/api"
	userRepo "github.com/ridloal/e-commerce-storefront/internal/user/repository"
	userService "github.com/ridloal/e-commerce-storefront/internal/user/service"
)

type app struct {
	router      *gin.Engine
	fulfillment *orderService.FulfillmentJob
}

// newApp restores the three stores from store and mounts every page under /api/v1.
func newApp(ctx context.Context, cfg config.Config, store storage.Storage, catalog productService.CatalogClient, clk clock.Clock) (*app, error) {
	cart, err := cartService.NewCartStore(ctx, cartRepo.NewStorageCartRepository(store))
	if err != nil {
		return nil, fmt.Errorf("failed to restore cart: %w", err)
	}
	auth, err := userService.NewAuthStore(ctx, userRepo.NewStorageUserRepository(store), clk, cfg.Auth.Delay)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	orders, err := orderService.NewOrderStore(ctx, orderRepo.NewStorageOrderRepository(store), clk)
	if err != nil {
		return nil, fmt.Errorf("failed to restore orders: %w", err)
	}

	products := productService.NewProductService(catalog)
	issuer := userService.NewJWTSessionIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, clk)
	gateway := checkoutService.NewSimulatedGateway(clk, cfg.Checkout.CardDelay, cfg.Checkout.RazorpayDelay)
	checkout := checkoutService.NewCheckoutService(cart, auth, orders, gateway)

	router := gin.Default()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := router.Group("/api/v1")
	productAPI.NewProductHandler(products).RegisterRoutes(apiV1)
	cartAPI.NewCartHandler(cart, products).RegisterRoutes(apiV1)
	userAPI.NewUserHandler(auth, issuer, orders).RegisterRoutes(apiV1)
	orderAPI.NewOrderHandler(orders).RegisterRoutes(apiV1, userAPI.RequireSession(issuer, auth))
	checkoutAPI.NewCheckoutHandler(checkout).RegisterRoutes(apiV1)

	var job *orderService.FulfillmentJob
	if cfg.Fulfillment.After > 0 {
		job = orderService.NewFulfillmentJob(orders, clk, cfg.Fulfillment.After)
	}
	return &app{router: router, fulfillment: job}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Invalid configuration", err)
		return
	}
	logger.SetLevel(cfg.LogLevel)
	logger.Info("Starting Storefront with %s storage...", cfg.Storage.Backend)

	ctx := context.Background()
	store, closeStore, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		logger.Error("Failed to open storage", err)
		return
	}
	defer closeStore()

	catalog := productService.NewHTTPCatalogClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)
	a, err := newApp(ctx, cfg, store, catalog, clock.New())
	if err != nil {
		logger.Error("Failed to initialise storefront", err)
		return
	}

	if a.fulfillment != nil {
		if err := a.fulfillment.Start(cfg.Fulfillment.Schedule); err != nil {
			logger.Error("Failed to start fulfillment job", err)
			return
		}
		defer a.fulfillment.Stop()
	}

	logger.Info("Storefront running on %s, catalog at %s", cfg.ListenAddr(), cfg.Catalog.BaseURL)
	if errSrv := a.router.Run(cfg.ListenAddr()); errSrv != nil {
		logger.Error("Failed to run Storefront server", errSrv)
	}
}
