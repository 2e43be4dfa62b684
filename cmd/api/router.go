package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vgreen-backend/internal/shared/middleware"
	"vgreen-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupPromotionRoutes(v1, c)
		setupCartRoutes(v1, c)
		setupCatalogRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// PROMOTION ROUTES (storefront + internal)
// ========================================
func setupPromotionRoutes(v1 *gin.RouterGroup, c *container.Container) {
	promotions := v1.Group("/promotions")
	{
		promotions.GET("", c.PromotionPublicHandler.ListActive)
		promotions.GET("/code/:code", c.PromotionPublicHandler.GetByCode)
		promotions.POST("/validate", c.PromotionPublicHandler.ValidateCode)

		// Internal: order service gọi khi đơn hàng hoàn tất
		promotions.POST("/usage", c.PromotionPublicHandler.RecordUsage)
	}
}

// ========================================
// CART ROUTES
// ========================================
func setupCartRoutes(v1 *gin.RouterGroup, c *container.Container) {
	cart := v1.Group("/cart")
	{
		cart.POST("/price", c.CartHandler.Price)
	}
}

// ========================================
// CATALOG ROUTES
// ========================================
func setupCatalogRoutes(v1 *gin.RouterGroup, c *container.Container) {
	products := v1.Group("/products")
	{
		products.GET("/:sku", c.ProductHandler.GetBySKU)
	}
}

// ========================================
// ADMIN ROUTES (JWT + admin role)
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(c.JWTManager),
		middleware.AdminMiddleware(),
	)
	{
		promotions := admin.Group("/promotions")
		{
			promotions.POST("", c.PromotionAdminHandler.Create)
			promotions.GET("", c.PromotionAdminHandler.List)
			promotions.GET("/:id", c.PromotionAdminHandler.Get)
			promotions.PUT("/:id", c.PromotionAdminHandler.Update)
			promotions.PATCH("/:id/status", c.PromotionAdminHandler.UpdateStatus)
			promotions.DELETE("/:id", c.PromotionAdminHandler.Delete)
			promotions.PUT("/:id/target", c.PromotionAdminHandler.SetTarget)
			promotions.DELETE("/:id/target", c.PromotionAdminHandler.RemoveTarget)
			promotions.GET("/:id/usage", c.PromotionAdminHandler.UsageHistory)
		}
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "ok"
		if err := c.DB.HealthCheck(checkCtx); err != nil {
			dbStatus = "down"
		}

		cacheStatus := "ok"
		if err := c.Cache.Ping(checkCtx); err != nil {
			cacheStatus = "down"
		}

		status := http.StatusOK
		if dbStatus != "ok" {
			status = http.StatusServiceUnavailable
		}

		ctx.JSON(status, gin.H{
			"status":   dbStatus,
			"database": dbStatus,
			"cache":    cacheStatus,
			"time":     time.Now().UTC(),
		})
	}
}
