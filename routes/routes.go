package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thebrand/storefront-go/handlers"
	customMiddleware "github.com/thebrand/storefront-go/middleware"
)

func SetupRoutes(e *echo.Echo, h *handlers.Handler) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Public routes
	e.POST("/register", h.SignUp)
	e.POST("/login", h.Login)
	e.GET("/api/products", h.GetProducts)
	e.GET("/api/products/:id", h.GetProduct)

	// Authenticated API routes
	api := e.Group("/api", customMiddleware.AuthMiddleware())

	// Catalog admin routes
	api.POST("/products", h.CreateProduct, customMiddleware.AdminOnly)
	api.PUT("/products/:id", h.UpdateProduct, customMiddleware.AdminOnly)
	api.DELETE("/products/:id", h.DeleteProduct, customMiddleware.AdminOnly)

	// Review routes
	api.POST("/products/:id/reviews", h.AddReview)

	// Cart routes
	api.GET("/cart", h.GetCart)
	api.POST("/cart", h.AddToCart)
	api.PUT("/cart/quantity", h.UpdateCartItemQuantity)
	api.DELETE("/cart/:productId", h.RemoveFromCart)
	api.DELETE("/cart", h.ClearCart)

	// Order routes
	api.POST("/orders", h.CreateOrder)
	api.GET("/orders", h.GetOrders)
	api.GET("/orders/:id", h.GetOrder)
	api.GET("/orders/:id/status", h.GetOrderStatus)
	api.PUT("/orders/:id/status", h.UpdateOrderStatus, customMiddleware.AdminOnly)
}
