package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thebrand/storefront-go/metrics"
	"github.com/thebrand/storefront-go/models"
)

type addToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Size      string `json:"size" validate:"required,oneof=XS S M L XL XXL"`
	Color     string `json:"color" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

func (h *Handler) AddToCart(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	var req addToCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return httpError(c, err)
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	key := models.LineKey{ProductID: productID, Size: models.ProductSize(req.Size), Color: req.Color}
	if _, err := h.Cart.AddLine(ctx, userID, key, req.Quantity); err != nil {
		return httpError(c, err)
	}
	metrics.CartMutations.WithLabelValues("add").Inc()

	view, err := h.Cart.GetCart(ctx, userID)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// GetCart returns the user's cart lines in insertion order with products
// resolved.
func (h *Handler) GetCart(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	view, err := h.Cart.GetCart(ctx, userID)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

type updateCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Size      string `json:"size" validate:"required,oneof=XS S M L XL XXL"`
	Color     string `json:"color" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// UpdateCartItemQuantity replaces (not adds to) a line's quantity.
func (h *Handler) UpdateCartItemQuantity(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	var req updateCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return httpError(c, err)
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	key := models.LineKey{ProductID: productID, Size: models.ProductSize(req.Size), Color: req.Color}
	if _, err := h.Cart.UpdateLine(ctx, userID, key, req.Quantity); err != nil {
		return httpError(c, err)
	}
	metrics.CartMutations.WithLabelValues("update").Inc()

	view, err := h.Cart.GetCart(ctx, userID)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// RemoveFromCart deletes a line. Removing a line that is not there succeeds
// and returns the unchanged cart.
func (h *Handler) RemoveFromCart(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	key := models.LineKey{
		ProductID: productID,
		Size:      models.ProductSize(c.QueryParam("size")),
		Color:     c.QueryParam("color"),
	}
	if err := h.Cart.RemoveLine(ctx, userID, key); err != nil {
		return httpError(c, err)
	}
	metrics.CartMutations.WithLabelValues("remove").Inc()

	view, err := h.Cart.GetCart(ctx, userID)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// ClearCart empties the cart; clearing an already empty cart succeeds.
func (h *Handler) ClearCart(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.Cart.Clear(ctx, userID); err != nil {
		return httpError(c, err)
	}
	metrics.CartMutations.WithLabelValues("clear").Inc()

	return c.JSON(http.StatusOK, map[string]string{"message": "Cart cleared successfully"})
}
