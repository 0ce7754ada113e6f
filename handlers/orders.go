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

// CreateOrder places an order from the user's current cart. Stock is
// consumed here, and only here; the cart is cleared on success.
func (h *Handler) CreateOrder(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	order, err := h.Orders.PlaceOrder(ctx, userID)
	if err != nil {
		return httpError(c, err)
	}
	metrics.OrdersPlaced.Inc()

	return c.JSON(http.StatusCreated, order)
}

func (h *Handler) GetOrder(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)
	isAdmin, _ := c.Get("isAdmin").(bool)

	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	order, err := h.Orders.GetOrder(ctx, orderID)
	if err != nil {
		return httpError(c, err)
	}
	if order.UserID != userID && !isAdmin {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Not your order"})
	}
	return c.JSON(http.StatusOK, order)
}

func (h *Handler) GetOrderStatus(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)
	isAdmin, _ := c.Get("isAdmin").(bool)

	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	order, err := h.Orders.GetOrder(ctx, orderID)
	if err != nil {
		return httpError(c, err)
	}
	if order.UserID != userID && !isAdmin {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Not your order"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": string(order.Status)})
}

func (h *Handler) GetOrders(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orders, err := h.Orders.ListOrders(ctx, userID)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=CREATED PROCESSING SHIPPED DELIVERED CANCELLED"`
}

// UpdateOrderStatus moves an order forward along its lifecycle (admin
// only). Backward transitions are rejected.
func (h *Handler) UpdateOrderStatus(c echo.Context) error {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return httpError(c, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	order, err := h.Orders.UpdateStatus(ctx, orderID, models.OrderStatus(req.Status))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}
