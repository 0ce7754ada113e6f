package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusCreated    OrderStatus = "CREATED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

var statusRank = map[OrderStatus]int{
	OrderStatusCreated:    0,
	OrderStatusProcessing: 1,
	OrderStatusShipped:    2,
	OrderStatusDelivered:  3,
	OrderStatusCancelled:  4,
}

func (s OrderStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether moving from s to next is allowed. Only
// forward moves along the lifecycle are valid; delivered and cancelled are
// terminal.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	from, ok := statusRank[s]
	if !ok || !next.Valid() {
		return false
	}
	if s == OrderStatusDelivered || s == OrderStatusCancelled {
		return false
	}
	return statusRank[next] > from
}

// OrderItem captures the unit price at the time the order was placed. Later
// catalog price changes never alter historical orders.
type OrderItem struct {
	ProductID primitive.ObjectID   `bson:"productId" json:"productId"`
	Name      string               `bson:"name" json:"name"`
	Size      ProductSize          `bson:"size" json:"size"`
	Color     string               `bson:"color" json:"color"`
	Quantity  int                  `bson:"quantity" json:"quantity"`
	UnitPrice primitive.Decimal128 `bson:"unitPrice" json:"unitPrice"`
	Subtotal  primitive.Decimal128 `bson:"subtotal" json:"subtotal"`
}

// Order is immutable once created except for its status.
type Order struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Number    string               `bson:"number" json:"number"`
	UserID    primitive.ObjectID   `bson:"userId" json:"userId"`
	Items     []OrderItem          `bson:"items" json:"items"`
	Total     primitive.Decimal128 `bson:"total" json:"total"`
	Status    OrderStatus          `bson:"status" json:"status"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}
