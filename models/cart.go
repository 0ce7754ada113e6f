package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LineKey identifies a cart line. Two lines with the same product but a
// different size or color are distinct entries.
type LineKey struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Size      ProductSize        `bson:"size" json:"size"`
	Color     string             `bson:"color" json:"color"`
}

// CartLine is stored as its own document. A unique index on
// (userId, productId, size, color) guarantees one line per key per user.
type CartLine struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Size      ProductSize        `bson:"size" json:"size"`
	Color     string             `bson:"color" json:"color"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (l *CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Size: l.Size, Color: l.Color}
}

// CartView is the denormalized cart returned to clients: lines in insertion
// order with their product resolved.
type CartView struct {
	Lines []CartViewLine `json:"lines"`
}

type CartViewLine struct {
	CartLine `bson:",inline"`
	Product  *Product `json:"product"`
}
