package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thebrand/storefront-go/models"
)

// Catalog is the product collaborator the cart and order services consult.
// DecrementStock must be an atomic conditional update: it subtracts only
// when the remaining stock stays non-negative.
type Catalog interface {
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
	IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
	// AppendReview pushes the review and recomputes the mean rating from the
	// complete review list in the same write.
	AppendReview(ctx context.Context, id primitive.ObjectID, review models.Review) (*models.Product, error)
}

// CatalogAdmin extends Catalog with the admin CRUD and listing surface.
type CatalogAdmin interface {
	Catalog
	ListProducts(ctx context.Context, opts ListOptions) ([]models.Product, int64, error)
	InsertProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, id primitive.ObjectID, upd ProductUpdate) (*models.Product, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
}

// ListOptions filters and pages a catalog listing.
type ListOptions struct {
	Category models.Category
	Sort     string // price-asc, price-desc, newest
	Page     int64
	Limit    int64
}

// ProductUpdate holds the fields an admin update may change; nil fields are
// left untouched.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *primitive.Decimal128
	Category    *models.Category
	Images      []string
	Sizes       []models.ProductSize
	Colors      []string
	Stock       *int
	Featured    *bool
}

// CartStore persists cart lines, one document per (user, product, size,
// color) key. IncrementLine and InsertLine carry the conditional-write
// contract that closes the lost-update race on concurrent merges.
type CartStore interface {
	// Lines returns the user's lines in insertion order of first creation.
	Lines(ctx context.Context, userID primitive.ObjectID) ([]models.CartLine, error)
	// FindLine returns ErrLineNotFound when no line matches the key.
	FindLine(ctx context.Context, userID primitive.ObjectID, key models.LineKey) (*models.CartLine, error)
	// InsertLine returns ErrDuplicateLine when a line with the same key
	// already exists for the user.
	InsertLine(ctx context.Context, line *models.CartLine) error
	// IncrementLine atomically adds qty to the existing line's quantity,
	// but only when the resulting quantity does not exceed limit. Returns
	// ErrLineNotFound or ErrLimitExceeded.
	IncrementLine(ctx context.Context, userID primitive.ObjectID, key models.LineKey, qty, limit int) (*models.CartLine, error)
	// SetQuantity replaces the line's quantity. Returns ErrLineNotFound.
	SetQuantity(ctx context.Context, userID primitive.ObjectID, key models.LineKey, qty int) (*models.CartLine, error)
	// RemoveLine deletes the line if present; removing an absent line is a
	// no-op, not an error.
	RemoveLine(ctx context.Context, userID primitive.ObjectID, key models.LineKey) error
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

// OrderStore persists order headers with their embedded line items.
type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	// ListByUser returns the user's orders newest first.
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	// UpdateStatus flips the status from one value to another in a single
	// conditional write. Returns ErrStatusConflict when the stored status no
	// longer matches from.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserStore is the identity boundary; the services above trust the user id
// they are handed and never touch it.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
}
