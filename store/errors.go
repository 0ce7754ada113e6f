package store

import (
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Failure taxonomy shared by the cart, order and review services. Handlers
// map these onto HTTP responses; nothing in this package is fatal.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidVariant    = errors.New("invalid variant")
	ErrOutOfStock        = errors.New("out of stock")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrEmailTaken        = errors.New("email already registered")
	ErrStorage           = errors.New("storage failure")
)

// Sentinels returned by storage implementations. The services translate
// them into the taxonomy above; handlers never see them.
var (
	ErrLineNotFound   = errors.New("cart line not found")
	ErrDuplicateLine  = errors.New("cart line already exists")
	ErrLimitExceeded  = errors.New("cart line quantity limit exceeded")
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// StockError carries the context callers need to explain a rejected
// quantity: which product, what was asked for and what was available.
type StockError struct {
	ProductID primitive.ObjectID
	Requested int
	Available int
	Checkout  bool
}

func (e *StockError) Error() string {
	if e.Checkout {
		return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
			e.ProductID.Hex(), e.Requested, e.Available)
	}
	return fmt.Sprintf("out of stock for product %s: requested %d, available %d",
		e.ProductID.Hex(), e.Requested, e.Available)
}

// Is matches ErrOutOfStock for cart-time rejections and ErrInsufficientStock
// for checkout-time rejections.
func (e *StockError) Is(target error) bool {
	if e.Checkout {
		return target == ErrInsufficientStock
	}
	return target == ErrOutOfStock
}

// InputError collects every violation found in a request rather than
// stopping at the first one.
type InputError struct {
	Violations []string
}

func (e *InputError) Error() string {
	return "invalid input: " + strings.Join(e.Violations, "; ")
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
