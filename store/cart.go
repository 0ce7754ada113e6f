package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thebrand/storefront-go/models"
)

// maxMergeRetries bounds the re-read loop when a line is inserted, removed
// or merged concurrently. A single bounce is the common case.
const maxMergeRetries = 4

// CartService owns the per-user cart lines. Lines are keyed by (product,
// size, color); an add for an existing key merges into it instead of
// creating a duplicate.
type CartService struct {
	cart    CartStore
	catalog Catalog
	log     zerolog.Logger
}

func NewCartService(cart CartStore, catalog Catalog, log zerolog.Logger) *CartService {
	return &CartService{cart: cart, catalog: catalog, log: log}
}

// AddLine adds qty for the given key, merging into an existing line when one
// is present. Admission is checked against the resulting total for the key,
// and the merge itself is a conditional write so concurrent adds for the
// same key cannot lose updates.
func (s *CartService) AddLine(ctx context.Context, userID primitive.ObjectID, key models.LineKey, qty int) (*models.CartLine, error) {
	if err := validateLineInput(key, qty); err != nil {
		return nil, err
	}
	product, err := s.catalog.GetProduct(ctx, key.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.OffersSize(key.Size) {
		return nil, fmt.Errorf("%w: product %s is not offered in size %s", ErrInvalidVariant, product.ID.Hex(), key.Size)
	}

	for attempt := 0; attempt < maxMergeRetries; attempt++ {
		existing, err := s.cart.FindLine(ctx, userID, key)
		switch {
		case err == nil:
			if err := AdmitQuantity(product, existing.Quantity+qty); err != nil {
				return nil, err
			}
			line, err := s.cart.IncrementLine(ctx, userID, key, qty, product.Stock)
			if err == nil {
				return line, nil
			}
			if errors.Is(err, ErrLineNotFound) || errors.Is(err, ErrLimitExceeded) {
				// line changed underneath us; re-read and re-admit
				continue
			}
			return nil, err
		case errors.Is(err, ErrLineNotFound):
			if err := AdmitQuantity(product, qty); err != nil {
				return nil, err
			}
			now := time.Now()
			line := &models.CartLine{
				ID:        primitive.NewObjectID(),
				UserID:    userID,
				ProductID: key.ProductID,
				Size:      key.Size,
				Color:     key.Color,
				Quantity:  qty,
				CreatedAt: now,
				UpdatedAt: now,
			}
			err := s.cart.InsertLine(ctx, line)
			if err == nil {
				return line, nil
			}
			if errors.Is(err, ErrDuplicateLine) {
				continue
			}
			return nil, err
		default:
			return nil, err
		}
	}
	s.log.Warn().Str("userId", userID.Hex()).Str("productId", key.ProductID.Hex()).Msg("cart merge retry budget exhausted")
	return nil, fmt.Errorf("%w: cart line contended, try again", ErrStorage)
}

// UpdateLine replaces the line's quantity with an absolute value.
func (s *CartService) UpdateLine(ctx context.Context, userID primitive.ObjectID, key models.LineKey, qty int) (*models.CartLine, error) {
	if err := validateLineInput(key, qty); err != nil {
		return nil, err
	}
	product, err := s.catalog.GetProduct(ctx, key.ProductID)
	if err != nil {
		return nil, err
	}
	if err := AdmitQuantity(product, qty); err != nil {
		return nil, err
	}
	line, err := s.cart.SetQuantity(ctx, userID, key, qty)
	if errors.Is(err, ErrLineNotFound) {
		return nil, fmt.Errorf("%w: no cart line for product %s size %s color %s", ErrNotFound, key.ProductID.Hex(), key.Size, key.Color)
	}
	return line, err
}

// RemoveLine deletes the line if it exists. Removing an absent line is a
// successful no-op.
func (s *CartService) RemoveLine(ctx context.Context, userID primitive.ObjectID, key models.LineKey) error {
	return s.cart.RemoveLine(ctx, userID, key)
}

// Clear empties the user's cart unconditionally.
func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) error {
	return s.cart.Clear(ctx, userID)
}

// GetCart returns the user's lines in insertion order with each line's
// product resolved. A line whose product has since been deleted is kept with
// a nil product so the client can surface it.
func (s *CartService) GetCart(ctx context.Context, userID primitive.ObjectID) (*models.CartView, error) {
	lines, err := s.cart.Lines(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := &models.CartView{Lines: make([]models.CartViewLine, 0, len(lines))}
	for _, line := range lines {
		product, err := s.catalog.GetProduct(ctx, line.ProductID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		view.Lines = append(view.Lines, models.CartViewLine{CartLine: line, Product: product})
	}
	return view, nil
}

func validateLineInput(key models.LineKey, qty int) error {
	var violations []string
	if qty <= 0 {
		violations = append(violations, "quantity must be a positive integer")
	}
	if strings.TrimSpace(key.Color) == "" {
		violations = append(violations, "color is required")
	}
	if !key.Size.Valid() {
		violations = append(violations, fmt.Sprintf("size %q is not a valid size", key.Size))
	}
	if len(violations) > 0 {
		return &InputError{Violations: violations}
	}
	return nil
}
