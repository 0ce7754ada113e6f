package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thebrand/storefront-go/models"
)

const maxStatusRetries = 4

// OrderService converts carts into durable orders and manages the order
// lifecycle afterwards.
type OrderService struct {
	cart    CartStore
	catalog Catalog
	orders  OrderStore
	log     zerolog.Logger
}

func NewOrderService(cart CartStore, catalog Catalog, orders OrderStore, log zerolog.Logger) *OrderService {
	return &OrderService{cart: cart, catalog: catalog, orders: orders, log: log}
}

// PlaceOrder turns the user's cart into a persisted order. Each line is
// re-checked against live stock with a conditional decrement; if any line
// fails, every decrement already applied is rolled back and nothing is
// persisted. Unit prices are copied into the line items at this point, so
// later catalog price changes never alter the order. On success the
// originating cart is cleared.
func (s *OrderService) PlaceOrder(ctx context.Context, userID primitive.ObjectID) (*models.Order, error) {
	lines, err := s.cart.Lines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	type decremented struct {
		productID primitive.ObjectID
		qty       int
	}
	var applied []decremented
	rollback := func() {
		for i := len(applied) - 1; i >= 0; i-- {
			d := applied[i]
			if err := s.catalog.IncrementStock(ctx, d.productID, d.qty); err != nil {
				s.log.Error().Err(err).
					Str("productId", d.productID.Hex()).
					Int("quantity", d.qty).
					Msg("failed to restore stock after aborted checkout")
			}
		}
	}

	items := make([]models.OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		product, err := s.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			rollback()
			return nil, err
		}
		if err := s.catalog.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			rollback()
			if errors.Is(err, ErrInsufficientStock) {
				available := product.Stock
				if fresh, ferr := s.catalog.GetProduct(ctx, line.ProductID); ferr == nil {
					available = fresh.Stock
				}
				return nil, &StockError{
					ProductID: line.ProductID,
					Requested: line.Quantity,
					Available: available,
					Checkout:  true,
				}
			}
			return nil, err
		}
		applied = append(applied, decremented{productID: line.ProductID, qty: line.Quantity})

		price, err := decimal.NewFromString(product.Price.String())
		if err != nil {
			rollback()
			return nil, fmt.Errorf("%w: product %s has a malformed price", ErrStorage, product.ID.Hex())
		}
		subtotal := price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(subtotal)

		sub128, err := toDecimal128(subtotal)
		if err != nil {
			rollback()
			return nil, storageErr(err)
		}
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Name:      product.Name,
			Size:      line.Size,
			Color:     line.Color,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
			Subtotal:  sub128,
		})
	}

	total128, err := toDecimal128(total)
	if err != nil {
		rollback()
		return nil, storageErr(err)
	}
	now := time.Now()
	order := &models.Order{
		ID:        primitive.NewObjectID(),
		Number:    "ORD-" + uuid.NewString(),
		UserID:    userID,
		Items:     items,
		Total:     total128,
		Status:    models.OrderStatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.orders.Insert(ctx, order); err != nil {
		rollback()
		return nil, err
	}
	if err := s.cart.Clear(ctx, userID); err != nil {
		// a failed checkout must leave nothing behind
		if derr := s.orders.Delete(ctx, order.ID); derr != nil {
			s.log.Error().Err(derr).Str("orderId", order.ID.Hex()).Msg("failed to remove order after cart clear failure")
		}
		rollback()
		return nil, err
	}
	return order, nil
}

// GetOrder fetches an order by id.
func (s *OrderService) GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return s.orders.Get(ctx, id)
}

// ListOrders returns the user's orders newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// UpdateStatus moves an order along its lifecycle. Only forward transitions
// are valid, and the write is conditional on the status it was read at, so
// racing updates cannot skip or rewind a step.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, next models.OrderStatus) (*models.Order, error) {
	if !next.Valid() {
		return nil, &InputError{Violations: []string{fmt.Sprintf("unknown order status %q", next)}}
	}
	for attempt := 0; attempt < maxStatusRetries; attempt++ {
		order, err := s.orders.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !order.Status.CanTransition(next) {
			return nil, fmt.Errorf("%w: order %s cannot move from %s to %s", ErrInvalidInput, id.Hex(), order.Status, next)
		}
		err = s.orders.UpdateStatus(ctx, id, order.Status, next)
		if err == nil {
			order.Status = next
			return order, nil
		}
		if errors.Is(err, ErrStatusConflict) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("%w: order status contended, try again", ErrStorage)
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.StringFixed(2))
}
