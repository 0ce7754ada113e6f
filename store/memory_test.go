package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thebrand/storefront-go/models"
)

// In-memory implementations of Catalog, CartStore and OrderStore. They
// honor the same conditional-write contracts as the Mongo implementations,
// with a mutex standing in for the document-level atomicity Mongo provides.

type memCatalog struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]*models.Product
}

func newMemCatalog(products ...*models.Product) *memCatalog {
	c := &memCatalog{products: make(map[primitive.ObjectID]*models.Product)}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func notFound(id primitive.ObjectID) error {
	return fmt.Errorf("%w: product %s", ErrNotFound, id.Hex())
}

func (c *memCatalog) GetProduct(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return nil, notFound(id)
	}
	clone := *p
	clone.Reviews = append([]models.Review(nil), p.Reviews...)
	return &clone, nil
}

func (c *memCatalog) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return notFound(id)
	}
	if p.Stock < qty {
		return ErrInsufficientStock
	}
	p.Stock -= qty
	return nil
}

func (c *memCatalog) IncrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return notFound(id)
	}
	p.Stock += qty
	return nil
}

func (c *memCatalog) AppendReview(_ context.Context, id primitive.ObjectID, review models.Review) (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return nil, notFound(id)
	}
	p.Reviews = append(p.Reviews, review)
	p.Rating = MeanRating(p.Reviews)
	clone := *p
	clone.Reviews = append([]models.Review(nil), p.Reviews...)
	return &clone, nil
}

func (c *memCatalog) stock(id primitive.ObjectID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.products[id].Stock
}

type memCart struct {
	mu    sync.Mutex
	lines map[primitive.ObjectID][]*models.CartLine // per user, insertion order

	failClear bool
}

func newMemCart() *memCart {
	return &memCart{lines: make(map[primitive.ObjectID][]*models.CartLine)}
}

func (c *memCart) find(userID primitive.ObjectID, key models.LineKey) *models.CartLine {
	for _, l := range c.lines[userID] {
		if l.Key() == key {
			return l
		}
	}
	return nil
}

func (c *memCart) Lines(_ context.Context, userID primitive.ObjectID) ([]models.CartLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.CartLine, 0, len(c.lines[userID]))
	for _, l := range c.lines[userID] {
		out = append(out, *l)
	}
	return out, nil
}

func (c *memCart) FindLine(_ context.Context, userID primitive.ObjectID, key models.LineKey) (*models.CartLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l := c.find(userID, key); l != nil {
		clone := *l
		return &clone, nil
	}
	return nil, ErrLineNotFound
}

func (c *memCart) InsertLine(_ context.Context, line *models.CartLine) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.find(line.UserID, line.Key()) != nil {
		return ErrDuplicateLine
	}
	clone := *line
	c.lines[line.UserID] = append(c.lines[line.UserID], &clone)
	return nil
}

func (c *memCart) IncrementLine(_ context.Context, userID primitive.ObjectID, key models.LineKey, qty, limit int) (*models.CartLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l := c.find(userID, key)
	if l == nil {
		return nil, ErrLineNotFound
	}
	if l.Quantity+qty > limit {
		return nil, ErrLimitExceeded
	}
	l.Quantity += qty
	clone := *l
	return &clone, nil
}

func (c *memCart) SetQuantity(_ context.Context, userID primitive.ObjectID, key models.LineKey, qty int) (*models.CartLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l := c.find(userID, key)
	if l == nil {
		return nil, ErrLineNotFound
	}
	l.Quantity = qty
	clone := *l
	return &clone, nil
}

func (c *memCart) RemoveLine(_ context.Context, userID primitive.ObjectID, key models.LineKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.lines[userID][:0]
	for _, l := range c.lines[userID] {
		if l.Key() != key {
			kept = append(kept, l)
		}
	}
	c.lines[userID] = kept
	return nil
}

func (c *memCart) Clear(_ context.Context, userID primitive.ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failClear {
		return storageErr(errors.New("clear failed"))
	}
	delete(c.lines, userID)
	return nil
}

type memOrders struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]*models.Order
	byUser map[primitive.ObjectID][]primitive.ObjectID

	failInsert bool
}

func newMemOrders() *memOrders {
	return &memOrders{
		orders: make(map[primitive.ObjectID]*models.Order),
		byUser: make(map[primitive.ObjectID][]primitive.ObjectID),
	}
}

func (o *memOrders) Insert(_ context.Context, order *models.Order) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.failInsert {
		return storageErr(errors.New("insert failed"))
	}
	clone := *order
	o.orders[order.ID] = &clone
	o.byUser[order.UserID] = append(o.byUser[order.UserID], order.ID)
	return nil
}

func (o *memOrders) Get(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	order, ok := o.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, id.Hex())
	}
	clone := *order
	return &clone, nil
}

func (o *memOrders) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	ids := o.byUser[userID]
	out := make([]models.Order, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		if order, ok := o.orders[ids[i]]; ok {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (o *memOrders) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to models.OrderStatus) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	order, ok := o.orders[id]
	if !ok {
		return fmt.Errorf("%w: order %s", ErrNotFound, id.Hex())
	}
	if order.Status != from {
		return ErrStatusConflict
	}
	order.Status = to
	return nil
}

func (o *memOrders) Delete(_ context.Context, id primitive.ObjectID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.orders, id)
	return nil
}

func (o *memOrders) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.orders)
}
