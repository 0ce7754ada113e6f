package store

import "github.com/thebrand/storefront-go/models"

// AdmitQuantity decides whether a cart line may hold the requested total
// committed quantity. It is consulted with the resulting quantity for the
// line (existing plus requested), not the delta, so repeated adds are
// checked against cumulative commitment.
//
// Admission never decrements stock. Carts are soft holds, not reservations:
// stock is only consumed when an order is placed, and that path performs its
// own authoritative re-check.
func AdmitQuantity(product *models.Product, requested int) error {
	if requested <= product.Stock {
		return nil
	}
	return &StockError{
		ProductID: product.ID,
		Requested: requested,
		Available: product.Stock,
	}
}
