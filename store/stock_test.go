package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmitQuantity(t *testing.T) {
	product := testProduct(t, 5, "25.00")

	assert.NoError(t, AdmitQuantity(product, 1))
	assert.NoError(t, AdmitQuantity(product, 5))

	err := AdmitQuantity(product, 6)
	require.ErrorIs(t, err, ErrOutOfStock)
	assert.NotErrorIs(t, err, ErrInsufficientStock)

	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, product.ID, stockErr.ProductID)
	assert.Equal(t, 6, stockErr.Requested)
	assert.Equal(t, 5, stockErr.Available)
}

func TestAdmitQuantityZeroStock(t *testing.T) {
	product := testProduct(t, 0, "25.00")
	assert.ErrorIs(t, AdmitQuantity(product, 1), ErrOutOfStock)
}

func TestStockErrorCheckoutMatchesInsufficient(t *testing.T) {
	err := &StockError{Requested: 3, Available: 1, Checkout: true}
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.NotErrorIs(t, err, ErrOutOfStock)
}
