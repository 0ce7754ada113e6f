package store

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thebrand/storefront-go/models"
)

func testProduct(t *testing.T, stock int, price string, sizes ...models.ProductSize) *models.Product {
	t.Helper()
	p128, err := primitive.ParseDecimal128(price)
	require.NoError(t, err)
	if len(sizes) == 0 {
		sizes = []models.ProductSize{models.SizeM, models.SizeL}
	}
	return &models.Product{
		ID:       primitive.NewObjectID(),
		Name:     "Heavyweight Tee",
		Price:    p128,
		Category: models.CategoryTShirts,
		Sizes:    sizes,
		Colors:   []string{"black", "white"},
		Stock:    stock,
	}
}

func newTestCart(t *testing.T, products ...*models.Product) (*CartService, *memCart, *memCatalog) {
	t.Helper()
	catalog := newMemCatalog(products...)
	cart := newMemCart()
	return NewCartService(cart, catalog, zerolog.Nop()), cart, catalog
}

func TestAddLineMergesSameKey(t *testing.T) {
	product := testProduct(t, 10, "25.00")
	svc, _, _ := newTestCart(t, product)
	user := primitive.NewObjectID()
	key := models.LineKey{ProductID: product.ID, Size: models.SizeM, Color: "black"}

	_, err := svc.AddLine(context.Background(), user, key, 2)
	require.NoError(t, err)
	line, err := svc.AddLine(context.Background(), user, key, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, line.Quantity)

	view, err := svc.GetCart(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 5, view.Lines[0].Quantity)
}

func TestAddLineDistinctVariantsAreDistinctLines(t *testing.T) {
	product := testProduct(t, 10, "25.00")
	svc, _, _ := newTestCart(t, product)
	user := primitive.NewObjectID()

	_, err := svc.AddLine(context.Background(), user, models.LineKey{ProductID: product.ID, Size: models.SizeM, Color: "black"}, 1)
	require.NoError(t, err)
	_, err = svc.AddLine(context.Background(), user, models.LineKey{ProductID: product.ID, Size: models.SizeL, Color: "black"}, 1)
	require.NoError(t, err)
	_, err = svc.AddLine(context.Background(), user, models.LineKey{ProductID: product.ID, Size: models.SizeM, Color: "white"}, 1)
	require.NoError(t, err)

	view, err := svc.GetCart(context.Background(), user)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 3)

	// no two lines may share a key
	seen := map[models.LineKey]bool{}
	for _, l := range view.Lines {
		assert.False(t, seen[l.Key()])
		seen[l.Key()] = true
	}
}

func TestAddLineAdmitsAgainstResultingTotal(t *testing.T) {
	product := testProduct(t, 5, "25.00")
	svc, _, _ := newTestCart(t, product)
	user := primitive.NewObjectID()
	key := models.LineKey{ProductID: product.ID, Size: models.SizeM, Color: "black"}

	_, err := svc.AddLine(context.Background(), user, key, 3)
	require.NoError(t, err)

	// 3 + 3 > 5: the second add must be judged on the cumulative total
	_, err = svc.AddLine(context.Background(), user, key, 3)
	require.ErrorIs(t, err, ErrOutOfStock)

	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, product.ID, stockErr.ProductID)
	assert.Equal(t, 6, stockErr.Requested)
	assert.Equal(t, 5, stockErr.Available)

	// the rejected merge must not partially apply
	view, err := svc.GetCart(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 3, view.Lines[0].Quantity)
}

func TestAddLineUnknownProduct(t *testing.T) {
	svc, _, _ := newTestCart(t, testProduct(t, 5, "25.00"))
	key := models.LineKey{ProductID: primitive.NewObjectID(), Size: models.SizeM, Color: "black"}
	_, err := svc.AddLine(context.Background(), primitive.NewObjectID(), key, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddLineSizeNotOffered(t *testing.T) {
	product := testProduct(t, 5, "25.00", models.SizeM)
	svc, _, _ := newTestCart(t, product)
	key := models.LineKey{ProductID: product.ID, Size: models.SizeXL, Color: "black"}
	_, err := svc.AddLine(context.Background(), primitive.NewObjectID(), key, 1)
	assert.ErrorIs(t, err, ErrInvalidVariant)
}

func TestAddLineInputViolationsAreCollected(t *testing.T) {
	product := testProduct(t, 5, "25.00")
	svc, _, _ := newTestCart(t, product)
	key := models.LineKey{ProductID: product.ID, Size: "XXXL", Color: "  "}

	_, err := svc.AddLine(context.Background(), primitive.NewObjectID(), key, 0)
	require.ErrorIs(t, err, ErrInvalidInput)

	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Len(t, inputErr.Violations, 3)
}

func TestUpdateLineReplacesQuantity(t *testing.T) {
	product := testProduct(t, 10, "25.00")
	svc, _, _ := newTestCart(t, product)
	user := primitive.NewObjectID()
	key := models.LineKey{ProductID: product.ID, Size: models.SizeM, Color: "black"}

	_, err := svc.AddLine(context.Background(), user, key, 4)
	require.NoError(t, err)
	line, err := svc.UpdateLine(context.Background(), user, key, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, line.Quantity)
}

func TestUpdateLineMissingLine(t *testing.T) {
	product := testProduct(t, 10, "25.00")
	svc, _, _ := newTestCart(t, product)
	key := models.LineKey{ProductID: product.ID, Size: models.SizeM, Color: "black"}
	_, err := svc.UpdateLine(context.Background(), primitive.NewObjectID(), key, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateLineOverStock(t *testing.T) {
	product := testProduct(t, 5, "25.00")
	svc, _, _ := newTestCart(t, product)
	user := primitive.NewObjectID()
	key := models.LineKey{ProductID: product.ID, Size: models.SizeM, Color: "black"}

	_, err := svc.AddLine(context.Background(), user, key, 2)
	require.NoError(t, err)
	_, err = svc.UpdateLine(context.Background(), user, key, 6)
	assert.ErrorIs(t, err, ErrOutOfStock)
}

func TestRemoveLineIsIdempotent(t *testing.T) {
	product := testProduct(t, 5, "25.00")
	svc, _, _ := newTestCart(t, product)
	user := primitive.NewObjectID()
	key := models.LineKey{ProductID: product.ID, Size: models.SizeM, Color: "black"}

	// removing a line that was never added is a no-op
	require.NoError(t, svc.RemoveLine(context.Background(), user, key))

	_, err := svc.AddLine(context.Background(), user, key, 2)
	require.NoError(t, err)
	require.NoError(t, svc.RemoveLine(context.Background(), user, key))
	require.NoError(t, svc.RemoveLine(context.Background(), user, key))

	view, err := svc.GetCart(context.Background(), user)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}

func TestClearIsIdempotent(t *testing.T) {
	product := testProduct(t, 5, "25.00")
	svc, _, _ := newTestCart(t, product)
	user := primitive.NewObjectID()

	_, err := svc.AddLine(context.Background(), user, models.LineKey{ProductID: product.ID, Size: models.SizeM, Color: "black"}, 2)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(context.Background(), user))
	require.NoError(t, svc.Clear(context.Background(), user))

	view, err := svc.GetCart(context.Background(), user)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}

func TestGetCartPreservesInsertionOrder(t *testing.T) {
	p1 := testProduct(t, 5, "10.00")
	p2 := testProduct(t, 5, "20.00")
	svc, _, _ := newTestCart(t, p1, p2)
	user := primitive.NewObjectID()

	k1 := models.LineKey{ProductID: p1.ID, Size: models.SizeM, Color: "black"}
	k2 := models.LineKey{ProductID: p2.ID, Size: models.SizeL, Color: "white"}

	_, err := svc.AddLine(context.Background(), user, k1, 1)
	require.NoError(t, err)
	_, err = svc.AddLine(context.Background(), user, k2, 1)
	require.NoError(t, err)
	// merging into the first line must not move it
	_, err = svc.AddLine(context.Background(), user, k1, 1)
	require.NoError(t, err)

	view, err := svc.GetCart(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)
	assert.Equal(t, k1, view.Lines[0].Key())
	assert.Equal(t, k2, view.Lines[1].Key())
	require.NotNil(t, view.Lines[0].Product)
	assert.Equal(t, p1.ID, view.Lines[0].Product.ID)
}

func TestConcurrentAddsDoNotLoseUpdates(t *testing.T) {
	const stock = 16
	product := testProduct(t, stock, "25.00")
	svc, _, _ := newTestCart(t, product)
	user := primitive.NewObjectID()
	key := models.LineKey{ProductID: product.ID, Size: models.SizeM, Color: "black"}

	// stock+1 concurrent adds of one unit each: exactly stock must land
	var wg sync.WaitGroup
	errs := make(chan error, stock+1)
	for i := 0; i < stock+1; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddLine(context.Background(), user, key, 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var rejected int
	for err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrOutOfStock)
			rejected++
		}
	}
	assert.Equal(t, 1, rejected)

	view, err := svc.GetCart(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, stock, view.Lines[0].Quantity)
}
