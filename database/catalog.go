package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/thebrand/storefront-go/models"
	"github.com/thebrand/storefront-go/store"
)

// Catalog implements store.CatalogAdmin on the products collection.
type Catalog struct {
	coll *mongo.Collection
}

func (c *Catalog) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: product %s", store.ErrNotFound, id.Hex())
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &product, nil
}

func (c *Catalog) ListProducts(ctx context.Context, opts store.ListOptions) ([]models.Product, int64, error) {
	filter := bson.M{}
	if opts.Category != "" {
		filter["category"] = opts.Category
	}

	sort := bson.D{{Key: "createdAt", Value: -1}}
	switch opts.Sort {
	case "price-asc":
		sort = bson.D{{Key: "price", Value: 1}}
	case "price-desc":
		sort = bson.D{{Key: "price", Value: -1}}
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = 12
	}

	cursor, err := c.coll.Find(ctx, filter, options.Find().
		SetSort(sort).
		SetSkip((page-1)*limit).
		SetLimit(limit))
	if err != nil {
		return nil, 0, storageErr(err)
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, storageErr(err)
	}

	total, err := c.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, storageErr(err)
	}
	return products, total, nil
}

func (c *Catalog) InsertProduct(ctx context.Context, product *models.Product) error {
	if _, err := c.coll.InsertOne(ctx, product); err != nil {
		return storageErr(err)
	}
	return nil
}

func (c *Catalog) UpdateProduct(ctx context.Context, id primitive.ObjectID, upd store.ProductUpdate) (*models.Product, error) {
	set := bson.M{"updatedAt": time.Now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Images != nil {
		set["images"] = upd.Images
	}
	if upd.Sizes != nil {
		set["sizes"] = upd.Sizes
	}
	if upd.Colors != nil {
		set["colors"] = upd.Colors
	}
	if upd.Stock != nil {
		set["stock"] = *upd.Stock
	}
	if upd.Featured != nil {
		set["featured"] = *upd.Featured
	}

	var product models.Product
	err := c.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: product %s", store.ErrNotFound, id.Hex())
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &product, nil
}

func (c *Catalog) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storageErr(err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: product %s", store.ErrNotFound, id.Hex())
	}
	return nil
}

// DecrementStock subtracts qty only when enough stock remains; the filter
// makes the check-and-decrement one atomic write, so two checkouts racing
// for the last unit resolve to exactly one winner.
func (c *Catalog) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	res, err := c.coll.UpdateOne(
		ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	if err != nil {
		return storageErr(err)
	}
	if res.MatchedCount == 0 {
		// no match: the product is gone or its stock is short
		ferr := c.coll.FindOne(ctx, bson.M{"_id": id}).Err()
		if ferr == mongo.ErrNoDocuments {
			return fmt.Errorf("%w: product %s", store.ErrNotFound, id.Hex())
		}
		if ferr != nil {
			return storageErr(ferr)
		}
		return store.ErrInsufficientStock
	}
	return nil
}

func (c *Catalog) IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	res, err := c.coll.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"stock": qty}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	if err != nil {
		return storageErr(err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: product %s", store.ErrNotFound, id.Hex())
	}
	return nil
}

// AppendReview pushes the review and recomputes the mean rating from the
// full review list in the same pipeline update, so the stored rating can
// never drift from the reviews it is derived from.
func (c *Catalog) AppendReview(ctx context.Context, id primitive.ObjectID, review models.Review) (*models.Product, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			"reviews": bson.M{"$concatArrays": bson.A{
				bson.M{"$ifNull": bson.A{"$reviews", bson.A{}}},
				bson.A{review},
			}},
		}}},
		bson.D{{Key: "$set", Value: bson.M{
			"rating": bson.M{"$avg": "$reviews.rating"},
		}}},
	}

	var product models.Product
	err := c.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: product %s", store.ErrNotFound, id.Hex())
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &product, nil
}
