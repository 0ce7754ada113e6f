package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/thebrand/storefront-go/models"
	"github.com/thebrand/storefront-go/store"
)

// Carts implements store.CartStore with one document per cart line. The
// unique composite index created at connect time backs InsertLine's
// duplicate detection, and IncrementLine folds its quantity guard into the
// update filter so merges never lose a concurrent write.
type Carts struct {
	coll *mongo.Collection
}

func lineFilter(userID primitive.ObjectID, key models.LineKey) bson.M {
	return bson.M{
		"userId":    userID,
		"productId": key.ProductID,
		"size":      key.Size,
		"color":     key.Color,
	}
}

func (c *Carts) Lines(ctx context.Context, userID primitive.ObjectID) ([]models.CartLine, error) {
	cursor, err := c.coll.Find(ctx, bson.M{"userId": userID}, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, storageErr(err)
	}
	defer cursor.Close(ctx)

	lines := make([]models.CartLine, 0)
	if err := cursor.All(ctx, &lines); err != nil {
		return nil, storageErr(err)
	}
	return lines, nil
}

func (c *Carts) FindLine(ctx context.Context, userID primitive.ObjectID, key models.LineKey) (*models.CartLine, error) {
	var line models.CartLine
	err := c.coll.FindOne(ctx, lineFilter(userID, key)).Decode(&line)
	if err == mongo.ErrNoDocuments {
		return nil, store.ErrLineNotFound
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &line, nil
}

func (c *Carts) InsertLine(ctx context.Context, line *models.CartLine) error {
	_, err := c.coll.InsertOne(ctx, line)
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrDuplicateLine
	}
	if err != nil {
		return storageErr(err)
	}
	return nil
}

func (c *Carts) IncrementLine(ctx context.Context, userID primitive.ObjectID, key models.LineKey, qty, limit int) (*models.CartLine, error) {
	filter := lineFilter(userID, key)
	filter["quantity"] = bson.M{"$lte": limit - qty}

	var line models.CartLine
	err := c.coll.FindOneAndUpdate(
		ctx,
		filter,
		bson.M{"$inc": bson.M{"quantity": qty}, "$set": bson.M{"updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&line)
	if err == mongo.ErrNoDocuments {
		// no match: the line is gone, or the merge would exceed the limit
		ferr := c.coll.FindOne(ctx, lineFilter(userID, key)).Err()
		if ferr == mongo.ErrNoDocuments {
			return nil, store.ErrLineNotFound
		}
		if ferr != nil {
			return nil, storageErr(ferr)
		}
		return nil, store.ErrLimitExceeded
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &line, nil
}

func (c *Carts) SetQuantity(ctx context.Context, userID primitive.ObjectID, key models.LineKey, qty int) (*models.CartLine, error) {
	var line models.CartLine
	err := c.coll.FindOneAndUpdate(
		ctx,
		lineFilter(userID, key),
		bson.M{"$set": bson.M{"quantity": qty, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&line)
	if err == mongo.ErrNoDocuments {
		return nil, store.ErrLineNotFound
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &line, nil
}

func (c *Carts) RemoveLine(ctx context.Context, userID primitive.ObjectID, key models.LineKey) error {
	if _, err := c.coll.DeleteOne(ctx, lineFilter(userID, key)); err != nil {
		return storageErr(err)
	}
	return nil
}

func (c *Carts) Clear(ctx context.Context, userID primitive.ObjectID) error {
	if _, err := c.coll.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return storageErr(err)
	}
	return nil
}
