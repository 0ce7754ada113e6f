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

// Orders implements store.OrderStore.
type Orders struct {
	coll *mongo.Collection
}

func (o *Orders) Insert(ctx context.Context, order *models.Order) error {
	if _, err := o.coll.InsertOne(ctx, order); err != nil {
		return storageErr(err)
	}
	return nil
}

func (o *Orders) Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := o.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: order %s", store.ErrNotFound, id.Hex())
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &order, nil
}

func (o *Orders) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	cursor, err := o.coll.Find(ctx, bson.M{"userId": userID}, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, storageErr(err)
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, storageErr(err)
	}
	return orders, nil
}

// UpdateStatus is conditional on the status the caller read, so concurrent
// lifecycle updates cannot rewind or skip a step.
func (o *Orders) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus) error {
	res, err := o.coll.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}},
	)
	if err != nil {
		return storageErr(err)
	}
	if res.MatchedCount == 0 {
		ferr := o.coll.FindOne(ctx, bson.M{"_id": id}).Err()
		if ferr == mongo.ErrNoDocuments {
			return fmt.Errorf("%w: order %s", store.ErrNotFound, id.Hex())
		}
		if ferr != nil {
			return storageErr(ferr)
		}
		return store.ErrStatusConflict
	}
	return nil
}

func (o *Orders) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := o.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return storageErr(err)
	}
	return nil
}
