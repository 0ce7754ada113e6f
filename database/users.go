package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/thebrand/storefront-go/models"
	"github.com/thebrand/storefront-go/store"
)

// Users implements store.UserStore.
type Users struct {
	coll *mongo.Collection
}

func (u *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := u.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: user %s", store.ErrNotFound, email)
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &user, nil
}

func (u *Users) Insert(ctx context.Context, user *models.User) error {
	_, err := u.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrEmailTaken
	}
	if err != nil {
		return storageErr(err)
	}
	return nil
}
