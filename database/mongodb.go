package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/thebrand/storefront-go/store"
)

// Store bundles the storefront collections behind one connected handle. It
// is constructed in main and injected into the layers that need it; there
// is no package-level database state.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func Connect(ctx context.Context, uri, name string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	s := &Store{client: client, db: client.Database(name)}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return s, nil
}

func (s *Store) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// The cart_lines unique index is what makes one line per (user, product,
// size, color) key an invariant rather than a convention.
func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection("cart_lines").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "productId", Value: 1},
			{Key: "size", Value: 1},
			{Key: "color", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = s.db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = s.db.Collection("orders").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

func (s *Store) Catalog() *Catalog { return &Catalog{coll: s.db.Collection("products")} }
func (s *Store) Carts() *Carts     { return &Carts{coll: s.db.Collection("cart_lines")} }
func (s *Store) Orders() *Orders   { return &Orders{coll: s.db.Collection("orders")} }
func (s *Store) Users() *Users     { return &Users{coll: s.db.Collection("users")} }

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", store.ErrStorage, err)
}
