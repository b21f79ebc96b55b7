package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront-api/database"
	"storefront-api/models"
)

// CartRepository defines the interface for cart data access.
// FindByUser returns (nil, nil) when the user has no cart yet.
type CartRepository interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
}

type MongoCartRepository struct {
	col *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{col: db.Collection(database.CartsCollection)}
}

func (r *MongoCartRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := r.col.FindOne(ctx, bson.M{"user": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find cart: %w", err)
	}
	return &cart, nil
}

// Save upserts the user's cart as a full replacement. The unique index on
// user keeps the one-cart-per-user invariant.
func (r *MongoCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	now := time.Now()
	cart.UpdatedAt = now
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"user": cart.User},
		bson.M{
			"$set": bson.M{
				"items":     cart.Items,
				"updatedAt": cart.UpdatedAt,
			},
			"$setOnInsert": bson.M{
				"user":      cart.User,
				"createdAt": cart.CreatedAt,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
		cart.ID = oid
	}
	return nil
}
