package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/petmap/pet-marketplace/internal/models"
	"github.com/petmap/pet-marketplace/internal/search"
)

// BusinessCollection defines the interface for business storage operations.
type BusinessCollection interface {
	InsertBusiness(ctx context.Context, business models.Business) (string, error)
	FindBusinessByID(ctx context.Context, id string) (*models.Business, error)
	UpdateBusiness(ctx context.Context, id string, business models.Business) error
	DeactivateBusiness(ctx context.Context, id string) error
	SearchBusinesses(ctx context.Context, q *search.Query) ([]models.Business, int64, error)
}

// MongoBusinessCollection implements BusinessCollection for MongoDB.
type MongoBusinessCollection struct {
	Collection *mongo.Collection
}

// InsertBusiness inserts a new business and returns its hex id.
func (c *MongoBusinessCollection) InsertBusiness(ctx context.Context, business models.Business) (string, error) {
	business.IsActive = true
	business.CreatedAt = time.Now()
	business.UpdatedAt = time.Now()

	result, err := c.Collection.InsertOne(ctx, business)
	if err != nil {
		return "", err
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("unexpected inserted id type")
	}
	return oid.Hex(), nil
}

// FindBusinessByID finds a business by its hex id.
func (c *MongoBusinessCollection) FindBusinessByID(ctx context.Context, id string) (*models.Business, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var business models.Business
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&business)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &business, nil
}

// UpdateBusiness replaces a business's mutable fields by id.
func (c *MongoBusinessCollection) UpdateBusiness(ctx context.Context, id string, business models.Business) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	business.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"name":        business.Name,
		"category":    business.Category,
		"description": business.Description,
		"contact":     business.Contact,
		"address":     business.Address,
		"hours":       business.Hours,
		"updated_at":  business.UpdatedAt,
	}}
	// An absent location must stay absent, never become null: setting the
	// full address drops the coordinates key when the pointer is nil.
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateBusiness soft-deletes a business. The search path only ever
// filters on is_active; nothing is hard-deleted here.
func (c *MongoBusinessCollection) DeactivateBusiness(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := c.Collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchBusinesses runs a validated search query and returns one page of
// businesses plus the total match count.
func (c *MongoBusinessCollection) SearchBusinesses(ctx context.Context, q *search.Query) ([]models.Business, int64, error) {
	total, err := c.Collection.CountDocuments(ctx, search.Businesses.CountFilter(q))
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSkip(q.Skip()).SetLimit(int64(q.Limit))
	if sort := search.Businesses.Sort(q); sort != nil {
		opts.SetSort(sort)
	}

	cursor, err := c.Collection.Find(ctx, search.Businesses.Filter(q), opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	businesses := []models.Business{}
	if err := cursor.All(ctx, &businesses); err != nil {
		return nil, 0, err
	}
	return businesses, total, nil
}
