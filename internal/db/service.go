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

// ServiceCollection defines the interface for service storage operations.
type ServiceCollection interface {
	InsertService(ctx context.Context, service models.Service) (string, error)
	FindServiceByID(ctx context.Context, id string) (*models.Service, error)
	FindServicesByBusiness(ctx context.Context, businessID string) ([]models.Service, error)
	UpdateService(ctx context.Context, id string, service models.Service) error
	DeactivateService(ctx context.Context, id string) error
	SearchServices(ctx context.Context, q *search.Query) ([]models.Service, int64, error)
}

// MongoServiceCollection implements ServiceCollection for MongoDB.
type MongoServiceCollection struct {
	Collection *mongo.Collection
}

// InsertService inserts a new service and returns its hex id.
func (c *MongoServiceCollection) InsertService(ctx context.Context, service models.Service) (string, error) {
	service.IsActive = true
	service.CreatedAt = time.Now()
	service.UpdatedAt = time.Now()

	result, err := c.Collection.InsertOne(ctx, service)
	if err != nil {
		return "", err
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("unexpected inserted id type")
	}
	return oid.Hex(), nil
}

// FindServiceByID finds a service by its hex id.
func (c *MongoServiceCollection) FindServiceByID(ctx context.Context, id string) (*models.Service, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var service models.Service
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&service)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &service, nil
}

// FindServicesByBusiness lists the active services owned by one business.
func (c *MongoServiceCollection) FindServicesByBusiness(ctx context.Context, businessID string) ([]models.Service, error) {
	objectID, err := primitive.ObjectIDFromHex(businessID)
	if err != nil {
		return nil, ErrNotFound
	}

	cursor, err := c.Collection.Find(ctx,
		bson.M{"business_id": objectID, "is_active": true},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	services := []models.Service{}
	if err := cursor.All(ctx, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// UpdateService replaces a service's mutable fields by id.
func (c *MongoServiceCollection) UpdateService(ctx context.Context, id string, service models.Service) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	service.UpdatedAt = time.Now()
	set := bson.M{
		"name":             service.Name,
		"category":         service.Category,
		"description":      service.Description,
		"duration_minutes": service.DurationMinutes,
		"price":            service.Price,
		"availability":     service.Availability,
		"requirements":     service.Requirements,
		"updated_at":       service.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if service.Location != nil {
		set["location"] = service.Location
	} else {
		// Clearing a location removes the field so the sparse 2dsphere
		// index drops the document instead of indexing a null.
		update["$unset"] = bson.M{"location": ""}
	}

	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateService soft-deletes a service.
func (c *MongoServiceCollection) DeactivateService(ctx context.Context, id string) error {
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

// SearchServices runs a validated search query and returns one page of
// services plus the total match count.
func (c *MongoServiceCollection) SearchServices(ctx context.Context, q *search.Query) ([]models.Service, int64, error) {
	total, err := c.Collection.CountDocuments(ctx, search.Services.CountFilter(q))
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSkip(q.Skip()).SetLimit(int64(q.Limit))
	if sort := search.Services.Sort(q); sort != nil {
		opts.SetSort(sort)
	}

	cursor, err := c.Collection.Find(ctx, search.Services.Filter(q), opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	services := []models.Service{}
	if err := cursor.All(ctx, &services); err != nil {
		return nil, 0, err
	}
	return services, total, nil
}
