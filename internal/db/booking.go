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
)

// BookingCollection defines the interface for booking storage operations.
type BookingCollection interface {
	InsertBooking(ctx context.Context, booking models.Booking) (string, error)
	FindBookingByID(ctx context.Context, id string) (*models.Booking, error)
	FindBookingsByOwner(ctx context.Context, ownerID string) ([]models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) error
}

// MongoBookingCollection implements BookingCollection for MongoDB.
type MongoBookingCollection struct {
	Collection *mongo.Collection
}

// InsertBooking inserts a new booking and returns its hex id.
func (c *MongoBookingCollection) InsertBooking(ctx context.Context, booking models.Booking) (string, error) {
	booking.Status = models.BookingPending
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	result, err := c.Collection.InsertOne(ctx, booking)
	if err != nil {
		return "", err
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("unexpected inserted id type")
	}
	return oid.Hex(), nil
}

// FindBookingByID finds a booking by its hex id.
func (c *MongoBookingCollection) FindBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var booking models.Booking
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// FindBookingsByOwner lists a pet owner's bookings, newest first.
func (c *MongoBookingCollection) FindBookingsByOwner(ctx context.Context, ownerID string) ([]models.Booking, error) {
	cursor, err := c.Collection.Find(ctx,
		bson.M{"owner_id": ownerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// UpdateBookingStatus moves a booking to a new status.
func (c *MongoBookingCollection) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := c.Collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
