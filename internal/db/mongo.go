package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/petmap/pet-marketplace/internal/config"
)

var (
	// ErrNotFound indicates a direct lookup matched no document.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable indicates a transport or connection failure
	// talking to the document store. Retryable by the caller.
	ErrStoreUnavailable = errors.New("store unavailable")
)

const (
	BusinessesCollection = "businesses"
	ServicesCollection   = "services"
	BookingsCollection   = "bookings"
)

// Connect opens a MongoDB client and verifies the connection with a
// ping. The returned client is an explicit handle: the caller owns it
// and must Disconnect it on shutdown.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("%w: mongo.Connect: %v", ErrStoreUnavailable, err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: mongo.Ping: %v", ErrStoreUnavailable, err)
	}
	return client, nil
}
