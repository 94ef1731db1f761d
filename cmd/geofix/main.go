// Command geofix migrates stored location data to the canonical GeoJSON
// Point shape and rebuilds the sparse 2dsphere indexes. Safe to re-run;
// it is an administrative single-writer tool and must not run twice
// concurrently against the same database.
package main

import (
	"context"
	"errors"
	"flag"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/petmap/pet-marketplace/internal/config"
	"github.com/petmap/pet-marketplace/internal/db"
	"github.com/petmap/pet-marketplace/internal/migration"
)

// geoFields maps each migratable collection to its location field path.
var geoFields = map[string]string{
	db.BusinessesCollection: "address.coordinates",
	db.ServicesCollection:   "location",
}

func main() {
	var (
		collections = flag.String("collections", "businesses,services",
			"comma-separated collections to migrate")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}

	ctx := context.Background()
	client, err := db.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Error("Failed to disconnect from MongoDB")
		}
	}()

	database := client.Database(cfg.Mongo.Database)

	for _, name := range strings.Split(*collections, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		geoField, ok := geoFields[name]
		if !ok {
			log.WithField("collection", name).Fatal("Unknown collection")
		}

		m := &migration.Migrator{
			Collection: database.Collection(name),
			GeoField:   geoField,
		}
		if err := m.Run(ctx); err != nil {
			var stepErr *migration.StepError
			if errors.As(err, &stepErr) {
				log.WithFields(log.Fields{
					"collection": name,
					"step":       stepErr.Step,
					"step_name":  stepErr.Name,
				}).WithError(stepErr.Err).Fatal("Migration failed")
			}
			log.WithField("collection", name).WithError(err).Fatal("Migration failed")
		}
	}

	log.Info("All migrations completed")
}
