// Package migration brings a collection's location data from the legacy
// bare {latitude, longitude} shape to canonical GeoJSON Points and
// (re)builds the sparse 2dsphere index over them.
//
// The procedure is five idempotent steps; any failure aborts with a
// StepError and the whole run is safe to re-invoke from the start. It is
// an administrative, single-writer tool: do not run it concurrently
// against the same collection.
package migration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/petmap/pet-marketplace/internal/models"
)

const normalizeBatchSize = 500

// StepError reports which migration step failed and why.
type StepError struct {
	Step int
	Name string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("migration step %d (%s): %v", e.Step, e.Name, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

func stepFailed(step int, name string, err error) error {
	return &StepError{Step: step, Name: name, Err: err}
}

// Migrator runs the coordinate migration for one collection. The
// collection handle is passed in explicitly; the Migrator neither opens
// nor closes connections.
type Migrator struct {
	Collection *mongo.Collection
	// GeoField is the dotted path of the location field, e.g.
	// "address.coordinates".
	GeoField string
}

// indexSpec is the subset of a listIndexes document the migration cares
// about.
type indexSpec struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Sparse bool   `bson:"sparse"`
}

// Run executes the five migration steps in order.
func (m *Migrator) Run(ctx context.Context) error {
	logger := log.WithFields(log.Fields{
		"collection": m.Collection.Name(),
		"geo_field":  m.GeoField,
	})

	// Step 1: inspect existing indexes.
	existing, err := m.listIndexes(ctx)
	if err != nil {
		return stepFailed(1, "inspect", err)
	}
	current := findGeoIndex(existing, m.GeoField)
	if current != nil {
		logger.WithField("index", current.Name).Info("Found existing geo index")
	} else {
		logger.Info("No existing geo index")
	}

	// Step 2: drop the old index if present. Not-found is an already
	// satisfied precondition, not an error.
	if current != nil {
		if err := m.dropIndex(ctx, current.Name); err != nil {
			return stepFailed(2, "drop", err)
		}
		logger.WithField("index", current.Name).Info("Dropped geo index")
	}

	// Step 3: normalize document shapes.
	stats, err := m.normalize(ctx)
	if err != nil {
		return stepFailed(3, "normalize", err)
	}
	logger.WithFields(log.Fields{
		"scanned":     stats.Scanned,
		"reprojected": stats.Reprojected,
		"removed":     stats.Removed,
	}).Info("Normalized location data")

	// Step 4: rebuild the index as sparse so documents without a
	// location stay out of the index instead of failing the build or
	// being indexed as degenerate points.
	name, err := m.createSparseIndex(ctx)
	if err != nil {
		return stepFailed(4, "rebuild", err)
	}
	logger.WithField("index", name).Info("Created sparse 2dsphere index")

	// Step 5: verify the index actually exists as specified.
	if err := m.verify(ctx); err != nil {
		return stepFailed(5, "verify", err)
	}
	logger.Info("Migration complete")
	return nil
}

// IndexName is the name of the index the migration builds.
func (m *Migrator) IndexName() string {
	return strings.ReplaceAll(m.GeoField, ".", "_") + "_2dsphere"
}

func (m *Migrator) listIndexes(ctx context.Context) ([]indexSpec, error) {
	cursor, err := m.Collection.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var specs []indexSpec
	if err := cursor.All(ctx, &specs); err != nil {
		return nil, err
	}
	return specs, nil
}

// findGeoIndex locates a 2dsphere index over the given field, whatever
// its name.
func findGeoIndex(specs []indexSpec, geoField string) *indexSpec {
	for i := range specs {
		for _, key := range specs[i].Key {
			if key.Key == geoField && key.Value == "2dsphere" {
				return &specs[i]
			}
		}
	}
	return nil
}

func (m *Migrator) dropIndex(ctx context.Context, name string) error {
	_, err := m.Collection.Indexes().DropOne(ctx, name)
	if err == nil {
		return nil
	}
	// A concurrent or earlier run may have dropped it already.
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Name == "IndexNotFound" {
		return nil
	}
	return err
}

// normalizeStats counts what the normalize step did.
type normalizeStats struct {
	Scanned     int
	Reprojected int
	Removed     int
}

// normalize classifies every document's location value and rewrites the
// non-canonical ones: legacy {latitude, longitude} pairs are reprojected
// in place to GeoJSON Points, malformed values are removed entirely.
// Re-running is a no-op because canonical and absent shapes are skipped.
func (m *Migrator) normalize(ctx context.Context) (normalizeStats, error) {
	var stats normalizeStats

	path := strings.Split(m.GeoField, ".")
	projection := bson.M{"_id": 1, path[0]: 1}
	cursor, err := m.Collection.Find(ctx, bson.M{}, options.Find().SetProjection(projection))
	if err != nil {
		return stats, err
	}
	defer cursor.Close(ctx)

	var batch []mongo.WriteModel
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := m.Collection.BulkWrite(ctx, batch); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	}

	for cursor.Next(ctx) {
		stats.Scanned++

		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&row); err != nil {
			return stats, err
		}

		shape, lat, lng := classify(cursor.Current, path...)
		switch shape {
		case shapeAbsent, shapeCanonical:
			continue
		case shapeLegacy:
			point, err := models.NewGeoPoint(lat, lng)
			if err != nil {
				// classify only returns shapeLegacy for in-range values
				return stats, err
			}
			batch = append(batch, mongo.NewUpdateOneModel().
				SetFilter(bson.M{"_id": row.ID}).
				SetUpdate(bson.M{"$set": bson.M{m.GeoField: point}}))
			stats.Reprojected++
		case shapeMalformed:
			batch = append(batch, mongo.NewUpdateOneModel().
				SetFilter(bson.M{"_id": row.ID}).
				SetUpdate(bson.M{"$unset": bson.M{m.GeoField: ""}}))
			stats.Removed++
		}

		if len(batch) >= normalizeBatchSize {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}
	if err := cursor.Err(); err != nil {
		return stats, err
	}
	return stats, flush()
}

func (m *Migrator) createSparseIndex(ctx context.Context) (string, error) {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: m.GeoField, Value: "2dsphere"}},
		Options: options.Index().SetName(m.IndexName()).SetSparse(true),
	}
	return m.Collection.Indexes().CreateOne(ctx, model)
}

func (m *Migrator) verify(ctx context.Context) error {
	specs, err := m.listIndexes(ctx)
	if err != nil {
		return err
	}
	idx := findGeoIndex(specs, m.GeoField)
	if idx == nil {
		return fmt.Errorf("2dsphere index on %q not found after create", m.GeoField)
	}
	if !idx.Sparse {
		return fmt.Errorf("index %q exists but is not sparse", idx.Name)
	}
	return nil
}
