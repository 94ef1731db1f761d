package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/petmap/pet-marketplace/internal/config"
	"github.com/petmap/pet-marketplace/internal/models"
	"github.com/petmap/pet-marketplace/internal/search"
)

// Manila city hall, and points roughly 1 km and 20 km due north of it.
const (
	manilaLat = 14.5995
	manilaLng = 120.9842

	oneKmNorthLat    = 14.6085
	twentyKmNorthLat = 14.7795
)

func testCollection(t *testing.T, name string) *mongo.Collection {
	t.Helper()

	cfg, err := config.Load()
	require.NoError(t, err)

	client, err := Connect(context.Background(), cfg.Mongo)
	if err != nil {
		t.Skipf("mongo not reachable: %v, skipping integration test", err)
	}
	t.Cleanup(func() {
		_ = client.Disconnect(context.Background())
	})

	collection := client.Database("test_petmarketplace").Collection(name)
	require.NoError(t, collection.Drop(context.Background()))
	t.Cleanup(func() {
		_ = collection.Drop(context.Background())
	})
	return collection
}

func createSparseGeoIndex(t *testing.T, collection *mongo.Collection, field string) {
	t.Helper()
	_, err := collection.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: "2dsphere"}},
		Options: options.Index().SetSparse(true),
	})
	require.NoError(t, err)
}

func insertBusinessAt(t *testing.T, c *MongoBusinessCollection, name string, lat, lng float64, category models.BusinessCategory) string {
	t.Helper()
	point, err := models.NewGeoPoint(lat, lng)
	require.NoError(t, err)

	id, err := c.InsertBusiness(context.Background(), models.Business{
		OwnerID:  "owner-1",
		Name:     name,
		Category: category,
		Address:  models.Address{City: "Manila", Coordinates: point},
	})
	require.NoError(t, err)
	return id
}

func TestSearchBusinesses_RadiusInclusionExclusion(t *testing.T) {
	ctx := context.Background()
	collection := testCollection(t, "businesses_geo")
	createSparseGeoIndex(t, collection, "address.coordinates")
	businesses := &MongoBusinessCollection{Collection: collection}

	insertBusinessAt(t, businesses, "at center", manilaLat, manilaLng, models.BusinessVeterinary)
	insertBusinessAt(t, businesses, "one km away", oneKmNorthLat, manilaLng, models.BusinessGrooming)
	insertBusinessAt(t, businesses, "twenty km away", twentyKmNorthLat, manilaLng, models.BusinessGrooming)

	// A business with no stored location is never a geo match and never
	// an error.
	_, err := businesses.InsertBusiness(ctx, models.Business{
		OwnerID:  "owner-1",
		Name:     "no location",
		Category: models.BusinessVeterinary,
		Address:  models.Address{City: "Manila"},
	})
	require.NoError(t, err)

	// Deactivated businesses are invisible to search even at distance 0.
	inactiveID := insertBusinessAt(t, businesses, "closed down", manilaLat, manilaLng, models.BusinessVeterinary)
	require.NoError(t, businesses.DeactivateBusiness(ctx, inactiveID))

	lat, lng, radius := manilaLat, manilaLng, 5.0
	q := &search.Query{Latitude: &lat, Longitude: &lng, RadiusKm: &radius, Page: 1, Limit: 12}
	require.NoError(t, q.Validate())

	results, total, err := businesses.SearchBusinesses(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, results, 2)
	// $nearSphere returns ascending distance order.
	assert.Equal(t, "at center", results[0].Name)
	assert.Equal(t, "one km away", results[1].Name)
}

// Storing (lat, lng) and querying with the same (lat, lng) must return
// the document. An implementation that forgets to flip axes when
// building the predicate still type-checks but searches near the wrong
// point on the globe.
func TestSearchBusinesses_AxisOrderRoundTrip(t *testing.T) {
	ctx := context.Background()
	collection := testCollection(t, "businesses_axis")
	createSparseGeoIndex(t, collection, "address.coordinates")
	businesses := &MongoBusinessCollection{Collection: collection}

	insertBusinessAt(t, businesses, "manila clinic", manilaLat, manilaLng, models.BusinessVeterinary)

	lat, lng, radius := manilaLat, manilaLng, 1.0
	q := &search.Query{Latitude: &lat, Longitude: &lng, RadiusKm: &radius, Page: 1, Limit: 12}

	results, total, err := businesses.SearchBusinesses(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, "manila clinic", results[0].Name)
}

func TestSearchBusinesses_PageBeyondPagesReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	collection := testCollection(t, "businesses_paging")
	businesses := &MongoBusinessCollection{Collection: collection}

	for i := 0; i < 3; i++ {
		_, err := businesses.InsertBusiness(ctx, models.Business{
			OwnerID:  "owner-1",
			Name:     fmt.Sprintf("biz %d", i),
			Category: models.BusinessGrooming,
			Address:  models.Address{City: "Manila"},
		})
		require.NoError(t, err)
	}

	q := &search.Query{Page: 5, Limit: 2}
	q.Normalize()

	results, total, err := businesses.SearchBusinesses(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Empty(t, results, "beyond the last page is an empty page, not an error")

	p := search.NewPagination(q.Page, q.Limit, total)
	assert.Equal(t, int64(2), p.Pages)
}

func TestSearchBusinesses_CategoryWithoutLocation(t *testing.T) {
	ctx := context.Background()
	collection := testCollection(t, "businesses_category")
	businesses := &MongoBusinessCollection{Collection: collection}

	for i := 0; i < 15; i++ {
		_, err := businesses.InsertBusiness(ctx, models.Business{
			OwnerID:  "owner-1",
			Name:     fmt.Sprintf("vet %d", i),
			Category: models.BusinessVeterinary,
			Address:  models.Address{City: "Manila"},
		})
		require.NoError(t, err)
	}
	_, err := businesses.InsertBusiness(ctx, models.Business{
		OwnerID:  "owner-1",
		Name:     "groomer",
		Category: models.BusinessGrooming,
		Address:  models.Address{City: "Manila"},
	})
	require.NoError(t, err)

	q := &search.Query{Category: "veterinary", Page: 1, Limit: 12}

	page1, total, err := businesses.SearchBusinesses(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(15), total)
	require.Len(t, page1, 12)

	q2 := &search.Query{Category: "veterinary", Page: 2, Limit: 12}
	page2, _, err := businesses.SearchBusinesses(ctx, q2)
	require.NoError(t, err)
	require.Len(t, page2, 3)

	// Stable default order: pages are disjoint and cover all matches.
	seen := make(map[string]bool)
	for _, b := range append(page1, page2...) {
		assert.Equal(t, models.BusinessVeterinary, b.Category)
		assert.False(t, seen[b.ID.Hex()], "document %s appeared on two pages", b.ID.Hex())
		seen[b.ID.Hex()] = true
	}
	assert.Len(t, seen, 15)
}

func TestSearchServices_PriceBoundsAndGeo(t *testing.T) {
	ctx := context.Background()
	collection := testCollection(t, "services_geo")
	createSparseGeoIndex(t, collection, "location")
	services := &MongoServiceCollection{Collection: collection}

	insertService := func(name string, amount float64, lat *float64) {
		var location *models.GeoPoint
		if lat != nil {
			point, err := models.NewGeoPoint(*lat, manilaLng)
			require.NoError(t, err)
			location = point
		}
		_, err := services.InsertService(ctx, models.Service{
			Name:            name,
			Category:        models.ServiceGrooming,
			DurationMinutes: 60,
			Price:           models.Price{Amount: amount, Currency: "USD"},
			Location:        location,
		})
		require.NoError(t, err)
	}

	center := manilaLat
	far := twentyKmNorthLat
	insertService("cheap nearby", 20, &center)
	insertService("pricey nearby", 80, &center)
	insertService("cheap but far", 20, &far)
	insertService("cheap no location", 20, nil)

	lat, lng, radius := manilaLat, manilaLng, 5.0
	minPrice, maxPrice := 10.0, 50.0
	q := &search.Query{
		Latitude:  &lat,
		Longitude: &lng,
		RadiusKm:  &radius,
		MinPrice:  &minPrice,
		MaxPrice:  &maxPrice,
		Page:      1,
		Limit:     12,
	}

	results, total, err := services.SearchServices(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, "cheap nearby", results[0].Name)
}
