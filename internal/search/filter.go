package search

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CollectionSpec maps a Query onto the field layout of one searchable
// collection. Businesses keep their point under the address object,
// services carry a standalone top-level location.
type CollectionSpec struct {
	// GeoField is the path of the stored GeoJSON Point.
	GeoField string
	// PriceField is the path of the numeric price amount; empty when the
	// collection has no price to filter on.
	PriceField string
}

var (
	// Businesses searches the business collection.
	Businesses = CollectionSpec{GeoField: "address.coordinates"}
	// Services searches the service collection.
	Services = CollectionSpec{GeoField: "location", PriceField: "price.amount"}
)

// Filter builds the find filter for q. When a center is present the geo
// predicate uses $nearSphere, so the store returns matches in ascending
// distance order straight from the 2dsphere index. Documents without the
// geo field are not in the sparse index and therefore never match.
//
// The query center arrives as (lat, lng) and is flipped to [lng, lat]
// here to match GeoJSON storage order. $maxDistance is meters; the
// caller's radius is kilometers, so the conversion is exactly *1000.
func (s CollectionSpec) Filter(q *Query) bson.M {
	filter := s.baseFilter(q)
	if q.HasCenter() {
		filter[s.GeoField] = bson.M{
			"$nearSphere": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": bson.A{*q.Longitude, *q.Latitude},
				},
				"$maxDistance": q.Radius() * 1000,
			},
		}
	}
	return filter
}

// CountFilter builds the filter used to count total matches. Count
// operations reject $near operators, so the same circle is expressed as
// $geoWithin/$centerSphere with the radius in radians (km / earth
// radius). Containment is identical; only the ordering guarantee is
// lost, which a count does not need.
func (s CollectionSpec) CountFilter(q *Query) bson.M {
	filter := s.baseFilter(q)
	if q.HasCenter() {
		filter[s.GeoField] = bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{
					bson.A{*q.Longitude, *q.Latitude},
					q.Radius() / earthRadiusKm,
				},
			},
		}
	}
	return filter
}

// Sort returns the sort document for q. Geo-filtered queries must not
// set an explicit sort: $nearSphere already orders by distance and a
// sort stage would override it. Without a center, results are newest
// first with _id as the deterministic tie-break for stable pagination.
func (s CollectionSpec) Sort(q *Query) bson.D {
	if q.HasCenter() {
		return nil
	}
	return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
}

func (s CollectionSpec) baseFilter(q *Query) bson.M {
	filter := bson.M{"is_active": true}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Text != "" {
		regex := primitive.Regex{Pattern: escapeRegex(q.Text), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": regex},
			bson.M{"description": regex},
		}
	}
	if s.PriceField != "" && (q.MinPrice != nil || q.MaxPrice != nil) {
		price := bson.M{}
		if q.MinPrice != nil {
			price["$gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			price["$lte"] = *q.MaxPrice
		}
		filter[s.PriceField] = price
	}
	return filter
}

// escapeRegex neutralizes regex metacharacters in free-text input so it
// matches as a literal substring.
func escapeRegex(text string) string {
	const meta = `\.+*?()|[]{}^$`
	out := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		for j := 0; j < len(meta); j++ {
			if c == meta[j] {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, c)
	}
	return string(out)
}
