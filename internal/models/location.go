package models

import "fmt"

// GeoPoint is a GeoJSON Point as persisted in MongoDB. The coordinates
// array is [longitude, latitude], the inverse of the (lat, lng) order
// used by API parameters. Construct through NewGeoPoint so the flip
// happens in exactly one place.
//
// A business or service with an unknown location carries a nil *GeoPoint
// and the field is omitted from the stored document entirely. The
// 2dsphere index is sparse, so such documents are simply not indexed;
// they must never be written as (0, 0).
type GeoPoint struct {
	Type        string     `bson:"type" json:"type"`
	Coordinates [2]float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a GeoJSON Point from caller-order (lat, lng).
func NewGeoPoint(lat, lng float64) (*GeoPoint, error) {
	if err := ValidateLatLng(lat, lng); err != nil {
		return nil, err
	}
	return &GeoPoint{Type: "Point", Coordinates: [2]float64{lng, lat}}, nil
}

// Latitude returns the point's latitude (second coordinate).
func (p *GeoPoint) Latitude() float64 {
	return p.Coordinates[1]
}

// Longitude returns the point's longitude (first coordinate).
func (p *GeoPoint) Longitude() float64 {
	return p.Coordinates[0]
}

// ValidateLatLng checks geographic coordinate ranges.
func ValidateLatLng(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", lat)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", lng)
	}
	return nil
}
