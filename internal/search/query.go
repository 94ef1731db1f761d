// Package search builds MongoDB queries for the business and service
// search endpoints. It owns the two contracts that are easy to get
// silently wrong: the (lat, lng) -> [lng, lat] axis flip at the storage
// boundary, and the kilometers -> meters conversion for $maxDistance.
package search

import (
	"errors"
	"fmt"

	"github.com/petmap/pet-marketplace/internal/models"
)

const (
	// DefaultRadiusKm applies when a center is given without a radius.
	DefaultRadiusKm = 10.0
	DefaultPage     = 1
	DefaultLimit    = 12

	earthRadiusKm = 6371.0
)

// ErrInvalidQuery is the base error for all query validation failures.
var ErrInvalidQuery = errors.New("invalid query")

// InvalidQueryError reports which query field failed validation.
type InvalidQueryError struct {
	Field  string
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query: %s: %s", e.Field, e.Reason)
}

func (e *InvalidQueryError) Unwrap() error { return ErrInvalidQuery }

func invalid(field, reason string) error {
	return &InvalidQueryError{Field: field, Reason: reason}
}

// Query is a caller's search request. Latitude and Longitude are in the
// conventional caller order; nil means not supplied. A geo filter is
// applied only when both are present.
type Query struct {
	Latitude  *float64
	Longitude *float64
	RadiusKm  *float64
	Category  string
	Text      string
	MinPrice  *float64
	MaxPrice  *float64
	Page      int
	Limit     int
}

// HasCenter reports whether both coordinates were supplied.
func (q *Query) HasCenter() bool {
	return q.Latitude != nil && q.Longitude != nil
}

// Radius returns the effective search radius in kilometers.
func (q *Query) Radius() float64 {
	if q.RadiusKm != nil {
		return *q.RadiusKm
	}
	return DefaultRadiusKm
}

// Normalize fills in pagination defaults. It does not touch the radius:
// the default is applied at read time by Radius so that Validate can
// still distinguish "not supplied" from "supplied as zero".
func (q *Query) Normalize() {
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
}

// Validate rejects queries before they reach the store. Returns an
// *InvalidQueryError wrapping ErrInvalidQuery.
func (q *Query) Validate() error {
	if (q.Latitude == nil) != (q.Longitude == nil) {
		return invalid("longitude", "latitude and longitude must be supplied together")
	}
	if q.HasCenter() {
		if *q.Latitude < -90 || *q.Latitude > 90 {
			return invalid("latitude", "must be between -90 and 90")
		}
		if *q.Longitude < -180 || *q.Longitude > 180 {
			return invalid("longitude", "must be between -180 and 180")
		}
	}
	if q.RadiusKm != nil && *q.RadiusKm <= 0 {
		return invalid("radius", "must be greater than 0")
	}
	if q.MinPrice != nil && *q.MinPrice < 0 {
		return invalid("minPrice", "must not be negative")
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MaxPrice < *q.MinPrice {
		return invalid("maxPrice", "must not be less than minPrice")
	}
	if q.Page < 1 {
		return invalid("page", "must be at least 1")
	}
	if q.Limit < 1 {
		return invalid("limit", "must be greater than 0")
	}
	return nil
}

// Skip returns the number of documents to skip for the requested page.
func (q *Query) Skip() int64 {
	return int64(q.Page-1) * int64(q.Limit)
}

// NewPagination computes the response pagination block.
// Pages is ceil(total/limit).
func NewPagination(page, limit int, total int64) models.Pagination {
	pages := (total + int64(limit) - 1) / int64(limit)
	return models.Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}
