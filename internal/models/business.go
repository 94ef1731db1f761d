package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BusinessCategory classifies a service provider.
type BusinessCategory string

const (
	BusinessVeterinary BusinessCategory = "veterinary"
	BusinessGrooming   BusinessCategory = "grooming"
	BusinessBoarding   BusinessCategory = "boarding"
	BusinessDaycare    BusinessCategory = "daycare"
	BusinessTraining   BusinessCategory = "training"
	BusinessPetShop    BusinessCategory = "pet_shop"
	BusinessOther      BusinessCategory = "other"
)

// IsValidBusinessCategory checks if a business category is one of the defined values.
func IsValidBusinessCategory(c BusinessCategory) bool {
	switch c {
	case BusinessVeterinary, BusinessGrooming, BusinessBoarding, BusinessDaycare,
		BusinessTraining, BusinessPetShop, BusinessOther:
		return true
	default:
		return false
	}
}

// Address is a postal address with optional geographic coordinates.
// Coordinates is nil (and absent from the stored document) when the
// location is unknown.
type Address struct {
	Street      string    `bson:"street" json:"street"`
	City        string    `bson:"city" json:"city"`
	State       string    `bson:"state" json:"state"`
	ZipCode     string    `bson:"zip_code" json:"zip_code"`
	Country     string    `bson:"country" json:"country"`
	Coordinates *GeoPoint `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

// Contact holds a business's contact details.
type Contact struct {
	Phone   string `bson:"phone" json:"phone"`
	Email   string `bson:"email" json:"email"`
	Website string `bson:"website,omitempty" json:"website,omitempty"`
}

// DayHours is the opening window for a single weekday.
type DayHours struct {
	Open   string `bson:"open" json:"open"`     // "09:00"
	Close  string `bson:"close" json:"close"`   // "18:00"
	Closed bool   `bson:"closed" json:"closed"`
}

// Rating aggregates review scores for a business.
type Rating struct {
	Average float64 `bson:"average" json:"average"`
	Count   int     `bson:"count" json:"count"`
}

// Business represents a pet-service provider.
type Business struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OwnerID     string              `bson:"owner_id" json:"owner_id"`
	Name        string              `bson:"name" json:"name"`
	Category    BusinessCategory    `bson:"category" json:"category"`
	Description string              `bson:"description" json:"description"`
	Contact     Contact             `bson:"contact" json:"contact"`
	Address     Address             `bson:"address" json:"address"`
	Hours       map[string]DayHours `bson:"hours,omitempty" json:"hours,omitempty"` // keyed by lowercase weekday
	IsVerified  bool                `bson:"is_verified" json:"is_verified"`
	IsActive    bool                `bson:"is_active" json:"is_active"`
	Rating      Rating              `bson:"rating" json:"rating"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
}
