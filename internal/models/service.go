package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServiceCategory classifies an individual offering.
type ServiceCategory string

const (
	ServiceVeterinary   ServiceCategory = "veterinary"
	ServiceGrooming     ServiceCategory = "grooming"
	ServiceBoarding     ServiceCategory = "boarding"
	ServiceDaycare      ServiceCategory = "daycare"
	ServiceTraining     ServiceCategory = "training"
	ServiceEmergency    ServiceCategory = "emergency"
	ServiceConsultation ServiceCategory = "consultation"
	ServiceOther        ServiceCategory = "other"
)

// IsValidServiceCategory checks if a service category is one of the defined values.
func IsValidServiceCategory(c ServiceCategory) bool {
	switch c {
	case ServiceVeterinary, ServiceGrooming, ServiceBoarding, ServiceDaycare,
		ServiceTraining, ServiceEmergency, ServiceConsultation, ServiceOther:
		return true
	default:
		return false
	}
}

// Price is an amount in a given currency.
type Price struct {
	Amount   float64 `bson:"amount" json:"amount"`
	Currency string  `bson:"currency" json:"currency"` // ISO 4217, e.g. "USD"
}

// TimeSlot is a bookable window within a day.
type TimeSlot struct {
	Start string `bson:"start" json:"start"` // "09:00"
	End   string `bson:"end" json:"end"`     // "10:30"
}

// Availability lists the weekdays and time slots a service can be booked.
type Availability struct {
	Days  []string   `bson:"days" json:"days"` // lowercase weekday names
	Slots []TimeSlot `bson:"slots" json:"slots"`
}

// Requirements describes which pets a service accepts.
type Requirements struct {
	Species             []string `bson:"species,omitempty" json:"species,omitempty"`
	MinAgeMonths        *int     `bson:"min_age_months,omitempty" json:"min_age_months,omitempty"`
	MaxAgeMonths        *int     `bson:"max_age_months,omitempty" json:"max_age_months,omitempty"`
	HealthPrerequisites []string `bson:"health_prerequisites,omitempty" json:"health_prerequisites,omitempty"`
	Notes               string   `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Service represents an offering owned by exactly one business. Location
// is optional and may differ from the owning business's address, e.g.
// mobile grooming.
type Service struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BusinessID      primitive.ObjectID `bson:"business_id" json:"business_id"`
	Name            string             `bson:"name" json:"name"`
	Category        ServiceCategory    `bson:"category" json:"category"`
	Description     string             `bson:"description" json:"description"`
	DurationMinutes int                `bson:"duration_minutes" json:"duration_minutes"`
	Price           Price              `bson:"price" json:"price"`
	Location        *GeoPoint          `bson:"location,omitempty" json:"location,omitempty"`
	Availability    Availability       `bson:"availability" json:"availability"`
	Requirements    Requirements       `bson:"requirements" json:"requirements"`
	IsActive        bool               `bson:"is_active" json:"is_active"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}
