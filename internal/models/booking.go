package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingStatus tracks a booking through its lifecycle.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

// IsValidBookingStatus checks if a status is one of the defined values.
func IsValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether a status change is allowed. Completed
// and cancelled are terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingPending:
		return next == BookingConfirmed || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingInProgress || next == BookingCancelled
	case BookingInProgress:
		return next == BookingCompleted || next == BookingCancelled
	default:
		return false
	}
}

// Booking represents a pet owner's reservation of a service.
type Booking struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ServiceID  primitive.ObjectID `bson:"service_id" json:"service_id"`
	BusinessID primitive.ObjectID `bson:"business_id" json:"business_id"`
	OwnerID    string             `bson:"owner_id" json:"owner_id"`
	PetID      string             `bson:"pet_id" json:"pet_id"`
	Date       time.Time          `bson:"date" json:"date"`
	Slot       TimeSlot           `bson:"slot" json:"slot"`
	Status     BookingStatus      `bson:"status" json:"status"`
	Price      Price              `bson:"price" json:"price"` // snapshot at booking time
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
