package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/petmap/pet-marketplace/internal/db"
	"github.com/petmap/pet-marketplace/internal/middleware"
	"github.com/petmap/pet-marketplace/internal/models"
)

// BookingHandler serves booking endpoints.
type BookingHandler struct {
	bookings db.BookingCollection
	services db.ServiceCollection
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(bookings db.BookingCollection, services db.ServiceCollection) *BookingHandler {
	return &BookingHandler{bookings: bookings, services: services}
}

type bookingRequest struct {
	ServiceID string          `json:"service_id"`
	PetID     string          `json:"pet_id"`
	Date      time.Time       `json:"date"`
	Slot      models.TimeSlot `json:"slot"`
	Notes     string          `json:"notes"`
}

// Create handles POST /bookings. The price is snapshotted from the
// service at booking time.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required", "")
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}
	if req.PetID == "" {
		writeError(w, http.StatusBadRequest, "pet_id is required", "pet_id")
		return
	}
	if req.Date.IsZero() {
		writeError(w, http.StatusBadRequest, "date is required", "date")
		return
	}

	service, err := h.services.FindServiceByID(r.Context(), req.ServiceID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if !service.IsActive {
		writeError(w, http.StatusConflict, "service is no longer offered", "service_id")
		return
	}

	booking := models.Booking{
		ServiceID:  service.ID,
		BusinessID: service.BusinessID,
		OwnerID:    claims.UserID,
		PetID:      req.PetID,
		Date:       req.Date,
		Slot:       req.Slot,
		Price:      service.Price,
		Notes:      req.Notes,
	}

	id, err := h.bookings.InsertBooking(r.Context(), booking)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]string{"id": id})
}

// Get handles GET /bookings/{id}. Only the booking owner or an admin may
// read it.
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required", "")
		return
	}

	booking, err := h.bookings.FindBookingByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if booking.OwnerID != claims.UserID && claims.Role != "admin" {
		writeError(w, http.StatusForbidden, "not your booking", "")
		return
	}
	writeData(w, http.StatusOK, booking)
}

// List handles GET /bookings, returning the caller's bookings.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required", "")
		return
	}

	bookings, err := h.bookings.FindBookingsByOwner(r.Context(), claims.UserID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, bookings)
}

// UpdateStatus handles PATCH /bookings/{id}/status with lifecycle
// transition validation.
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required", "")
		return
	}
	id := mux.Vars(r)["id"]

	var req struct {
		Status models.BookingStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}
	if !models.IsValidBookingStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "unknown booking status", "status")
		return
	}

	booking, err := h.bookings.FindBookingByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if booking.OwnerID != claims.UserID && claims.Role != "admin" && claims.Role != "business" {
		writeError(w, http.StatusForbidden, "not your booking", "")
		return
	}
	if !booking.Status.CanTransitionTo(req.Status) {
		writeError(w, http.StatusConflict, "invalid status transition", "status")
		return
	}

	if err := h.bookings.UpdateBookingStatus(r.Context(), id, req.Status); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "booking updated"})
}
