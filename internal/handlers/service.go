package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petmap/pet-marketplace/internal/db"
	"github.com/petmap/pet-marketplace/internal/middleware"
	"github.com/petmap/pet-marketplace/internal/models"
)

// ServiceHandler serves service CRUD endpoints.
type ServiceHandler struct {
	services   db.ServiceCollection
	businesses db.BusinessCollection
}

// NewServiceHandler creates a new service handler.
func NewServiceHandler(services db.ServiceCollection, businesses db.BusinessCollection) *ServiceHandler {
	return &ServiceHandler{services: services, businesses: businesses}
}

type serviceRequest struct {
	BusinessID      string                 `json:"business_id"`
	Name            string                 `json:"name"`
	Category        models.ServiceCategory `json:"category"`
	Description     string                 `json:"description"`
	DurationMinutes int                    `json:"duration_minutes"`
	Price           models.Price           `json:"price"`
	Latitude        *float64               `json:"latitude,omitempty"`
	Longitude       *float64               `json:"longitude,omitempty"`
	Availability    models.Availability    `json:"availability"`
	Requirements    models.Requirements    `json:"requirements"`
}

func (req *serviceRequest) validate() (string, string) {
	if req.Name == "" {
		return "name is required", "name"
	}
	if !models.IsValidServiceCategory(req.Category) {
		return "unknown service category", "category"
	}
	if req.DurationMinutes <= 0 {
		return "must be greater than 0", "duration_minutes"
	}
	if req.Price.Amount < 0 {
		return "must not be negative", "price"
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return "latitude and longitude must be supplied together", "location"
	}
	return "", ""
}

func (req *serviceRequest) location() (*models.GeoPoint, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return nil, nil
	}
	return models.NewGeoPoint(*req.Latitude, *req.Longitude)
}

// Create handles POST /services. The owning business must exist and
// belong to the caller.
func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required", "")
		return
	}

	var req serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}
	if msg, field := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg, field)
		return
	}
	location, err := req.location()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "location")
		return
	}

	business, err := h.businesses.FindBusinessByID(r.Context(), req.BusinessID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if business.OwnerID != claims.UserID && claims.Role != "admin" {
		writeError(w, http.StatusForbidden, "not the business owner", "")
		return
	}

	service := models.Service{
		BusinessID:      business.ID,
		Name:            req.Name,
		Category:        req.Category,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Location:        location,
		Availability:    req.Availability,
		Requirements:    req.Requirements,
	}

	id, err := h.services.InsertService(r.Context(), service)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]string{"id": id})
}

// Get handles GET /services/{id}.
func (h *ServiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	service, err := h.services.FindServiceByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, service)
}

// ListByBusiness handles GET /businesses/{id}/services.
func (h *ServiceHandler) ListByBusiness(w http.ResponseWriter, r *http.Request) {
	services, err := h.services.FindServicesByBusiness(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, services)
}

// Update handles PUT /services/{id}.
func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required", "")
		return
	}
	id := mux.Vars(r)["id"]

	existing, err := h.services.FindServiceByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if err := h.authorizeOwner(r, claims, existing.BusinessID); err != nil {
		writeError(w, http.StatusForbidden, "not the business owner", "")
		return
	}

	var req serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}
	if msg, field := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg, field)
		return
	}
	location, err := req.location()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "location")
		return
	}

	service := models.Service{
		Name:            req.Name,
		Category:        req.Category,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Location:        location,
		Availability:    req.Availability,
		Requirements:    req.Requirements,
	}
	if err := h.services.UpdateService(r.Context(), id, service); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "service updated"})
}

// Delete handles DELETE /services/{id} as a soft deactivation.
func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required", "")
		return
	}
	id := mux.Vars(r)["id"]

	existing, err := h.services.FindServiceByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if err := h.authorizeOwner(r, claims, existing.BusinessID); err != nil {
		writeError(w, http.StatusForbidden, "not the business owner", "")
		return
	}

	if err := h.services.DeactivateService(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "service deactivated"})
}

func (h *ServiceHandler) authorizeOwner(r *http.Request, claims *middleware.Claims, businessID primitive.ObjectID) error {
	if claims.Role == "admin" {
		return nil
	}
	business, err := h.businesses.FindBusinessByID(r.Context(), businessID.Hex())
	if err != nil {
		return err
	}
	if business.OwnerID != claims.UserID {
		return db.ErrNotFound
	}
	return nil
}
