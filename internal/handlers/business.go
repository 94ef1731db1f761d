package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/petmap/pet-marketplace/internal/db"
	"github.com/petmap/pet-marketplace/internal/middleware"
	"github.com/petmap/pet-marketplace/internal/models"
)

// BusinessHandler serves business CRUD endpoints.
type BusinessHandler struct {
	businesses db.BusinessCollection
}

// NewBusinessHandler creates a new business handler.
func NewBusinessHandler(businesses db.BusinessCollection) *BusinessHandler {
	return &BusinessHandler{businesses: businesses}
}

// businessRequest is the write-path payload. Coordinates arrive in
// caller order and are converted to a GeoJSON point exactly once, in
// toAddress. Omitting both leaves the stored location absent.
type businessRequest struct {
	Name        string                     `json:"name"`
	Category    models.BusinessCategory    `json:"category"`
	Description string                     `json:"description"`
	Contact     models.Contact             `json:"contact"`
	Address     businessAddress            `json:"address"`
	Hours       map[string]models.DayHours `json:"hours"`
}

type businessAddress struct {
	Street    string   `json:"street"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	ZipCode   string   `json:"zip_code"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func (req *businessRequest) validate() (string, string) {
	if req.Name == "" {
		return "name is required", "name"
	}
	if !models.IsValidBusinessCategory(req.Category) {
		return "unknown business category", "category"
	}
	if (req.Address.Latitude == nil) != (req.Address.Longitude == nil) {
		return "latitude and longitude must be supplied together", "address"
	}
	return "", ""
}

func (req *businessRequest) toAddress() (models.Address, error) {
	addr := models.Address{
		Street:  req.Address.Street,
		City:    req.Address.City,
		State:   req.Address.State,
		ZipCode: req.Address.ZipCode,
		Country: req.Address.Country,
	}
	if req.Address.Latitude != nil && req.Address.Longitude != nil {
		point, err := models.NewGeoPoint(*req.Address.Latitude, *req.Address.Longitude)
		if err != nil {
			return addr, err
		}
		addr.Coordinates = point
	}
	return addr, nil
}

// Create handles POST /businesses.
func (h *BusinessHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required", "")
		return
	}

	var req businessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}
	if msg, field := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg, field)
		return
	}
	address, err := req.toAddress()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "address")
		return
	}

	business := models.Business{
		OwnerID:     claims.UserID,
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Contact:     req.Contact,
		Address:     address,
		Hours:       req.Hours,
	}

	id, err := h.businesses.InsertBusiness(r.Context(), business)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]string{"id": id})
}

// Get handles GET /businesses/{id}.
func (h *BusinessHandler) Get(w http.ResponseWriter, r *http.Request) {
	business, err := h.businesses.FindBusinessByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, business)
}

// Update handles PUT /businesses/{id}. Only the owner or an admin may
// modify a business.
func (h *BusinessHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required", "")
		return
	}
	id := mux.Vars(r)["id"]

	existing, err := h.businesses.FindBusinessByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if existing.OwnerID != claims.UserID && claims.Role != "admin" {
		writeError(w, http.StatusForbidden, "not the business owner", "")
		return
	}

	var req businessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "")
		return
	}
	if msg, field := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg, field)
		return
	}
	address, err := req.toAddress()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "address")
		return
	}

	business := models.Business{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Contact:     req.Contact,
		Address:     address,
		Hours:       req.Hours,
	}
	if err := h.businesses.UpdateBusiness(r.Context(), id, business); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "business updated"})
}

// Delete handles DELETE /businesses/{id} as a soft deactivation.
func (h *BusinessHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required", "")
		return
	}
	id := mux.Vars(r)["id"]

	existing, err := h.businesses.FindBusinessByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if existing.OwnerID != claims.UserID && claims.Role != "admin" {
		writeError(w, http.StatusForbidden, "not the business owner", "")
		return
	}

	if err := h.businesses.DeactivateBusiness(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "business deactivated"})
}
