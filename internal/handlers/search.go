package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/petmap/pet-marketplace/internal/db"
	"github.com/petmap/pet-marketplace/internal/models"
	"github.com/petmap/pet-marketplace/internal/search"
)

// SearchHandler serves the geo-filtered business and service search
// endpoints.
type SearchHandler struct {
	businesses db.BusinessCollection
	services   db.ServiceCollection
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(businesses db.BusinessCollection, services db.ServiceCollection) *SearchHandler {
	return &SearchHandler{businesses: businesses, services: services}
}

// SearchBusinesses handles GET /businesses/search.
func (h *SearchHandler) SearchBusinesses(w http.ResponseWriter, r *http.Request) {
	q, err := parseSearchQuery(r.URL.Query())
	if err != nil {
		writeQueryError(w, err)
		return
	}
	if q.Category != "" && !models.IsValidBusinessCategory(models.BusinessCategory(q.Category)) {
		writeError(w, http.StatusBadRequest, "unknown business category", "category")
		return
	}

	businesses, total, err := h.businesses.SearchBusinesses(r.Context(), q)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writePage(w, businesses, search.NewPagination(q.Page, q.Limit, total))
}

// SearchServices handles GET /services/search.
func (h *SearchHandler) SearchServices(w http.ResponseWriter, r *http.Request) {
	q, err := parseSearchQuery(r.URL.Query())
	if err != nil {
		writeQueryError(w, err)
		return
	}
	if q.Category != "" && !models.IsValidServiceCategory(models.ServiceCategory(q.Category)) {
		writeError(w, http.StatusBadRequest, "unknown service category", "category")
		return
	}

	services, total, err := h.services.SearchServices(r.Context(), q)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writePage(w, services, search.NewPagination(q.Page, q.Limit, total))
}

// parseSearchQuery builds a validated search.Query from URL parameters.
// Coordinates arrive in caller order (latitude, longitude); the flip to
// storage order happens inside the search package, never here.
func parseSearchQuery(values url.Values) (*search.Query, error) {
	q := &search.Query{
		Text: values.Get("search"),
	}

	// businessType is the legacy alias for category.
	q.Category = values.Get("category")
	if q.Category == "" {
		q.Category = values.Get("businessType")
	}

	var err error
	if q.Latitude, err = floatParam(values, "latitude"); err != nil {
		return nil, err
	}
	if q.Longitude, err = floatParam(values, "longitude"); err != nil {
		return nil, err
	}
	if q.RadiusKm, err = floatParam(values, "radius"); err != nil {
		return nil, err
	}
	if q.MinPrice, err = floatParam(values, "minPrice"); err != nil {
		return nil, err
	}
	if q.MaxPrice, err = floatParam(values, "maxPrice"); err != nil {
		return nil, err
	}
	if q.Page, err = intParam(values, "page"); err != nil {
		return nil, err
	}
	if q.Limit, err = intParam(values, "limit"); err != nil {
		return nil, err
	}

	q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func floatParam(values url.Values, name string) (*float64, error) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &search.InvalidQueryError{Field: name, Reason: "must be a number"}
	}
	return &f, nil
}

func intParam(values url.Values, name string) (int, error) {
	raw := values.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &search.InvalidQueryError{Field: name, Reason: "must be an integer"}
	}
	return n, nil
}
