package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/petmap/pet-marketplace/internal/db"
	"github.com/petmap/pet-marketplace/internal/middleware"
	"github.com/petmap/pet-marketplace/internal/models"
	"github.com/petmap/pet-marketplace/internal/search"
)

func writeJSON(w http.ResponseWriter, status int, body models.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, models.Response{Success: true, Data: data})
}

func writePage(w http.ResponseWriter, data interface{}, pagination models.Pagination) {
	writeJSON(w, http.StatusOK, models.Response{
		Success:    true,
		Data:       data,
		Pagination: &pagination,
	})
}

func writeError(w http.ResponseWriter, status int, message, field string) {
	writeJSON(w, status, models.Response{
		Success: false,
		Error:   &models.APIError{Message: message, Field: field},
	})
}

// writeQueryError maps a validation error to a 400 with the offending
// field named.
func writeQueryError(w http.ResponseWriter, err error) {
	var iq *search.InvalidQueryError
	if errors.As(err, &iq) {
		writeError(w, http.StatusBadRequest, iq.Reason, iq.Field)
		return
	}
	writeError(w, http.StatusBadRequest, err.Error(), "")
}

// writeStoreError maps storage failures to responses. Infrastructure
// detail is logged with the request id but never leaked to the caller.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "resource not found", "")
		return
	}
	log.WithFields(log.Fields{
		"request_id": middleware.GetRequestID(r.Context()),
		"path":       r.URL.Path,
	}).WithError(err).Error("Store operation failed")
	writeError(w, http.StatusInternalServerError, "internal server error", "")
}
