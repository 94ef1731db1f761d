package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/petmap/pet-marketplace/internal/db"
	"github.com/petmap/pet-marketplace/internal/middleware"
)

// NewRouter wires all HTTP routes. Search and read endpoints are public;
// every mutating endpoint requires a bearer token from the external auth
// service.
func NewRouter(
	businesses db.BusinessCollection,
	services db.ServiceCollection,
	bookings db.BookingCollection,
	validator *middleware.TokenValidator,
) *mux.Router {
	searchHandler := NewSearchHandler(businesses, services)
	businessHandler := NewBusinessHandler(businesses)
	serviceHandler := NewServiceHandler(services, businesses)
	bookingHandler := NewBookingHandler(bookings, services)
	rateLimiter := middleware.NewRateLimitMiddleware()

	router := mux.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(rateLimiter.RateLimit(120, 60))

	router.HandleFunc("/health", HealthCheck).Methods(http.MethodGet)

	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/businesses/search", searchHandler.SearchBusinesses).Methods(http.MethodGet)
	v1.HandleFunc("/services/search", searchHandler.SearchServices).Methods(http.MethodGet)
	v1.HandleFunc("/businesses/{id}", businessHandler.Get).Methods(http.MethodGet)
	v1.HandleFunc("/businesses/{id}/services", serviceHandler.ListByBusiness).Methods(http.MethodGet)
	v1.HandleFunc("/services/{id}", serviceHandler.Get).Methods(http.MethodGet)

	protected := router.PathPrefix("/api/v1").Subrouter()
	protected.Use(validator.Authenticate)
	protected.HandleFunc("/businesses", businessHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{id}", businessHandler.Update).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{id}", businessHandler.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/services", serviceHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/services/{id}", serviceHandler.Update).Methods(http.MethodPut)
	protected.HandleFunc("/services/{id}", serviceHandler.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/bookings", bookingHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", bookingHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{id}", bookingHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{id}/status", bookingHandler.UpdateStatus).Methods(http.MethodPatch)

	return router
}

// HealthCheck reports liveness.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}
