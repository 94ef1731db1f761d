package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/petmap/pet-marketplace/internal/middleware"
	"github.com/petmap/pet-marketplace/internal/models"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, userID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

// authedRequest runs a handler behind the token validation middleware,
// the way the router wires it.
func authedRequest(t *testing.T, handler http.HandlerFunc, method, url, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()

	validator := middleware.NewTokenValidator(testSecret)
	validator.Authenticate(handler).ServeHTTP(rec, req)
	return rec
}

func validBusinessBody() map[string]interface{} {
	return map[string]interface{}{
		"name":        "Happy Paws Clinic",
		"category":    "veterinary",
		"description": "Small animal clinic",
		"contact":     map[string]string{"phone": "555-0100", "email": "vet@happypaws.ph"},
		"address": map[string]interface{}{
			"street":    "123 Rizal Ave",
			"city":      "Manila",
			"country":   "PH",
			"latitude":  14.5995,
			"longitude": 120.9842,
		},
	}
}

func TestBusinessHandler_CreateRequiresAuth(t *testing.T) {
	handler := NewBusinessHandler(new(MockBusinessCollection))

	rec := authedRequest(t, handler.Create, http.MethodPost, "/api/v1/businesses", "", validBusinessBody())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBusinessHandler_CreateStoresFlippedCoordinates(t *testing.T) {
	businesses := new(MockBusinessCollection)
	handler := NewBusinessHandler(businesses)

	businesses.On("InsertBusiness", mock.Anything, mock.MatchedBy(func(b models.Business) bool {
		if b.OwnerID != "owner-1" || b.Address.Coordinates == nil {
			return false
		}
		// Caller sent (lat, lng); storage is [lng, lat].
		coords := b.Address.Coordinates.Coordinates
		return coords[0] == 120.9842 && coords[1] == 14.5995
	})).Return("new-id", nil)

	token := signedToken(t, "owner-1", "business")
	rec := authedRequest(t, handler.Create, http.MethodPost, "/api/v1/businesses", token, validBusinessBody())

	assert.Equal(t, http.StatusCreated, rec.Code)
	businesses.AssertExpectations(t)
}

func TestBusinessHandler_CreateWithoutCoordinates(t *testing.T) {
	businesses := new(MockBusinessCollection)
	handler := NewBusinessHandler(businesses)

	businesses.On("InsertBusiness", mock.Anything, mock.MatchedBy(func(b models.Business) bool {
		return b.Address.Coordinates == nil
	})).Return("new-id", nil)

	body := validBusinessBody()
	body["address"] = map[string]interface{}{"city": "Manila", "country": "PH"}

	token := signedToken(t, "owner-1", "business")
	rec := authedRequest(t, handler.Create, http.MethodPost, "/api/v1/businesses", token, body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	businesses.AssertExpectations(t)
}

func TestBusinessHandler_CreateValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(map[string]interface{})
		wantField string
	}{
		{
			"missing name",
			func(b map[string]interface{}) { b["name"] = "" },
			"name",
		},
		{
			"unknown category",
			func(b map[string]interface{}) { b["category"] = "plumbing" },
			"category",
		},
		{
			"latitude without longitude",
			func(b map[string]interface{}) {
				b["address"] = map[string]interface{}{"city": "Manila", "latitude": 14.5995}
			},
			"address",
		},
		{
			"latitude out of range",
			func(b map[string]interface{}) {
				b["address"] = map[string]interface{}{"city": "Manila", "latitude": 95.0, "longitude": 10.0}
			},
			"address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewBusinessHandler(new(MockBusinessCollection))

			body := validBusinessBody()
			tt.mutate(body)

			token := signedToken(t, "owner-1", "business")
			rec := authedRequest(t, handler.Create, http.MethodPost, "/api/v1/businesses", token, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp models.Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantField, resp.Error.Field)
		})
	}
}

func TestBusinessHandler_UpdateRejectsNonOwner(t *testing.T) {
	businesses := new(MockBusinessCollection)
	handler := NewBusinessHandler(businesses)

	businesses.On("FindBusinessByID", mock.Anything, mock.Anything).
		Return(&models.Business{OwnerID: "someone-else"}, nil)

	token := signedToken(t, "owner-1", "business")
	rec := authedRequest(t, handler.Update, http.MethodPut, "/api/v1/businesses/abc", token, validBusinessBody())
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBusinessHandler_AdminMayUpdateAnyBusiness(t *testing.T) {
	businesses := new(MockBusinessCollection)
	handler := NewBusinessHandler(businesses)

	businesses.On("FindBusinessByID", mock.Anything, mock.Anything).
		Return(&models.Business{OwnerID: "someone-else"}, nil)
	businesses.On("UpdateBusiness", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	token := signedToken(t, "admin-1", "admin")
	rec := authedRequest(t, handler.Update, http.MethodPut, "/api/v1/businesses/abc", token, validBusinessBody())
	assert.Equal(t, http.StatusOK, rec.Code)
	businesses.AssertExpectations(t)
}
