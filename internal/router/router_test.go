package router

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/fitmeal/mealplan-backend/internal/api"
	"github.com/fitmeal/mealplan-backend/internal/mocks"
	"github.com/fitmeal/mealplan-backend/internal/testdb"
	"github.com/fitmeal/mealplan-backend/internal/types"
)

func TestSetupRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testdb.SQLite(t)
	auth := new(mocks.MockTokenService)
	auth.On("ValidateToken", "good").Return(&types.TokenClaims{UserID: uuid.New()}, nil)
	auth.On("ValidateToken", "bad").Return(nil, errors.New("bad token"))

	r := SetupRouter(Handlers{
		Plans:    api.NewPlanHandler(nil, nil),
		Foods:    api.NewFoodHandler(nil, nil),
		Pairings: api.NewPairingHandler(nil, nil),
		Health:   api.NewHealthHandler(db, nil),
	}, Options{Auth: auth, AllowedOrigins: []string{"http://localhost:5173"}})

	tests := []struct {
		method, path, token string
		status              int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/v1/health", "", http.StatusOK},
		{http.MethodPost, "/api/v1/plans/day", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/plans/not-a-uuid", "good", http.StatusBadRequest},
		{http.MethodPost, "/api/v1/foods/rice/rating", "bad", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/unknown", "good", http.StatusNotFound},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		if tt.token != "" {
			req.Header.Set("Authorization", "Bearer "+tt.token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tt.status, w.Code, "%s %s", tt.method, tt.path)
	}

	preflight := httptest.NewRequest(http.MethodOptions, "/api/v1/plans/day", nil)
	preflight.Header.Set("Origin", "http://localhost:5173")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, preflight)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
