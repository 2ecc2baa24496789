package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/fitmeal/mealplan-backend/internal/types"
)

type stubValidator struct {
	claims *types.TokenClaims
}

func (s stubValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return s.claims, nil
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	router := gin.New()
	router.Use(AuthMiddleware(stubValidator{claims: &types.TokenClaims{UserID: userID, Username: "minji"}}))
	router.GET("/me", func(c *gin.Context) {
		id, ok := UserID(c)
		assert.True(t, ok)
		c.String(http.StatusOK, id.String())
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"no token", "Bearer", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, userID.String(), w.Body.String())
			}
		})
	}
}

func TestUserIDMissing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := UserID(c)
	assert.False(t, ok)
}
