package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedRouter(rl *RateLimiter, userID uuid.UUID) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Set(ContextUserID, userID)
		}
		c.Next()
	})
	router.POST("/plans/day", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })
	return router
}

func TestRateLimiterRequiresUser(t *testing.T) {
	rl := NewPlanRateLimiter(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), 1, time.Minute, nil)
	w := httptest.NewRecorder()
	limitedRouter(rl, uuid.Nil).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/plans/day", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	rl := NewPlanRateLimiter(client, 1, time.Minute, nil)

	w := httptest.NewRecorder()
	limitedRouter(rl, uuid.New()).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/plans/day", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
}

func TestRateLimiterWithRedis(t *testing.T) {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		t.Skip("REDIS_HOST not set")
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port), Password: os.Getenv("REDIS_PASSWORD")})
	defer client.Close()
	require.NoError(t, client.Ping(context.Background()).Err())

	rl := NewPlanRateLimiter(client, 2, time.Minute, nil)
	fixed := time.Date(2026, 3, 1, 12, 0, 30, 0, time.UTC)
	rl.now = func() time.Time { return fixed }
	router := limitedRouter(rl, uuid.New())

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/plans/day", nil))
		codes[i] = w.Code
		if i == 2 {
			assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
		}
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
}
