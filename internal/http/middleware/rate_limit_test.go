package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func limitedRouter(limiter *RateLimiter, handled *int) *gin.Engine {
	router := gin.New()
	router.Use(limiter.Middleware(), RequireProfile())
	router.POST("/sync", func(c *gin.Context) {
		*handled++
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("rejects requests over the burst", func(t *testing.T) {
		// given
		var handled int
		router := limitedRouter(NewRateLimiter(0.001, 2), &handled)
		cookie := &http.Cookie{Name: ProfileCookie, Value: uuid.New().String()}

		// when
		var codes []int
		for range 3 {
			req := httptest.NewRequest(http.MethodPost, "/sync", nil)
			req.AddCookie(cookie)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			codes = append(codes, w.Code)
		}

		// then
		assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
		assert.Equal(t, 2, handled)
	})

	t.Run("fresh profiles share the budget of their address", func(t *testing.T) {
		var handled int
		router := limitedRouter(NewRateLimiter(0.001, 2), &handled)

		codes := map[int]int{}
		for range 10 {
			req := httptest.NewRequest(http.MethodPost, "/sync", nil)
			req.AddCookie(&http.Cookie{Name: ProfileCookie, Value: uuid.New().String()})
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			codes[w.Code]++
		}

		assert.Equal(t, map[int]int{http.StatusNoContent: 2, http.StatusTooManyRequests: 8}, codes)
	})

	t.Run("requests without a cookie never reach the handler", func(t *testing.T) {
		var handled int
		router := limitedRouter(NewRateLimiter(0.001, 2), &handled)

		codes := map[int]int{}
		for range 50 {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sync", nil))
			codes[w.Code]++
		}

		assert.Equal(t, map[int]int{http.StatusSeeOther: 2, http.StatusTooManyRequests: 48}, codes)
		assert.Zero(t, handled)
	})

	t.Run("addresses have separate budgets", func(t *testing.T) {
		limiter := NewRateLimiter(0.001, 1)

		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.False(t, limiter.Allow("10.0.0.1"))
		assert.True(t, limiter.Allow("10.0.0.2"))
	})

	t.Run("evicts idle addresses", func(t *testing.T) {
		clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		limiter := NewRateLimiter(1, 1)
		limiter.now = func() time.Time { return clock }
		limiter.Allow("10.0.0.1")
		clock = clock.Add(time.Hour)
		limiter.Allow("10.0.0.2")

		assert.Equal(t, 1, limiter.EvictIdle(30*time.Minute))
		assert.Len(t, limiter.limiters, 1)
	})
}
