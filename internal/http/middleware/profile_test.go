package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileRouter(seen *uuid.UUID) *gin.Engine {
	router := gin.New()
	router.Use(Profile())
	router.GET("/", func(c *gin.Context) {
		*seen = ProfileID(c)
		c.Status(http.StatusOK)
	})
	return router
}

func TestProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("issues a cookie to new browsers", func(t *testing.T) {
		// given
		var seen uuid.UUID
		router := profileRouter(&seen)

		// when
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		// then
		require.NotEqual(t, uuid.Nil, seen)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, ProfileCookie, cookies[0].Name)
		assert.Equal(t, seen.String(), cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("keeps a valid cookie", func(t *testing.T) {
		var seen uuid.UUID
		router := profileRouter(&seen)
		id := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: ProfileCookie, Value: id.String()})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, id, seen)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("replaces a malformed cookie", func(t *testing.T) {
		var seen uuid.UUID
		router := profileRouter(&seen)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: ProfileCookie, Value: "not-a-uuid"})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.NotEqual(t, uuid.Nil, seen)
		assert.Len(t, w.Result().Cookies(), 1)
	})

	t.Run("nil without the middleware", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		assert.Equal(t, uuid.Nil, ProfileID(c))
	})
}

func TestRequireProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(seen *uuid.UUID, handled *bool) *gin.Engine {
		router := gin.New()
		router.Use(RequireProfile())
		router.POST("/sync", func(c *gin.Context) {
			*handled = true
			*seen = ProfileID(c)
			c.Status(http.StatusNoContent)
		})
		return router
	}

	t.Run("admits a valid cookie", func(t *testing.T) {
		// given
		var (
			seen    uuid.UUID
			handled bool
		)
		router := newRouter(&seen, &handled)
		id := uuid.New()
		req := httptest.NewRequest(http.MethodPost, "/sync", nil)
		req.AddCookie(&http.Cookie{Name: ProfileCookie, Value: id.String()})

		// when
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		// then
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.True(t, handled)
		assert.Equal(t, id, seen)
	})

	t.Run("sends cookie-less requests to the page", func(t *testing.T) {
		var (
			seen    uuid.UUID
			handled bool
		)
		router := newRouter(&seen, &handled)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sync", nil))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		assert.Empty(t, w.Result().Cookies())
		assert.False(t, handled)
	})

	t.Run("rejects a malformed cookie", func(t *testing.T) {
		var (
			seen    uuid.UUID
			handled bool
		)
		router := newRouter(&seen, &handled)
		req := httptest.NewRequest(http.MethodPost, "/sync", nil)
		req.AddCookie(&http.Cookie{Name: ProfileCookie, Value: "not-a-uuid"})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.False(t, handled)
	})
}
