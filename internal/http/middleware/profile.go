package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ProfileCookie names the cookie carrying the browser profile id.
	ProfileCookie = "profile_id"

	profileKey    = "profile_id"
	profileMaxAge = 365 * 24 * 60 * 60
)

// Profile makes sure every request carries a profile id, issuing a new one when the
// cookie is missing or malformed.
func Profile() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(cookieValue(c))
		if err != nil {
			id = uuid.New()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(ProfileCookie, id.String(), profileMaxAge, "/", "", false, true)
		}
		c.Set(profileKey, id)
		c.Next()
	}
}

// RequireProfile admits only requests that already carry a valid profile cookie. Anything
// else is sent to the page, which issues a cookie, without opening a session.
func RequireProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(cookieValue(c))
		if err != nil {
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}
		c.Set(profileKey, id)
		c.Next()
	}
}

// ProfileID returns the profile id stored by Profile.
func ProfileID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(profileKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

func cookieValue(c *gin.Context) string {
	v, err := c.Cookie(ProfileCookie)
	if err != nil {
		return ""
	}
	return v
}
