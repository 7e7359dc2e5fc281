package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/owoyelepatrick51-droid/OG-MEDIA/store"
)

const userContextKey = "ognews.user"

// LoadUser attaches the session user to the request when the session cookie
// is valid. Requests without a valid session continue anonymously.
func LoadUser(m *Manager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		user, err := m.UserForSession(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(userContextKey, user)
		case errors.Is(err, ErrNoSession):
		default:
			slog.Error("Failed to resolve session", "error", err)
		}

		c.Next()
	}
}

// RequireUser rejects requests that LoadUser did not authenticate.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse("unauthorized", ErrNoSession.Error()))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c *gin.Context) (*store.User, bool) {
	value, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*store.User)
	return user, ok && user != nil
}
