package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adotapet/api/internal/security"
)

const contextUserID = "current_user_id"

// ginCredentials adapts a gin request to the resolver's minimal view of a
// request.
type ginCredentials struct {
	c *gin.Context
}

func (g ginCredentials) Header(name string) string {
	return g.c.GetHeader(name)
}

func (g ginCredentials) Cookie(name string) string {
	value, err := g.c.Cookie(name)
	if err != nil {
		return ""
	}
	return value
}

// Authenticate resolves the caller's identity from the Authorization header
// or the access-token cookie. Anonymous requests pass through; a presented
// but invalid credential fails the request outright.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		resolution := security.ResolveIdentity(ginCredentials{c: c}, secret)
		switch resolution.Kind {
		case security.ResolvedInvalid:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid or expired token"})
			return
		case security.ResolvedIdentity:
			c.Set(contextUserID, resolution.UserID)
		}
		c.Next()
	}
}

// RequireUser gates routes that need an authenticated caller.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUserID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "authentication required"})
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id set by Authenticate.
func CurrentUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get(contextUserID)
	if !exists {
		return "", false
	}
	id, ok := value.(string)
	return id, ok && id != ""
}
