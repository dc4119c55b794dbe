package middleware

import (
	"github.com/dhima/catalog-service/internal/api/response"
	"github.com/dhima/catalog-service/internal/auth"
	"github.com/dhima/catalog-service/internal/models"
	"github.com/gin-gonic/gin"
)

// IdentityKey is the context key for the authenticated identity.
const IdentityKey = "identity"

// TokenValidator verifies bearer tokens.
type TokenValidator interface {
	Validate(token string) (auth.Identity, error)
}

// RequireAuth rejects the request with 401 unless it carries a valid bearer
// token. Every failure cause produces the same response.
func RequireAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.TokenFromHeader(c.GetHeader("Authorization"))
		if err == nil {
			var identity auth.Identity
			if identity, err = tokens.Validate(token); err == nil {
				c.Set(IdentityKey, identity)
				c.Next()
				return
			}
		}
		response.Unauthorized(c, "authentication required")
	}
}

// RequireRole rejects an authenticated request with 403 unless its identity
// holds one of roles. It must run after RequireAuth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			response.Unauthorized(c, "authentication required")
			return
		}
		if !identity.HasRole(roles...) {
			response.Forbidden(c, "insufficient permissions")
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity set by RequireAuth.
func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	value, exists := c.Get(IdentityKey)
	if !exists {
		return auth.Identity{}, false
	}
	identity, ok := value.(auth.Identity)
	return identity, ok
}
