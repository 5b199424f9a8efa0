package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	sharederrors "github.com/libreria/bookstore-api/internal/shared/errors"
)

// claimsContextKey is the gin context key holding the verified Claims.
const claimsContextKey = "auth.claims"

// RequireAuth verifies the Authorization bearer token and stores the claims
// on the request context. Requests without a valid token get a 401 problem.
func RequireAuth(issuer *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			sharederrors.Respond(c, sharederrors.ErrUnauthorized.WithDetail("missing bearer token"))
			c.Abort()
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
		claims, err := issuer.Verify(tokenString)
		if err != nil {
			sharederrors.Respond(c, sharederrors.ErrUnauthorized.WithDetail("invalid bearer token"))
			c.Abort()
			return
		}
		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// RequireRole rejects authenticated requests whose token carries a different
// role. It must run after RequireAuth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFromContext(c)
		if claims == nil || claims.Role != role {
			sharederrors.Respond(c, sharederrors.ErrForbidden.WithDetail("insufficient role"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// ClaimsFromContext returns the claims stored by RequireAuth, or nil.
func ClaimsFromContext(c *gin.Context) *Claims {
	value, ok := c.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*Claims)
	if !ok {
		return nil
	}
	return claims
}
