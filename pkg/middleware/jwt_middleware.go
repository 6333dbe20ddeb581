package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"betafeedback/pkg/utils"
)

const (
	ClaimsKey = "claims"
	RoleKey   = "role"
)

// Authenticator validates a raw bearer token.
type Authenticator interface {
	Authenticate(token string) (*utils.Claims, error)
}

// BearerToken returns the token from "Authorization: Bearer <token>", or ""
// when the header is missing or uses another scheme.
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

func JWTAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := auth.Authenticate(BearerToken(c))
		if err != nil {
			utils.HandleServiceError(c, err)
			c.Abort()
			return
		}

		// Pass token information to the next handler
		c.Set(ClaimsKey, claims)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

func RoleMiddleware(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(RoleKey) != requiredRole {
			utils.HandleServiceError(c, utils.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by JWTAuthMiddleware.
func ClaimsFrom(c *gin.Context) *utils.Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*utils.Claims)
	return claims
}
