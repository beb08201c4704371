package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"schedule-service/internal/service"
)

// TokenValidator verifies a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*service.Claims, error)
}

// Auth validates the Authorization header and stores the caller's
// identity in the request context.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set("userId", claims.Subject)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Next()
	}
}
