package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"dutytrip/internal/auth"
	"dutytrip/internal/domain"
)

// Context keys set by Authenticate.
const (
	ContextAccountID = "accountID"
	ContextRole      = "accountRole"
)

// Authenticate returns middleware that validates the bearer token and
// stores the account identity in the request context. No shared mutable
// auth state: identity travels with the request.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		role, err := domain.ParseRole(claims.Role)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid role"})
			return
		}

		c.Set(ContextAccountID, claims.AccountID)
		c.Set(ContextRole, role)
		c.Next()
	}
}

// RequireRole returns middleware that rejects requests whose
// authenticated role is not in the allowed set.
func RequireRole(allowed ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		role, ok := value.(domain.Role)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		for _, candidate := range allowed {
			if role == candidate {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}
