package middleware

import (
	"net/http"
	"strings"

	"go-boutique-store/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	GateKey    = "gate"
	RoleKey    = "role"
	SubjectKey = "subject"
)

// AuthMiddleware checks the Bearer token and stores the gate, role and
// subject in the context for the next handler.
func AuthMiddleware(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer"})
			c.Abort()
			return
		}

		gate := auth.NewGate(tokens, tokenString)
		claims, ok := auth.ClaimsOf(gate)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(GateKey, gate)
		c.Set(SubjectKey, claims.Subject)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole is a secondary guard that checks for specific permissions
func RequireRole(allowedRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(RoleKey)
		if !exists || role != allowedRole {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GateFrom returns the request's gate, or one that never authorizes.
func GateFrom(c *gin.Context) auth.Gate {
	if v, ok := c.Get(GateKey); ok {
		if g, ok := v.(auth.Gate); ok {
			return g
		}
	}
	return auth.Denied{}
}
