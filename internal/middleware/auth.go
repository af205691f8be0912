package middleware

import (
	"net/http"
	"strings"

	"github.com/entescheme/ente-api/internal/models"
	"github.com/entescheme/ente-api/internal/observability"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClaimsKey is the gin context key holding the caller's *models.JWTClaims.
const ClaimsKey = "claims"

// TokenParser validates a bearer token and returns its claims.
type TokenParser interface {
	Parse(token string) (*models.JWTClaims, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the claims in the context.
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims, err := tokens.Parse(parts[1])
		if err != nil {
			observability.Logger().Debug("rejected bearer token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireAdmin allows only admin tokens. It must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Claims not found"})
			return
		}
		if !claims.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin privileges required"})
			return
		}
		c.Next()
	}
}

// RequireOwnUser allows the caller whose subject equals the named path
// parameter, or any admin.
func RequireOwnUser(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Claims not found"})
			return
		}
		if !claims.IsAdmin() && claims.Subject != c.Param(param) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Next()
	}
}

// RequireSelf allows only the caller whose subject equals the named path
// parameter. Admins get no bypass.
func RequireSelf(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Claims not found"})
			return
		}
		if claims.Subject == "" || claims.Subject != c.Param(param) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Only the profile owner can make this change"})
			return
		}
		c.Next()
	}
}

// Claims returns the claims stored by AuthMiddleware.
func Claims(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok && claims != nil
}

// UserID returns the authenticated caller's id, or "".
func UserID(c *gin.Context) string {
	if claims, ok := Claims(c); ok {
		return claims.Subject
	}
	return ""
}

// IsAdmin reports whether the authenticated caller is an admin.
func IsAdmin(c *gin.Context) bool {
	claims, ok := Claims(c)
	return ok && claims.IsAdmin()
}
