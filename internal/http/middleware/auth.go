package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	authUserKey = "auth_user_id"
	authRoleKey = "auth_role"
)

// RequireAuth validates the Bearer token and stores the caller's identity in
// the context for handlers and the role gate.
func RequireAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if v, ok := claims["user_id"].(string); ok {
			c.Set(authUserKey, v)
		}
		if v, ok := claims["role"].(string); ok {
			c.Set(authRoleKey, v)
		}
		c.Next()
	}
}

// RequireRole gates a route to the listed roles; run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := AuthRole(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}

// AuthUserID returns the authenticated user id, if any.
func AuthUserID(c *gin.Context) string {
	return c.GetString(authUserKey)
}

// AuthRole returns the authenticated role, if any.
func AuthRole(c *gin.Context) string {
	return c.GetString(authRoleKey)
}
