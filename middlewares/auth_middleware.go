package middlewares

import (
	"net/http"
	"strings"

	"finboard/backend/utils"

	"github.com/gin-gonic/gin"
)

const (
	UserIDKey = "user_id"
	ClaimsKey = "claims"
)

// Auth verifies the bearer session token and exposes its subject as the
// caller's user id.
func Auth(secret, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		t := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		claims, err := utils.ParseJWT(secret, issuer, t)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(UserIDKey, claims.Subject)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// UserID returns the authenticated caller, or "" outside Auth.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func CurrentClaims(c *gin.Context) *utils.Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*utils.Claims)
	return claims
}
