package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/auth"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/config"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// AuthMiddleware validates the x-auth-token header and, when allowedRoles is
// non-empty, enforces the role allow-list from the token's claims.
func AuthMiddleware(cfg *config.Config, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("x-auth-token")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token, authorization denied"})
			return
		}

		claims, err := auth.Parse(tokenString, cfg.JWTSecret)
		if err != nil {
			if auth.IsExpired(err) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"code":    "TOKEN_EXPIRED",
					"message": "Token has expired",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is not valid"})
			return
		}

		if !auth.RoleAllowed(claims.Role, allowedRoles) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden: You do not have the required role"})
			return
		}

		c.Set(ContextUserID, claims.ID)
		c.Set(ContextUserRole, claims.Role)

		c.Next()
	}
}
