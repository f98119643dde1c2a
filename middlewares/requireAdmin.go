package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RoleAdmin is the role claim that unlocks catalog and order management.
const RoleAdmin = "admin"

func IsAdmin(ctx *gin.Context) bool {
	claims, ok := claimsFrom(ctx)
	if !ok {
		return false
	}
	role, _ := claims["role"].(string)
	return role == RoleAdmin
}

// RequireAdmin must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if Identity(ctx) == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}
		if !IsAdmin(ctx) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			return
		}
		ctx.Next()
	}
}
