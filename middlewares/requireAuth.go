package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Kariqs/amexan-eats/initializers"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	claimsKey = "user"
	tokenKey  = "token"
)

var errMissingSubject = errors.New("token has no subject")

// ParseToken verifies a HS256 token signed with JWT_SECRET.
func ParseToken(tokenString string) (jwt.MapClaims, error) {
	if err := initializers.Env.Validate(); err != nil {
		return nil, err
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(initializers.Env.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if sub, _ := claims.GetSubject(); sub == "" {
		return nil, errMissingSubject
	}
	return claims, nil
}

// Authenticate reads an optional bearer token. Requests without one continue
// anonymously; requests with an invalid one are rejected.
func Authenticate() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			ctx.Next()
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Malformed authorization header"})
			return
		}
		claims, err := ParseToken(strings.TrimSpace(tokenString))
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token", "error": err.Error()})
			return
		}

		ctx.Set(claimsKey, claims)
		ctx.Set(tokenKey, strings.TrimSpace(tokenString))
		ctx.Next()
	}
}

// RequireAuth rejects requests that Authenticate did not attach a user to.
func RequireAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if Identity(ctx) == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}
		ctx.Next()
	}
}

func claimsFrom(ctx *gin.Context) (jwt.MapClaims, bool) {
	value, exists := ctx.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(jwt.MapClaims)
	return claims, ok
}

// Identity returns the authenticated user id, or "".
func Identity(ctx *gin.Context) string {
	claims, ok := claimsFrom(ctx)
	if !ok {
		return ""
	}
	sub, _ := claims.GetSubject()
	return sub
}

func Token(ctx *gin.Context) string {
	return ctx.GetString(tokenKey)
}
