package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
	userIDKey           = "userID"
)

// jwtClaims is the token payload issued at login.
type jwtClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token and stores the authenticated
// user ID in the request context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	secret := []byte(jwtSecret)
	return func(c *gin.Context) {
		header := c.GetHeader(authorizationHeader)
		if header == "" {
			abortWithError(c, http.StatusUnauthorized, "authorization header required")
			return
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			abortWithError(c, http.StatusUnauthorized, "authorization header must be a bearer token")
			return
		}
		tokenString := strings.TrimPrefix(header, bearerPrefix)

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			abortWithError(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		if claims.UserID == "" {
			abortWithError(c, http.StatusUnauthorized, "token missing user identity")
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// getUserIDFromContext retrieves the authenticated user ID set by
// AuthMiddleware.
func getUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Get(userIDKey)
	if !ok {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
