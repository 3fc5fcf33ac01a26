package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	userIDKey   = "user_id"
	usernameKey = "username"
)

// JWTMiddleware extracts the bearer token from the Authorization header,
// verifies it against the shared HMAC secret and stores the resolved caller
// identity (sub and username claims) in the request context. A request
// whose identity cannot be fully resolved is rejected here; nothing behind
// this middleware ever sees a partial or placeholder identity.
func JWTMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing authorization header"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid authorization header format"})
			}
			tokenStr := parts[1]

			token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok || !token.Valid {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}

			sub, ok := claims["sub"].(string)
			if !ok || sub == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "sub claim not found in token"})
			}
			username, ok := claims["username"].(string)
			if !ok || username == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "username claim not found in token"})
			}

			c.Set(userIDKey, sub)
			c.Set(usernameKey, username)
			return next(c)
		}
	}
}

// GetUserIDFromContext returns the user id the middleware stored.
func GetUserIDFromContext(c echo.Context) (string, error) {
	uid, ok := c.Get(userIDKey).(string)
	if !ok || uid == "" {
		return "", errors.New("user id not found in context")
	}
	return uid, nil
}

// GetUsernameFromContext returns the username the middleware stored.
func GetUsernameFromContext(c echo.Context) (string, error) {
	username, ok := c.Get(usernameKey).(string)
	if !ok || username == "" {
		return "", errors.New("username not found in context")
	}
	return username, nil
}
