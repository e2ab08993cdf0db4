package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"project-field-api/internal/response"
)

// Context keys set by Auth
const (
	ContextUserID   = "user_id"
	ContextJWTToken = "jwtToken"
)

var (
	errMissingUserID = errors.New("user ID not found in token")
)

// Auth returns a middleware that validates HMAC-signed JWT bearer tokens.
// Websocket upgrades cannot carry headers from browsers, so they may pass ?token= instead.
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok && c.GetHeader("Authorization") == "" && websocketUpgrade(c) {
			tokenString = c.Query("token")
			ok = tokenString != ""
		}
		if !ok {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "Invalid token claims")
			return
		}

		userID, err := userIDFromClaims(claims)
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextJWTToken, tokenString)

		c.Next()
	}
}

// bearerToken extracts the token from "Bearer <token>"
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func websocketUpgrade(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("Upgrade"), "websocket")
}

// userIDFromClaims supports "user_id", "sub" and "uid" claim formats, in that order
func userIDFromClaims(claims jwt.MapClaims) (uuid.UUID, error) {
	var raw string
	for _, key := range []string{"user_id", "sub", "uid"} {
		if v, ok := claims[key].(string); ok && v != "" {
			raw = v
			break
		}
	}
	if raw == "" {
		return uuid.Nil, errMissingUserID
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.New("invalid user ID format")
	}
	return userID, nil
}

func abortUnauthorized(c *gin.Context, message string) {
	response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, message)
	c.Abort()
}

// UserID returns the authenticated user ID stored by Auth
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
