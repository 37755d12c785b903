package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

const userKey = "user"

// TokenValidator resolves a token key to its user
type TokenValidator interface {
	ValidateToken(ctx context.Context, key string) (*models.User, error)
}

// TokenAuth authenticates "Authorization: Token <key>" (Bearer is accepted too).
// Requests without the header continue anonymously; a malformed header or an
// unknown key is rejected even on read-only routes.
func TokenAuth(validator TokenValidator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		parts := strings.Fields(header)
		if len(parts) == 0 || !isTokenScheme(parts[0]) {
			abortUnauthorized(c, "Invalid token header. No credentials provided.")
			return
		}
		if len(parts) != 2 {
			abortUnauthorized(c, "Invalid token header. Token string should not contain spaces.")
			return
		}

		user, err := validator.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, service.ErrInvalidToken) {
				abortUnauthorized(c, "Invalid token.")
				return
			}
			log.Error("token validation failed", zap.Error(err), zap.String("request_id", GetRequestID(c)))
			c.AbortWithStatusJSON(http.StatusInternalServerError, types.ErrorResponse{Error: "internal server error"})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			abortUnauthorized(c, "Authentication credentials were not provided.")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user or nil
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func isTokenScheme(s string) bool {
	return strings.EqualFold(s, "Token") || strings.EqualFold(s, "Bearer")
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Token")
	c.AbortWithStatusJSON(http.StatusUnauthorized, types.ErrorResponse{Error: msg})
}
