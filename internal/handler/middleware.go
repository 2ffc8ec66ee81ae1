package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gravyapp/gravy/internal/config"
	"github.com/gravyapp/gravy/internal/domain"
	"github.com/gravyapp/gravy/internal/dto"
	"github.com/gravyapp/gravy/internal/service"
)

const (
	contextUserKey  = "current_user"
	contextTokenKey = "session_token"
)

// SessionMiddleware resolves the session token from the request and aborts
// with 401 when it does not resolve to a user. An absent session is "not
// authenticated", never a server error.
func SessionMiddleware(authService service.AuthService, session config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, session.CookieName)
		if token == "" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Not authenticated",
			})
			c.Abort()
			return
		}

		user, err := authService.CurrentUser(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error:   "Internal server error",
				Message: "Could not resolve session",
			})
			c.Abort()
			return
		}
		if user == nil {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Not authenticated",
			})
			c.Abort()
			return
		}

		c.Set(contextUserKey, user)
		c.Set(contextTokenKey, token)

		c.Next()
	}
}

// CurrentUser returns the authenticated user set by SessionMiddleware,
// or nil outside an authenticated request.
func CurrentUser(c *gin.Context) *domain.User {
	v, exists := c.Get(contextUserKey)
	if !exists {
		return nil
	}
	user, ok := v.(*domain.User)
	if !ok {
		return nil
	}
	return user
}

// SessionToken returns the raw session token for the current request.
func SessionToken(c *gin.Context) string {
	v, exists := c.Get(contextTokenKey)
	if exists {
		if token, ok := v.(string); ok {
			return token
		}
	}
	return ""
}

// extractToken prefers the session cookie; a Bearer header is accepted for
// non-browser clients.
func extractToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}

	return ""
}
